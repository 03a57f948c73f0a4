package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/pasarkita/marketplace-api/internal/domain"
)

const financeColumns = `id, user_id, type, order_ref, description, amount,
	status, balance, created_at`

type FinanceRepository struct {
	db *sql.DB
}

func NewFinanceRepository(db *sql.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

// ListByOwner returns one page of the owner's entries, newest first, plus
// the total row count matching the filter.
func (r *FinanceRepository) ListByOwner(ctx context.Context, userID uuid.UUID, filter domain.EntryFilter, limit, offset int) ([]domain.FinanceEntry, int, error) {
	where := `WHERE user_id = $1`
	args := []any{userID}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		where += ` AND type = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM finances `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByOwner: count: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+financeColumns+` FROM finances `+where+
			` ORDER BY created_at DESC, id DESC LIMIT $`+strconv.Itoa(len(args)-1)+
			` OFFSET $`+strconv.Itoa(len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListByOwner: %w", err)
	}
	defer rows.Close()

	var entries []domain.FinanceEntry
	for rows.Next() {
		e, err := scanFinanceEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListByOwner: scan: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListByOwner: rows: %w", err)
	}
	return entries, total, nil
}

// Latest returns the owner's most recent entry, whose stored balance is the
// owner's current balance. domain.ErrNotFound when the ledger is empty.
func (r *FinanceRepository) Latest(ctx context.Context, userID uuid.UUID) (*domain.FinanceEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+financeColumns+` FROM finances
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`, userID,
	)
	e, err := scanFinanceEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("Latest: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("Latest: %w", err)
	}
	return e, nil
}

// LatestInTx is Latest inside an append transaction. Callers must already
// hold the owner's user-row lock so the read cannot go stale before the
// matching Create.
func (r *FinanceRepository) LatestInTx(ctx context.Context, tx *sql.Tx, userID uuid.UUID) (*domain.FinanceEntry, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+financeColumns+` FROM finances
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`, userID,
	)
	e, err := scanFinanceEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("LatestInTx: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("LatestInTx: %w", err)
	}
	return e, nil
}

func (r *FinanceRepository) Create(ctx context.Context, tx *sql.Tx, entry *domain.FinanceEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO finances (
			id, user_id, type, order_ref, description, amount, status, balance, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.UserID, entry.Type, entry.OrderRef, entry.Description,
		entry.Amount, entry.Status, entry.Balance, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *FinanceRepository) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.FinanceEntry, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+financeColumns+` FROM finances WHERE id = $1 FOR UPDATE`, id,
	)
	e, err := scanFinanceEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByIDForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByIDForUpdate: %w", err)
	}
	return e, nil
}

// UpdateStatus flips a withdrawal's status. Status is the only mutable
// column on a finance entry.
func (r *FinanceRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, status domain.EntryStatus) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE finances SET status = $1 WHERE id = $2`, status, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateStatus: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateStatus: %w", domain.ErrNotFound)
	}
	return nil
}

func scanFinanceEntry(s scanner) (*domain.FinanceEntry, error) {
	var e domain.FinanceEntry
	err := s.Scan(
		&e.ID, &e.UserID, &e.Type, &e.OrderRef, &e.Description,
		&e.Amount, &e.Status, &e.Balance, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
