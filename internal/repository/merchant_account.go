package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pasarkita/marketplace-api/internal/domain"
)

const merchantAccountColumns = `id, user_id, name, bank_name, bank_account_name,
	bank_account_number, created_at`

type MerchantAccountRepository struct {
	db *sql.DB
}

func NewMerchantAccountRepository(db *sql.DB) *MerchantAccountRepository {
	return &MerchantAccountRepository{db: db}
}

func (r *MerchantAccountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.MerchantAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+merchantAccountColumns+` FROM merchant_accounts WHERE user_id = $1`, userID,
	)
	m, err := scanMerchantAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByUserID: %w", domain.ErrMerchantAccountMissing)
		}
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	return m, nil
}

func (r *MerchantAccountRepository) Create(ctx context.Context, m *domain.MerchantAccount) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO merchant_accounts (
			id, user_id, name, bank_name, bank_account_name, bank_account_number, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.UserID, m.Name, m.BankName,
		m.BankAccountName, m.BankAccountNumber, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func scanMerchantAccount(s scanner) (*domain.MerchantAccount, error) {
	var m domain.MerchantAccount
	err := s.Scan(
		&m.ID, &m.UserID, &m.Name, &m.BankName,
		&m.BankAccountName, &m.BankAccountNumber, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
