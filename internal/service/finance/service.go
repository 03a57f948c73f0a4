// Package finance owns the merchant ledger: listing entries, balance
// snapshots, withdraw requests, and order settlement.
package finance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pasarkita/marketplace-api/internal/config"
	"github.com/pasarkita/marketplace-api/internal/domain"
)

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetAdmin(ctx context.Context) (*domain.User, error)
	LockByID(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.User, error)
}

type merchantAccountRepo interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.MerchantAccount, error)
}

type orderRepo interface {
	GetByInvoiceNumber(ctx context.Context, invoice string) (*domain.Order, error)
}

type financeRepo interface {
	ListByOwner(ctx context.Context, userID uuid.UUID, filter domain.EntryFilter, limit, offset int) ([]domain.FinanceEntry, int, error)
	Latest(ctx context.Context, userID uuid.UUID) (*domain.FinanceEntry, error)
	LatestInTx(ctx context.Context, tx *sql.Tx, userID uuid.UUID) (*domain.FinanceEntry, error)
	Create(ctx context.Context, tx *sql.Tx, entry *domain.FinanceEntry) error
	GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.FinanceEntry, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, status domain.EntryStatus) error
}

type notificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
}

type Service struct {
	users         userRepo
	merchants     merchantAccountRepo
	finances      financeRepo
	orders        orderRepo
	notifications notificationRepo
	db            *sql.DB
	taxPct        decimal.Decimal
}

func NewService(
	users userRepo,
	merchants merchantAccountRepo,
	finances financeRepo,
	orders orderRepo,
	notifications notificationRepo,
	db *sql.DB,
	cfg *config.Config,
) (*Service, error) {
	taxPct, err := decimal.NewFromString(cfg.MerchantTaxPct)
	if err != nil {
		return nil, fmt.Errorf("finance.NewService: merchant tax pct: %w", err)
	}

	return &Service{
		users:         users,
		merchants:     merchants,
		finances:      finances,
		orders:        orders,
		notifications: notifications,
		db:            db,
		taxPct:        taxPct,
	}, nil
}

const defaultPerPage = 15

// ListEntries returns one page of the owner's ledger, newest first, and the
// total number of pages for the filter.
func (s *Service) ListEntries(ctx context.Context, ownerID uuid.UUID, filter domain.EntryFilter, page, perPage int) ([]domain.FinanceEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	offset := (page - 1) * perPage

	entries, total, err := s.finances.ListByOwner(ctx, ownerID, filter, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ListEntries: %w", err)
	}

	pages := (total + perPage - 1) / perPage
	return entries, pages, nil
}

// Balance returns the owner's current balance: the latest entry's stored
// balance, or zero for an empty ledger.
func (s *Service) Balance(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	latest, err := s.finances.Latest(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("Balance: %w", err)
	}
	return latest.Balance, nil
}

// balanceInTx reads the owner's current balance inside an append
// transaction. The owner's user row must already be locked.
func (s *Service) balanceInTx(ctx context.Context, tx *sql.Tx, ownerID uuid.UUID) (int64, error) {
	latest, err := s.finances.LatestInTx(ctx, tx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("balanceInTx: %w", err)
	}
	return latest.Balance, nil
}

// lockOwnersInOrder locks user rows in a stable order so concurrent
// multi-owner transactions cannot deadlock.
func (s *Service) lockOwnersInOrder(ctx context.Context, tx *sql.Tx, ids ...uuid.UUID) (map[uuid.UUID]*domain.User, error) {
	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].String() < sorted[i].String() {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	locked := make(map[uuid.UUID]*domain.User, len(sorted))
	for _, id := range sorted {
		if _, ok := locked[id]; ok {
			continue
		}
		u, err := s.users.LockByID(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("lockOwnersInOrder: %w", err)
		}
		locked[id] = u
	}
	return locked, nil
}
