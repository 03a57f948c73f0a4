package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pasarkita/marketplace-api/internal/domain"
)

const orderColumns = `id, user_id, invoice_number, total_price, created_at`

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) GetByInvoiceNumber(ctx context.Context, invoice string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE invoice_number = $1`, invoice,
	)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByInvoiceNumber: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByInvoiceNumber: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, invoice_number, total_price, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		o.ID, o.UserID, o.InvoiceNumber, o.TotalPrice, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func scanOrder(s scanner) (*domain.Order, error) {
	var o domain.Order
	err := s.Scan(&o.ID, &o.UserID, &o.InvoiceNumber, &o.TotalPrice, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
