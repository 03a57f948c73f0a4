package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pasarkita/marketplace-api/internal/domain"
	"github.com/pasarkita/marketplace-api/internal/logging"
)

var oneHundred = decimal.NewFromInt(100)

// Settle books a paid order into the ledgers: the full order total as
// incoming funds to the merchant, the platform tax back out of the
// merchant, and the same tax as revenue to the platform admin. All three
// entries commit atomically.
func (s *Service) Settle(ctx context.Context, invoiceNumber string, merchantUserID uuid.UUID) error {
	log := logging.FromContext(ctx)

	order, err := s.orders.GetByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		return fmt.Errorf("Settle: %w", err)
	}

	merchant, err := s.users.GetByID(ctx, merchantUserID)
	if err != nil {
		return fmt.Errorf("Settle: %w", err)
	}
	if merchant.Role != domain.RoleMerchant {
		return fmt.Errorf("Settle: %w", domain.ErrNotMerchant)
	}

	merchantProfile, err := s.merchants.GetByUserID(ctx, merchantUserID)
	if err != nil {
		return fmt.Errorf("Settle: %w", err)
	}

	admin, err := s.users.GetAdmin(ctx)
	if err != nil {
		return fmt.Errorf("Settle: %w", err)
	}

	tax := decimal.NewFromInt(order.TotalPrice).Mul(s.taxPct).Div(oneHundred).IntPart()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Settle: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.lockOwnersInOrder(ctx, tx, merchantUserID, admin.ID); err != nil {
		return fmt.Errorf("Settle: %w", err)
	}

	merchantBalance, err := s.balanceInTx(ctx, tx, merchantUserID)
	if err != nil {
		return fmt.Errorf("Settle: %w", err)
	}
	adminBalance, err := s.balanceInTx(ctx, tx, admin.ID)
	if err != nil {
		return fmt.Errorf("Settle: %w", err)
	}

	invoice := order.InvoiceNumber
	// Distinct timestamps keep the running balance totally ordered within
	// the settlement.
	base := time.Now().UTC()

	entries := []*domain.FinanceEntry{
		{
			ID:          uuid.New(),
			UserID:      merchantUserID,
			Type:        domain.EntryTypeDebit,
			OrderRef:    &invoice,
			Description: fmt.Sprintf("Incoming funds from #OrderId-%s", invoice),
			Amount:      order.TotalPrice,
			Status:      domain.EntryStatusSuccess,
			Balance:     merchantBalance + order.TotalPrice,
			CreatedAt:   base,
		},
		{
			ID:          uuid.New(),
			UserID:      merchantUserID,
			Type:        domain.EntryTypeCredit,
			OrderRef:    &invoice,
			Description: fmt.Sprintf("%s%% merchant tax from #OrderId-%s", s.taxPct.String(), invoice),
			Amount:      tax,
			Status:      domain.EntryStatusSuccess,
			Balance:     merchantBalance + order.TotalPrice - tax,
			CreatedAt:   base.Add(time.Millisecond),
		},
		{
			ID:          uuid.New(),
			UserID:      admin.ID,
			Type:        domain.EntryTypeDebit,
			OrderRef:    &invoice,
			Description: fmt.Sprintf("Revenue from merchant tax #Merchant-%s #OrderId-%s", slugify(merchantProfile.Name), invoice),
			Amount:      tax,
			Status:      domain.EntryStatusSuccess,
			Balance:     adminBalance + tax,
			CreatedAt:   base,
		},
	}

	for _, e := range entries {
		if err := s.finances.Create(ctx, tx, e); err != nil {
			return fmt.Errorf("Settle: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Settle: commit: %w", err)
	}

	log.Info("order settled",
		"invoice_number", invoice,
		"merchant_user_id", merchantUserID,
		"total", order.TotalPrice,
		"tax", tax,
	)

	return nil
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
