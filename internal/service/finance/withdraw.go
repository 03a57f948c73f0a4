package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pasarkita/marketplace-api/internal/domain"
	"github.com/pasarkita/marketplace-api/internal/logging"
)

type WithdrawRequest struct {
	MerchantUserID    uuid.UUID
	Name              string
	BankAccountName   string
	BankAccountNumber string
	Amount            int64
}

// CreateWithdraw appends a PENDING CREDIT entry debiting the merchant's
// available balance and enqueues a notification to the platform admin.
// The read-then-append runs under the merchant's user-row lock so two
// concurrent withdraws can never both spend the same balance.
func (s *Service) CreateWithdraw(ctx context.Context, req WithdrawRequest) (*domain.FinanceEntry, error) {
	log := logging.FromContext(ctx)

	if err := validateWithdraw(req); err != nil {
		return nil, fmt.Errorf("CreateWithdraw: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("CreateWithdraw: begin tx: %w", err)
	}
	defer tx.Rollback()

	owner, err := s.users.LockByID(ctx, tx, req.MerchantUserID)
	if err != nil {
		return nil, fmt.Errorf("CreateWithdraw: %w", err)
	}
	if owner.Role != domain.RoleMerchant {
		return nil, fmt.Errorf("CreateWithdraw: %w", domain.ErrNotMerchant)
	}

	profile, err := s.merchants.GetByUserID(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("CreateWithdraw: %w", err)
	}

	balance, err := s.balanceInTx(ctx, tx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("CreateWithdraw: %w", err)
	}
	if req.Amount > balance {
		return nil, fmt.Errorf("CreateWithdraw: %w", domain.ErrInsufficientBalance)
	}

	entry := &domain.FinanceEntry{
		ID:          uuid.New(),
		UserID:      owner.ID,
		Type:        domain.EntryTypeCredit,
		OrderRef:    nil,
		Description: fmt.Sprintf("Withdraw request to %s %s a.n %s", profile.BankName, req.BankAccountNumber, req.BankAccountName),
		Amount:      req.Amount,
		Status:      domain.EntryStatusPending,
		Balance:     balance - req.Amount,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.finances.Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("CreateWithdraw: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("CreateWithdraw: commit: %w", err)
	}

	// The entry is committed at this point; notification delivery is
	// fire-and-forget and must not undo the ledger write.
	s.notifyAdmin(ctx, req)

	log.Info("withdraw request created",
		"entry_id", entry.ID,
		"merchant_user_id", owner.ID,
		"amount", req.Amount,
		"balance", entry.Balance,
	)

	return entry, nil
}

func validateWithdraw(req WithdrawRequest) error {
	if req.Amount <= 0 {
		return fmt.Errorf("validateWithdraw: %w", domain.ErrInvalidAmount)
	}
	if req.Name == "" {
		return fmt.Errorf("validateWithdraw: name required: %w", domain.ErrInvalidRequest)
	}
	if req.BankAccountName == "" {
		return fmt.Errorf("validateWithdraw: bank account name required: %w", domain.ErrInvalidRequest)
	}
	if req.BankAccountNumber == "" {
		return fmt.Errorf("validateWithdraw: bank account number required: %w", domain.ErrInvalidRequest)
	}
	return nil
}

func (s *Service) notifyAdmin(ctx context.Context, req WithdrawRequest) {
	log := logging.FromContext(ctx)

	admin, err := s.users.GetAdmin(ctx)
	if err != nil {
		log.Warn("withdraw notification skipped, no admin recipient", "error", err)
		return
	}

	payload, err := json.Marshal(domain.WithdrawRequestPayload{
		Name:              req.Name,
		BankAccountName:   req.BankAccountName,
		BankAccountNumber: req.BankAccountNumber,
		Amount:            req.Amount,
	})
	if err != nil {
		log.Warn("withdraw notification skipped, payload marshal failed", "error", err)
		return
	}

	n := &domain.Notification{
		ID:        uuid.New(),
		UserID:    admin.ID,
		Kind:      domain.NotificationKindWithdrawRequest,
		Payload:   payload,
		Status:    domain.NotificationStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		log.Warn("withdraw notification enqueue failed", "error", err, "admin_user_id", admin.ID)
	}
}

// FinalizeWithdraw transitions a PENDING withdraw request to SUCCESS or
// FAILED. The transition is driven by the admin approval flow; the entry
// itself stays immutable apart from its status.
func (s *Service) FinalizeWithdraw(ctx context.Context, entryID uuid.UUID, status domain.EntryStatus) (*domain.FinanceEntry, error) {
	if !status.Terminal() {
		return nil, fmt.Errorf("FinalizeWithdraw: %w", domain.ErrInvalidStatus)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("FinalizeWithdraw: begin tx: %w", err)
	}
	defer tx.Rollback()

	entry, err := s.finances.GetByIDForUpdate(ctx, tx, entryID)
	if err != nil {
		return nil, fmt.Errorf("FinalizeWithdraw: %w", err)
	}

	// Withdraw requests are the only CREDIT entries without an order link.
	if entry.Type != domain.EntryTypeCredit || entry.OrderRef != nil {
		return nil, fmt.Errorf("FinalizeWithdraw: %w", domain.ErrNotWithdrawal)
	}
	if entry.Status.Terminal() {
		return nil, fmt.Errorf("FinalizeWithdraw: %w", domain.ErrWithdrawalFinalized)
	}

	if err := s.finances.UpdateStatus(ctx, tx, entry.ID, status); err != nil {
		return nil, fmt.Errorf("FinalizeWithdraw: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("FinalizeWithdraw: commit: %w", err)
	}

	entry.Status = status
	return entry, nil
}
