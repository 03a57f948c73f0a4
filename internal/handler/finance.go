package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pasarkita/marketplace-api/internal/auth"
	"github.com/pasarkita/marketplace-api/internal/domain"
	"github.com/pasarkita/marketplace-api/internal/logging"
	"github.com/pasarkita/marketplace-api/internal/money"
	"github.com/pasarkita/marketplace-api/internal/service/finance"
)

const (
	defaultPage    = 1
	defaultPerPage = 15
	maxPerPage     = 100
)

type financeService interface {
	ListEntries(ctx context.Context, ownerID uuid.UUID, filter domain.EntryFilter, page, perPage int) ([]domain.FinanceEntry, int, error)
	Balance(ctx context.Context, ownerID uuid.UUID) (int64, error)
	CreateWithdraw(ctx context.Context, req finance.WithdrawRequest) (*domain.FinanceEntry, error)
	FinalizeWithdraw(ctx context.Context, entryID uuid.UUID, status domain.EntryStatus) (*domain.FinanceEntry, error)
}

type FinanceHandler struct {
	finance financeService
}

func NewFinanceHandler(svc financeService) *FinanceHandler {
	return &FinanceHandler{finance: svc}
}

// entryDTO renders a ledger line; money fields are display strings.
type entryDTO struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	OrderID     *string   `json:"orderId"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Status      string    `json:"status"`
	Balance     string    `json:"balance"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toEntryDTO(e *domain.FinanceEntry) entryDTO {
	return entryDTO{
		ID:          e.ID,
		Type:        string(e.Type),
		OrderID:     e.OrderRef,
		Description: e.Description,
		Amount:      money.FormatIDR(e.Amount),
		Status:      string(e.Status),
		Balance:     money.FormatIDR(e.Balance),
		CreatedAt:   e.CreatedAt,
	}
}

// List handles GET /finances?type=&status=&page=&per_page=.
func (h *FinanceHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken)
		return
	}

	filter, fields := parseEntryFilter(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	page := queryInt(r, "page", defaultPage)
	perPage := queryInt(r, "per_page", defaultPerPage)
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}

	entries, pages, err := h.finance.ListEntries(r.Context(), identity.UserID, filter, page, perPage)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list finances", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]entryDTO, len(entries))
	for i := range entries {
		dtos[i] = toEntryDTO(&entries[i])
	}

	RespondPaged(w, http.StatusOK, dtos, pages)
}

// WithdrawResource handles GET /finance/withdraw-request-resource: the
// balance a merchant can pre-fill the withdraw form with.
func (h *FinanceHandler) WithdrawResource(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken)
		return
	}

	balance, err := h.finance.Balance(r.Context(), identity.UserID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to read balance", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondData(w, http.StatusOK, map[string]string{
		"financeBalance": money.FormatIDR(balance),
	})
}

type withdrawRequest struct {
	Name              string `json:"name"`
	BankAccountName   string `json:"bankAccountName"`
	BankAccountNumber string `json:"bankAccountNumber"`
	Amount            int64  `json:"amount"`
}

func (r withdrawRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "The name field is required."})
	}
	if r.BankAccountName == "" {
		errs = append(errs, FieldError{Field: "bankAccountName", Message: "The bank account name field is required."})
	}
	if r.BankAccountNumber == "" {
		errs = append(errs, FieldError{Field: "bankAccountNumber", Message: "The bank account number field is required."})
	}
	if r.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "The amount must be greater than zero."})
	}
	return errs
}

// CreateWithdraw handles POST /finance/withdraw-request.
func (h *FinanceHandler) CreateWithdraw(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken)
		return
	}

	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	entry, err := h.finance.CreateWithdraw(r.Context(), finance.WithdrawRequest{
		MerchantUserID:    identity.UserID,
		Name:              req.Name,
		BankAccountName:   req.BankAccountName,
		BankAccountNumber: req.BankAccountNumber,
		Amount:            req.Amount,
	})
	if err != nil {
		log.Warn("withdraw request failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondData(w, http.StatusCreated, toEntryDTO(entry))
}

type finalizeWithdrawRequest struct {
	Status string `json:"status"`
}

// FinalizeWithdraw handles PATCH /finance/withdraw-request/{id}. Admin
// approval flips a PENDING withdraw request to SUCCESS or FAILED.
func (h *FinanceHandler) FinalizeWithdraw(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound)
		return
	}

	var req finalizeWithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest)
		return
	}

	status := domain.EntryStatus(req.Status)
	if !status.IsValid() || !status.Terminal() {
		RespondAppError(w, ErrInvalidStatus)
		return
	}

	entry, err := h.finance.FinalizeWithdraw(r.Context(), entryID, status)
	if err != nil {
		logging.FromContext(r.Context()).Warn("withdraw finalize failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondData(w, http.StatusOK, toEntryDTO(entry))
}

func parseEntryFilter(r *http.Request) (domain.EntryFilter, []FieldError) {
	var filter domain.EntryFilter
	var errs []FieldError

	if v := r.URL.Query().Get("type"); v != "" {
		t := domain.EntryType(v)
		if !t.IsValid() {
			errs = append(errs, FieldError{Field: "type", Message: "The type must be DEBIT or CREDIT."})
		} else {
			filter.Type = &t
		}
	}

	if v := r.URL.Query().Get("status"); v != "" {
		s := domain.EntryStatus(v)
		if !s.IsValid() {
			errs = append(errs, FieldError{Field: "status", Message: "The status must be PENDING, SUCCESS or FAILED."})
		} else {
			filter.Status = &s
		}
	}

	return filter, errs
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
