package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarkita/marketplace-api/internal/auth"
	"github.com/pasarkita/marketplace-api/internal/domain"
	"github.com/pasarkita/marketplace-api/internal/service/finance"
)

type stubFinanceService struct {
	entries []domain.FinanceEntry
	pages   int
	balance int64
	entry   *domain.FinanceEntry
	err     error

	gotFilter  domain.EntryFilter
	gotPage    int
	gotPerPage int
	gotReq     finance.WithdrawRequest
	gotStatus  domain.EntryStatus
}

func (s *stubFinanceService) ListEntries(_ context.Context, _ uuid.UUID, filter domain.EntryFilter, page, perPage int) ([]domain.FinanceEntry, int, error) {
	s.gotFilter = filter
	s.gotPage = page
	s.gotPerPage = perPage
	return s.entries, s.pages, s.err
}

func (s *stubFinanceService) Balance(_ context.Context, _ uuid.UUID) (int64, error) {
	return s.balance, s.err
}

func (s *stubFinanceService) CreateWithdraw(_ context.Context, req finance.WithdrawRequest) (*domain.FinanceEntry, error) {
	s.gotReq = req
	return s.entry, s.err
}

func (s *stubFinanceService) FinalizeWithdraw(_ context.Context, _ uuid.UUID, status domain.EntryStatus) (*domain.FinanceEntry, error) {
	s.gotStatus = status
	return s.entry, s.err
}

func merchantRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := auth.ContextWithIdentity(r.Context(), auth.Identity{
		UserID: uuid.New(),
		Role:   domain.RoleMerchant,
	})
	return r.WithContext(ctx)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestFinanceList_Envelope(t *testing.T) {
	svc := &stubFinanceService{
		entries: []domain.FinanceEntry{
			{
				ID:          uuid.New(),
				Type:        domain.EntryTypeDebit,
				Description: "Incoming funds from #OrderId-test-123",
				Amount:      300000,
				Status:      domain.EntryStatusSuccess,
				Balance:     300000,
				CreatedAt:   time.Now().UTC(),
			},
		},
		pages: 3,
	}
	h := NewFinanceHandler(svc)

	rec := httptest.NewRecorder()
	h.List(rec, merchantRequest(http.MethodGet, "/finances", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.InDelta(t, http.StatusOK, body["code"], 0)
	assert.Equal(t, "OK", body["message"])
	assert.InDelta(t, 3, body["pages"], 0)

	data := body["data"].([]any)
	require.Len(t, data, 1)
	entry := data[0].(map[string]any)
	assert.Equal(t, "DEBIT", entry["type"])
	assert.Equal(t, "Rp. 300.000", entry["amount"])
	assert.Equal(t, "Rp. 300.000", entry["balance"])
	assert.Equal(t, "SUCCESS", entry["status"])
	assert.Nil(t, entry["orderId"])
}

func TestFinanceList_PagingDefaults(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantPage    int
		wantPerPage int
	}{
		{"no params", "/finances", 1, 15},
		{"explicit", "/finances?page=2&per_page=5", 2, 5},
		{"per_page too large", "/finances?per_page=500", 1, 15},
		{"garbage page", "/finances?page=abc", 1, 15},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubFinanceService{pages: 1}
			h := NewFinanceHandler(svc)

			rec := httptest.NewRecorder()
			h.List(rec, merchantRequest(http.MethodGet, tc.target, ""))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.wantPage, svc.gotPage)
			assert.Equal(t, tc.wantPerPage, svc.gotPerPage)
		})
	}
}

func TestFinanceList_Filters(t *testing.T) {
	svc := &stubFinanceService{pages: 1}
	h := NewFinanceHandler(svc)

	rec := httptest.NewRecorder()
	h.List(rec, merchantRequest(http.MethodGet, "/finances?type=CREDIT&status=PENDING", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotFilter.Type)
	assert.Equal(t, domain.EntryTypeCredit, *svc.gotFilter.Type)
	require.NotNil(t, svc.gotFilter.Status)
	assert.Equal(t, domain.EntryStatusPending, *svc.gotFilter.Status)
}

func TestFinanceList_InvalidFilter(t *testing.T) {
	h := NewFinanceHandler(&stubFinanceService{})

	rec := httptest.NewRecorder()
	h.List(rec, merchantRequest(http.MethodGet, "/finances?type=WRONG", ""))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "The given data was invalid.", body["message"])
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "type")
}

func TestFinanceList_MissingIdentity(t *testing.T) {
	h := NewFinanceHandler(&stubFinanceService{})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/finances", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithdrawResource(t *testing.T) {
	h := NewFinanceHandler(&stubFinanceService{balance: 300000})

	rec := httptest.NewRecorder()
	h.WithdrawResource(rec, merchantRequest(http.MethodGet, "/finance/withdraw-request-resource", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Rp. 300.000", data["financeBalance"])
}

func TestCreateWithdraw_Validation(t *testing.T) {
	h := NewFinanceHandler(&stubFinanceService{})

	rec := httptest.NewRecorder()
	h.CreateWithdraw(rec, merchantRequest(http.MethodPost, "/finance/withdraw-request", `{}`))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "bankAccountName")
	assert.Contains(t, errs, "bankAccountNumber")
	assert.Contains(t, errs, "amount")
}

func TestCreateWithdraw_Created(t *testing.T) {
	entry := &domain.FinanceEntry{
		ID:          uuid.New(),
		Type:        domain.EntryTypeCredit,
		Description: "Withdraw request to Bank Central 8881234567 a.n John Lennon",
		Amount:      100000,
		Status:      domain.EntryStatusPending,
		Balance:     200000,
		CreatedAt:   time.Now().UTC(),
	}
	svc := &stubFinanceService{entry: entry}
	h := NewFinanceHandler(svc)

	payload := `{"name":"John Lennon","bankAccountName":"John Lennon","bankAccountNumber":"8881234567","amount":100000}`
	rec := httptest.NewRecorder()
	h.CreateWithdraw(rec, merchantRequest(http.MethodPost, "/finance/withdraw-request", payload))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(100000), svc.gotReq.Amount)
	assert.Equal(t, "John Lennon", svc.gotReq.Name)

	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "CREDIT", data["type"])
	assert.Equal(t, "PENDING", data["status"])
	assert.Equal(t, "Rp. 100.000", data["amount"])
	assert.Equal(t, "Rp. 200.000", data["balance"])
}

func TestCreateWithdraw_InsufficientBalance(t *testing.T) {
	svc := &stubFinanceService{err: domain.ErrInsufficientBalance}
	h := NewFinanceHandler(svc)

	payload := `{"name":"John Lennon","bankAccountName":"John Lennon","bankAccountNumber":"8881234567","amount":500000}`
	rec := httptest.NewRecorder()
	h.CreateWithdraw(rec, merchantRequest(http.MethodPost, "/finance/withdraw-request", payload))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	errs := body["errors"].(map[string]any)
	require.Contains(t, errs, "amount")
	messages := errs["amount"].([]any)
	assert.Equal(t, "The amount exceeds the available balance.", messages[0])
}

func finalizeRequest(id, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/finance/withdraw-request/"+id, strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = auth.ContextWithIdentity(ctx, auth.Identity{UserID: uuid.New(), Role: domain.RoleAdmin})
	return r.WithContext(ctx)
}

func TestFinalizeWithdraw(t *testing.T) {
	entryID := uuid.New()

	tests := []struct {
		name       string
		id         string
		body       string
		serviceErr error
		wantStatus int
	}{
		{"success", entryID.String(), `{"status":"SUCCESS"}`, nil, http.StatusOK},
		{"failed", entryID.String(), `{"status":"FAILED"}`, nil, http.StatusOK},
		{"pending is not terminal", entryID.String(), `{"status":"PENDING"}`, nil, http.StatusUnprocessableEntity},
		{"unknown status", entryID.String(), `{"status":"DONE"}`, nil, http.StatusUnprocessableEntity},
		{"malformed id", "not-a-uuid", `{"status":"SUCCESS"}`, nil, http.StatusNotFound},
		{"already finalized", entryID.String(), `{"status":"SUCCESS"}`, domain.ErrWithdrawalFinalized, http.StatusConflict},
		{"not a withdrawal", entryID.String(), `{"status":"SUCCESS"}`, domain.ErrNotWithdrawal, http.StatusUnprocessableEntity},
		{"unknown entry", entryID.String(), `{"status":"SUCCESS"}`, domain.ErrNotFound, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubFinanceService{
				entry: &domain.FinanceEntry{
					ID:     entryID,
					Type:   domain.EntryTypeCredit,
					Status: domain.EntryStatusSuccess,
				},
				err: tc.serviceErr,
			}
			h := NewFinanceHandler(svc)

			rec := httptest.NewRecorder()
			h.FinalizeWithdraw(rec, finalizeRequest(tc.id, tc.body))

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
