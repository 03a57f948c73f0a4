package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pasarkita/marketplace-api/internal/domain"
)

// Response is the API envelope. Code mirrors the HTTP status so clients
// reading only the body stay consistent with the wire status.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// PagedResponse is the list envelope; Pages is the total page count for
// the requested filter.
type PagedResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Pages   int    `json:"pages"`
}

// ErrorResponse carries failures; Errors holds per-field validation
// messages keyed by the offending input field.
type ErrorResponse struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string
	Message string
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{
		Code:    status,
		Message: http.StatusText(status),
		Data:    data,
	})
}

func RespondPaged(w http.ResponseWriter, status int, data any, pages int) {
	writeJSON(w, status, PagedResponse{
		Code:    status,
		Message: http.StatusText(status),
		Data:    data,
		Pages:   pages,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError) {
	writeJSON(w, appErr.Status, ErrorResponse{
		Code:    appErr.Status,
		Message: appErr.Message,
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	errs := make(map[string][]string, len(fields))
	for _, f := range fields {
		errs[f.Field] = append(errs[f.Field], f.Message)
	}
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Code:    http.StatusUnprocessableEntity,
		Message: "The given data was invalid.",
		Errors:  errs,
	})
}

func RespondDomainError(w http.ResponseWriter, err error) {
	var appErr *AppError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		appErr = ErrResourceNotFound
	case errors.Is(err, domain.ErrNotMerchant):
		appErr = ErrForbidden
	case errors.Is(err, domain.ErrMerchantAccountMissing):
		appErr = ErrMerchantAccountMissing
	case errors.Is(err, domain.ErrInsufficientBalance):
		RespondValidationError(w, []FieldError{{Field: "amount", Message: "The amount exceeds the available balance."}})
		return
	case errors.Is(err, domain.ErrInvalidAmount):
		RespondValidationError(w, []FieldError{{Field: "amount", Message: "The amount must be greater than zero."}})
		return
	case errors.Is(err, domain.ErrInvalidStatus):
		appErr = ErrInvalidStatus
	case errors.Is(err, domain.ErrNotWithdrawal):
		appErr = ErrNotWithdrawal
	case errors.Is(err, domain.ErrWithdrawalFinalized):
		appErr = ErrWithdrawalFinalized
	case errors.Is(err, domain.ErrInvalidRequest):
		appErr = ErrInvalidRequest
	default:
		slog.Error("unhandled domain error", "error", err)
		appErr = ErrInternalError
	}

	RespondAppError(w, appErr)
}
