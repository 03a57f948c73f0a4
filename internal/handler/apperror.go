package handler

import "net/http"

type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken     = &AppError{http.StatusUnauthorized, "Authorization header required"}
	ErrInvalidToken     = &AppError{http.StatusUnauthorized, "Token is invalid or expired"}
	ErrForbidden        = &AppError{http.StatusForbidden, "You are not allowed to access this resource"}
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "Invalid request body"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "An unexpected error occurred"}

	ErrMerchantAccountMissing = &AppError{http.StatusUnprocessableEntity, "Merchant account not found"}
	ErrInvalidStatus          = &AppError{http.StatusUnprocessableEntity, "Status must be SUCCESS or FAILED"}
	ErrNotWithdrawal          = &AppError{http.StatusUnprocessableEntity, "Entry is not a withdraw request"}
	ErrWithdrawalFinalized    = &AppError{http.StatusConflict, "Withdraw request already finalized"}
)
