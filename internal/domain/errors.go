package domain

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrInsufficientBalance    = errors.New("withdraw amount exceeds available balance")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrInvalidRequest         = errors.New("invalid request")
	ErrNotMerchant            = errors.New("caller is not a merchant")
	ErrMerchantAccountMissing = errors.New("merchant account not found")
	ErrNotWithdrawal          = errors.New("entry is not a withdraw request")
	ErrWithdrawalFinalized    = errors.New("withdraw request already finalized")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrAdminMissing           = errors.New("platform admin account not found")
)
