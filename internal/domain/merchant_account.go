package domain

import (
	"time"

	"github.com/google/uuid"
)

// MerchantAccount holds the merchant's storefront profile and the bank
// coordinates withdraw requests are paid out to.
type MerchantAccount struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Name              string
	BankName          string
	BankAccountName   string
	BankAccountNumber string
	CreatedAt         time.Time
}
