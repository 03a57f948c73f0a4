package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntryType follows the marketplace's own sign convention: DEBIT is money
// coming into an owner's ledger (increases balance), CREDIT is money going
// out (fees, withdrawals). This inverts textbook accounting usage and is
// kept as-is.
type EntryType string

const (
	EntryTypeDebit  EntryType = "DEBIT"
	EntryTypeCredit EntryType = "CREDIT"
)

func (t EntryType) IsValid() bool {
	return t == EntryTypeDebit || t == EntryTypeCredit
}

type EntryStatus string

const (
	EntryStatusPending EntryStatus = "PENDING"
	EntryStatusSuccess EntryStatus = "SUCCESS"
	EntryStatusFailed  EntryStatus = "FAILED"
)

func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusPending, EntryStatusSuccess, EntryStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the status ends a withdrawal's lifecycle.
func (s EntryStatus) Terminal() bool {
	return s == EntryStatusSuccess || s == EntryStatusFailed
}

// FinanceEntry is one immutable line in an owner's ledger. Balance is the
// owner's running balance after this entry is applied; it is computed once
// when the entry is appended and never recomputed on read. Only Status may
// change afterwards, and only for PENDING withdrawals.
type FinanceEntry struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Type        EntryType
	OrderRef    *string
	Description string
	Amount      int64
	Status      EntryStatus
	Balance     int64
	CreatedAt   time.Time
}

// SignedAmount is the entry's contribution to the running balance.
func (e *FinanceEntry) SignedAmount() int64 {
	if e.Type == EntryTypeDebit {
		return e.Amount
	}
	return -e.Amount
}

// EntryFilter narrows a ledger listing. Nil fields match everything.
type EntryFilter struct {
	Type   *EntryType
	Status *EntryStatus
}
