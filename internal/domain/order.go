package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is the slice of the order store the ledger cares about: settlement
// links finance entries to an order through its invoice number.
type Order struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	InvoiceNumber string
	TotalPrice    int64
	CreatedAt     time.Time
}
