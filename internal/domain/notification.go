package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationKindWithdrawRequest NotificationKind = "withdraw_request"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// Notification is an outbox row. Rows are written in a fire-and-forget
// fashion by the finance service and drained by the dispatcher; a failed
// delivery never affects the ledger write that produced the row.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Kind      NotificationKind
	Payload   json.RawMessage
	Status    NotificationStatus
	Attempts  int
	CreatedAt time.Time
}

// WithdrawRequestPayload is the notification body sent to the platform
// admin when a merchant files a withdraw request.
type WithdrawRequestPayload struct {
	Name              string `json:"name"`
	BankAccountName   string `json:"bankAccountName"`
	BankAccountNumber string `json:"bankAccountNumber"`
	Amount            int64  `json:"amount"`
}
