package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pasarkita/marketplace-api/internal/domain"
	"github.com/pasarkita/marketplace-api/internal/repository"
)

const TestPassword = "secret@123"

func SeedUser(t *testing.T, db *sql.DB, name, username string, role domain.Role) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Username:     username,
		Email:        username + "@example.test",
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := repository.NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func SeedMerchantAccount(t *testing.T, db *sql.DB, userID uuid.UUID, name string) *domain.MerchantAccount {
	t.Helper()

	m := &domain.MerchantAccount{
		ID:                uuid.New(),
		UserID:            userID,
		Name:              name,
		BankName:          "Bank Central",
		BankAccountName:   "John Lennon",
		BankAccountNumber: "8881234567",
		CreatedAt:         time.Now().UTC(),
	}

	if err := repository.NewMerchantAccountRepository(db).Create(context.Background(), m); err != nil {
		t.Fatalf("seed merchant account %s: %v", name, err)
	}
	return m
}

func SeedOrder(t *testing.T, db *sql.DB, customerID uuid.UUID, invoice string, total int64) *domain.Order {
	t.Helper()

	o := &domain.Order{
		ID:            uuid.New(),
		UserID:        customerID,
		InvoiceNumber: invoice,
		TotalPrice:    total,
		CreatedAt:     time.Now().UTC(),
	}

	if err := repository.NewOrderRepository(db).Create(context.Background(), o); err != nil {
		t.Fatalf("seed order %s: %v", invoice, err)
	}
	return o
}

// SeedFinanceEntry inserts a ledger line directly, bypassing the service
// and its locking so tests can stage arbitrary ledger states.
func SeedFinanceEntry(t *testing.T, db *sql.DB, e *domain.FinanceEntry) *domain.FinanceEntry {
	t.Helper()

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO finances (id, user_id, type, order_ref, description, amount, status, balance, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.UserID, e.Type, e.OrderRef, e.Description,
		e.Amount, e.Status, e.Balance, e.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed finance entry: %v", err)
	}
	return e
}

func CountFinanceEntries(t *testing.T, db *sql.DB, userID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM finances WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		t.Fatalf("count finance entries for %s: %v", userID, err)
	}
	return count
}

func LatestBalance(t *testing.T, db *sql.DB, userID uuid.UUID) int64 {
	t.Helper()

	var balance int64
	err := db.QueryRow(
		`SELECT balance FROM finances WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC LIMIT 1`, userID,
	).Scan(&balance)
	if err != nil {
		t.Fatalf("latest balance for %s: %v", userID, err)
	}
	return balance
}

func CountNotifications(t *testing.T, db *sql.DB, userID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		t.Fatalf("count notifications for %s: %v", userID, err)
	}
	return count
}
