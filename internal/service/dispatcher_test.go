package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pasarkita/marketplace-api/internal/domain"
)

type fakeNotificationStore struct {
	pending  []domain.Notification
	statuses map[uuid.UUID]domain.NotificationStatus
	fetchErr error
}

func newFakeNotificationStore(pending ...domain.Notification) *fakeNotificationStore {
	return &fakeNotificationStore{
		pending:  pending,
		statuses: make(map[uuid.UUID]domain.NotificationStatus),
	}
}

func (f *fakeNotificationStore) GetPending(_ context.Context, limit int) ([]domain.Notification, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeNotificationStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.NotificationStatus) error {
	f.statuses[id] = status
	return nil
}

type fakeSender struct {
	sent []domain.Notification
	err  error
}

func (f *fakeSender) Send(_ context.Context, n domain.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func pendingNotification() domain.Notification {
	return domain.Notification{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Kind:      domain.NotificationKindWithdrawRequest,
		Payload:   []byte(`{"amount":100000}`),
		Status:    domain.NotificationStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

func newTestDispatcher(store *fakeNotificationStore, sender Sender) *NotificationDispatcher {
	return NewNotificationDispatcher(store, sender, slog.Default(), time.Second, 10)
}

func TestDispatcherDeliversPending(t *testing.T) {
	n1 := pendingNotification()
	n2 := pendingNotification()
	store := newFakeNotificationStore(n1, n2)
	sender := &fakeSender{}

	newTestDispatcher(store, sender).poll(context.Background())

	require.Len(t, sender.sent, 2)
	require.Equal(t, domain.NotificationStatusSent, store.statuses[n1.ID])
	require.Equal(t, domain.NotificationStatusSent, store.statuses[n2.ID])
}

func TestDispatcherMarksFailedDeliveries(t *testing.T) {
	n := pendingNotification()
	store := newFakeNotificationStore(n)
	sender := &fakeSender{err: errors.New("transport down")}

	newTestDispatcher(store, sender).poll(context.Background())

	require.Empty(t, sender.sent)
	require.Equal(t, domain.NotificationStatusFailed, store.statuses[n.ID])
}

func TestDispatcherRespectsBatchSize(t *testing.T) {
	store := newFakeNotificationStore(pendingNotification(), pendingNotification(), pendingNotification())
	sender := &fakeSender{}

	d := NewNotificationDispatcher(store, sender, slog.Default(), time.Second, 2)
	d.poll(context.Background())

	require.Len(t, sender.sent, 2)
}

func TestDispatcherSurvivesFetchErrors(t *testing.T) {
	store := newFakeNotificationStore()
	store.fetchErr = errors.New("db offline")
	sender := &fakeSender{}

	newTestDispatcher(store, sender).poll(context.Background())

	require.Empty(t, sender.sent)
}
