package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pasarkita/marketplace-api/internal/domain"
)

type notificationStore interface {
	GetPending(ctx context.Context, limit int) ([]domain.Notification, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.NotificationStatus) error
}

// Sender delivers a notification to its recipient. The actual transport
// (mail, push, chat) lives behind this interface.
type Sender interface {
	Send(ctx context.Context, n domain.Notification) error
}

// NotificationDispatcher drains the notification outbox in the background.
// Delivery is at-least-once and fully decoupled from the ledger writes
// that enqueue the rows.
type NotificationDispatcher struct {
	notifications notificationStore
	sender        Sender
	logger        *slog.Logger
	interval      time.Duration
	batchSize     int
}

func NewNotificationDispatcher(
	notifications notificationStore,
	sender Sender,
	logger *slog.Logger,
	interval time.Duration,
	batchSize int,
) *NotificationDispatcher {
	return &NotificationDispatcher{
		notifications: notifications,
		sender:        sender,
		logger:        logger,
		interval:      interval,
		batchSize:     batchSize,
	}
}

func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.logger.Info("notification dispatcher started", "interval", d.interval)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("notification dispatcher stopped")
			return
		case <-ticker.C:
			d.poll(ctx)
		}
	}
}

func (d *NotificationDispatcher) poll(ctx context.Context) {
	pending, err := d.notifications.GetPending(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("failed to fetch pending notifications", "error", err)
		return
	}

	for _, n := range pending {
		d.deliver(ctx, n)
	}
}

func (d *NotificationDispatcher) deliver(ctx context.Context, n domain.Notification) {
	if err := d.sender.Send(ctx, n); err != nil {
		d.logger.Warn("notification delivery failed",
			"notification_id", n.ID,
			"kind", n.Kind,
			"error", err,
		)
		if err := d.notifications.UpdateStatus(ctx, n.ID, domain.NotificationStatusFailed); err != nil {
			d.logger.Error("failed to mark notification failed", "notification_id", n.ID, "error", err)
		}
		return
	}

	if err := d.notifications.UpdateStatus(ctx, n.ID, domain.NotificationStatusSent); err != nil {
		d.logger.Error("failed to mark notification sent", "notification_id", n.ID, "error", err)
	}
}
