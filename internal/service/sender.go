package service

import (
	"context"
	"log/slog"

	"github.com/pasarkita/marketplace-api/internal/domain"
)

// LogSender writes notifications to the application log. It stands in for
// a real transport in environments that have none configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, n domain.Notification) error {
	s.Logger.Info("notification delivered",
		"notification_id", n.ID,
		"recipient_user_id", n.UserID,
		"kind", n.Kind,
		"payload", string(n.Payload),
	)
	return nil
}
