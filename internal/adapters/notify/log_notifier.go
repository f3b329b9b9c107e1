package notify

import (
	"context"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/comitanigiacomo/trackloom/internal/logger"
)

var _ domain.Notifier = LogNotifier{}

// LogNotifier writes reminders to the log. It is used when push is not configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, userID string, n domain.Notification) error {
	logger.Info("reminder", "user_id", userID, "title", n.Title, "body", n.Body, "tag", n.Tag)
	return nil
}
