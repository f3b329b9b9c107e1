package workers

import (
	"context"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/comitanigiacomo/trackloom/internal/logger"
)

const defaultBatchSize = 100

type ReminderRepository interface {
	ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Reminder, error)
	MarkFired(ctx context.Context, habitID string, prev, firedAt, next time.Time) (bool, error)
	Delete(ctx context.Context, habitID string) error
}

type PermissionReader interface {
	Permission(ctx context.Context, userID string) (domain.Permission, error)
}

// ReminderWorker fires due reminders on a fixed poll interval. Every firing is
// delivered once and the reminder is re-armed for its next occurrence whether
// or not delivery succeeded.
type ReminderWorker struct {
	reminders   ReminderRepository
	permissions PermissionReader
	notifier    domain.Notifier
	interval    time.Duration
	batchSize   int
	now         func() time.Time
}

func NewReminderWorker(reminders ReminderRepository, permissions PermissionReader, notifier domain.Notifier, interval time.Duration) *ReminderWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ReminderWorker{
		reminders:   reminders,
		permissions: permissions,
		notifier:    notifier,
		interval:    interval,
		batchSize:   defaultBatchSize,
		now:         time.Now,
	}
}

// Start runs the polling loop in its own goroutine and returns at once. The
// loop stops when ctx is cancelled.
func (w *ReminderWorker) Start(ctx context.Context) {
	go func() {
		logger.Info("reminder worker started", "interval", w.interval)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := w.RunOnce(ctx); err != nil {
					logger.Error("reminder poll failed", "err", err)
				}
			case <-ctx.Done():
				logger.Info("reminder worker shutting down")
				return
			}
		}
	}()
}

// RunOnce fires every reminder due at the current time and returns how many
// notifications were attempted.
func (w *ReminderWorker) RunOnce(ctx context.Context) (int, error) {
	now := w.now()

	due, err := w.reminders.ListDue(ctx, now, w.batchSize)
	if err != nil {
		return 0, err
	}

	fired := 0
	for _, r := range due {
		if w.fire(ctx, r, now) {
			fired++
		}
	}
	return fired, nil
}

func (w *ReminderWorker) fire(ctx context.Context, r *domain.Reminder, now time.Time) bool {
	perm, err := w.permissions.Permission(ctx, r.UserID)
	if err != nil {
		logger.Warn("permission lookup failed, reminder skipped this round", "habit_id", r.HabitID, "err", err)
		return false
	}

	if perm != domain.PermissionGranted {
		if err := w.reminders.Delete(ctx, r.HabitID); err != nil {
			logger.Warn("failed to drop reminder without permission", "habit_id", r.HabitID, "err", err)
		}
		return false
	}

	if err := w.notifier.Notify(ctx, r.UserID, r.Notification()); err != nil {
		logger.Error("reminder delivery failed", "habit_id", r.HabitID, "user_id", r.UserID, "err", err)
	}

	prev := r.NextFireAt
	if err := r.Rearm(now); err != nil {
		logger.Error("reminder could not be re-armed", "habit_id", r.HabitID, "err", err)
		return true
	}

	// The habit may have been edited or deleted while the push was in flight.
	updated, err := w.reminders.MarkFired(ctx, r.HabitID, prev, *r.LastFiredAt, r.NextFireAt)
	switch {
	case err != nil:
		logger.Error("failed to store re-armed reminder", "habit_id", r.HabitID, "err", err)
	case !updated:
		logger.Debug("reminder changed while firing, keeping the newer schedule", "habit_id", r.HabitID)
	}
	return true
}
