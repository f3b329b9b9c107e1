package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/comitanigiacomo/trackloom/internal/logger"
)

// ScheduleResult reports whether a reminder was armed. PermissionPrompt is set
// the first time scheduling is refused because the user has not decided yet.
type ScheduleResult struct {
	Scheduled        bool `json:"scheduled"`
	PermissionPrompt bool `json:"permission_prompt,omitempty"`
}

type ReminderService struct {
	reminders     domain.ReminderRepository
	habits        domain.HabitRepository
	users         domain.UserRepository
	prefs         domain.PreferenceStore
	subscriptions domain.PushSubscriptionRepository
	publicKey     string
	now           func() time.Time
}

func NewReminderService(
	reminders domain.ReminderRepository,
	habits domain.HabitRepository,
	users domain.UserRepository,
	prefs domain.PreferenceStore,
	subscriptions domain.PushSubscriptionRepository,
	vapidPublicKey string,
) *ReminderService {
	return &ReminderService{
		reminders:     reminders,
		habits:        habits,
		users:         users,
		prefs:         prefs,
		subscriptions: subscriptions,
		publicKey:     vapidPublicKey,
		now:           time.Now,
	}
}

var _ ReminderScheduler = (*ReminderService)(nil)

// Schedule arms or replaces the habit's reminder when the user granted
// notifications. Denied users get nothing; undecided users get a one-time
// permission prompt instead.
func (s *ReminderService) Schedule(ctx context.Context, habit *domain.Habit) (ScheduleResult, error) {
	perm, err := s.Permission(ctx, habit.UserID)
	if err != nil {
		return ScheduleResult{}, err
	}

	switch perm {
	case domain.PermissionGranted:
		if err := s.arm(ctx, habit, s.location(ctx, habit.UserID)); err != nil {
			return ScheduleResult{}, err
		}
		return ScheduleResult{Scheduled: true}, nil

	case domain.PermissionDenied:
		return ScheduleResult{}, nil

	default:
		prompt, err := s.claimPrompt(ctx, habit.UserID)
		if err != nil {
			return ScheduleResult{}, err
		}
		return ScheduleResult{PermissionPrompt: prompt}, nil
	}
}

func (s *ReminderService) Unschedule(ctx context.Context, habitID string) error {
	return s.reminders.Delete(ctx, habitID)
}

// Permission returns the stored permission, or default when none was stored.
func (s *ReminderService) Permission(ctx context.Context, userID string) (domain.Permission, error) {
	raw, ok, err := s.prefs.Get(ctx, userID, domain.PermissionKey)
	if err != nil {
		return "", fmt.Errorf("reminder service: read permission: %w", err)
	}
	if !ok {
		return domain.PermissionDefault, nil
	}

	perm, err := domain.ParsePermission(raw)
	if err != nil {
		logger.Warn("unknown stored permission, treating as default", "user_id", userID, "value", raw)
		return domain.PermissionDefault, nil
	}
	return perm, nil
}

// SetPermission records the user's decision. Granting re-arms a reminder for
// every habit the user has; denying removes all of them. It returns how many
// reminders were armed.
func (s *ReminderService) SetPermission(ctx context.Context, userID string, perm domain.Permission) (int, error) {
	if _, err := domain.ParsePermission(string(perm)); err != nil {
		return 0, err
	}

	if err := s.prefs.Set(ctx, userID, domain.PermissionKey, string(perm)); err != nil {
		return 0, fmt.Errorf("reminder service: store permission: %w", err)
	}

	switch perm {
	case domain.PermissionGranted:
		habits, err := s.habits.ListByUserID(ctx, userID)
		if err != nil {
			return 0, err
		}

		loc := s.location(ctx, userID)
		armed := 0
		for _, h := range habits {
			if err := s.arm(ctx, h, loc); err != nil {
				logger.Warn("failed to arm reminder", "habit_id", h.ID, "err", err)
				continue
			}
			armed++
		}
		return armed, nil

	case domain.PermissionDenied:
		return 0, s.reminders.DeleteByUserID(ctx, userID)
	}

	return 0, nil
}

func (s *ReminderService) Subscribe(ctx context.Context, sub *domain.PushSubscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.now().UTC()
	}
	return s.subscriptions.Save(ctx, sub)
}

func (s *ReminderService) Unsubscribe(ctx context.Context, userID, endpoint string) error {
	if endpoint == "" {
		return domain.ErrSubscriptionFields
	}
	return s.subscriptions.Delete(ctx, userID, endpoint)
}

func (s *ReminderService) PublicKey() string {
	return s.publicKey
}

func (s *ReminderService) arm(ctx context.Context, habit *domain.Habit, loc *time.Location) error {
	r, err := domain.NewReminder(habit, loc, s.now())
	if err != nil {
		return err
	}
	return s.reminders.Upsert(ctx, r)
}

// claimPrompt returns true only the first time it is called for a user.
func (s *ReminderService) claimPrompt(ctx context.Context, userID string) (bool, error) {
	_, asked, err := s.prefs.Get(ctx, userID, domain.PermissionPromptedKey)
	if err != nil {
		return false, err
	}
	if asked {
		return false, nil
	}
	if err := s.prefs.Set(ctx, userID, domain.PermissionPromptedKey, "true"); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ReminderService) location(ctx context.Context, userID string) *time.Location {
	if s.users == nil {
		return time.UTC
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			logger.Warn("falling back to UTC for reminders", "user_id", userID, "err", err)
		}
		return time.UTC
	}
	return user.Location()
}
