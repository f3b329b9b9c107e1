package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/comitanigiacomo/trackloom/internal/logger"
)

// ReminderScheduler keeps a habit's persisted reminder in step with the habit.
type ReminderScheduler interface {
	Schedule(ctx context.Context, habit *domain.Habit) (ScheduleResult, error)
	Unschedule(ctx context.Context, habitID string) error
}

type HabitService struct {
	repo        domain.HabitRepository
	completions domain.CompletionRepository
	scheduler   ReminderScheduler
	now         func() time.Time
}

func NewHabitService(repo domain.HabitRepository, completions domain.CompletionRepository, scheduler ReminderScheduler) *HabitService {
	return &HabitService{
		repo:        repo,
		completions: completions,
		scheduler:   scheduler,
		now:         time.Now,
	}
}

type CreateHabitInput struct {
	UserID string
	domain.HabitFields
}

type UpdateHabitInput struct {
	ID           string
	UserID       string
	Name         string
	Emoji        string
	Category     string
	Frequency    string
	ReminderTime string
	Notes        *string
	Version      int
}

// HabitResult is a habit together with what happened to its reminder.
type HabitResult struct {
	Habit    *domain.Habit  `json:"habit"`
	Reminder ScheduleResult `json:"reminder"`
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*HabitResult, error) {
	habit, err := domain.NewHabit(input.UserID, input.HabitFields)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return &HabitResult{Habit: habit, Reminder: s.schedule(ctx, habit)}, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *HabitService) GetByID(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*HabitResult, error) {
	habit, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && habit.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrHabitConflict, input.Version, habit.Version)
	}

	notes := habit.Notes
	if input.Notes != nil {
		notes = *input.Notes
	}

	err = habit.Update(domain.HabitFields{
		Name:         mergeString(input.Name, habit.Name),
		Emoji:        mergeString(input.Emoji, habit.Emoji),
		Category:     mergeString(input.Category, habit.Category),
		Frequency:    mergeString(input.Frequency, habit.Frequency),
		ReminderTime: mergeString(input.ReminderTime, habit.ReminderTime),
		Notes:        notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	return &HabitResult{Habit: habit, Reminder: s.schedule(ctx, habit)}, nil
}

// Delete removes the habit and its reminder. Deleting a habit that does not
// exist, or belongs to someone else, is a no-op.
func (s *HabitService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrHabitNotFound) {
		return err
	}

	if s.scheduler != nil {
		if err := s.scheduler.Unschedule(ctx, id); err != nil {
			logger.Warn("failed to remove reminder", "habit_id", id, "err", err)
		}
	}

	return nil
}

// Toggle flips today's completion for a habit in the user's list. The store is
// written first; the cached list only changes once that write succeeded.
func (s *HabitService) Toggle(ctx context.Context, userID, habitID string) (*domain.Habit, error) {
	habits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var current *domain.Habit
	for _, h := range habits {
		if h.ID == habitID {
			current = h
			break
		}
	}
	if current == nil {
		return nil, domain.ErrHabitNotFound
	}

	next := current.Clone()
	next.Toggle()

	if err := s.repo.Update(ctx, next); err != nil {
		logger.Error("toggle not persisted", "habit_id", habitID, "user_id", userID, "err", err)
		return nil, err
	}

	s.recordCompletion(ctx, next)

	return next, nil
}

// recordCompletion mirrors the toggle into the completion log. The log only
// feeds statistics, so failures are logged and swallowed.
func (s *HabitService) recordCompletion(ctx context.Context, habit *domain.Habit) {
	if s.completions == nil {
		return
	}

	day := domain.CalendarDay(s.now().UTC())

	var err error
	if habit.CompletedToday {
		err = s.completions.Create(ctx, domain.NewCompletion(habit.ID, habit.UserID, day))
	} else {
		err = s.completions.DeleteForDay(ctx, habit.ID, day)
	}
	if err != nil {
		logger.Warn("completion log not updated", "habit_id", habit.ID, "err", err)
	}
}

func (s *HabitService) schedule(ctx context.Context, habit *domain.Habit) ScheduleResult {
	if s.scheduler == nil {
		return ScheduleResult{}
	}

	res, err := s.scheduler.Schedule(ctx, habit)
	if err != nil {
		logger.Warn("failed to schedule reminder", "habit_id", habit.ID, "err", err)
		return ScheduleResult{}
	}
	return res
}
