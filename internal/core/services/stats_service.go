package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
)

type StatsService struct {
	habitRepo      domain.HabitRepository
	completionRepo domain.CompletionRepository
	userRepo       domain.UserRepository
}

func NewStatsService(habitRepo domain.HabitRepository, completionRepo domain.CompletionRepository, userRepo domain.UserRepository) *StatsService {
	return &StatsService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		userRepo:       userRepo,
	}
}

func (s *StatsService) GetWeeklyStats(ctx context.Context, input domain.StatsInput) (*domain.WeeklyStats, error) {
	startDate := domain.CalendarDay(input.StartDate)
	endDate := domain.CalendarDay(input.EndDate)

	habits, err := s.habitRepo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	completions, err := s.completionRepo.ListByUserIDAndDateRange(ctx, input.UserID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	done := make(map[string]map[string]bool)
	for _, c := range completions {
		if _, exists := done[c.HabitID]; !exists {
			done[c.HabitID] = make(map[string]bool)
		}
		done[c.HabitID][c.Day.Format(domain.DayLayout)] = true
	}

	stats := &domain.WeeklyStats{
		StartDate:   startDate.Format(domain.DayLayout),
		EndDate:     endDate.Format(domain.DayLayout),
		TotalHabits: len(habits),
		DailyTotals: make([]domain.DayTotal, 0, 7),
		HabitStats:  make([]domain.HabitStat, 0, len(habits)),
	}

	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		stats.DailyTotals = append(stats.DailyTotals, domain.DayTotal{
			Day:     day.Format(domain.DayLayout),
			Weekday: day.Weekday().String()[:3],
		})
	}

	totalDaysPossible := 0
	totalDaysCompleted := 0

	for _, h := range habits {
		hStat := domain.HabitStat{
			HabitID:       h.ID,
			HabitName:     h.Name,
			Emoji:         h.Emoji,
			Category:      h.Category,
			DailyProgress: make([]int, 0, len(stats.DailyTotals)),
		}

		daysInPeriod := 0
		for i, total := range stats.DailyTotals {
			val := 0
			if done[h.ID][total.Day] {
				val = 1
				hStat.DaysCompleted++
				stats.DailyTotals[i].Completed++
			}
			hStat.DailyProgress = append(hStat.DailyProgress, val)
			daysInPeriod++
		}

		totalDaysPossible += daysInPeriod
		totalDaysCompleted += hStat.DaysCompleted

		if daysInPeriod > 0 {
			hStat.CompletionRate = float64(hStat.DaysCompleted) / float64(daysInPeriod) * 100
		}

		stats.HabitStats = append(stats.HabitStats, hStat)
	}

	if totalDaysPossible > 0 {
		stats.OverallRate = float64(totalDaysCompleted) / float64(totalDaysPossible) * 100
	}

	return stats, nil
}

// WeekEnding returns the seven-day window that ends on t's calendar day.
func WeekEnding(t time.Time) (time.Time, time.Time) {
	end := domain.CalendarDay(t)
	return end.AddDate(0, 0, -6), end
}

// HabitHistory reads the completion log of habit from its creation day up to
// now and summarises it.
func (s *StatsService) HabitHistory(ctx context.Context, habit *domain.Habit, now time.Time) (*domain.HabitHistory, error) {
	since := domain.CalendarDay(habit.CreatedAt.UTC())
	today := domain.CalendarDay(now.UTC())
	if since.After(today) {
		since = today
	}

	completions, err := s.completionRepo.ListByUserIDAndDateRange(ctx, habit.UserID, since, today)
	if err != nil {
		return nil, err
	}

	history := domain.SummarizeHabit(habit.ID, since, today, completions)
	return &history, nil
}

func (s *StatsService) Profile(ctx context.Context, userID string) (*domain.ProfileStats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.ProfileStats{
		User:           user,
		TotalHabits:    len(habits),
		CompletedToday: domain.CompletedToday(habits),
		LongestStreak:  domain.LongestStreak(habits),
	}, nil
}
