package domain

import "time"

type WeeklyStats struct {
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	TotalHabits int         `json:"total_habits"`
	OverallRate float64     `json:"overall_completion_rate"`
	DailyTotals []DayTotal  `json:"daily_totals"`
	HabitStats  []HabitStat `json:"habits"`
}

type DayTotal struct {
	Day       string `json:"day"`
	Weekday   string `json:"weekday"`
	Completed int    `json:"completed"`
}

type HabitStat struct {
	HabitID        string  `json:"habit_id"`
	HabitName      string  `json:"habit_name"`
	Emoji          string  `json:"emoji"`
	Category       string  `json:"category"`
	CompletionRate float64 `json:"completion_rate"`
	DaysCompleted  int     `json:"days_completed"`
	DailyProgress  []int   `json:"daily_progress"`
}

type StatsInput struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time
}

type ProfileStats struct {
	User           *User `json:"user"`
	TotalHabits    int   `json:"total_habits"`
	CompletedToday int   `json:"completed_today"`
	LongestStreak  int   `json:"longest_streak"`
}

// HabitHistory summarises a habit's completion log since it was created.
type HabitHistory struct {
	TotalCompletions int     `json:"total_completions"`
	TrackedDays      int     `json:"tracked_days"`
	SuccessRate      float64 `json:"success_rate"`
	BestStreak       int     `json:"best_streak"`
}

// SummarizeHabit builds the history of habitID over the calendar days from
// since to today, both inclusive. Completions of other habits or outside the
// window are ignored.
func SummarizeHabit(habitID string, since, today time.Time, completions []*Completion) HabitHistory {
	from, to := CalendarDay(since), CalendarDay(today)
	if from.After(to) {
		from = to
	}

	done := make(map[string]bool)
	for _, c := range completions {
		day := CalendarDay(c.Day)
		if c.HabitID != habitID || day.Before(from) || day.After(to) {
			continue
		}
		done[day.Format(DayLayout)] = true
	}

	var history HabitHistory
	run := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		history.TrackedDays++
		if !done[day.Format(DayLayout)] {
			run = 0
			continue
		}
		history.TotalCompletions++
		run++
		history.BestStreak = max(history.BestStreak, run)
	}

	history.SuccessRate = float64(history.TotalCompletions) / float64(history.TrackedDays) * 100
	return history
}
