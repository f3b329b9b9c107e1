package domain

import "errors"

var ErrInvalidBadgeCategory = errors.New("invalid badge category")

const (
	BadgeCategoryAll        = "All"
	BadgeCategoryStreaks    = "Streaks"
	BadgeCategoryCompletion = "Completion"
	BadgeCategoryMilestones = "Milestones"
)

var BadgeCategories = []string{
	BadgeCategoryAll, BadgeCategoryStreaks, BadgeCategoryCompletion, BadgeCategoryMilestones,
}

// Badge is read-only achievement data derived from the user's habits.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Unlocked    bool   `json:"unlocked"`
	Progress    int    `json:"progress"`
	Requirement int    `json:"requirement"`
	Category    string `json:"category"`
}

type badgeRule struct {
	badge    Badge
	progress func(habits []*Habit) int
}

var badgeRules = []badgeRule{
	{
		badge: Badge{ID: "1", Name: "First Steps", Description: "Complete your first habit", Emoji: "👶", Requirement: 1, Category: BadgeCategoryMilestones},
		progress: func(habits []*Habit) int {
			for _, h := range habits {
				if h.CompletedToday || h.Streak > 0 {
					return 1
				}
			}
			return 0
		},
	},
	{
		badge: Badge{ID: "2", Name: "Week Warrior", Description: "Maintain a 7-day streak", Emoji: "🔥", Requirement: 7, Category: BadgeCategoryStreaks},
		progress: func(habits []*Habit) int {
			return LongestStreak(habits)
		},
	},
	{
		badge: Badge{ID: "3", Name: "Habit Builder", Description: "Create 5 different habits", Emoji: "🏗️", Requirement: 5, Category: BadgeCategoryMilestones},
		progress: func(habits []*Habit) int {
			return len(habits)
		},
	},
	{
		badge:    Badge{ID: "4", Name: "Perfect Day", Description: "Complete all habits in a day", Emoji: "⭐", Category: BadgeCategoryCompletion},
		progress: CompletedToday,
	},
}

// EvaluateBadges computes every badge against the given habits.
// Perfect Day requires all habits, so its requirement tracks the habit count.
func EvaluateBadges(habits []*Habit) []Badge {
	out := make([]Badge, 0, len(badgeRules))
	for _, rule := range badgeRules {
		b := rule.badge
		if b.ID == "4" {
			b.Requirement = len(habits)
		}

		b.Progress = rule.progress(habits)
		if b.Progress > b.Requirement && b.Requirement > 0 {
			b.Progress = b.Requirement
		}
		b.Unlocked = b.Requirement > 0 && b.Progress >= b.Requirement

		out = append(out, b)
	}
	return out
}

func FilterBadges(badges []Badge, category string) ([]Badge, error) {
	if category == "" || category == BadgeCategoryAll {
		return badges, nil
	}

	valid := false
	for _, c := range BadgeCategories {
		if c == category {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidBadgeCategory
	}

	filtered := make([]Badge, 0, len(badges))
	for _, b := range badges {
		if b.Category == category {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func LongestStreak(habits []*Habit) int {
	longest := 0
	for _, h := range habits {
		if h.Streak > longest {
			longest = h.Streak
		}
	}
	return longest
}

func CompletedToday(habits []*Habit) int {
	n := 0
	for _, h := range habits {
		if h.CompletedToday {
			n++
		}
	}
	return n
}
