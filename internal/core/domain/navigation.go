package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidScreen      = errors.New("invalid screen")
	ErrNavigationNotFound = errors.New("navigation state not found")
)

type Screen string

const (
	ScreenOnboarding    Screen = "onboarding"
	ScreenDashboard     Screen = "dashboard"
	ScreenAddHabit      Screen = "add-habit"
	ScreenHabitDetails  Screen = "habit-details"
	ScreenProfile       Screen = "profile"
	ScreenBadges        Screen = "badges"
	ScreenAISuggestions Screen = "ai-suggestions"
)

// OnboardingSeenKey and OnboardingSeenValue are the durable flag written once
// the user has gone through the onboarding slides.
const (
	OnboardingSeenKey   = "trackloom-onboarding-seen"
	OnboardingSeenValue = "true"
)

var Screens = []Screen{
	ScreenOnboarding, ScreenDashboard, ScreenAddHabit, ScreenHabitDetails,
	ScreenProfile, ScreenBadges, ScreenAISuggestions,
}

func ParseScreen(raw string) (Screen, error) {
	for _, s := range Screens {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", ErrInvalidScreen
}

// Navigation is the per-session screen host state. There is no history stack.
type Navigation struct {
	Screen          Screen    `json:"screen"`
	SelectedHabitID string    `json:"selected_habit_id,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Navigate replaces the current screen. The selected habit only changes when
// a habit id is supplied.
func (n *Navigation) Navigate(screen Screen, habitID string) {
	n.Screen = screen
	if habitID != "" {
		n.SelectedHabitID = habitID
	}
	n.UpdatedAt = time.Now().UTC()
}

type OnboardingSlide struct {
	Emoji       string `json:"emoji"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var OnboardingSlides = []OnboardingSlide{
	{
		Emoji:       "🎯",
		Title:       "Track Your Habits",
		Description: "Build lasting habits with our intuitive tracking system. Set custom frequencies and get personalized reminders.",
	},
	{
		Emoji:       "📈",
		Title:       "Visualize Progress",
		Description: "See your progress with beautiful charts and analytics. Track streaks, completion rates, and personal growth.",
	},
	{
		Emoji:       "🏆",
		Title:       "Earn Rewards",
		Description: "Level up with XP points, unlock badges, and celebrate milestones. Gamification makes habits fun!",
	},
}

var MotivationalQuotes = []string{
	"Success is the sum of small efforts repeated day in and day out.",
	"The secret of getting ahead is getting started.",
	"Don't watch the clock; do what it does. Keep going.",
	"The future depends on what you do today.",
}

// QuoteOfTheDay picks a quote by weekday.
func QuoteOfTheDay(t time.Time) string {
	return MotivationalQuotes[int(t.Weekday())%len(MotivationalQuotes)]
}

var PopularEmojis = []string{
	"🎯", "💪", "📚", "🏃‍♂️", "🧘‍♀️", "💧", "🥗", "😴",
	"📝", "🎨", "🎵", "🌱", "☀️", "🔥", "⭐", "🚀",
}
