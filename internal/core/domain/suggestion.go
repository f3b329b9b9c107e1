package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrGoalsEmpty         = errors.New("goals cannot be empty")
	ErrInvalidSuggestion  = errors.New("invalid suggestion")
	ErrSuggestionQuota    = errors.New("daily suggestion limit reached")
	ErrSuggestionNotFound = errors.New("suggestion not found")
)

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"

	SuggestionBenefitCount = 3
	SuggestionsPerRequest  = 3
)

type Suggestion struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Emoji       string   `json:"emoji"`
	Category    string   `json:"category"`
	Difficulty  string   `json:"difficulty"`
	Benefits    []string `json:"benefits"`
}

func (s Suggestion) Validate() error {
	if strings.TrimSpace(s.Title) == "" || strings.TrimSpace(s.Description) == "" {
		return fmt.Errorf("%w: title and description are required", ErrInvalidSuggestion)
	}
	switch s.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("%w: difficulty %q", ErrInvalidSuggestion, s.Difficulty)
	}
	if len(s.Benefits) != SuggestionBenefitCount {
		return fmt.Errorf("%w: expected %d benefits, got %d", ErrInvalidSuggestion, SuggestionBenefitCount, len(s.Benefits))
	}
	return nil
}

// HabitFields turns a suggestion into a daily habit reminded at the default time.
func (s Suggestion) HabitFields() HabitFields {
	return HabitFields{
		Name:         s.Title,
		Emoji:        s.Emoji,
		Category:     NormalizeCategory(s.Category),
		Frequency:    FrequencyDaily,
		ReminderTime: DefaultReminderTime,
		Notes:        s.Description,
	}
}

func SuggestionPrompt(goals string) string {
	return fmt.Sprintf("Based on the user goal: %q, suggest %d specific, actionable daily habits that would help achieve this goal.",
		strings.TrimSpace(goals), SuggestionsPerRequest)
}

// SuggestionSchema is the JSON schema the generator must answer with.
func SuggestionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"suggestions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":       map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
						"emoji":       map[string]any{"type": "string"},
						"category":    map[string]any{"type": "string"},
						"difficulty":  map[string]any{"type": "string", "enum": []string{DifficultyEasy, DifficultyMedium, DifficultyHard}},
						"benefits": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": SuggestionBenefitCount,
							"maxItems": SuggestionBenefitCount,
						},
					},
					"required": []string{"title", "description", "emoji", "category", "difficulty", "benefits"},
				},
			},
		},
		"required": []string{"suggestions"},
	}
}

var DefaultSuggestions = []Suggestion{
	{
		ID:          "1",
		Title:       "Morning Meditation",
		Description: "Start your day with 10 minutes of mindfulness meditation",
		Emoji:       "🧘‍♀️",
		Category:    "Mental Health",
		Difficulty:  DifficultyEasy,
		Benefits:    []string{"Reduces stress", "Improves focus", "Better emotional regulation"},
	},
	{
		ID:          "2",
		Title:       "Daily Reading",
		Description: "Read for 30 minutes every day to expand your knowledge",
		Emoji:       "📚",
		Category:    "Learning",
		Difficulty:  DifficultyEasy,
		Benefits:    []string{"Expands vocabulary", "Improves concentration", "Reduces stress"},
	},
	{
		ID:          "3",
		Title:       "Evening Walk",
		Description: "Take a 20-minute walk after dinner for better health",
		Emoji:       "🚶‍♂️",
		Category:    "Fitness",
		Difficulty:  DifficultyEasy,
		Benefits:    []string{"Improves cardiovascular health", "Better sleep", "Mood boost"},
	},
	{
		ID:          "4",
		Title:       "Gratitude Journal",
		Description: "Write down 3 things you're grateful for each day",
		Emoji:       "📝",
		Category:    "Mental Health",
		Difficulty:  DifficultyEasy,
		Benefits:    []string{"Increases happiness", "Better relationships", "Improved sleep"},
	},
	{
		ID:          "5",
		Title:       "Learn New Language",
		Description: "Practice a new language for 15 minutes daily",
		Emoji:       "🌍",
		Category:    "Learning",
		Difficulty:  DifficultyMedium,
		Benefits:    []string{"Cognitive benefits", "Career opportunities", "Cultural understanding"},
	},
	{
		ID:          "6",
		Title:       "Cold Shower",
		Description: "End your shower with 30 seconds of cold water",
		Emoji:       "🚿",
		Category:    "Health",
		Difficulty:  DifficultyHard,
		Benefits:    []string{"Boosts immunity", "Increases alertness", "Improves circulation"},
	},
}

// DefaultSuggestionsCopy returns a copy callers may append to.
func DefaultSuggestionsCopy() []Suggestion {
	out := make([]Suggestion, len(DefaultSuggestions))
	copy(out, DefaultSuggestions)
	return out
}
