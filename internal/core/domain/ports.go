package domain

import "context"

// PreferenceStore is durable per-user key/value storage.
type PreferenceStore interface {
	Get(ctx context.Context, userID, key string) (string, bool, error)
	Set(ctx context.Context, userID, key, value string) error
}

type NavigationStore interface {
	// Get returns ErrNavigationNotFound when the session has not started yet.
	Get(ctx context.Context, sessionID string) (*Navigation, error)
	Save(ctx context.Context, sessionID string, nav *Navigation) error
	Delete(ctx context.Context, sessionID string) error
}

type SessionStore interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// UsageLimiter counts per-user calls within a day.
type UsageLimiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID string, n Notification) error
}

// SuggestionGenerator asks an AI model for structured habit suggestions.
type SuggestionGenerator interface {
	Generate(ctx context.Context, prompt string, schema map[string]any) ([]Suggestion, error)
}
