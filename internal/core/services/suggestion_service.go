package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/comitanigiacomo/trackloom/internal/logger"
)

const (
	SourceAI      = "ai"
	SourceDefault = "default"
)

type SuggestionResult struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
	Source      string              `json:"source"`
	// QuotaExceeded is set when the AI was skipped because of the daily limit.
	QuotaExceeded bool `json:"quota_exceeded,omitempty"`
}

type SuggestionService struct {
	generator domain.SuggestionGenerator
	limiter   domain.UsageLimiter
	habits    *HabitService
	now       func() time.Time
}

// NewSuggestionService builds the service. A nil generator means AI is not
// configured and only the default suggestions are served.
func NewSuggestionService(generator domain.SuggestionGenerator, limiter domain.UsageLimiter, habits *HabitService) *SuggestionService {
	return &SuggestionService{
		generator: generator,
		limiter:   limiter,
		habits:    habits,
		now:       time.Now,
	}
}

func (s *SuggestionService) Defaults() []domain.Suggestion {
	return domain.DefaultSuggestionsCopy()
}

// Generate asks the AI for suggestions matching the goals and puts them ahead
// of the defaults. Any AI failure degrades to the defaults alone.
func (s *SuggestionService) Generate(ctx context.Context, userID, goals string) (*SuggestionResult, error) {
	if strings.TrimSpace(goals) == "" {
		return nil, domain.ErrGoalsEmpty
	}

	fallback := &SuggestionResult{Suggestions: s.Defaults(), Source: SourceDefault}

	if s.generator == nil {
		return fallback, nil
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, userID)
		if err != nil {
			logger.Warn("suggestion quota check failed", "user_id", userID, "err", err)
		} else if !ok {
			logger.Info("suggestion quota exhausted", "user_id", userID)
			fallback.QuotaExceeded = true
			return fallback, nil
		}
	}

	generated, err := s.generator.Generate(ctx, domain.SuggestionPrompt(goals), domain.SuggestionSchema())
	if err != nil {
		logger.Error("AI suggestion generation failed", "user_id", userID, "err", err)
		return fallback, nil
	}

	stamp := s.now().Unix()
	valid := make([]domain.Suggestion, 0, len(generated))
	for i, sg := range generated {
		if err := sg.Validate(); err != nil {
			logger.Warn("dropping malformed suggestion", "index", i, "err", err)
			continue
		}
		sg.ID = fmt.Sprintf("ai-%d-%d", stamp, i)
		valid = append(valid, sg)
	}

	if len(valid) == 0 {
		return fallback, nil
	}

	return &SuggestionResult{
		Suggestions: append(valid, fallback.Suggestions...),
		Source:      SourceAI,
	}, nil
}

// Adopt creates a daily habit from a suggestion.
func (s *SuggestionService) Adopt(ctx context.Context, userID string, suggestion domain.Suggestion) (*HabitResult, error) {
	if strings.TrimSpace(suggestion.Title) == "" {
		return nil, domain.ErrInvalidSuggestion
	}

	return s.habits.Create(ctx, CreateHabitInput{
		UserID:      userID,
		HabitFields: suggestion.HabitFields(),
	})
}

// AdoptDefault adopts one of the built-in suggestions by id.
func (s *SuggestionService) AdoptDefault(ctx context.Context, userID, suggestionID string) (*HabitResult, error) {
	for _, sg := range domain.DefaultSuggestions {
		if sg.ID == suggestionID {
			return s.Adopt(ctx, userID, sg)
		}
	}
	return nil, domain.ErrSuggestionNotFound
}
