package services

import (
	"context"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
)

type BadgeService struct {
	habitRepo domain.HabitRepository
}

func NewBadgeService(habitRepo domain.HabitRepository) *BadgeService {
	return &BadgeService{habitRepo: habitRepo}
}

// List evaluates every badge against the user's current habits and filters
// by category ("" or "All" keeps everything).
func (s *BadgeService) List(ctx context.Context, userID, category string) ([]domain.Badge, error) {
	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return domain.FilterBadges(domain.EvaluateBadges(habits), category)
}
