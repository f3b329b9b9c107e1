package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/comitanigiacomo/trackloom/internal/logger"
	"github.com/redis/go-redis/v9"
)

var _ domain.HabitRepository = (*CachedHabitRepository)(nil)

const habitListTTL = 30 * time.Minute

// CachedHabitRepository keeps each user's habit list in Redis in front of the
// durable repository. The durable write always happens first; the cache is
// only touched after it succeeded.
type CachedHabitRepository struct {
	next  domain.HabitRepository
	cache *redis.Client
}

func NewCachedHabitRepository(next domain.HabitRepository, cache *redis.Client) *CachedHabitRepository {
	return &CachedHabitRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedHabitRepository) cacheKey(userID string) string {
	return fmt.Sprintf("habits:%s", userID)
}

func (r *CachedHabitRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		logger.Warn("cache invalidation failed", "user_id", userID, "err", err)
	}
}

func (r *CachedHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var habits []*domain.Habit
		if err := json.Unmarshal([]byte(val), &habits); err == nil {
			return habits, nil
		}

		logger.Warn("corrupted cached habit list, cleaning up key", "user_id", userID)
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		logger.Warn("cache read failed", "user_id", userID, "err", err)
	}

	habits, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(habits); err == nil {
		if setErr := r.cache.Set(ctx, key, data, habitListTTL).Err(); setErr != nil {
			logger.Warn("cache write failed", "user_id", userID, "err", setErr)
		}
	}

	return habits, nil
}

func (r *CachedHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedHabitRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Habit, error) {
	return r.next.ListByIDs(ctx, ids)
}

func (r *CachedHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Create(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}

// Update replaces the habit inside the cached list, keeping the list order.
// A version conflict proves the cached copy is stale, so it is dropped.
func (r *CachedHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Update(ctx, habit); err != nil {
		if errors.Is(err, domain.ErrHabitConflict) {
			r.invalidate(ctx, habit.UserID)
		}
		return err
	}

	if err := r.patch(ctx, habit); err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			logger.Debug("cached habit list changed during patch, invalidating", "user_id", habit.UserID)
			r.invalidate(ctx, habit.UserID)
			return nil
		}
		logger.Warn("cache patch failed, invalidating", "user_id", habit.UserID, "habit_id", habit.ID, "err", err)
		r.invalidate(ctx, habit.UserID)
	}
	return nil
}

// patch swaps the habit inside the cached list under WATCH, so a concurrent
// patch or invalidation of the same key aborts this one with
// redis.TxFailedErr instead of being overwritten by a stale list.
func (r *CachedHabitRepository) patch(ctx context.Context, habit *domain.Habit) error {
	key := r.cacheKey(habit.UserID)

	return r.cache.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		var habits []*domain.Habit
		if err := json.Unmarshal([]byte(val), &habits); err != nil {
			return err
		}

		found := false
		for i, h := range habits {
			if h.ID == habit.ID {
				habits[i] = habit
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("habit %s missing from cached list", habit.ID)
		}

		data, err := json.Marshal(habits)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, redis.KeepTTL)
			return nil
		})
		return err
	}, key)
}

func (r *CachedHabitRepository) Delete(ctx context.Context, id string) error {
	habit, err := r.next.GetByID(ctx, id)
	if err == nil && habit != nil {
		defer r.invalidate(ctx, habit.UserID)
	}

	return r.next.Delete(ctx, id)
}
