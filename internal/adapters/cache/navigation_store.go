package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

var _ domain.NavigationStore = (*RedisNavigationStore)(nil)

type RedisNavigationStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisNavigationStore stores screen state per session. ttl should match
// the session lifetime so the state never outlives its login.
func NewRedisNavigationStore(rdb *redis.Client, ttl time.Duration) *RedisNavigationStore {
	return &RedisNavigationStore{rdb: rdb, ttl: ttl}
}

func navigationKey(sessionID string) string {
	return fmt.Sprintf("nav:%s", sessionID)
}

func (s *RedisNavigationStore) Get(ctx context.Context, sessionID string) (*domain.Navigation, error) {
	val, err := s.rdb.Get(ctx, navigationKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNavigationNotFound
	}
	if err != nil {
		return nil, err
	}

	var nav domain.Navigation
	if err := json.Unmarshal(val, &nav); err != nil {
		return nil, fmt.Errorf("corrupted navigation state %s: %w", sessionID, err)
	}
	return &nav, nil
}

func (s *RedisNavigationStore) Save(ctx context.Context, sessionID string, nav *domain.Navigation) error {
	data, err := json.Marshal(nav)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, navigationKey(sessionID), data, s.ttl).Err()
}

func (s *RedisNavigationStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, navigationKey(sessionID)).Err()
}
