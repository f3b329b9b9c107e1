package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

var _ domain.UsageLimiter = (*RedisUsageLimiter)(nil)

// RedisUsageLimiter allows up to limit calls per user per UTC day.
type RedisUsageLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	now    func() time.Time
}

func NewRedisUsageLimiter(rdb *redis.Client, prefix string, limit int) *RedisUsageLimiter {
	return &RedisUsageLimiter{
		rdb:    rdb,
		prefix: prefix,
		limit:  int64(limit),
		now:    time.Now,
	}
}

func (l *RedisUsageLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	now := l.now().UTC()
	key := fmt.Sprintf("quota:%s:%s:%s", l.prefix, userID, now.Format(domain.DayLayout))

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 25*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return incr.Val() <= l.limit, nil
}
