// Package cache keeps short-lived availability answers in Redis.
package cache

import (
	"context"
	"errors"
	"time"

	"hall-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "availability"

// AvailabilityCache stores "1" (available) or "0" per hall and date.
// With a nil client every lookup misses and writes are dropped.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *AvailabilityCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AvailabilityCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With(zap.String("component", "availability_cache")),
	}
}

func Key(hallID uuid.UUID, date time.Time) string {
	return keyPrefix + ":" + hallID.String() + ":" + date.Format(entity.DateLayout)
}

func (c *AvailabilityCache) Get(ctx context.Context, hallID uuid.UUID, date time.Time) (bool, bool) {
	if c.rdb == nil {
		return false, false
	}

	val, err := c.rdb.Get(ctx, Key(hallID, date)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false
	}
	if err != nil {
		c.log.Warn("Cache read failed", zap.Error(err))
		return false, false
	}

	return val == "1", true
}

func (c *AvailabilityCache) Set(ctx context.Context, hallID uuid.UUID, date time.Time, available bool) {
	if c.rdb == nil {
		return
	}

	val := "0"
	if available {
		val = "1"
	}
	if err := c.rdb.Set(ctx, Key(hallID, date), val, c.ttl).Err(); err != nil {
		c.log.Warn("Cache write failed", zap.Error(err))
	}
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, hallID uuid.UUID, date time.Time) {
	if c.rdb == nil {
		return
	}

	if err := c.rdb.Del(ctx, Key(hallID, date)).Err(); err != nil {
		c.log.Warn("Cache invalidate failed", zap.Error(err))
	}
}
