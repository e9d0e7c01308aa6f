package repository

import (
	"bizdiag_backend/pkg/logger"
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// jsonCache is a best effort read-through cache. Every method is a no-op on a
// nil client and redis failures are logged, never returned.
type jsonCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func (c jsonCache) enabled() bool {
	return c.rdb != nil && c.ttl > 0
}

func (c jsonCache) get(ctx context.Context, key string, dst interface{}) bool {
	if !c.enabled() {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Log.Warn("Cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c jsonCache) set(ctx context.Context, key string, v interface{}) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
