package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sangkumfund/internal/status"

	"github.com/redis/go-redis/v9"
)

const DefaultSnapshotKey = "console:dashboard:snapshot"

// RedisSnapshotCache keeps the last published snapshot so a restarted
// console can serve it before its first refresh completes.
type RedisSnapshotCache struct {
	redis redis.Cmdable
	key   string
	ttl   time.Duration
}

func NewRedisSnapshotCache(rdb redis.Cmdable, key string, ttl time.Duration) *RedisSnapshotCache {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &RedisSnapshotCache{redis: rdb, key: key, ttl: ttl}
}

func (c *RedisSnapshotCache) Publish(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot cache: encode: %w", err)
	}
	if err := c.redis.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("snapshot cache: set: %w", err)
	}
	return nil
}

// Load returns the cached snapshot or status.ErrCacheMiss.
func (c *RedisSnapshotCache) Load(ctx context.Context) (*Snapshot, error) {
	data, err := c.redis.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, status.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot cache: get: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("snapshot cache: decode: %w", err)
	}
	return &snap, nil
}
