package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/finsight-hq/finsight-api/internal/logger"
)

// ChartCache wraps Redis with degrade-on-error semantics: a failing or slow
// cache is treated as a miss (get) or a no-op (set) and never surfaces an
// error into the chart generation path.
type ChartCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewChartCache connects to Redis using a redis:// URL and applies the given
// entry TTL
func NewChartCache(redisURL string, ttl time.Duration) (*ChartCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse redis URL")
	}
	return &ChartCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

// NewChartCacheWithClient wires an existing client, used by tests
func NewChartCacheWithClient(client *redis.Client, ttl time.Duration) *ChartCache {
	return &ChartCache{client: client, ttl: ttl}
}

// SafeGet loads and unmarshals a cached value into target. Returns false on a
// miss and on any cache failure.
func (c *ChartCache) SafeGet(ctx context.Context, key string, target interface{}) bool {
	payload, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		logger.Warn("cache get failed, treating as miss",
			zap.String("key", key),
			zap.Error(err))
		return false
	}
	if err := json.Unmarshal([]byte(payload), target); err != nil {
		logger.Warn("cached payload is not valid JSON, treating as miss",
			zap.String("key", key),
			zap.Error(err))
		return false
	}
	return true
}

// SafeSet marshals and stores a value under the configured TTL. Failures are
// logged and swallowed.
func (c *ChartCache) SafeSet(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		logger.Warn("failed to marshal value for cache",
			zap.String("key", key),
			zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Warn("cache set failed, skipping",
			zap.String("key", key),
			zap.Error(err))
	}
}

// InvalidateChart deletes every cache entry derived for one chart id and
// returns the number of entries removed
func (c *ChartCache) InvalidateChart(ctx context.Context, chartID string) (int64, error) {
	var deleted int64
	iter := c.client.Scan(ctx, 0, ChartKeyPattern(chartID), 100).Iterator()
	for iter.Next(ctx) {
		n, err := c.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return deleted, errors.Wrap(err, "failed to delete cache entry")
		}
		deleted += n
	}
	if err := iter.Err(); err != nil {
		return deleted, errors.Wrap(err, "failed to scan cache entries")
	}
	return deleted, nil
}

// Close releases the underlying Redis connection
func (c *ChartCache) Close() error {
	return c.client.Close()
}
