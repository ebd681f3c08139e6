package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"supply-route-service/internal/domain"
	"supply-route-service/internal/platform/obs"
	"supply-route-service/internal/ports"

	redis "github.com/redis/go-redis/v9"
)

// RedisRunCache keeps finished runs under allocation:run:<id> and points
// allocation:latest:<period> at the newest one. Both keys expire after TTL.
type RedisRunCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRunCache(rdb *redis.Client, ttl time.Duration) *RedisRunCache {
	return &RedisRunCache{rdb: rdb, ttl: ttl}
}

// NewRedisRunCacheFromURL parses a redis:// URL and builds the client.
func NewRedisRunCacheFromURL(url string, ttl time.Duration) (*RedisRunCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis run cache: parse url: %w", err)
	}
	return NewRedisRunCache(redis.NewClient(opt), ttl), nil
}

func (c *RedisRunCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisRunCache) Close() error {
	return c.rdb.Close()
}

func (c *RedisRunCache) PutRun(ctx context.Context, result *domain.AllocationResult) (err error) {
	defer obs.Time(ctx, "run.cache.PutRun")(&err)

	if result == nil || strings.TrimSpace(result.RunID) == "" {
		return errors.New("put run: run id must not be empty")
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("put run %s: encode: %w", result.RunID, err)
	}

	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, runKey(result.RunID), data, c.ttl)
	pipe.Set(ctx, latestKey(result.Period), result.RunID, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put run %s: %w", result.RunID, err)
	}

	return nil
}

func (c *RedisRunCache) LatestRun(ctx context.Context, period string) (_ *domain.AllocationResult, err error) {
	defer obs.Time(ctx, "run.cache.LatestRun")(&err)

	id, err := c.rdb.Get(ctx, latestKey(period)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("latest run period=%q: %w", period, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest run period=%q: %w", period, err)
	}

	return c.Run(ctx, id)
}

// Run returns a cached run by id.
func (c *RedisRunCache) Run(ctx context.Context, id string) (*domain.AllocationResult, error) {
	data, err := c.rdb.Get(ctx, runKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("run %s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}

	var res domain.AllocationResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("run %s: decode: %w", id, err)
	}
	return &res, nil
}

func runKey(id string) string        { return "allocation:run:" + id }
func latestKey(period string) string { return "allocation:latest:" + period }
