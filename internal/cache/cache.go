// Package cache shares job snapshots between gateway instances through Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"aicreat-gateway/internal/models"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL keeps a finished job around long enough for the dashboard to
// pick up its results.
const DefaultTTL = 24 * time.Hour

// JobCache stores the latest view of each watched job. Implementations must
// be safe for concurrent use.
type JobCache interface {
	PutJob(ctx context.Context, view models.JobView) error
	GetJob(ctx context.Context, jobID string) (*models.JobView, bool, error)
	Ping(ctx context.Context) error
}

// RedisCache implements JobCache using go-redis/v9.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache from a Redis URL.
func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

// JobKey is the Redis key of a job's snapshot.
func JobKey(jobID string) string {
	return "aicreat:job:" + jobID
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) PutJob(ctx context.Context, view models.JobView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal job view: %w", err)
	}
	return c.client.Set(ctx, JobKey(view.JobID), data, c.ttl).Err()
}

func (c *RedisCache) GetJob(ctx context.Context, jobID string) (*models.JobView, bool, error) {
	data, err := c.client.Get(ctx, JobKey(jobID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var view models.JobView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, false, fmt.Errorf("failed to decode job view: %w", err)
	}
	return &view, true, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
