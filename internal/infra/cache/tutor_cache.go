package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/tutor-scheduler/internal/metrics"
)

const tutorKeyPattern = "tutors:*"

// TutorCache stores tutor search results as JSON.
type TutorCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewTutorCache(client *redis.Client, ttl time.Duration, m *metrics.Metrics) *TutorCache {
	return &TutorCache{client: client, ttl: ttl, metrics: m}
}

// Get decodes the value at key into dest and reports whether it was there.
func (c *TutorCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.CacheLookup(false)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		_ = c.client.Del(ctx, key).Err()
		c.metrics.CacheLookup(false)
		return false, nil
	}

	c.metrics.CacheLookup(true)
	return true, nil
}

func (c *TutorCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// InvalidateAll drops every cached tutor listing.
func (c *TutorCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, tutorKeyPattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
