package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "reports:"

// ReportCache keeps report results in Redis as JSON.
// A cache built on a nil client is disabled and always misses.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a report cache with the given entry lifetime
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Enabled reports whether a Redis client is wired
func (c *ReportCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get decodes the entry under key into dest. ok is false on a miss.
func (c *ReportCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		// drop entries written by an older layout
		c.client.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

// Set stores value under key for the configured TTL
func (c *ReportCache) Set(ctx context.Context, key string, value interface{}) error {
	if !c.Enabled() {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Invalidate removes every report entry
func (c *ReportCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	var keys []string
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
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
