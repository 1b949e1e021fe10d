package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const anchorKeyPrefix = "hr:attempt:anchor:"

// AnchorCache remembers when a user first attempted a testing. The value
// never changes once written, so only hits are stored.
type AnchorCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewAnchorCache(rdb *redis.Client, ttl time.Duration) *AnchorCache {
	return &AnchorCache{Redis: rdb, TTL: ttl}
}

func anchorKey(userID, testingID string) string {
	return fmt.Sprintf("%s%s:%s", anchorKeyPrefix, userID, testingID)
}

// Get reports the cached anchor. ok is false on a miss.
func (c *AnchorCache) Get(ctx context.Context, userID, testingID string) (time.Time, bool, error) {
	if c.Redis == nil {
		return time.Time{}, false, nil
	}
	ms, err := c.Redis.Get(ctx, anchorKey(userID, testingID)).Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get anchor: %w", err)
	}
	return time.UnixMilli(ms).UTC(), true, nil
}

func (c *AnchorCache) Set(ctx context.Context, userID, testingID string, anchor time.Time) error {
	if c.Redis == nil {
		return nil
	}
	if err := c.Redis.Set(ctx, anchorKey(userID, testingID), anchor.UnixMilli(), c.TTL).Err(); err != nil {
		return fmt.Errorf("set anchor: %w", err)
	}
	return nil
}

// DropTesting forgets every anchor of testingID.
func (c *AnchorCache) DropTesting(ctx context.Context, testingID string) error {
	if c.Redis == nil {
		return nil
	}
	iter := c.Redis.Scan(ctx, 0, anchorKeyPrefix+"*:"+testingID, 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan anchors: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.Redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("drop anchors: %w", err)
	}
	return nil
}
