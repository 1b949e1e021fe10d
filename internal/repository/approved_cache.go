package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hr_recruit_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

const approvedKey = "hr:approved:requests"

// ApprovedCache holds the last computed approved-candidates report.
type ApprovedCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewApprovedCache(rdb *redis.Client, ttl time.Duration) *ApprovedCache {
	return &ApprovedCache{Redis: rdb, TTL: ttl}
}

func (c *ApprovedCache) Get(ctx context.Context) ([]model.ApprovedRequest, bool, error) {
	if c.Redis == nil {
		return nil, false, nil
	}
	data, err := c.Redis.Get(ctx, approvedKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get approved report: %w", err)
	}
	var rows []model.ApprovedRequest
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false, fmt.Errorf("decode approved report: %w", err)
	}
	return rows, true, nil
}

func (c *ApprovedCache) Set(ctx context.Context, rows []model.ApprovedRequest) error {
	if c.Redis == nil {
		return nil
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode approved report: %w", err)
	}
	if err := c.Redis.Set(ctx, approvedKey, data, c.TTL).Err(); err != nil {
		return fmt.Errorf("set approved report: %w", err)
	}
	return nil
}

func (c *ApprovedCache) Invalidate(ctx context.Context) error {
	if c.Redis == nil {
		return nil
	}
	return c.Redis.Del(ctx, approvedKey).Err()
}
