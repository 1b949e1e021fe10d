package repository

import (
	"context"
	"testing"
	"time"

	"hr_recruit_backend/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestAnchorCache(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	cache := NewAnchorCache(rdb, time.Hour)

	_, ok, err := cache.Get(ctx, "u1", "t1")
	require.NoError(t, err)
	assert.False(t, ok)

	anchor := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	require.NoError(t, cache.Set(ctx, "u1", "t1", anchor))
	require.NoError(t, cache.Set(ctx, "u2", "t1", anchor))
	require.NoError(t, cache.Set(ctx, "u1", "t2", anchor))
	assert.True(t, mr.Exists("hr:attempt:anchor:u1:t1"))

	got, ok, err := cache.Get(ctx, "u1", "t1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, anchor.Equal(got))

	require.NoError(t, cache.DropTesting(ctx, "t1"))
	assert.False(t, mr.Exists("hr:attempt:anchor:u1:t1"))
	assert.False(t, mr.Exists("hr:attempt:anchor:u2:t1"))
	assert.True(t, mr.Exists("hr:attempt:anchor:u1:t2"))
}

func TestAnchorCacheWithoutRedis(t *testing.T) {
	cache := NewAnchorCache(nil, time.Hour)
	_, ok, err := cache.Get(context.Background(), "u1", "t1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cache.Set(context.Background(), "u1", "t1", time.Now()))
}

func TestApprovedCache(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	cache := NewApprovedCache(rdb, time.Minute)

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	rows := []model.ApprovedRequest{{
		UserID:       "u1",
		VacancyID:    "v1",
		VacancyTitle: "Go developer",
		VacancyState: model.VacancyOpened,
		Testings:     []model.ApprovedTesting{{ID: "t1", Title: "Basics", BestPercent: 80}},
	}}
	require.NoError(t, cache.Set(ctx, rows))

	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rows[0].Testings, got[0].Testings)
	assert.Equal(t, "Go developer", got[0].VacancyTitle)

	require.NoError(t, cache.Invalidate(ctx))
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
