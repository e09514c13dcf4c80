// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package tours

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/wayfarer-travel/wayfarer/internal/platform/constants"
)

// RedisStatsCache caches the aggregate reports in Redis with a fixed TTL.
//
// The cache is strictly best-effort: any Redis failure degrades to a miss
// (reads) or a skipped write, and the report is recomputed from PostgreSQL.
type RedisStatsCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisStatsCache(client *redis.Client, logger *slog.Logger) *RedisStatsCache {
	return &RedisStatsCache{client: client, logger: logger}
}

func (cache *RedisStatsCache) GetDifficultyStats(ctx context.Context) ([]DifficultyStats, bool) {
	var stats []DifficultyStats
	if !cache.get(ctx, constants.RedisPrefixTourStats, &stats) {
		return nil, false
	}
	return stats, true
}

func (cache *RedisStatsCache) SetDifficultyStats(ctx context.Context, stats []DifficultyStats) {
	cache.set(ctx, constants.RedisPrefixTourStats, stats)
}

func (cache *RedisStatsCache) GetMonthlyPlan(ctx context.Context, year int) ([]MonthlyStat, bool) {
	var plan []MonthlyStat
	if !cache.get(ctx, monthlyKey(year), &plan) {
		return nil, false
	}
	return plan, true
}

func (cache *RedisStatsCache) SetMonthlyPlan(ctx context.Context, year int, plan []MonthlyStat) {
	cache.set(ctx, monthlyKey(year), plan)
}

// get unmarshals the cached JSON at key into target, reporting a hit.
func (cache *RedisStatsCache) get(ctx context.Context, key string, target any) bool {
	payload, err := cache.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			cache.logger.Warn("stats_cache_read_failed", slog.String("key", key), slog.Any("error", err))
		}
		return false
	}

	if err := json.Unmarshal(payload, target); err != nil {
		cache.logger.Warn("stats_cache_decode_failed", slog.String("key", key), slog.Any("error", err))
		return false
	}

	return true
}

// set marshals value as JSON and stores it with the standard stats TTL.
func (cache *RedisStatsCache) set(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		cache.logger.Warn("stats_cache_encode_failed", slog.String("key", key), slog.Any("error", err))
		return
	}

	if err := cache.client.Set(ctx, key, payload, constants.StatsCacheTTL).Err(); err != nil {
		cache.logger.Warn("stats_cache_write_failed", slog.String("key", key), slog.Any("error", err))
	}
}

func monthlyKey(year int) string {
	return constants.RedisPrefixMonthlyStats + strconv.Itoa(year)
}
