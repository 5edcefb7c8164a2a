// Package ratecache caches the current rate sheet. The redis-backed cache is
// used when an address is configured so multiple instances share one fetch; a
// process-local cache covers single-instance deployments.
package ratecache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/atvirokodosprendimai/mortgageapi/internal/core/domain"
)

const currentSheetKey = "rates:current"

type cachedSheet struct {
	ID          string            `json:"id"`
	Rates       map[int][]float64 `json:"rates"`
	Fingerprint string            `json:"fingerprint"`
	Source      string            `json:"source"`
	FetchedAt   time.Time         `json:"fetched_at"`
	CreatedAt   time.Time         `json:"created_at"`
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Get returns the cached sheet. Any redis or decode failure reads as a miss;
// the caller falls through to sqlite.
func (c *RedisCache) Get(ctx context.Context) (domain.RateSheet, bool) {
	raw, err := c.client.Get(ctx, currentSheetKey).Result()
	if err != nil {
		return domain.RateSheet{}, false
	}

	var cached cachedSheet
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return domain.RateSheet{}, false
	}

	return domain.RateSheet{
		ID:          cached.ID,
		Table:       domain.RateTable(cached.Rates),
		Fingerprint: cached.Fingerprint,
		Source:      cached.Source,
		FetchedAt:   cached.FetchedAt,
		CreatedAt:   cached.CreatedAt,
	}, true
}

func (c *RedisCache) Set(ctx context.Context, sheet domain.RateSheet) error {
	encoded, err := json.Marshal(cachedSheet{
		ID:          sheet.ID,
		Rates:       sheet.Table,
		Fingerprint: sheet.Fingerprint,
		Source:      sheet.Source,
		FetchedAt:   sheet.FetchedAt,
		CreatedAt:   sheet.CreatedAt,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, currentSheetKey, string(encoded), c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
