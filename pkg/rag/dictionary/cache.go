package dictionary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores resolved definitions so repeated terms skip the lookup chain.
type Cache interface {
	Get(ctx context.Context, term string) (Result, bool)
	Set(ctx context.Context, result Result)
}

// RedisCache keeps definitions in redis under a term-keyed namespace. All
// failures degrade to cache misses so resolution never depends on redis
// being up.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(term string) string {
	return fmt.Sprintf("dictionary:definition:%s", strings.ToLower(strings.TrimSpace(term)))
}

func (c *RedisCache) Get(ctx context.Context, term string) (Result, bool) {
	if c == nil || c.client == nil {
		return Result{}, false
	}

	val, err := c.client.HGetAll(ctx, cacheKey(term)).Result()
	if err != nil || len(val) == 0 {
		return Result{}, false
	}

	return Result{
		Term:       term,
		Tier:       Tier(val["tier"]),
		Definition: val["definition"],
	}, true
}

func (c *RedisCache) Set(ctx context.Context, result Result) {
	if c == nil || c.client == nil || result.Tier == TierNone {
		return
	}

	key := cacheKey(result.Term)
	c.client.HSet(ctx, key, map[string]interface{}{
		"tier":       string(result.Tier),
		"definition": result.Definition,
	})
	c.client.Expire(ctx, key, c.ttl)
}
