package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const quoteTTL = 5 * time.Minute

// QuoteCache is a short-TTL cache for resolved quotes. All methods are safe
// on a nil receiver so the core runs without redis configured.
type QuoteCache struct {
	client *redis.Client
}

func NewQuoteCache(addr string) *QuoteCache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("[Cache] redis unreachable at %s, quotes will not be cached: %v", addr, err)
		return nil
	}
	return &QuoteCache{client: client}
}

func (c *QuoteCache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (c *QuoteCache) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, quoteTTL).Err(); err != nil {
		log.Printf("[Cache] failed to store %s: %v", key, err)
	}
}

func (c *QuoteCache) Close() {
	if c == nil {
		return
	}
	c.client.Close()
}
