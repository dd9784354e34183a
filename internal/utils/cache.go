package utils

import (
	"context" // Context for Redis operations
	"errors"  // redis.Nil checks
	"fmt"     // Key formatting
	"time"    // Time durations

	"github.com/goccy/go-json"     // JSON encoding/decoding
	"github.com/redis/go-redis/v9" // Redis client
)

// Cache key prefixes for the public list endpoints
const (
	CacheKeyMenus   = "nav:menus"
	CacheKeyCards   = "nav:cards"
	CacheKeyAds     = "nav:ads"
	CacheKeyFriends = "nav:friends"
)

// Cache stores rendered list responses in Redis.
// A nil *Cache is valid and never hits, so callers need no feature checks.
//
// List keys carry a per-prefix generation ("prefix:gen") that Invalidate bumps.
// A reader resolves its key before querying, so a result computed before a
// write lands under the old generation and is never served afterwards.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache wraps a Redis client. It returns nil when rdb is nil.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// ListKey returns the key for a list under prefix at the current generation,
// e.g. "nav:cards:g3:menu=all". It returns "" on a nil cache.
func (c *Cache) ListKey(ctx context.Context, prefix, suffix string) (string, error) {
	if c == nil {
		return "", nil
	}
	gen, err := c.rdb.Get(ctx, generationKey(prefix)).Int64()
	if errors.Is(err, redis.Nil) {
		gen = 0 // Never invalidated
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:g%d%s", prefix, gen, suffix), nil
}

func generationKey(prefix string) string {
	return prefix + ":gen"
}

// Get retrieves a value from Redis and unmarshals it into dest
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}
	val, err := c.rdb.Get(ctx, key).Bytes() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value in Redis with the cache TTL
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err() // Set value in Redis with TTL
}

// Invalidate bumps the generation of each prefix, then deletes the prefix key
// and every list nested under it ("prefix:*")
func (c *Cache) Invalidate(ctx context.Context, prefixes ...string) error {
	if c == nil {
		return nil
	}
	for _, prefix := range prefixes {
		genKey := generationKey(prefix)
		if err := c.rdb.Incr(ctx, genKey).Err(); err != nil {
			return err
		}
		keys := []string{prefix}
		iter := c.rdb.Scan(ctx, 0, prefix+":*", 100).Iterator()
		for iter.Next(ctx) {
			if key := iter.Val(); key != genKey {
				keys = append(keys, key)
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}
