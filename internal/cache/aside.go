package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Aside implements the cache-aside pattern: on a hit, dest is populated
// from Redis; on a miss, fetch is called and its result (left in dest by
// the caller's closure) is stored under key with the given TTL.
// When Redis is unavailable the fetch runs directly and nothing is cached.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	raw, err := client.Get(ctx, key).Bytes()
	if err == nil {
		if unmarshalErr := json.Unmarshal(raw, dest); unmarshalErr == nil {
			return nil
		}
		// Corrupt entry: drop it and fall through to the fetch path.
		client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		// Redis error other than a miss: serve from the source of truth.
		return fetch()
	}

	if err := fetch(); err != nil {
		return err
	}

	encoded, err := json.Marshal(dest)
	if err != nil {
		// The fetched value is already in dest; caching is best effort.
		return nil
	}
	client.Set(ctx, key, encoded, ttl)
	return nil
}
