package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Aside implements the cache-aside pattern: read the key from Redis, and on
// a miss call load to fill dest from the database, then write it back with
// the given TTL. Redis being down degrades to a plain database read.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func() error) error {
	if client != nil {
		val, err := client.Get(ctx, key).Result()
		if err == nil {
			if unmarshalErr := json.Unmarshal([]byte(val), dest); unmarshalErr == nil {
				return nil
			}
			// Corrupt entry, drop it and fall through to the loader.
			client.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) && !errors.Is(err, context.Canceled) {
			// Treat any other Redis failure as a miss.
			_ = err
		}
	}

	if err := load(); err != nil {
		return err
	}

	if client != nil {
		if data, err := json.Marshal(dest); err == nil {
			client.Set(ctx, key, data, ttl)
		}
	}
	return nil
}
