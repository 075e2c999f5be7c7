package driver

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisCachePrefix = "sorch:metasearch:"

// RedisCache stores serialized metasearch responses in Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, redisCachePrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, &DriverError{Op: "RedisCacheGet", Err: err.Error()}
	}
	return data, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, redisCachePrefix+key, value, r.ttl).Err(); err != nil {
		return &DriverError{Op: "RedisCacheSet", Err: err.Error()}
	}
	return nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
