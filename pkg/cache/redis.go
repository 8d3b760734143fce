package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "marketpulse"

// Redis implements Store backed by go-redis.
type Redis struct {
	client *redis.Client
}

// NewRedis connects and verifies the Redis instance.
func NewRedis(addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := encodeValue(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, wrapKey(key), b, ttl).Err()
}

func (r *Redis) Get(ctx context.Context, key string, dest interface{}) error {
	b, err := r.client.Get(ctx, wrapKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return decodeValue(b, dest)
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	wrapped := make([]string, len(keys))
	for i, k := range keys {
		wrapped[i] = wrapKey(k)
	}
	return r.client.Unlink(ctx, wrapped...).Err()
}

// Close closes the connection pool.
func (r *Redis) Close() error { return r.client.Close() }

func wrapKey(key string) string { return keyPrefix + ":" + key }

func encodeValue(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return json.Marshal(value)
	}
}

func decodeValue(b []byte, dest interface{}) error {
	if strPtr, ok := dest.(*string); ok {
		*strPtr = string(b)
		return nil
	}
	return json.Unmarshal(b, dest)
}
