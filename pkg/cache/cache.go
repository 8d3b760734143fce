// Package cache provides the response cache in front of the historical
// candle queries: a Redis-backed store when configured, an in-memory
// TTL store otherwise.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Store is the minimal cache surface the read path uses.
type Store interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// GetTyped fetches and unmarshals a cached value.
func GetTyped[T any](ctx context.Context, s Store, key string) (T, error) {
	var out T
	var raw string
	if err := s.Get(ctx, key, &raw); err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, err
	}
	return out, nil
}
