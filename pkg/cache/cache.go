// Package cache stores fit results and downloaded sources between runs.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entries under a directory (the CLI default)
//   - [RedisCache]: a shared redis instance
//   - [NullCache]: stores nothing
//
// Keys come from a [Keyer] so that every component names entries the same
// way. Values are opaque bytes; [GetJSON] and [SetJSON] handle the common
// case of JSON documents.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is a byte store with per-entry expiry. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// GetJSON loads key into v. Entries that no longer decode are treated as
// misses.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetJSON stores v under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
