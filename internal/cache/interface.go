package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache defines the interface for cache backends. Values are opaque bytes;
// a ttl of zero or less uses the backend default.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// GetJSON decodes the value at key into dst. A miss or a corrupt entry reports false.
func GetJSON(ctx context.Context, c Cache, key string, dst interface{}) bool {
	data, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// SetJSON encodes value and stores it at key
func SetJSON(ctx context.Context, c Cache, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}
