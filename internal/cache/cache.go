// Package cache defines the expiring key-value store backing sessions.
package cache

import (
	"context"
	"time"
)

// Cache is an expiring key-value store. Set must be atomic with its TTL so a
// session entry can never exist without an expiry.
type Cache interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns the value for key, or common.ErrNotFound when the key is
	// absent or has expired.
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
	// Ping probes liveness of the underlying store.
	Ping(ctx context.Context) error
}
