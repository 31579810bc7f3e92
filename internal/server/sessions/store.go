// Package sessions is the credential store: a key-value cache mapping
// session tokens to user ids with a fixed time-to-live.
package sessions

import (
	"context"
	"time"
)

// Store is a key-value store with per-key expiry. Expired keys are evicted
// by the backend itself; Get never returns them.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns found=false for absent or expired keys.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Delete reports whether the key existed. Exactly one of several
	// concurrent deletes of the same key sees true.
	Delete(ctx context.Context, key string) (bool, error)
}
