package storage

import "context"

// Store is a durable key-value store. Cart state survives restarts through it;
// which backend is used is a deployment choice (see FromEnv).
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
