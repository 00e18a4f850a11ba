package interfaces

import (
	"context"
	"errors"
)

//go:generate mockgen -package=mock -source=store.go -destination=mock/store.go

// ErrCacheMiss is returned by Store.Load when no entry exists for the key.
// A miss is a normal branch, not a failure.
var ErrCacheMiss = errors.New("cache miss")

// Store is the key-value persistence layer behind the interface cache.
// Entries are written once and never expire or get deleted.
type Store interface {
	// Load returns the stored bytes, ErrCacheMiss if absent, or any other error on backend failure
	Load(ctx context.Context, key string) ([]byte, error)
	// Save writes the bytes under key
	Save(ctx context.Context, key string, data []byte) error
}
