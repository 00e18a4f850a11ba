package noop

import (
	"context"

	"go-abi-cache/internal/interfaces"
)

// Ensure NoOpStore implements interfaces.Store
var _ interfaces.Store = (*NoOpStore)(nil)

// NoOpStore is a no-operation store for disabled tiers
type NoOpStore struct{}

// NewNoOpStore creates a new no-operation store instance
func NewNoOpStore() *NoOpStore {
	return &NoOpStore{}
}

// Load always returns a miss
func (n *NoOpStore) Load(_ context.Context, _ string) ([]byte, error) {
	return nil, interfaces.ErrCacheMiss
}

// Save does nothing
func (n *NoOpStore) Save(_ context.Context, _ string, _ []byte) error {
	return nil
}
