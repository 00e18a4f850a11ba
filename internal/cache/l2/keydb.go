package l2

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-abi-cache/internal/config"
	"go-abi-cache/internal/interfaces"
	"go-abi-cache/internal/metrics"
)

const level = "l2"

// keyPrefix namespaces interface entries inside a shared KeyDB instance
const keyPrefix = "abi:"

// Ensure KeyDBCache implements interfaces.Store
var _ interfaces.Store = (*KeyDBCache)(nil)

// KeyDBCache implements the shared L2 tier using Redis/KeyDB
type KeyDBCache struct {
	client interfaces.KeyDbClient
	config *config.KeyDBConfig
	logger *zap.Logger
}

// NewKeyDBCache creates a new KeyDBCache instance with provided client
func NewKeyDBCache(cfg *config.KeyDBConfig, client interfaces.KeyDbClient, logger *zap.Logger) *KeyDBCache {
	return &KeyDBCache{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// Load retrieves an entry from KeyDB
func (kc *KeyDBCache) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, kc.config.Connection.ReadTimeout)
	defer cancel()

	data, err := kc.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, interfaces.ErrCacheMiss
		}
		kc.logger.Error("L2 cache get error", zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError(level, "read")
		return nil, fmt.Errorf("l2 get %s: %w", key, err)
	}

	metrics.RecordStoreHit(level)
	return data, nil
}

// Save stores an entry in KeyDB without expiration
func (kc *KeyDBCache) Save(ctx context.Context, key string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, kc.config.Connection.SendTimeout)
	defer cancel()

	if err := kc.client.Set(ctx, keyPrefix+key, data, 0).Err(); err != nil {
		kc.logger.Error("Failed to set L2 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError(level, "write")
		return fmt.Errorf("l2 set %s: %w", key, err)
	}
	return nil
}

// Close closes the KeyDB connection
func (kc *KeyDBCache) Close() error {
	return kc.client.Close()
}
