package l1

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"go-abi-cache/internal/config"
	"go-abi-cache/internal/interfaces"
	"go-abi-cache/internal/metrics"
	"go-abi-cache/internal/scheduler"
)

const (
	level = "l1"

	// Interface entries never expire; bigcache only displaces them when full
	lifeWindow = 100 * 365 * 24 * time.Hour

	// Fewer shards than the default keep each shard large enough for a whole interface list
	shards = 64
)

// Ensure BigCache implements interfaces.Store
var _ interfaces.Store = (*BigCache)(nil)

// BigCache implements the bounded in-memory L1 tier using BigCache
type BigCache struct {
	cache            *bigcache.BigCache
	logger           *zap.Logger
	metricsScheduler *scheduler.Scheduler
}

// NewBigCache creates a new BigCache instance
func NewBigCache(bigcacheCfg *config.BigCacheConfig, logger *zap.Logger) (*BigCache, error) {
	cfg := bigcache.DefaultConfig(lifeWindow)
	// No time based cleanup: entries leave only when the size bound is hit
	cfg.CleanWindow = 0
	cfg.Shards = shards
	cfg.HardMaxCacheSize = bigcacheCfg.Size // Size in MB
	cfg.MaxEntrySize = bigcacheCfg.MaxEntrySize
	cfg.Verbose = false

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	bc := &BigCache{
		cache:  cache,
		logger: logger,
	}

	// Start periodic metrics collection
	bc.startMetricsCollection()

	return bc, nil
}

// Load retrieves an entry from memory
func (bc *BigCache) Load(_ context.Context, key string) ([]byte, error) {
	data, err := bc.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, interfaces.ErrCacheMiss
		}
		metrics.RecordStoreError(level, "read")
		return nil, fmt.Errorf("l1 get %s: %w", key, err)
	}

	metrics.RecordStoreHit(level)
	return data, nil
}

// Save stores an entry in memory
func (bc *BigCache) Save(_ context.Context, key string, data []byte) error {
	if err := bc.cache.Set(key, data); err != nil {
		bc.logger.Error("Failed to set cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError(level, "write")
		return fmt.Errorf("l1 set %s: %w", key, err)
	}
	return nil
}

// Close closes the cache
func (bc *BigCache) Close() error {
	// Stop metrics collection
	bc.stopMetricsCollection()

	return bc.cache.Close()
}

// GetStats returns the allocated capacity in bytes and the number of entries
func (bc *BigCache) GetStats() (capacity, entries int64) {
	return int64(bc.cache.Capacity()), int64(bc.cache.Len())
}

// startMetricsCollection starts periodic metrics collection
func (bc *BigCache) startMetricsCollection() {
	bc.metricsScheduler = scheduler.New(30*time.Second, bc.updateMetrics)
	bc.metricsScheduler.Start()

	// Initial collection
	bc.updateMetrics()

	bc.logger.Debug("Started L1 cache metrics collection")
}

// stopMetricsCollection stops periodic metrics collection
func (bc *BigCache) stopMetricsCollection() {
	if bc.metricsScheduler != nil {
		bc.metricsScheduler.Stop()
		bc.logger.Debug("Stopped L1 cache metrics collection")
	}
}

// updateMetrics updates cache metrics
func (bc *BigCache) updateMetrics() {
	capacity, entries := bc.GetStats()
	metrics.UpdateL1CacheCapacity(capacity)
	metrics.UpdateCacheKeys(level, entries)
}
