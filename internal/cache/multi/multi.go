package multi

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"go-abi-cache/internal/interfaces"
)

// Ensure MultiStore implements interfaces.Store
var _ interfaces.Store = (*MultiStore)(nil)

// Tier is a named store level
type Tier struct {
	Name  string
	Store interfaces.Store
}

// MultiStore composes store tiers ordered fastest first. The last tier is the
// durable store of record: its errors are returned, while failures of the
// tiers in front of it are logged and skipped.
type MultiStore struct {
	tiers  []Tier
	logger *zap.Logger
}

// NewMultiStore creates a MultiStore over the given tiers
func NewMultiStore(tiers []Tier, logger *zap.Logger) *MultiStore {
	return &MultiStore{
		tiers:  tiers,
		logger: logger,
	}
}

// Load returns the entry from the first tier that has it and back-fills the
// tiers in front of it
func (ms *MultiStore) Load(ctx context.Context, key string) ([]byte, error) {
	if len(ms.tiers) == 0 {
		ms.logger.Warn("No stores available for load operation", zap.String("key", key))
		return nil, interfaces.ErrCacheMiss
	}

	for i, tier := range ms.tiers {
		data, err := tier.Store.Load(ctx, key)
		if err == nil {
			ms.backfill(ctx, key, data, i)
			return data, nil
		}
		if errors.Is(err, interfaces.ErrCacheMiss) {
			continue
		}
		if ms.isDurable(i) {
			return nil, err
		}
		ms.logger.Warn("Store tier load failed, trying next tier",
			zap.String("tier", tier.Name), zap.String("key", key), zap.Error(err))
	}
	return nil, interfaces.ErrCacheMiss
}

// Save writes the entry to the durable tier first and then to the faster
// tiers, so a failed durable write leaves no entry behind in any tier.
// Only a failure of the durable tier is returned.
func (ms *MultiStore) Save(ctx context.Context, key string, data []byte) error {
	if len(ms.tiers) == 0 {
		ms.logger.Warn("No stores available for save operation", zap.String("key", key))
		return nil
	}

	durable := len(ms.tiers) - 1
	if err := ms.tiers[durable].Store.Save(ctx, key, data); err != nil {
		return err
	}

	for _, tier := range ms.tiers[:durable] {
		if err := tier.Store.Save(ctx, key, data); err != nil {
			ms.logger.Warn("Store tier save failed",
				zap.String("tier", tier.Name), zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// GetTierCount returns the number of tiers
func (ms *MultiStore) GetTierCount() int {
	return len(ms.tiers)
}

func (ms *MultiStore) isDurable(i int) bool {
	return i == len(ms.tiers)-1
}

// backfill copies an entry found at tier hit into the faster tiers before it
func (ms *MultiStore) backfill(ctx context.Context, key string, data []byte, hit int) {
	for i := 0; i < hit; i++ {
		if err := ms.tiers[i].Store.Save(ctx, key, data); err != nil {
			ms.logger.Debug("Failed to back-fill store tier",
				zap.String("tier", ms.tiers[i].Name), zap.String("key", key), zap.Error(err))
		}
	}
}
