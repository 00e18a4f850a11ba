package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"go-abi-cache/internal/interfaces"
	"go-abi-cache/internal/metrics"
	"go-abi-cache/internal/models"
	"go-abi-cache/internal/normalizer"
)

// Ensure InterfaceService implements interfaces.InterfaceFetcher
var _ interfaces.InterfaceFetcher = (*InterfaceService)(nil)

// InterfaceService answers "which functions does this bytecode expose" through
// the store, falling back to the decompiler on a miss
type InterfaceService struct {
	store            interfaces.Store
	keyDeriver       interfaces.KeyDeriver
	decompiler       interfaces.Decompiler
	decompileTimeout time.Duration
	group            singleflight.Group
	logger           *zap.Logger
}

// NewInterfaceService creates a new interface service. A zero decompileTimeout
// lets the decompiler run as long as the caller's context allows.
func NewInterfaceService(
	store interfaces.Store,
	keyDeriver interfaces.KeyDeriver,
	decompiler interfaces.Decompiler,
	decompileTimeout time.Duration,
	logger *zap.Logger,
) *InterfaceService {
	return &InterfaceService{
		store:            store,
		keyDeriver:       keyDeriver,
		decompiler:       decompiler,
		decompileTimeout: decompileTimeout,
		logger:           logger,
	}
}

// DeriveKey returns the cache key used for bytecode
func (s *InterfaceService) DeriveKey(bytecode string) string {
	return s.keyDeriver.Derive(bytecode)
}

// FetchInterface returns the normalized interface of bytecode, decompiling
// and persisting it on a cache miss. Concurrent calls for the same key share
// one lookup. Every lookup failure is an *Error; when ctx ends first the
// caller gets ctx.Err() while the shared lookup runs on to completion.
func (s *InterfaceService) FetchInterface(ctx context.Context, bytecode string) (*models.FetchResult, error) {
	key := s.keyDeriver.Derive(bytecode)

	// The shared lookup outlives any single caller; each caller still
	// stops waiting when its own context ends.
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.fetch(context.WithoutCancel(ctx), key, bytecode)
	})

	select {
	case res := <-ch:
		if res.Shared {
			metrics.RecordSharedFetch()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return copyResult(res.Val.(*models.FetchResult)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *InterfaceService) fetch(ctx context.Context, key, bytecode string) (*models.FetchResult, error) {
	result, err := s.lookup(ctx, key, bytecode)
	if err != nil {
		metrics.RecordFetch(metrics.ResultError)
		if kind, ok := KindOf(err); ok {
			metrics.RecordFetchError(string(kind))
		}
		s.logger.Error("Interface fetch failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (s *InterfaceService) lookup(ctx context.Context, key, bytecode string) (*models.FetchResult, error) {
	data, err := s.store.Load(ctx, key)
	switch {
	case err == nil:
		records, decodeErr := decodeRecords(data)
		if decodeErr == nil {
			metrics.RecordFetch(metrics.ResultHit)
			s.logger.Debug("Interface cache hit", zap.String("key", key), zap.Int("records", len(records)))
			return &models.FetchResult{
				Key:     key,
				Source:  models.SourceCache,
				Records: records,
			}, nil
		}
		// Rebuilt below and overwritten
		metrics.RecordStoreError("service", "corrupt")
		s.logger.Warn("Discarding corrupt cache entry", zap.String("key", key), zap.Error(decodeErr))
	case errors.Is(err, interfaces.ErrCacheMiss):
	default:
		return nil, newError(KindStoreReadFailed, key, err)
	}

	metrics.RecordFetch(metrics.ResultMiss)
	return s.populate(ctx, key, bytecode)
}

func (s *InterfaceService) populate(ctx context.Context, key, bytecode string) (*models.FetchResult, error) {
	raw, err := s.decompile(ctx, bytecode)
	if err != nil {
		return nil, newError(KindDecompileFailed, key, err)
	}

	normalized := normalizer.Normalize(raw)
	rejected := s.reportRejected(key, normalized.Rejected)

	payload, err := json.Marshal(normalized.Records)
	if err != nil {
		return nil, newError(KindStoreWriteFailed, key, fmt.Errorf("failed to encode records: %w", err))
	}
	if err := s.store.Save(ctx, key, payload); err != nil {
		return nil, newError(KindStoreWriteFailed, key, err)
	}

	s.logger.Info("Interface decompiled and cached",
		zap.String("key", key),
		zap.Int("structures", len(raw)),
		zap.Int("records", len(normalized.Records)),
		zap.Int("rejected", len(rejected)))

	return &models.FetchResult{
		Key:      key,
		Source:   models.SourceDecompiler,
		Records:  normalized.Records,
		Rejected: rejected,
	}, nil
}

// decompile runs the engine under a context private to this call
func (s *InterfaceService) decompile(ctx context.Context, bytecode string) ([]models.RawStructure, error) {
	var cancel context.CancelFunc
	if s.decompileTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.decompileTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	observe := metrics.TimeDecompile()
	raw, err := s.decompiler.Decompile(ctx, bytecode)
	if err != nil {
		observe("error")
		return nil, err
	}
	observe("success")
	return raw, nil
}

func (s *InterfaceService) reportRejected(key string, recordErrs []*normalizer.RecordError) []models.RejectedRecord {
	if len(recordErrs) == 0 {
		return nil
	}

	metrics.RecordRejectedRecords(len(recordErrs))
	rejected := make([]models.RejectedRecord, 0, len(recordErrs))
	for _, recordErr := range recordErrs {
		err := newError(KindMalformedSelector, key, recordErr)
		s.logger.Warn("Skipping function with malformed selector",
			zap.String("key", key),
			zap.Int("index", recordErr.Index),
			zap.String("name", recordErr.Name),
			zap.Error(err))
		rejected = append(rejected, models.RejectedRecord{
			Index:  recordErr.Index,
			Name:   recordErr.Name,
			Reason: err.Error(),
		})
	}
	return rejected
}

// copyResult gives each caller sharing a lookup its own slices
func copyResult(shared *models.FetchResult) *models.FetchResult {
	result := *shared
	result.Records = append(make([]models.InterfaceRecord, 0, len(shared.Records)), shared.Records...)
	if shared.Rejected != nil {
		result.Rejected = append(make([]models.RejectedRecord, 0, len(shared.Rejected)), shared.Rejected...)
	}
	return &result
}

// decodeRecords parses a cache entry. Anything other than a JSON array of
// records whose selector matches its name is corrupt.
func decodeRecords(data []byte) ([]models.InterfaceRecord, error) {
	var records []models.InterfaceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, errors.New("cache entry is not a JSON array")
	}
	for i, record := range records {
		selector, err := normalizer.DecodeSelector(record.Name)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if selector != record.Selector {
			return nil, fmt.Errorf("record %d: selector %x does not match name %q", i, record.Selector[:], record.Name)
		}
	}
	return records, nil
}
