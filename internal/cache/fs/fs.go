package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"go-abi-cache/internal/interfaces"
	"go-abi-cache/internal/metrics"
)

const level = "fs"

// ErrInvalidKey is returned for keys that would escape the store root
var ErrInvalidKey = errors.New("invalid store key")

// Ensure FileStore implements interfaces.Store
var _ interfaces.Store = (*FileStore)(nil)

// FileStore is the durable store: one file per key under a root directory.
// Files are written once via temp file + rename so readers never see partial data.
type FileStore struct {
	fs     afero.Fs
	root   string
	logger *zap.Logger
}

// NewFileStore creates the root directory if needed and returns a FileStore.
// An unusable root is a configuration error and is reported here rather than on first write.
func NewFileStore(fs afero.Fs, root string, logger *zap.Logger) (*FileStore, error) {
	exists, err := afero.DirExists(fs, root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat cache directory %s: %w", root, err)
	}
	if !exists {
		if err := fs.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory %s: %w", root, err)
		}
	}
	return &FileStore{
		fs:     fs,
		root:   root,
		logger: logger,
	}, nil
}

// Root returns the store's root directory
func (s *FileStore) Root() string {
	return s.root
}

// Load reads the file stored under key
func (s *FileStore) Load(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, interfaces.ErrCacheMiss
		}
		metrics.RecordStoreError(level, "read")
		return nil, fmt.Errorf("failed to read cache file %s: %w", path, err)
	}

	metrics.RecordStoreHit(level)
	return data, nil
}

// Save writes data under key, replacing any previous file atomically
func (s *FileStore) Save(_ context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := afero.TempFile(s.fs, s.root, key+".tmp-*")
	if err != nil {
		metrics.RecordStoreError(level, "write")
		return fmt.Errorf("failed to create temp file in %s: %w", s.root, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		metrics.RecordStoreError(level, "write")
		return fmt.Errorf("failed to write cache file %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		metrics.RecordStoreError(level, "write")
		return fmt.Errorf("failed to close cache file %s: %w", tmpName, err)
	}

	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		metrics.RecordStoreError(level, "write")
		return fmt.Errorf("failed to rename cache file to %s: %w", path, err)
	}

	s.logger.Debug("Saved cache file", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.root, key), nil
}
