package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"go-abi-cache/internal/cache"
	"go-abi-cache/internal/cache/fs"
	"go-abi-cache/internal/cache/l1"
	"go-abi-cache/internal/cache/l2"
	"go-abi-cache/internal/cache/multi"
	"go-abi-cache/internal/cache/noop"
	"go-abi-cache/internal/cache/service"
	"go-abi-cache/internal/config"
	"go-abi-cache/internal/decompiler"
	"go-abi-cache/internal/httpserver"
	"go-abi-cache/internal/interfaces"
)

// CompositionRoot holds all application dependencies and is the single place
// where they are created and wired together.
type CompositionRoot struct {
	// Configuration
	Config *config.Config
	Logger *zap.Logger

	// Store tiers
	L1Store   interfaces.Store
	L2Store   interfaces.Store
	FileStore *fs.FileStore
	Store     *multi.MultiStore

	KeyDeriver interfaces.KeyDeriver
	Decompiler interfaces.Decompiler

	// Services
	InterfaceService *service.InterfaceService
	HTTPServer       *httpserver.Server
	MetricsServer    *httpserver.MetricsServer
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration
// 3. Stores (L1, L2, filesystem, composed into one MultiStore)
// 4. Key deriver and decompiler
// 5. InterfaceService
// 6. HTTP and metrics servers
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	// Initialize logger first
	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.initStores(); err != nil {
		return nil, fmt.Errorf("failed to initialize stores: %w", err)
	}

	if err := root.initDecompilation(); err != nil {
		return nil, fmt.Errorf("failed to initialize decompilation: %w", err)
	}

	root.initServices()

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadConfig loads the configuration file, using defaults when it does not exist
func (r *CompositionRoot) loadConfig() error {
	configPath := GetConfigPath()

	cfg, err := config.LoadConfig(configPath, r.Logger)
	if errors.Is(err, os.ErrNotExist) {
		r.Logger.Warn("Configuration file not found, using defaults", zap.String("path", configPath))
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return err
	}

	r.Config = cfg
	return nil
}

// initStores builds the tiered store: L1, L2, then the durable filesystem tier
func (r *CompositionRoot) initStores() error {
	if err := r.initL1Store(); err != nil {
		return fmt.Errorf("failed to initialize L1 store: %w", err)
	}

	r.initL2Store()

	fileStore, err := fs.NewFileStore(afero.NewOsFs(), r.Config.Filesystem.Root, r.Logger)
	if err != nil {
		return err
	}
	r.FileStore = fileStore
	r.Logger.Info("Filesystem store initialized", zap.String("root", fileStore.Root()))

	r.Store = multi.NewMultiStore([]multi.Tier{
		{Name: "l1", Store: r.L1Store},
		{Name: "l2", Store: r.L2Store},
		{Name: "fs", Store: r.FileStore},
	}, r.Logger)
	return nil
}

// initL1Store initializes the L1 store (BigCache)
func (r *CompositionRoot) initL1Store() error {
	if r.Config.BigCache.Enabled {
		l1Store, err := l1.NewBigCache(&r.Config.BigCache, r.Logger)
		if err != nil {
			return err
		}
		r.L1Store = l1Store
		r.Logger.Info("BigCache (L1) initialized", zap.Int("size_mb", r.Config.BigCache.Size))
	} else {
		r.L1Store = noop.NewNoOpStore()
		r.Logger.Info("BigCache (L1) disabled")
	}
	return nil
}

// initL2Store initializes the L2 store (KeyDB). An unreachable KeyDB disables the tier.
func (r *CompositionRoot) initL2Store() {
	if !r.Config.KeyDB.Enabled {
		r.L2Store = noop.NewNoOpStore()
		r.Logger.Info("KeyDB (L2) disabled")
		return
	}

	keydbURL := GetKeyDBURL(r.Logger)

	keydbClient, err := l2.NewRedisKeyDbClient(&r.Config.KeyDB, keydbURL, r.Logger)
	if err != nil {
		r.Logger.Warn("Failed to connect to KeyDB, falling back to no L2 store",
			zap.String("keydb_url", keydbURL),
			zap.Error(err))
		r.L2Store = noop.NewNoOpStore()
		return
	}

	r.L2Store = l2.NewKeyDBCache(&r.Config.KeyDB, keydbClient, r.Logger)
	r.Logger.Info("KeyDB (L2) initialized", zap.String("keydb_url", keydbURL))
}

// initDecompilation initializes the key deriver and the decompiler backend
func (r *CompositionRoot) initDecompilation() error {
	keyDeriver, err := cache.NewKeyDeriver(r.Config.Cache.KeyAlgorithm)
	if err != nil {
		return err
	}
	r.KeyDeriver = keyDeriver

	d, err := decompiler.NewDecompiler(r.Config.Decompiler, r.Logger)
	if err != nil {
		return err
	}
	r.Decompiler = d
	r.Logger.Info("Decompiler initialized",
		zap.String("mode", r.Config.Decompiler.Mode),
		zap.Duration("timeout", r.Config.Decompiler.Timeout))
	return nil
}

// initServices initializes the interface service and the servers exposing it
func (r *CompositionRoot) initServices() {
	r.InterfaceService = service.NewInterfaceService(
		r.Store,
		r.KeyDeriver,
		r.Decompiler,
		r.Config.Decompiler.Timeout,
		r.Logger,
	)

	r.HTTPServer = httpserver.NewServer(r.InterfaceService, r.Logger)
	r.MetricsServer = httpserver.NewMetricsServer(r.Logger)
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errs []error

	// Close L1 store
	if bigCache, ok := r.L1Store.(*l1.BigCache); ok {
		if err := bigCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close L1 store: %w", err))
		}
	}

	// Close L2 store
	if keydbCache, ok := r.L2Store.(*l2.KeyDBCache); ok {
		if err := keydbCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close L2 store: %w", err))
		}
	}

	// Sync logger
	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("failed to sync logger: %w", err))
		}
	}

	return errors.Join(errs...)
}
