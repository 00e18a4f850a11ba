package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	KeyAlgorithmXXHash    = "xxhash"
	KeyAlgorithmKeccak256 = "keccak256"

	DecompilerModeCommand = "command"
	DecompilerModeHTTP    = "http"

	// Placeholders substituted into decompiler command arguments
	TargetPlaceholder = "{target}"
	OutputPlaceholder = "{output}"
)

var validate = validator.New()

// Config represents the main configuration structure
type Config struct {
	Cache      CacheConfig      `yaml:"cache"`
	Filesystem FilesystemConfig `yaml:"filesystem"`
	BigCache   BigCacheConfig   `yaml:"bigcache"`
	KeyDB      KeyDBConfig      `yaml:"keydb"`
	Decompiler DecompilerConfig `yaml:"decompiler"`
}

// CacheConfig controls key derivation
type CacheConfig struct {
	KeyAlgorithm string `yaml:"key_algorithm" validate:"oneof=xxhash keccak256"`
}

// FilesystemConfig configures the durable on-disk store
type FilesystemConfig struct {
	Root string `yaml:"root" validate:"required"`
}

// BigCacheConfig configures the in-memory L1 tier
type BigCacheConfig struct {
	Enabled      bool `yaml:"enabled"`
	Size         int  `yaml:"size" validate:"gte=0"`           // MB
	MaxEntrySize int  `yaml:"max_entry_size" validate:"gte=0"` // bytes
}

// KeyDBConfig configures the shared L2 tier
type KeyDBConfig struct {
	Enabled    bool                  `yaml:"enabled"`
	Connection KeyDBConnectionConfig `yaml:"connection"`
	Keepalive  KeyDBKeepaliveConfig  `yaml:"keepalive"`
}

// KeyDBConnectionConfig holds KeyDB timeouts
type KeyDBConnectionConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	SendTimeout    time.Duration `yaml:"send_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
}

// KeyDBKeepaliveConfig holds KeyDB pool settings
type KeyDBKeepaliveConfig struct {
	PoolSize       int           `yaml:"pool_size" validate:"gte=0"`
	MaxIdleTimeout time.Duration `yaml:"max_idle_timeout"`
}

// DecompilerConfig selects and configures the decompilation backend
type DecompilerConfig struct {
	Mode    string                  `yaml:"mode" validate:"oneof=command http"`
	Timeout time.Duration           `yaml:"timeout" validate:"gte=0"` // 0 waits indefinitely
	Command CommandDecompilerConfig `yaml:"command"`
	HTTP    HTTPDecompilerConfig    `yaml:"http"`
}

// CommandDecompilerConfig describes a local decompiler binary
type CommandDecompilerConfig struct {
	Path    string   `yaml:"path"`
	Args    []string `yaml:"args"`
	AbiFile string   `yaml:"abi_file"`
}

// HTTPDecompilerConfig describes a remote decompilation service
type HTTPDecompilerConfig struct {
	URL          string        `yaml:"url" validate:"omitempty,url"`
	RetryMax     int           `yaml:"retry_max" validate:"gte=0"`
	RetryWaitMin time.Duration `yaml:"retry_wait_min"`
	RetryWaitMax time.Duration `yaml:"retry_wait_max"`
}

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	// Apply defaults
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	switch c.Decompiler.Mode {
	case DecompilerModeCommand:
		if c.Decompiler.Command.Path == "" {
			return fmt.Errorf("invalid configuration: decompiler.command.path is required in %q mode", c.Decompiler.Mode)
		}
	case DecompilerModeHTTP:
		if c.Decompiler.HTTP.URL == "" {
			return fmt.Errorf("invalid configuration: decompiler.http.url is required in %q mode", c.Decompiler.Mode)
		}
	}
	return nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Cache.KeyAlgorithm == "" {
		c.Cache.KeyAlgorithm = KeyAlgorithmXXHash
	}
	if c.Filesystem.Root == "" {
		c.Filesystem.Root = "cache/heimdall"
	}

	if c.BigCache.Size == 0 {
		c.BigCache.Size = 100
	}
	if c.BigCache.MaxEntrySize == 0 {
		c.BigCache.MaxEntrySize = 16 * 1024
	}

	if c.KeyDB.Connection.ConnectTimeout == 0 {
		c.KeyDB.Connection.ConnectTimeout = time.Second
	}
	if c.KeyDB.Connection.SendTimeout == 0 {
		c.KeyDB.Connection.SendTimeout = time.Second
	}
	if c.KeyDB.Connection.ReadTimeout == 0 {
		c.KeyDB.Connection.ReadTimeout = time.Second
	}
	if c.KeyDB.Keepalive.PoolSize == 0 {
		c.KeyDB.Keepalive.PoolSize = 10
	}
	if c.KeyDB.Keepalive.MaxIdleTimeout == 0 {
		c.KeyDB.Keepalive.MaxIdleTimeout = 10 * time.Second
	}

	if c.Decompiler.Mode == "" {
		c.Decompiler.Mode = DecompilerModeCommand
	}
	if c.Decompiler.Command.Path == "" {
		c.Decompiler.Command.Path = "heimdall"
	}
	if len(c.Decompiler.Command.Args) == 0 {
		c.Decompiler.Command.Args = []string{"decompile", TargetPlaceholder, "--output", OutputPlaceholder}
	}
	if c.Decompiler.Command.AbiFile == "" {
		c.Decompiler.Command.AbiFile = "abi.json"
	}
	if c.Decompiler.HTTP.RetryWaitMin == 0 {
		c.Decompiler.HTTP.RetryWaitMin = 500 * time.Millisecond
	}
	if c.Decompiler.HTTP.RetryWaitMax == 0 {
		c.Decompiler.HTTP.RetryWaitMax = 4 * time.Second
	}
}
