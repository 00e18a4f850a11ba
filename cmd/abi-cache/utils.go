package main

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultConfigPath  = "/app/abi_cache_config.yaml"
	defaultSocketPath  = "/tmp/abi-cache.sock"
	defaultMetricsPort = "8080"
	defaultKeyDBURL    = "redis://keydb:6379"
	defaultKeyDBFile   = "/app/.keydb-url"
)

// getEnv returns the environment variable or fallback when unset or empty
func getEnv(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// GetConfigPath returns the configuration file path
func GetConfigPath() string {
	return getEnv("ABI_CACHE_CONFIG_FILE", defaultConfigPath)
}

// GetSocketPath returns the Unix socket path for the API server
func GetSocketPath() string {
	return getEnv("ABI_CACHE_SOCKET_PATH", defaultSocketPath)
}

// GetListenAddr returns a TCP address for the API server; empty means Unix socket
func GetListenAddr() string {
	return os.Getenv("ABI_CACHE_LISTEN_ADDR")
}

// GetMetricsPort returns the metrics server port
func GetMetricsPort() string {
	return getEnv("ABI_CACHE_METRICS_PORT", defaultMetricsPort)
}

// GetKeyDBURL returns KeyDB URL with the following priority:
// 1. KEYDB_URL environment variable
// 2. ABI_CACHE_KEYDB_URL_FILE file content
// 3. Default value
func GetKeyDBURL(logger *zap.Logger) string {
	// Priority 1: Environment variable
	if keydbURL := os.Getenv("KEYDB_URL"); keydbURL != "" {
		logger.Debug("Using KeyDB URL from environment variable")
		return keydbURL
	}

	// Priority 2: Configurable connection file path
	connectionFile := getEnv("ABI_CACHE_KEYDB_URL_FILE", defaultKeyDBFile)

	if content, err := os.ReadFile(connectionFile); err == nil {
		keydbURL := strings.TrimSpace(string(content))
		if len(keydbURL) > 0 {
			logger.Debug("Using KeyDB URL from connection file", zap.String("file", connectionFile))
			return keydbURL
		}
	} else {
		logger.Debug("KeyDB connection file not found or empty", zap.String("file", connectionFile))
	}

	// Priority 3: Default
	logger.Debug("Using default KeyDB URL")
	return defaultKeyDBURL
}
