// Package decompiler provides the backends that turn contract bytecode into
// Solidity-ABI-shaped raw structures. The engine itself is external: either a
// heimdall-compatible binary or a remote service.
package decompiler

import (
	"fmt"

	"go.uber.org/zap"

	"go-abi-cache/internal/config"
	"go-abi-cache/internal/interfaces"
)

// NewDecompiler builds the backend selected by cfg.Mode
func NewDecompiler(cfg config.DecompilerConfig, logger *zap.Logger) (interfaces.Decompiler, error) {
	switch cfg.Mode {
	case config.DecompilerModeCommand, "":
		if cfg.Command.Path == "" {
			return nil, fmt.Errorf("decompiler command path is empty")
		}
		return NewCommandDecompiler(cfg.Command, logger), nil
	case config.DecompilerModeHTTP:
		if cfg.HTTP.URL == "" {
			return nil, fmt.Errorf("decompiler http url is empty")
		}
		return NewHTTPDecompiler(cfg.HTTP, logger), nil
	default:
		return nil, fmt.Errorf("unknown decompiler mode: %q", cfg.Mode)
	}
}
