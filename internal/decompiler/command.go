package decompiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"go-abi-cache/internal/config"
	"go-abi-cache/internal/interfaces"
	"go-abi-cache/internal/models"
)

// maxStderr bounds how much engine stderr is carried into an error
const maxStderr = 2048

// Ensure CommandDecompiler implements interfaces.Decompiler
var _ interfaces.Decompiler = (*CommandDecompiler)(nil)

// CommandDecompiler runs a heimdall-compatible binary per call and reads the
// ABI file it writes into a private output directory
type CommandDecompiler struct {
	cfg    config.CommandDecompilerConfig
	logger *zap.Logger
}

// NewCommandDecompiler creates a CommandDecompiler
func NewCommandDecompiler(cfg config.CommandDecompilerConfig, logger *zap.Logger) *CommandDecompiler {
	return &CommandDecompiler{
		cfg:    cfg,
		logger: logger,
	}
}

// Decompile runs the engine to completion. Cancelling ctx kills the process.
func (d *CommandDecompiler) Decompile(ctx context.Context, bytecode string) ([]models.RawStructure, error) {
	outDir, err := os.MkdirTemp("", "abi-decompile-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create decompiler output directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(outDir) }()

	args := d.buildArgs(bytecode, outDir)
	cmd := exec.CommandContext(ctx, d.cfg.Path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	d.logger.Debug("Running decompiler", zap.String("path", d.cfg.Path), zap.Int("bytecode_len", len(bytecode)))

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("decompiler %s: %w", d.cfg.Path, ctxErr)
		}
		return nil, fmt.Errorf("decompiler %s failed: %w: %s", d.cfg.Path, err, tail(stderr.String()))
	}

	data, err := os.ReadFile(filepath.Join(outDir, d.cfg.AbiFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoABI
		}
		return nil, fmt.Errorf("failed to read decompiler output: %w", err)
	}

	return ParseABI(data)
}

func (d *CommandDecompiler) buildArgs(bytecode, outDir string) []string {
	replacer := strings.NewReplacer(config.TargetPlaceholder, bytecode, config.OutputPlaceholder, outDir)
	args := make([]string, len(d.cfg.Args))
	for i, arg := range d.cfg.Args {
		args[i] = replacer.Replace(arg)
	}
	return args
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		return "..." + s[len(s)-maxStderr:]
	}
	return s
}
