package decompiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"go-abi-cache/internal/config"
	"go-abi-cache/internal/interfaces"
	"go-abi-cache/internal/logging"
	"go-abi-cache/internal/models"
)

// maxResponseBody bounds the size of a decompiler service response
const maxResponseBody = 16 << 20

// Ensure HTTPDecompiler implements interfaces.Decompiler
var _ interfaces.Decompiler = (*HTTPDecompiler)(nil)

// DecompileRequest is the body posted to a remote decompilation service
type DecompileRequest struct {
	Bytecode string `json:"bytecode"`
}

// DecompileResponse is the body returned by a remote decompilation service
type DecompileResponse struct {
	ABI   json.RawMessage `json:"abi"`
	Error string          `json:"error,omitempty"`
}

// HTTPDecompiler delegates decompilation to a remote service
type HTTPDecompiler struct {
	url    string
	client *retryablehttp.Client
	logger *zap.Logger
}

// NewHTTPDecompiler creates an HTTPDecompiler. Retries are off unless RetryMax > 0.
func NewHTTPDecompiler(cfg config.HTTPDecompilerConfig, logger *zap.Logger) *HTTPDecompiler {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.RetryMax
	client.RetryWaitMin = cfg.RetryWaitMin
	client.RetryWaitMax = cfg.RetryWaitMax
	client.Logger = logging.NewZapLogger(logger)

	return &HTTPDecompiler{
		url:    cfg.URL,
		client: client,
		logger: logger,
	}
}

// Decompile posts the bytecode and decodes the returned ABI
func (d *HTTPDecompiler) Decompile(ctx context.Context, bytecode string) ([]models.RawStructure, error) {
	body, err := json.Marshal(DecompileRequest{Bytecode: bytecode})
	if err != nil {
		return nil, fmt.Errorf("failed to encode decompile request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create decompile request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	d.logger.Debug("Posting bytecode to decompiler service", zap.String("url", d.url), zap.Int("bytecode_len", len(bytecode)))

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("decompile request to %s failed: %w", d.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read decompile response: %w", err)
	}

	var decoded DecompileResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("decompile service returned status %d with undecodable body: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("decompile service returned status %d: %s", resp.StatusCode, decoded.Error)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("decompile service error: %s", decoded.Error)
	}
	if len(decoded.ABI) == 0 {
		return nil, ErrNoABI
	}

	return ParseABI(decoded.ABI)
}
