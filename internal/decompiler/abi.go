package decompiler

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-abi-cache/internal/models"
)

// ErrNoABI is returned when the engine finished without producing an ABI
var ErrNoABI = errors.New("decompiler produced no ABI")

// ParseABI decodes a Solidity ABI JSON array into raw structures
func ParseABI(data []byte) ([]models.RawStructure, error) {
	var raw []models.RawStructure
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode ABI: %w", err)
	}
	if raw == nil {
		return nil, ErrNoABI
	}
	return raw, nil
}
