package cache

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"go-abi-cache/internal/config"
	"go-abi-cache/internal/interfaces"
)

// KeyExtension is appended to every digest to form the storage key
const KeyExtension = ".json"

// Ensure key derivers implement interfaces.KeyDeriver
var (
	_ interfaces.KeyDeriver = (*XXHashKeyDeriver)(nil)
	_ interfaces.KeyDeriver = (*Keccak256KeyDeriver)(nil)
)

// XXHashKeyDeriver keys bytecode by its 64-bit xxhash rendered in decimal.
// Fast but not collision resistant; suited to a local single-tenant cache.
type XXHashKeyDeriver struct{}

// Derive returns "<decimal xxhash64>.json". The input is hashed as-is, without
// case folding or 0x stripping.
func (XXHashKeyDeriver) Derive(bytecode string) string {
	return strconv.FormatUint(xxhash.Sum64String(bytecode), 10) + KeyExtension
}

// Keccak256KeyDeriver keys bytecode by its keccak256 digest in hex
type Keccak256KeyDeriver struct{}

// Derive returns "<hex keccak256>.json"
func (Keccak256KeyDeriver) Derive(bytecode string) string {
	return common.Bytes2Hex(crypto.Keccak256([]byte(bytecode))) + KeyExtension
}

// NewKeyDeriver creates the key deriver for the configured algorithm
func NewKeyDeriver(algorithm string) (interfaces.KeyDeriver, error) {
	switch algorithm {
	case "", config.KeyAlgorithmXXHash:
		return XXHashKeyDeriver{}, nil
	case config.KeyAlgorithmKeccak256:
		return Keccak256KeyDeriver{}, nil
	default:
		return nil, fmt.Errorf("unknown key algorithm %q", algorithm)
	}
}
