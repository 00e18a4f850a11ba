// Package normalizer turns raw decompiler structures into InterfaceRecords.
//
// Only function structures survive. Parameter tags of exactly "bytes" become
// "unknown", the decompiler's "Unresolved_" marker is stripped from names, and
// the remaining name must be the 8 hex character selector. A function whose
// name does not decode is rejected on its own without failing the batch.
package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"go-abi-cache/internal/models"
)

const (
	// UnresolvedPrefix marks names the decompiler could not resolve to a symbol
	UnresolvedPrefix = "Unresolved_"

	BytesType   = "bytes"
	UnknownType = "unknown"
)

// ErrMalformedSelector is wrapped by every RecordError
var ErrMalformedSelector = errors.New("malformed selector")

// RecordError reports a function structure that could not become a record
type RecordError struct {
	Index int    // position in the raw decompiler output
	Name  string // sanitized name
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("structure %d (%q): %v", e.Index, e.Name, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Result holds the records in decompiler order plus any rejected functions
type Result struct {
	Records  []models.InterfaceRecord
	Rejected []*RecordError
}

// Normalize maps raw decompiler output onto interface records.
// Records is never nil so an empty interface serializes as [].
func Normalize(raw []models.RawStructure) Result {
	result := Result{Records: make([]models.InterfaceRecord, 0, len(raw))}

	for i, structure := range raw {
		if !structure.IsFunction() {
			continue
		}

		record, err := NormalizeFunction(structure)
		if err != nil {
			result.Rejected = append(result.Rejected, &RecordError{
				Index: i,
				Name:  SanitizeName(structure.Name),
				Err:   err,
			})
			continue
		}
		result.Records = append(result.Records, record)
	}

	return result
}

// NormalizeFunction builds the record for a single function structure
func NormalizeFunction(structure models.RawStructure) (models.InterfaceRecord, error) {
	name := SanitizeName(structure.Name)

	selector, err := DecodeSelector(name)
	if err != nil {
		return models.InterfaceRecord{}, err
	}

	return models.InterfaceRecord{
		Signature:     Signature(structure.Inputs),
		Selector:      selector,
		Name:          name,
		IsStatic:      structure.StateMutability == models.MutabilityView,
		IsPayable:     structure.StateMutability == models.MutabilityPayable,
		IsConstructor: false,
	}, nil
}

// Signature renders the parameter tags as "(t1,t2,...)", flagging raw bytes as unknown
func Signature(inputs []models.RawParam) string {
	tags := make([]string, len(inputs))
	for i, input := range inputs {
		tags[i] = ParamType(input.Type)
	}
	return "(" + strings.Join(tags, ",") + ")"
}

// ParamType substitutes the placeholder for dynamic bytes; every other tag passes through
func ParamType(tag string) string {
	if tag == BytesType {
		return UnknownType
	}
	return tag
}

// SanitizeName removes every occurrence of the unresolved-name marker
func SanitizeName(name string) string {
	return strings.ReplaceAll(name, UnresolvedPrefix, "")
}

// DecodeSelector decodes an 8 hex character name into a selector
func DecodeSelector(name string) (models.Selector, error) {
	var selector models.Selector

	if len(name) != 2*models.SelectorLength {
		return selector, fmt.Errorf("%w: %q is %d characters, want %d", ErrMalformedSelector, name, len(name), 2*models.SelectorLength)
	}

	decoded, err := hexutil.Decode("0x" + name)
	if err != nil {
		return selector, fmt.Errorf("%w: %q: %v", ErrMalformedSelector, name, err)
	}

	copy(selector[:], decoded)
	return selector, nil
}
