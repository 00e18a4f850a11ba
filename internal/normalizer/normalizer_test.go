package normalizer

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-abi-cache/internal/models"
)

func function(name, mutability string, types ...string) models.RawStructure {
	inputs := make([]models.RawParam, len(types))
	for i, ty := range types {
		inputs[i] = models.RawParam{Name: "arg" + string(rune('0'+i)), Type: ty}
	}
	return models.RawStructure{
		Type:            models.StructureFunction,
		Name:            name,
		Inputs:          inputs,
		StateMutability: mutability,
	}
}

func TestNormalize_ERC20Transfer(t *testing.T) {
	raw := []models.RawStructure{
		function("Unresolved_a9059cbb", models.MutabilityNonPayable, "address", "uint256"),
	}

	result := Normalize(raw)

	require.Empty(t, result.Rejected)
	require.Len(t, result.Records, 1)
	assert.Equal(t, models.InterfaceRecord{
		Signature:     "(address,uint256)",
		Selector:      models.Selector{0xa9, 0x05, 0x9c, 0xbb},
		Name:          "a9059cbb",
		IsStatic:      false,
		IsPayable:     false,
		IsConstructor: false,
	}, result.Records[0])
}

func TestSignature_BytesSubstitution(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  string
	}{
		{name: "no params", types: nil, want: "()"},
		{name: "bytes in the middle", types: []string{"uint256", "bytes", "address"}, want: "(uint256,unknown,address)"},
		{name: "only bytes", types: []string{"bytes"}, want: "(unknown)"},
		{name: "fixed bytes untouched", types: []string{"bytes32", "bytes4"}, want: "(bytes32,bytes4)"},
		{name: "bytes array untouched", types: []string{"bytes[]"}, want: "(bytes[])"},
		{name: "case sensitive", types: []string{"Bytes"}, want: "(Bytes)"},
		{name: "tuple passes through", types: []string{"(uint256,bytes)"}, want: "((uint256,bytes))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := function("Unresolved_12345678", "", tt.types...)
			assert.Equal(t, tt.want, Signature(raw.Inputs))

			record, err := NormalizeFunction(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, record.Signature)
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Unresolved_a9059cbb", want: "a9059cbb"},
		{in: "a9059cbb", want: "a9059cbb"},
		{in: "Unresolved_Unresolved_a9059cbb", want: "a9059cbb"},
		{in: "a905Unresolved_9cbb", want: "a9059cbb"},
		{in: "transfer", want: "transfer"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}

func TestDecodeSelector(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      models.Selector
		wantError bool
	}{
		{name: "lowercase", in: "a9059cbb", want: models.Selector{0xa9, 0x05, 0x9c, 0xbb}},
		{name: "uppercase", in: "A9059CBB", want: models.Selector{0xa9, 0x05, 0x9c, 0xbb}},
		{name: "zero", in: "00000000", want: models.Selector{}},
		{name: "resolved name", in: "transfer", wantError: true},
		{name: "too short", in: "a9059c", wantError: true},
		{name: "too long", in: "a9059cbb00", wantError: true},
		{name: "odd length", in: "a9059cb", wantError: true},
		{name: "0x prefixed", in: "0xa9059c", wantError: true},
		{name: "empty", in: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSelector(tt.in)
			if tt.wantError {
				assert.ErrorIs(t, err, ErrMalformedSelector)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeFunction_Mutability(t *testing.T) {
	tests := []struct {
		mutability  string
		wantStatic  bool
		wantPayable bool
	}{
		{mutability: models.MutabilityView, wantStatic: true, wantPayable: false},
		{mutability: models.MutabilityPayable, wantStatic: false, wantPayable: true},
		{mutability: models.MutabilityNonPayable, wantStatic: false, wantPayable: false},
		{mutability: models.MutabilityPure, wantStatic: false, wantPayable: false},
		{mutability: "", wantStatic: false, wantPayable: false},
		{mutability: "View", wantStatic: false, wantPayable: false},
	}

	for _, tt := range tests {
		t.Run("mutability="+tt.mutability, func(t *testing.T) {
			record, err := NormalizeFunction(function("Unresolved_70a08231", tt.mutability, "address"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatic, record.IsStatic)
			assert.Equal(t, tt.wantPayable, record.IsPayable)
			assert.False(t, record.IsConstructor)
		})
	}
}

func TestNormalize_FiltersNonFunctions(t *testing.T) {
	raw := []models.RawStructure{
		{Type: models.StructureConstructor, Inputs: []models.RawParam{{Type: "address"}}, StateMutability: models.MutabilityNonPayable},
		{Type: models.StructureEvent, Name: "Transfer", Inputs: []models.RawParam{{Type: "address"}, {Type: "address"}, {Type: "uint256"}}},
		function("Unresolved_18160ddd", models.MutabilityView),
		{Type: models.StructureError, Name: "CustomError_3204506f"},
		{Type: models.StructureFallback, StateMutability: models.MutabilityPayable},
		{Type: models.StructureReceive, StateMutability: models.MutabilityPayable},
		{Type: "something-new", Name: "Unresolved_deadbeef"},
		function("Unresolved_095ea7b3", models.MutabilityNonPayable, "address", "uint256"),
	}

	result := Normalize(raw)

	require.Empty(t, result.Rejected)
	require.Len(t, result.Records, 2)
	assert.LessOrEqual(t, len(result.Records), len(raw))
	assert.Equal(t, "18160ddd", result.Records[0].Name)
	assert.Equal(t, "095ea7b3", result.Records[1].Name)
	for _, record := range result.Records {
		assert.False(t, record.IsConstructor)
	}
}

func TestNormalize_MalformedSelectorRejectsOnlyThatRecord(t *testing.T) {
	raw := []models.RawStructure{
		function("Unresolved_06fdde03", models.MutabilityView),
		function("transfer", models.MutabilityNonPayable, "address", "uint256"),
		function("Unresolved_zzzzzzzz", models.MutabilityNonPayable),
		function("Unresolved_95d89b41", models.MutabilityView),
	}

	result := Normalize(raw)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "06fdde03", result.Records[0].Name)
	assert.Equal(t, "95d89b41", result.Records[1].Name)

	require.Len(t, result.Rejected, 2)
	assert.Equal(t, 1, result.Rejected[0].Index)
	assert.Equal(t, "transfer", result.Rejected[0].Name)
	assert.ErrorIs(t, result.Rejected[0], ErrMalformedSelector)
	assert.Equal(t, 2, result.Rejected[1].Index)
	assert.Equal(t, "zzzzzzzz", result.Rejected[1].Name)
}

func TestNormalize_KeepsOrderAndDuplicates(t *testing.T) {
	raw := []models.RawStructure{
		function("Unresolved_70a08231", models.MutabilityView, "address"),
		function("Unresolved_a9059cbb", models.MutabilityNonPayable, "address", "uint256"),
		function("Unresolved_70a08231", models.MutabilityView, "address"),
	}

	result := Normalize(raw)

	require.Len(t, result.Records, 3)
	assert.Equal(t, "70a08231", result.Records[0].Name)
	assert.Equal(t, "a9059cbb", result.Records[1].Name)
	assert.Equal(t, result.Records[0], result.Records[2])
}

func TestNormalize_EmptyInput(t *testing.T) {
	result := Normalize(nil)

	assert.NotNil(t, result.Records)
	assert.Empty(t, result.Records)
	assert.Empty(t, result.Rejected)
}

func TestNormalize_SelectorMatchesSanitizedName(t *testing.T) {
	raw := []models.RawStructure{
		function("Unresolved_dd62ed3e", models.MutabilityView, "address", "address"),
		function("Unresolved_23b872dd", models.MutabilityNonPayable, "address", "address", "uint256"),
		function("Unresolved_d0e30db0", models.MutabilityPayable),
	}

	result := Normalize(raw)

	require.Len(t, result.Records, len(raw))
	for i, record := range result.Records {
		decoded, err := hex.DecodeString(record.Name)
		require.NoError(t, err)
		assert.Len(t, record.Selector, models.SelectorLength)
		assert.Equal(t, decoded[:4], record.Selector[:])
		assert.Len(t, splitParams(record.Signature), len(raw[i].Inputs))
	}
}

func splitParams(signature string) []string {
	inner := signature[1 : len(signature)-1]
	if inner == "" {
		return nil
	}
	var params []string
	start := 0
	for i := 0; i < len(inner); i++ {
		if inner[i] == ',' {
			params = append(params, inner[start:i])
			start = i + 1
		}
	}
	return append(params, inner[start:])
}

func TestRecordError(t *testing.T) {
	err := &RecordError{Index: 3, Name: "transfer", Err: ErrMalformedSelector}

	assert.Contains(t, err.Error(), "structure 3")
	assert.Contains(t, err.Error(), "transfer")
	assert.ErrorIs(t, err, ErrMalformedSelector)
}
