package decompiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-abi-cache/internal/models"
)

func TestParseABI(t *testing.T) {
	data := []byte(`[
		{"type":"function","name":"Unresolved_a9059cbb","inputs":[{"name":"arg0","type":"address"},{"name":"arg1","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
		{"type":"event","name":"Transfer","inputs":[],"anonymous":false}
	]`)

	raw, err := ParseABI(data)
	require.NoError(t, err)
	require.Len(t, raw, 2)

	assert.Equal(t, models.StructureFunction, raw[0].Type)
	assert.Equal(t, "Unresolved_a9059cbb", raw[0].Name)
	require.Len(t, raw[0].Inputs, 2)
	assert.Equal(t, "address", raw[0].Inputs[0].Type)
	assert.Equal(t, models.MutabilityNonPayable, raw[0].StateMutability)
	assert.Equal(t, models.StructureEvent, raw[1].Type)
}

func TestParseABI_Empty(t *testing.T) {
	raw, err := ParseABI([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestParseABI_Null(t *testing.T) {
	_, err := ParseABI([]byte(`null`))
	assert.ErrorIs(t, err, ErrNoABI)
}

func TestParseABI_Invalid(t *testing.T) {
	_, err := ParseABI([]byte(`{"not":"an array"}`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoABI)
}
