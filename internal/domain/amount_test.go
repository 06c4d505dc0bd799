package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount_Number(t *testing.T) {
	amount, err := ParseAmount("amount", 42.5)
	require.NoError(t, err)
	assert.Equal(t, 42.5, amount)
}

func TestParseAmount_NumericString(t *testing.T) {
	amount, err := ParseAmount("amount", "19.99")
	require.NoError(t, err)
	assert.Equal(t, 19.99, amount)

	amount, err = ParseAmount("amount", "  100 ")
	require.NoError(t, err)
	assert.Equal(t, 100.0, amount)
}

func TestParseAmount_JSONNumber(t *testing.T) {
	amount, err := ParseAmount("amount", json.Number("3.14"))
	require.NoError(t, err)
	assert.Equal(t, 3.14, amount)
}

func TestParseAmount_Zero(t *testing.T) {
	amount, err := ParseAmount("amount", 0.0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, amount)
}

func TestParseAmount_RejectsNonNumericString(t *testing.T) {
	_, err := ParseAmount("amount", "abc")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestParseAmount_RejectsEmptyString(t *testing.T) {
	_, err := ParseAmount("amount", "")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestParseAmount_RejectsNegative(t *testing.T) {
	_, err := ParseAmount("amount", -5.0)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = ParseAmount("amount", "-5")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestParseAmount_RejectsNaNAndInf(t *testing.T) {
	_, err := ParseAmount("amount", math.NaN())
	require.Error(t, err)

	_, err = ParseAmount("amount", math.Inf(1))
	require.Error(t, err)
}

func TestParseAmount_RejectsNil(t *testing.T) {
	_, err := ParseAmount("amount", nil)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}
