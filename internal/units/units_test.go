package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleOf(t *testing.T) {
	tests := []struct {
		symbol string
		want   float64
	}{
		{"p", 1e-12},
		{"n", 1e-9},
		{"u", 1e-6},
		{"m", 1e-3},
		{"", 1},
		{"k", 1e3},
		{"M", 1e6},
		{"G", 1e9},
	}

	for _, tt := range tests {
		t.Run("symbol_"+tt.symbol, func(t *testing.T) {
			got, err := ScaleOf(tt.symbol)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScaleOfUnknown(t *testing.T) {
	for _, symbol := range []string{"x", "mu", "K", " m"} {
		_, err := ScaleOf(symbol)
		assert.ErrorIs(t, err, ErrUnknownUnit, symbol)
	}
}

func TestSymbols(t *testing.T) {
	symbols := Symbols()
	require.Len(t, symbols, 8)

	prev := 0.0
	for _, s := range symbols {
		scale, err := ScaleOf(s)
		require.NoError(t, err)
		assert.Greater(t, scale, prev)
		prev = scale
	}

	// callers get a copy
	symbols[0] = "zzz"
	assert.Equal(t, "p", Symbols()[0])
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Base))
	assert.ErrorIs(t, Validate("q"), ErrUnknownUnit)
}
