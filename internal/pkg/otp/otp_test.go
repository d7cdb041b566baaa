package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericGenerate(t *testing.T) {
	gen := NewNumeric(6)

	for range 10000 {
		code := gen.Generate()

		require.Len(t, code, 6)
		for i := range len(code) {
			require.True(t, code[i] >= '0' && code[i] <= '9', "code %q contains non-digit", code)
		}
		require.NotEqual(t, byte('0'), code[0], "code %q would collapse its leading digit", code)
	}
}

func TestNumericGenerateSpread(t *testing.T) {
	gen := NewNumeric(6)

	seen := make(map[string]struct{})
	for range 1000 {
		seen[gen.Generate()] = struct{}{}
	}

	// 1000 draws from a 900k space should practically never collapse this far.
	assert.Greater(t, len(seen), 990)
}

func TestNewNumericFallbackWidth(t *testing.T) {
	assert.Equal(t, 6, NewNumeric(0).digits)
	assert.Equal(t, 6, NewNumeric(11).digits)
	assert.Equal(t, 8, NewNumeric(8).digits)
}
