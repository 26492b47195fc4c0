package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Format(t *testing.T) {
	gen := NewGenerator()

	for i := 0; i < 200; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		require.Len(t, code, CodeLength)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "code %q contains non-digit", code)
		}
	}
}

func TestGenerate_NotConstant(t *testing.T) {
	gen := NewGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		seen[code] = true
	}
	// 50 identical draws from a 10^6 space would mean a broken source.
	assert.Greater(t, len(seen), 1)
}
