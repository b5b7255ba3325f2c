// internal/utils/crypto_test.go
package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCouponCode(t *testing.T) {
	code, err := GenerateCouponCode(10)
	require.NoError(t, err)
	assert.Len(t, code, 10)

	for _, r := range code {
		assert.True(t, strings.ContainsRune(couponCharset, r), "unexpected character %q", r)
	}
}

func TestGenerateCouponCodeAvoidsAmbiguousCharacters(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenerateCouponCode(32)
		require.NoError(t, err)
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "1")
	}
}

func TestHashStringDeterministic(t *testing.T) {
	assert.Equal(t, HashString("input"), HashString("input"))
	assert.NotEqual(t, HashString("input"), HashString("other"))
	assert.Len(t, HashString("input"), 64)
}
