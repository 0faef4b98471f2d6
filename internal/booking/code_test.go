package booking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingCode(t *testing.T) {
	code, err := NewBookingCode()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, codePrefix))
	// TK + 13-digit millisecond timestamp + 5-char suffix.
	assert.Len(t, code, len(codePrefix)+13+codeSuffixLen)
	for _, r := range code[len(codePrefix)+13:] {
		assert.Contains(t, codeCharset, string(r))
	}
}

func TestNewBookingCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewBookingCode()
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestFallbackCode(t *testing.T) {
	code := FallbackCode()
	assert.True(t, strings.HasPrefix(code, codePrefix))
	assert.Len(t, code, len(codePrefix)+16)
	assert.NotEqual(t, code, FallbackCode())
}
