package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_Format(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	code := GenerateCode(now)

	require.Len(t, code, 2+8+8)
	assert.True(t, strings.HasPrefix(code, "VL20260314"))
	suffix := code[10:]
	assert.Equal(t, strings.ToUpper(suffix), suffix, "suffix is uppercased")
}

func TestGenerateCode_NoDuplicatesUnderLoad(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool, 10000)
	for range 10000 {
		code := GenerateCode(now)
		require.False(t, seen[code], "duplicate code generated: %s", code)
		seen[code] = true
	}
}
