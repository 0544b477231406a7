//go:build unit

package qr_test

import (
	"testing"

	"ticket-hold/internal/pkg/qr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	token, err := qr.NewToken()
	require.NoError(t, err)

	assert.Len(t, token, 32)
	assert.Regexp(t, "^[0-9A-F]+$", token)
}

func TestNewToken_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		token, err := qr.NewToken()
		require.NoError(t, err)
		_, dup := seen[token]
		require.False(t, dup, "duplicate token %s", token)
		seen[token] = struct{}{}
	}
}
