package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeJSON(t *testing.T) {
	assert.True(t, looksLikeJSON([]byte(`{"snapshot":{}}`)))
	assert.True(t, looksLikeJSON([]byte("   \n{\"a\":1}")))
	assert.False(t, looksLikeJSON([]byte{0x1f, 0x8b, 0x08, 0x00}))
	assert.False(t, looksLikeJSON([]byte{}))
}
