package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hashed, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hashed)

	assert.True(t, CheckPassword(hashed, "hunter22"))
	assert.False(t, CheckPassword(hashed, "hunter23"))
}

func TestSHA256HexIsStable(t *testing.T) {
	assert.Equal(t, SHA256Hex("abc"), SHA256Hex("abc"))
	assert.NotEqual(t, SHA256Hex("abc"), SHA256Hex("abd"))
	assert.Len(t, SHA256Hex(""), 64)
}
