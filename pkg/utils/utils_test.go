package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New()

	id, err := u.NewULIDFromTimestamp(time.Now())
	require.NoError(t, err)
	assert.Len(t, id, 26)

	other, err := u.NewULIDFromTimestamp(time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestNewAPICredential(t *testing.T) {
	u := New()

	key, secret, err := u.NewAPICredential()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "kwik_"))
	assert.Len(t, key, len("kwik_")+32)
	assert.Len(t, secret, 64)

	otherKey, otherSecret, err := u.NewAPICredential()
	require.NoError(t, err)
	assert.NotEqual(t, key, otherKey)
	assert.NotEqual(t, secret, otherSecret)
}

func TestIsValidHexColor(t *testing.T) {
	u := New()

	assert.True(t, u.IsValidHexColor("#e53e3e"))
	assert.True(t, u.IsValidHexColor("#FFF"))
	assert.True(t, u.IsValidHexColor("#1a202c"))

	assert.False(t, u.IsValidHexColor("e53e3e"))
	assert.False(t, u.IsValidHexColor("#zzz"))
	assert.False(t, u.IsValidHexColor("#12345"))
	assert.False(t, u.IsValidHexColor(""))
	assert.False(t, u.IsValidHexColor("red"))
}
