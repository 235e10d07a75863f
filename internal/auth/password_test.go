package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	ok, err := h.Compare(hash, "secret123")
	require.NoError(t, err)
	assert.True(t, ok)

	for _, other := range []string{"secret124", "Secret123", "", "secret123 "} {
		ok, err := h.Compare(hash, other)
		require.NoError(t, err)
		assert.False(t, ok, other)
	}
}

func TestBcryptHasher_FreshSaltPerHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_Cost(t *testing.T) {
	hash, err := NewBcryptHasher(bcrypt.MinCost + 1).Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)

	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(0).cost)
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	ok, err := NewBcryptHasher(bcrypt.MinCost).Compare("not-a-bcrypt-hash", "pw")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestBcryptHasher_LongPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	long := strings.Repeat("a", 73)

	hash, err := h.Hash(long)
	require.NoError(t, err)

	ok, err := h.Compare(hash, long)
	require.NoError(t, err)
	assert.True(t, ok)

	// Bytes past 72 still take part in the comparison.
	ok, err = h.Compare(hash, strings.Repeat("a", 72)+"b")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = h.Compare(hash, strings.Repeat("a", 72))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_ExactlyMaxLength(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	pw := strings.Repeat("x", 72)

	hash, err := h.Hash(pw)
	require.NoError(t, err)

	// At the limit the password goes to bcrypt unchanged.
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)))
}
