package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hashed, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hashed)
	assert.True(t, h.IsHashed(hashed))
	assert.True(t, h.Compare(hashed, "secret1"))
	assert.False(t, h.Compare(hashed, "secret2"))
}

func TestBcryptHasher_IsHashedRejectsPlaintext(t *testing.T) {
	h := NewBcryptHasher(0)

	assert.False(t, h.IsHashed("secret1"))
	assert.False(t, h.IsHashed("$2a$10$short"))
}
