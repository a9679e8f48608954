package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	digest, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", digest)
	assert.True(t, h.Verify("secret1", digest))
	assert.False(t, h.Verify("secret2", digest))

	other, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, digest, other, "digests must be salted")

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestPasswordHasher_MalformedDigest(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	for _, digest := range []string{"", "not-a-hash", "$2a$10$short"} {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify("secret1", digest))
		})
	}
}

func TestPasswordHasher_InvalidCostFallsBack(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(1).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).cost)
}

func TestPasswordHasher_VerifyDummy(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	assert.NotPanics(t, func() {
		h.VerifyDummy("anything")
		h.VerifyDummy("again")
	})
	assert.NotEmpty(t, h.dummy)
}
