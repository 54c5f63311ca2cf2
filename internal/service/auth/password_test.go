package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifierRoundTrip(t *testing.T) {
	t.Parallel()

	// MinCost keeps the test fast; production uses the configured cost.
	verifier := NewBcryptVerifier(bcrypt.MinCost)

	hash, err := verifier.Hash("password123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, verifier.Compare(hash, "password123"))
	assert.Error(t, verifier.Compare(hash, "wrong-password"))
}

func TestBcryptVerifierUniqueSalts(t *testing.T) {
	t.Parallel()

	verifier := NewBcryptVerifier(bcrypt.MinCost)

	first, err := verifier.Hash("password123")
	require.NoError(t, err)
	second, err := verifier.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each hash must carry its own salt")
}

func TestBcryptVerifierDefaultCost(t *testing.T) {
	t.Parallel()

	verifier := NewBcryptVerifier(0)
	assert.Equal(t, bcrypt.DefaultCost, verifier.cost)
}
