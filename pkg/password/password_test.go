package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("s3cret!")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	rehash, err := Verify("s3cret!", hash)
	require.NoError(t, err)
	assert.False(t, rehash)

	_, err = Verify("wrong", hash)
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("same")
	require.NoError(t, err)
	b, err := Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("old-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	rehash, err := Verify("old-pass", string(legacy))
	require.NoError(t, err)
	assert.True(t, rehash)

	_, err = Verify("nope", string(legacy))
	assert.ErrorIs(t, err, ErrMismatch)
}
