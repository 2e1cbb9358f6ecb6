package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher() *PasswordHasher {
	return NewPasswordHasher(bcrypt.MinCost)
}

func TestPasswordHasher_Hash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"8 characters", "password"},
		{"long password", "this-is-a-very-long-password-123!@#"},
		{"with special chars", "p@ssw0rd!"},
		{"with unicode", "パスワード12345"},
	}

	hasher := newTestHasher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, len(hash) >= 60, "bcrypt hash should be at least 60 chars")
			assert.True(t, hasher.Check(tt.password, hash))
		})
	}
}

func TestPasswordHasher_ShortPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"7 characters", "1234567"},
		{"empty", ""},
		{"spaces only", "       "},
	}

	hasher := newTestHasher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)
			assert.ErrorIs(t, err, ErrPasswordTooShort)
			assert.Empty(t, hash)
		})
	}
}

func TestPasswordHasher_SaltedHashes(t *testing.T) {
	hasher := newTestHasher()

	hash1, err := hasher.Hash("testpassword123")
	require.NoError(t, err)
	hash2, err := hasher.Hash("testpassword123")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

func TestPasswordHasher_Check(t *testing.T) {
	hasher := newTestHasher()
	hash, err := hasher.Hash("correct-password")
	require.NoError(t, err)

	assert.True(t, hasher.Check("correct-password", hash))
	assert.False(t, hasher.Check("wrong-password", hash))
	assert.False(t, hasher.Check("Correct-Password", hash))
	assert.False(t, hasher.Check("correct-password", "not-a-hash"))
	assert.False(t, hasher.Check("", hash))
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(0).Cost())
	assert.Equal(t, bcrypt.MaxCost, NewPasswordHasher(99).Cost())
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(DefaultBcryptCost).Cost())
}
