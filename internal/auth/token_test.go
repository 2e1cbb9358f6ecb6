package auth

import (
	"testing"
	"time"

	"github.com/example/storefront/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-purposes"

func ada() model.User {
	return model.User{ID: "user-123", Email: "ada@example.com", Role: model.RoleViewer}
}

func TestTokenIssuer_Issue(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 15*time.Minute)

	token, expiresAt, err := issuer.Issue(ada())

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
	assert.True(t, expiresAt.Before(time.Now().Add(16*time.Minute)))
	assert.Equal(t, 15*time.Minute, issuer.TTL())
}

func TestTokenIssuer_Validate_Valid(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 15*time.Minute)
	user := model.User{ID: "user-456", Email: "admin@example.com", Role: model.RoleAdmin}

	token, _, err := issuer.Issue(user)
	require.NoError(t, err)

	claims, err := issuer.Validate(token)

	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, user.ID, claims.Subject)
}

func TestTokenIssuer_Validate_Expired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Minute)
	base := time.Now()
	issuer.now = func() time.Time { return base }

	token, _, err := issuer.Issue(ada())
	require.NoError(t, err)

	issuer.now = func() time.Time { return base.Add(2 * time.Minute) }
	claims, err := issuer.Validate(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestTokenIssuer_Validate_Invalid(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 15*time.Minute)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "not-a-valid-token"},
		{"malformed JWT", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := issuer.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestTokenIssuer_Validate_WrongSignature(t *testing.T) {
	issuer1 := NewTokenIssuer("secret-key-1", 15*time.Minute)
	issuer2 := NewTokenIssuer("secret-key-2", 15*time.Minute)

	token, _, err := issuer1.Issue(ada())
	require.NoError(t, err)

	claims, err := issuer2.Validate(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestTokenIssuer_Validate_WrongAlgorithm(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 15*time.Minute)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: "user-123",
		Email:  "ada@example.com",
		Role:   model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	claims, err := issuer.Validate(signed)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestTokenIssuer_Validate_MissingUserID(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 15*time.Minute)

	token, _, err := issuer.Issue(model.User{Email: "ghost@example.com"})
	require.NoError(t, err)

	_, err = issuer.Validate(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}
