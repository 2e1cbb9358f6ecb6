package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Client Tests
// ============================================

func TestLoadClient_Defaults(t *testing.T) {
	t.Setenv("HOME", "/home/ada")
	t.Setenv("STOREFRONT_API_BASE_URL", "")
	t.Setenv("STOREFRONT_STATE_PATH", "")

	c, err := LoadClient()

	require.NoError(t, err)
	assert.Empty(t, c.APIBaseURL)
	assert.Equal(t, filepath.Join("/home/ada", ".storefront", "state.db"), c.StatePath)
	assert.Equal(t, 15*time.Second, c.Timeout)
	assert.False(t, c.Verbose)
}

func TestLoadClient_FromEnv(t *testing.T) {
	t.Setenv("STOREFRONT_API_BASE_URL", "https://api.example.com")
	t.Setenv("STOREFRONT_STATE_PATH", "/tmp/state.db")
	t.Setenv("STOREFRONT_TIMEOUT", "3s")
	t.Setenv("STOREFRONT_VERBOSE", "true")

	c, err := LoadClient()

	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", c.APIBaseURL)
	assert.Equal(t, "/tmp/state.db", c.StatePath)
	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.True(t, c.Verbose)
}

func TestLoadClient_InvalidTimeout(t *testing.T) {
	t.Setenv("STOREFRONT_TIMEOUT", "soon")

	_, err := LoadClient()

	assert.Error(t, err)
}

// ============================================
// Gateway Tests
// ============================================

func TestLoadGateway(t *testing.T) {
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("BCRYPT_COST", "4")

	g, err := LoadGateway()

	require.NoError(t, err)
	assert.Equal(t, ":8080", g.Addr)
	assert.Equal(t, 24*time.Hour, g.TokenTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, g.KafkaBrokers)
	assert.Equal(t, "storefront-events", g.KafkaTopic)
	assert.True(t, g.Seed)
	assert.Equal(t, 4, g.BcryptCost)
	assert.True(t, g.UseKafka())
	assert.False(t, g.UsePostgres())
}

func TestGateway_Validate(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		expected error
	}{
		{"missing", "", ErrJWTSecretRequired},
		{"short", "too-short", ErrJWTSecretTooShort},
		{"ok", strings.Repeat("x", 32), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Gateway{JWTSecret: tt.secret}.Validate()
			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.expected))
		})
	}
}

func TestLoadGateway_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadGateway()

	assert.True(t, errors.Is(err, ErrJWTSecretRequired))
}
