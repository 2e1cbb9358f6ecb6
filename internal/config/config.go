// Package config loads settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const (
	clientPrefix       = "STOREFRONT"
	minJWTSecretLength = 32
)

var (
	ErrJWTSecretRequired = errors.New("JWT_SECRET environment variable is required")
	ErrJWTSecretTooShort = errors.New("JWT_SECRET must be at least 32 characters long")
)

// Client configures the storefront CLI. Variables carry the STOREFRONT_ prefix.
type Client struct {
	APIBaseURL string        `envconfig:"API_BASE_URL"`
	StatePath  string        `envconfig:"STATE_PATH"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"15s"`
	Verbose    bool          `envconfig:"VERBOSE" default:"false"`
}

// LoadClient reads the client settings. The base URL may be empty; the
// gateway client reports that on its first request.
func LoadClient() (Client, error) {
	var c Client
	if err := envconfig.Process(clientPrefix, &c); err != nil {
		return Client{}, errors.Wrap(err, "failed to read client config")
	}
	if c.StatePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Client{}, errors.Wrap(err, "failed to resolve home directory for STATE_PATH")
		}
		c.StatePath = filepath.Join(home, ".storefront", "state.db")
	}
	return c, nil
}

// Gateway configures the development gateway.
type Gateway struct {
	Addr         string        `envconfig:"ADDR" default:":8080"`
	DatabaseURL  string        `envconfig:"DATABASE_URL"`
	JWTSecret    string        `envconfig:"JWT_SECRET"`
	TokenTTL     time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	KafkaBrokers []string      `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string        `envconfig:"KAFKA_TOPIC" default:"storefront-events"`
	Seed         bool          `envconfig:"SEED" default:"true"`
	BcryptCost   int           `envconfig:"BCRYPT_COST" default:"12"`
}

func LoadGateway() (Gateway, error) {
	var g Gateway
	if err := envconfig.Process("", &g); err != nil {
		return Gateway{}, errors.Wrap(err, "failed to read gateway config")
	}
	if err := g.Validate(); err != nil {
		return Gateway{}, err
	}
	return g, nil
}

func (g Gateway) Validate() error {
	if g.JWTSecret == "" {
		return ErrJWTSecretRequired
	}
	if len(g.JWTSecret) < minJWTSecretLength {
		return ErrJWTSecretTooShort
	}
	return nil
}

// UsePostgres reports whether a database URL was given; otherwise the
// gateway keeps its data in memory.
func (g Gateway) UsePostgres() bool {
	return g.DatabaseURL != ""
}

func (g Gateway) UseKafka() bool {
	return len(g.KafkaBrokers) > 0
}
