// Package session holds the signed-in user and bearer token, mirrored to
// durable storage so that a restart keeps the user signed in.
package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/example/storefront/internal/gateway"
	"github.com/example/storefront/internal/model"
	"github.com/example/storefront/internal/storage"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrMalformedResponse is returned when an auth response lacks an id or a token.
	ErrMalformedResponse = errors.New("malformed server response: id and token are required")
	ErrNotAuthenticated  = errors.New("not signed in")
	ErrMissingFields     = errors.New("all fields are required")
)

// State of a session
type State int

const (
	Unauthenticated State = iota
	// Authenticating covers the sign-in or sign-up round trip.
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Authenticator is the part of the gateway client the session needs.
type Authenticator interface {
	SignIn(ctx context.Context, payload model.SignInPayload) (*model.AuthResponse, error)
	SignUp(ctx context.Context, payload model.SignUpPayload) (*model.AuthResponse, error)
	Me(ctx context.Context) (*model.User, error)
}

type Store struct {
	mu      sync.RWMutex
	auth    Authenticator
	kv      storage.Store
	logger  *zap.Logger
	state   State
	user    *model.User
	token   string
	lastErr string
}

// New creates a session store and restores any previously saved session.
// Unreadable or corrupt saved state is discarded.
func New(auth Authenticator, kv storage.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		auth:   auth,
		kv:     kv,
		logger: logger.Named("session"),
	}
	s.rehydrate()
	return s
}

func (s *Store) rehydrate() {
	raw, ok, err := s.kv.Get(storage.KeyAuthUser)
	if err != nil {
		s.logger.Warn("failed to read saved session; starting signed out", zap.Error(err))
		s.removeSaved()
		return
	}
	if !ok {
		return
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		s.logger.Warn("saved session is corrupt; discarding it", zap.Error(err))
		s.removeSaved()
		return
	}

	token, _, err := s.kv.Get(storage.KeyAuthToken)
	if err != nil {
		s.logger.Warn("failed to read saved token", zap.Error(err))
	}

	s.user = &user
	s.token = token
	s.state = Authenticated
	s.logger.Debug("session restored", zap.String("user_id", user.ID))
}

// Login signs in with email and password.
func (s *Store) Login(ctx context.Context, email, password string) (*model.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, s.fail("login", ErrMissingFields)
	}
	s.begin()
	resp, err := s.auth.SignIn(ctx, model.SignInPayload{Email: email, Password: password})
	return s.complete("login", resp, err)
}

// Signup registers a new account with the lowest-privilege role and signs in.
func (s *Store) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, s.fail("signup", ErrMissingFields)
	}
	s.begin()
	resp, err := s.auth.SignUp(ctx, model.SignUpPayload{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     model.DefaultRole,
	})
	return s.complete("signup", resp, err)
}

func (s *Store) begin() {
	s.mu.Lock()
	s.state = Authenticating
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *Store) complete(op string, resp *model.AuthResponse, err error) (*model.User, error) {
	if err != nil {
		return nil, s.fail(op, err)
	}
	if resp == nil || resp.ID == "" || resp.Token == "" {
		return nil, s.fail(op, errors.Wrap(ErrMalformedResponse, op))
	}

	user := resp.User()
	s.mu.Lock()
	s.user = &user
	s.token = resp.Token
	s.state = Authenticated
	s.lastErr = ""
	s.mu.Unlock()

	s.save(&user, resp.Token)
	s.logger.Info("signed in", zap.String("op", op), zap.String("user_id", user.ID))
	return &user, nil
}

// fail clears the session, records err as the last error and returns it.
func (s *Store) fail(op string, err error) error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.state = Unauthenticated
	s.lastErr = err.Error()
	s.mu.Unlock()

	s.removeSaved()
	s.logger.Warn("authentication failed", zap.String("op", op), zap.Error(err))
	return err
}

// Logout clears the session locally. The gateway is not contacted.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.state = Unauthenticated
	s.lastErr = ""
	s.mu.Unlock()

	s.removeSaved()
	s.logger.Info("signed out")
}

// Refresh re-reads the current user from the gateway. A 401 means the saved
// token is no longer valid and ends the session.
func (s *Store) Refresh(ctx context.Context) (*model.User, error) {
	if !s.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		if gateway.IsUnauthorized(err) {
			s.logger.Info("saved token rejected; signing out")
			s.Logout()
			s.mu.Lock()
			s.lastErr = err.Error()
			s.mu.Unlock()
		}
		return nil, err
	}
	if user == nil || user.ID == "" {
		return nil, errors.Wrap(ErrMalformedResponse, "refresh")
	}

	s.mu.Lock()
	s.user = user
	token := s.token
	s.mu.Unlock()

	s.save(user, token)
	return user, nil
}

func (s *Store) save(user *model.User, token string) {
	data, err := json.Marshal(user)
	if err != nil {
		s.logger.Error("failed to encode session", zap.Error(err))
		return
	}
	if err := s.kv.Set(storage.KeyAuthUser, string(data)); err != nil {
		s.logger.Error("failed to save user", zap.Error(err))
	}
	if token == "" {
		return
	}
	if err := s.kv.Set(storage.KeyAuthToken, token); err != nil {
		s.logger.Error("failed to save token", zap.Error(err))
	}
}

func (s *Store) removeSaved() {
	for _, key := range []string{storage.KeyAuthUser, storage.KeyAuthToken} {
		if err := s.kv.Remove(key); err != nil {
			s.logger.Warn("failed to remove saved session key", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) IsAuthenticated() bool {
	return s.State() == Authenticated
}

// User returns a copy of the signed-in user, or nil.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// LastError returns the message of the most recent failed login or signup.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}
