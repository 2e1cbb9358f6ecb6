package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AuthHandlers handles sign-up, sign-in and the current-user lookup.
type AuthHandlers struct {
	repo   store.Repository
	tokens *auth.TokenIssuer
	hasher *auth.PasswordHasher
	logger *zap.Logger
	now    func() time.Time
}

func NewAuthHandlers(repo store.Repository, tokens *auth.TokenIssuer, hasher *auth.PasswordHasher, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
		logger: logger.Named("api"),
		now:    time.Now,
	}
}

// SignUp registers a Viewer account. The requested role is ignored; roles
// above Viewer are granted out of band.
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req model.SignUpPayload
	if !decodeBody(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		respondError(w, "Name, email and password are required", http.StatusBadRequest)
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		respondError(w, "Password must be at least 8 characters", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		respondError(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	now := h.now().UTC()
	record := store.UserRecord{
		User: model.User{
			ID:        uuid.New().String(),
			Name:      name,
			Email:     email,
			Role:      model.DefaultRole,
			AvatarURL: req.AvatarURL,
			LastLogin: &now,
		},
		PasswordHash: hash,
		CreatedAt:    now,
	}
	if err := h.repo.CreateUser(r.Context(), record); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			respondError(w, "Email already registered", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create user", zap.Error(err))
		respondError(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	h.logger.Info("user registered", zap.String("user_id", record.ID))
	h.respondWithToken(w, http.StatusCreated, record.User)
}

func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req model.SignInPayload
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	record, err := h.repo.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.logger.Error("failed to look up user", zap.Error(err))
		respondError(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}
	if record == nil || !h.hasher.Check(req.Password, record.PasswordHash) {
		respondError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	now := h.now().UTC()
	if err := h.repo.UpdateLastLogin(r.Context(), record.ID, now); err != nil {
		h.logger.Warn("failed to record last login", zap.String("user_id", record.ID), zap.Error(err))
	}
	user := record.User
	user.LastLogin = &now

	h.respondWithToken(w, http.StatusOK, user)
}

func (h *AuthHandlers) respondWithToken(w http.ResponseWriter, status int, user model.User) {
	token, _, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		respondError(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}
	respondJSON(w, status, model.AuthResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Token:     token,
		AvatarURL: user.AvatarURL,
		LastLogin: user.LastLogin,
	})
}

// Me returns the account behind the bearer token.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	record, err := h.repo.GetUser(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get user", zap.Error(err))
		respondError(w, "Failed to fetch user", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, record.User)
}
