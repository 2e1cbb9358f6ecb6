package api

import (
	"net/http"
	"time"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RouterConfig holds the dependencies for the router
type RouterConfig struct {
	Catalog *CatalogHandlers
	Auth    *AuthHandlers
	Orders  *OrderHandlers
	Tokens  *auth.TokenIssuer
	Logger  *zap.Logger
}

// NewRouter wires the storefront endpoints. Single products and categories
// live outside the /api prefix.
func NewRouter(cfg RouterConfig) http.Handler {
	requireAuth := middleware.RequireAuth(cfg.Tokens)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Catalog
	r.HandleFunc("/api/products", cfg.Catalog.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", cfg.Catalog.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/api/categories", cfg.Catalog.ListCategories).Methods(http.MethodGet)
	r.HandleFunc("/categories/{id}", cfg.Catalog.GetCategory).Methods(http.MethodGet)
	r.HandleFunc("/api/faqs", cfg.Catalog.ListFAQs).Methods(http.MethodGet)

	// Auth
	r.HandleFunc("/api/auth/signup", cfg.Auth.SignUp).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/signin", cfg.Auth.SignIn).Methods(http.MethodPost)
	r.Handle("/api/auth/me", requireAuth(http.HandlerFunc(cfg.Auth.Me))).Methods(http.MethodGet)

	// Orders
	r.Handle("/api/orders", requireAuth(http.HandlerFunc(cfg.Orders.CreateOrder))).Methods(http.MethodPost)
	r.Handle("/api/orders", requireAuth(http.HandlerFunc(cfg.Orders.ListOrders))).Methods(http.MethodGet)

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return withLogging(logger.Named("http"), r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func withLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		if id := r.Header.Get("X-Request-ID"); id != "" {
			w.Header().Set("X-Request-ID", id)
		}

		next.ServeHTTP(rec, r)

		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", r.Header.Get("X-Request-ID")),
		)
	})
}
