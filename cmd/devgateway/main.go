package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/storefront/internal/api"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/logging"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadGateway()
	if err != nil {
		fmt.Fprintf(os.Stderr, "devgateway: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "devgateway: failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("gateway stopped", zap.Error(err))
	}
}

func run(cfg config.Gateway, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, db, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	if cfg.Seed {
		if err := store.Seed(ctx, repo); err != nil {
			return errors.Wrap(err, "failed to seed demo catalog")
		}
		logger.Info("demo catalog seeded",
			zap.Int("products", len(store.DemoProducts())),
			zap.Int("categories", len(store.DemoCategories())),
		)
	}

	var events kafka.Publisher = kafka.NopPublisher{}
	if cfg.UseKafka() {
		events = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		logger.Info("publishing order events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}
	defer events.Close()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	router := api.NewRouter(api.RouterConfig{
		Catalog: api.NewCatalogHandlers(repo, logger),
		Auth:    api.NewAuthHandlers(repo, tokens, hasher, logger),
		Orders:  api.NewOrderHandlers(repo, events, logger),
		Tokens:  tokens,
		Logger:  logger,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", cfg.Addr), zap.Bool("postgres", cfg.UsePostgres()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serveErr:
		if err != nil {
			return errors.Wrap(err, "server error")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}

// openRepository connects to PostgreSQL when DATABASE_URL is set and falls
// back to an in-memory repository otherwise.
func openRepository(ctx context.Context, cfg config.Gateway, logger *zap.Logger) (store.Repository, *sql.DB, error) {
	if !cfg.UsePostgres() {
		logger.Info("using in-memory repository")
		return store.NewMemoryRepository(), nil, nil
	}

	db, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to PostgreSQL")
	}
	repo := store.NewPostgresRepository(db, logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Info("connected to PostgreSQL")
	return repo, db, nil
}
