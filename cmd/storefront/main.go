package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/gateway"
	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/session"
	"github.com/example/storefront/internal/storage"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose bool

	cfg    config.Client
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Browse the catalog, manage the cart and place orders",
	Long: `storefront is a command-line shop client.

The cart and the signed-in session are kept in a local SQLite file
(STOREFRONT_STATE_PATH) and survive between runs. Point it at a gateway
with STOREFRONT_API_BASE_URL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadClient()
		if err != nil {
			return err
		}
		logger, err = logging.NewQuiet(verbose || cfg.Verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// app is the wired client: one state file shared by the gateway token
// lookup, the session and the cart.
type app struct {
	kv      *storage.SQLiteStore
	client  *gateway.Client
	session *session.Store
	cart    *cart.Store
}

func openApp() (*app, error) {
	kv, err := storage.OpenSQLite(cfg.StatePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open local state")
	}
	client := gateway.New(gateway.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.Timeout,
	}, kv, gateway.WithLogger(logger))

	return &app{
		kv:      kv,
		client:  client,
		session: session.New(client, kv, logger),
		cart:    cart.New(kv, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		logger.Warn("failed to close local state", zap.Error(err))
	}
}

// withApp runs fn with a wired app and a context cancelled on interrupt.
func withApp(fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return fn(ctx, cmd, a, args)
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
