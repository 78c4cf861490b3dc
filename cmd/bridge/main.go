package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"supplychain/internal/actions"
	"supplychain/internal/config"
	"supplychain/internal/contract"
	"supplychain/internal/retry"
	"supplychain/internal/wallet"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile string
	timeout time.Duration

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Wallet-to-contract bridge for the supply-chain ledger",
	Long: `bridge connects a wallet to the SupplyChain contract and exposes its
operations as form actions.

Configuration is read from the environment (and .env when present):
  RPC_URL      JSON-RPC endpoint of the ledger node
  PROVIDER     keyed (local key) or node (accounts unlocked on the node)
  PRIVATE_KEY  hex key for the keyed provider
  DESCRIPTOR   path or URL of the contract build artifact`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}

		cfg = config.Load()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		setupLogger(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading configuration")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Timeout for setup and for each invoked action")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(actionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	// Logs go to stderr so invoke output stays parseable
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// connect runs the one-time bridge setup. The returned bridge may be inert;
// its Err says why.
func connect(ctx context.Context, cfg *config.Config) (*actions.Bridge, func()) {
	slog.Info("Configuration loaded",
		"rpc_url", cfg.RPCURL,
		"provider", cfg.Provider,
		"descriptor", cfg.Descriptor,
		"log_level", cfg.LogLevel,
	)

	provider, err := wallet.Dial(ctx, wallet.Options{
		RPCURL:             cfg.RPCURL,
		Kind:               cfg.Provider,
		PrivateKey:         cfg.PrivateKey,
		KeystorePath:       cfg.KeystorePath,
		KeystorePassphrase: cfg.KeystorePassphrase,
	})
	if err != nil {
		slog.Error("Failed to connect wallet provider", "error", err)
		return &actions.Bridge{Err: err}, func() {}
	}

	waiter := retry.NewStrategy(retry.Config{
		Enabled:      cfg.ReceiptPollEnabled,
		MaxRetries:   cfg.ReceiptMaxRetries,
		InitialDelay: cfg.ReceiptInitialDelay,
		MaxDelay:     cfg.ReceiptMaxDelay,
	})

	httpClient := &http.Client{Timeout: 30 * time.Second}
	load := func(ctx context.Context) (*contract.Descriptor, error) {
		return contract.LoadDescriptor(ctx, cfg.Descriptor, httpClient)
	}

	bridge := actions.Connect(ctx, provider, load, waiter)
	if err := bridge.Ready(); err != nil {
		slog.Warn("Bridge is not ready", "error", err)
	} else {
		slog.Info("Bridge ready",
			"account", bridge.Account().Hex(),
			"contract", bridge.Address.Hex(),
			"receipt_strategy", waiter.Name(),
		)
	}

	return bridge, provider.Close
}

// staticDirFor returns the directory served under /build/ for a local
// descriptor, so build/contracts/X.json is reachable at /build/contracts/X.json.
func staticDirFor(descriptor string) string {
	if strings.HasPrefix(descriptor, "http://") || strings.HasPrefix(descriptor, "https://") {
		return ""
	}
	dir := filepath.Dir(descriptor)
	if filepath.Base(dir) == "contracts" {
		return filepath.Dir(dir)
	}
	return dir
}
