package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supplychain/internal/actions"
	"supplychain/internal/api"

	"github.com/spf13/cobra"
)

var port int

// serveCmd runs the HTTP form front-end
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the action forms over HTTP",
	Long: `Run wallet bootstrap and contract binding once, then serve the form page,
POST /actions/{name}, GET /products/{id}, /health and /metrics.

The server starts even when setup fails; every action then reports
"contract not loaded" with the setup error.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (default: HTTP_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if port == 0 {
		port = cfg.HTTPPort
	}

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), timeout)
	bridge, cleanup := connect(setupCtx, cfg)
	cancelSetup()
	defer cleanup()

	server := api.NewServer(port, actions.NewRegistry(), bridge, staticDirFor(cfg.Descriptor))
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	slog.Warn("Interrupt received, shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error stopping API server", "error", err)
	}

	slog.Info("Bridge stopped")
	return nil
}
