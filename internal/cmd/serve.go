// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotandev/granary/internal/farming"
	"github.com/dotandev/granary/internal/logger"
	"github.com/dotandev/granary/internal/rpc"
	"github.com/dotandev/granary/internal/telemetry"
)

var (
	serveParams paramFlags
	serveListen string
	serveOTLP   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the farming engine over JSON-RPC",
	Long: `Expose Farming.Rate, Farming.Quote and Farming.Attempt at /rpc.

The service is stateless: every request carries its own network snapshot,
age and draw, so any number of callers can hit it concurrently and a
verifier can replay any decision against the same inputs.`,
	Example: `  granary serve --listen :8700

  # With tracing
  granary serve --listen :8700 --otlp-endpoint collector.local:4318`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		shutdown, err := telemetry.Init(ctx, serveOTLP)
		if err != nil {
			return fmt.Errorf("Error: failed to initialize tracing: %w", err)
		}
		defer shutdown(context.Background())

		engine, err := farming.NewEngine(serveParams.toParams())
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}

		server := &http.Server{
			Addr:              serveListen,
			Handler:           rpc.NewServer(engine),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Logger.Info("serving farming RPC", "listen", serveListen)
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("Error: server failed: %w", err)
			}
		case <-ctx.Done():
			logger.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("Error: shutdown failed: %w", err)
			}
		}
		return nil
	},
}

func init() {
	addParamFlags(serveCmd, &serveParams)
	serveCmd.Flags().StringVar(&serveListen, "listen", ":8700", "Address to listen on")
	serveCmd.Flags().StringVar(&serveOTLP, "otlp-endpoint", "", "OTLP trace collector endpoint")

	rootCmd.AddCommand(serveCmd)
}
