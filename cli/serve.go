package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"value-helper/app"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *options) error {
	application, err := app.Initialize(ctx, opts.cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	// Listen on 0.0.0.0 to accept connections from all interfaces
	addr := "0.0.0.0" + opts.cfg.Address()
	server := &http.Server{
		Addr:              addr,
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("🚀 Server starting", "addr", addr, "baseURL", opts.cfg.Server.BaseURL)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	slog.Info("🛑 Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	<-errCh
	return nil
}
