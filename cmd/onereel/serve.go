package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/onereel/onereel/internal/playback"
	"github.com/onereel/onereel/internal/publish"
	"github.com/onereel/onereel/internal/server"
	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local player server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			subtitles := publish.NewMemory(server.SubtitlePrefix)
			session := playback.NewSession(client, subtitles)
			defer session.Close()

			srv := server.New(server.Config{
				Session:       session,
				Subtitles:     subtitles,
				StorageOrigin: cfg.StorageOrigin,
				BaseURL:       baseURL,
			})

			httpServer := &http.Server{
				Addr:              fmt.Sprintf(":%s", cfg.Port),
				Handler:           srv,
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       60 * time.Second,
				WriteTimeout:      120 * time.Second,
				IdleTimeout:       120 * time.Second,
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				slog.Info("onereel listening", "addr", httpServer.Addr, "api_url", cfg.APIURL)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("listen: %w", err)
				}
				return nil
			case <-sigCtx.Done():
			}

			slog.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown failed: %w", err)
			}
			slog.Info("shutdown complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Public URL of the player, enables HSTS when https")
	return cmd
}
