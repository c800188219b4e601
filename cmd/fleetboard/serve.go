package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/fleetboard/internal/archive"
	"github.com/groblegark/fleetboard/internal/config"
	"github.com/groblegark/fleetboard/internal/events"
	"github.com/groblegark/fleetboard/internal/server"
	"github.com/groblegark/fleetboard/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the fleetboard server",
	GroupID: "system",
	// Override PersistentPreRunE so we don't build an HTTP client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Connect to Postgres.
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("event mirror enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("event mirror disabled (FLEET_NATS_URL not set)")
		}

		fleetServer := server.NewFleetServer(store, publisher)
		fleetServer.StoreTimeout = cfg.StoreTimeout

		// Attach the image archive when a bucket is configured.
		if cfg.S3Bucket != "" {
			arch, err := archive.NewS3Archive(
				context.Background(),
				cfg.S3Bucket,
				cfg.S3Prefix,
				cfg.S3Region,
				cfg.S3Endpoint,
			)
			if err != nil {
				logger.Error("failed to create image archive", "err", err)
			} else {
				fleetServer.Archive = arch
				logger.Info("image archive enabled", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
			}
		}

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: fleetServer.NewHTTPHandler(cfg.AuthToken),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		logger.Info("fleetboard server started",
			"http_addr", cfg.HTTPAddr,
			"auth", cfg.AuthToken != "",
		)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
