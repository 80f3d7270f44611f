package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	rvapp "github.com/stacklok/release-version-api/internal/app"
	"github.com/stacklok/release-version-api/internal/telemetry"
	"github.com/stacklok/release-version-api/internal/versions"
)

const (
	defaultGracefulTimeout = 30 * time.Second // Kubernetes-friendly shutdown time
	telemetryFlushTimeout  = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the release version API server",
		Long: `Start the HTTP server exposing GET /v1/most_recent.

Every request runs all enabled extractors against their upstream release sources.
Without --config the built-in extractors and defaults are used.`,
		RunE: runServe,
	}

	serveCmd.Flags().String("address", ":8080", "Address to listen on")
	serveCmd.Flags().Duration("request-timeout", 30*time.Second, "Maximum duration of a single API request")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		slog.Error("Failed to bind address flag", "error", err)
	}
	if err := viper.BindPFlag("request-timeout", serveCmd.Flags().Lookup("request-timeout")); err != nil {
		slog.Error("Failed to bind request-timeout flag", "error", err)
	}

	return serveCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tel, err := telemetry.New(ctx, telemetry.WithTelemetryConfig(cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown telemetry", "error", err)
		}
	}()

	info := versions.GetVersionInfo()
	slog.Info("Starting release version API server",
		"version", info.Version,
		"address", viper.GetString("address"),
	)

	opts := []rvapp.ReleaseVersionAppOptions{
		rvapp.WithConfig(cfg),
		rvapp.WithAddress(viper.GetString("address")),
		rvapp.WithRequestTimeout(viper.GetDuration("request-timeout")),
		rvapp.WithMetricsHandler(tel.MetricsHandler()),
	}
	if cfg.Telemetry != nil && cfg.Telemetry.Enabled {
		opts = append(opts,
			rvapp.WithMeterProvider(tel.MeterProvider()),
			rvapp.WithTracerProvider(tel.TracerProvider()),
		)
	}

	releaseApp, err := rvapp.NewReleaseVersionApp(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- releaseApp.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	if err := releaseApp.Stop(defaultGracefulTimeout); err != nil {
		return err
	}
	return <-errChan
}
