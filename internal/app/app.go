// Package app provides application lifecycle management for the release version API.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/stacklok/release-version-api/internal/config"
)

// ReleaseVersionApp encapsulates all components needed to run the API server.
// It provides lifecycle management and graceful shutdown capabilities.
type ReleaseVersionApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// Start starts the HTTP server.
// This method blocks until the HTTP server stops or encounters an error.
func (app *ReleaseVersionApp) Start() error {
	slog.Info("Server listening", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout.
// In-flight aggregations are cancelled through the application context.
func (app *ReleaseVersionApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server")

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *ReleaseVersionApp) GetConfig() *config.Config {
	return app.config
}

// GetComponents returns the wired application components
func (app *ReleaseVersionApp) GetComponents() *AppComponents {
	return app.components
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *ReleaseVersionApp) GetHTTPServer() *http.Server {
	return app.httpServer
}
