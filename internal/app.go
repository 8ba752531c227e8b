// Package internal assembles the application: configuration, logging, the
// in-memory dataset store and the HTTP server.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"

	"trafficlens/internal/config"
	"trafficlens/internal/database"
	"trafficlens/internal/logging"
	"trafficlens/internal/records"
)

// Application owns the long-lived components of the service.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	DBManager *database.Manager

	server *fiber.App
	ready  atomic.Bool
}

// NewApp builds the application from the global configuration.
func NewApp() (*Application, error) {
	cfg := config.GetConfig()
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig builds the application with the provided config. The
// dataset file named by the config is imported before the app is returned,
// so a malformed dataset fails startup instead of surfacing per request.
func NewAppWithConfig(cfg *config.Config) (*Application, error) {
	logger := logging.NewLogger(cfg)

	dbManager := database.NewManager(cfg, logger)
	if err := dbManager.Init(); err != nil {
		return nil, fmt.Errorf("error initializing dataset store: %w", err)
	}

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		DBManager: dbManager,
	}

	if cfg.DataFile != "" {
		if err := app.LoadDataFile(cfg.DataFile); err != nil {
			return nil, err
		}
	}

	app.server = fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: true,
	})
	app.mountRoutes(app.server)

	return app, nil
}

// LoadDataFile parses and validates the CSV at path and replaces the
// dataset with its records. The readiness gate opens only after a
// successful import.
func (a *Application) LoadDataFile(path string) error {
	recs, err := records.LoadFile(path, a.Config.DateFormat)
	if err != nil {
		return fmt.Errorf("error loading dataset %s: %w", path, err)
	}

	if err := a.DBManager.ImportRecords(recs); err != nil {
		return fmt.Errorf("error importing dataset %s: %w", path, err)
	}

	a.ready.Store(true)
	a.Logger.Info("Dataset loaded",
		slog.String("file", path),
		slog.Int("records", len(recs)))
	return nil
}

// ImportRecords replaces the dataset with the given records and opens the
// readiness gate. Used by tests and the seeder path.
func (a *Application) ImportRecords(recs []records.TrafficRecord) error {
	if err := a.DBManager.ImportRecords(recs); err != nil {
		return err
	}
	a.ready.Store(true)
	return nil
}

// Ready reports whether the dataset import has completed.
func (a *Application) Ready() bool {
	return a.ready.Load()
}

// Server exposes the fiber app, mainly for tests driving requests through
// app.Test.
func (a *Application) Server() *fiber.App {
	return a.server
}

// Listen serves HTTP on the configured port and blocks until shutdown.
func (a *Application) Listen() error {
	addr := ":" + a.Config.AppPort
	a.Logger.Info("Starting server", slog.String("addr", addr))
	if err := a.server.Listen(addr); err != nil {
		return fmt.Errorf("error starting server: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server and closes the dataset store.
func (a *Application) Shutdown(ctx context.Context) error {
	if err := a.server.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	if err := a.DBManager.Close(); err != nil {
		return fmt.Errorf("error closing dataset store: %w", err)
	}
	return nil
}
