// Package app initializes and orchestrates the main components of the
// sentiment service. It wires together the configuration, server, workers,
// and storage.
package app

import (
	"log/slog"

	"github.com/suaraedu/sentimen/internal/config"
	"github.com/suaraedu/sentimen/internal/core"
	"github.com/suaraedu/sentimen/internal/db"
	"github.com/suaraedu/sentimen/internal/jobs"
	"github.com/suaraedu/sentimen/internal/server"
	"github.com/suaraedu/sentimen/internal/storage"
	"github.com/suaraedu/sentimen/internal/verification"
)

// App holds the main application components. The exported fields are used by
// the CLI, which drives the same services without the HTTP server.
type App struct {
	cfg    *config.Config
	server *server.Server
	logger *slog.Logger
	dbConn *db.DB

	Store      storage.Store
	Job        core.Job
	Dispatcher core.JobDispatcher
	Workflow   *verification.Workflow
	Sweeper    *jobs.BacklogSweeper
}

// NewApp assembles the application from its already-constructed components.
func NewApp(
	cfg *config.Config,
	dbConn *db.DB,
	store storage.Store,
	job core.Job,
	dispatcher core.JobDispatcher,
	workflow *verification.Workflow,
	sweeper *jobs.BacklogSweeper,
	srv *server.Server,
	logger *slog.Logger,
) *App {
	return &App{
		cfg:        cfg,
		server:     srv,
		logger:     logger,
		dbConn:     dbConn,
		Store:      store,
		Job:        job,
		Dispatcher: dispatcher,
		Workflow:   workflow,
		Sweeper:    sweeper,
	}
}

// Start runs the HTTP server.
func (a *App) Start() error {
	a.logger.Info("starting sentiment service",
		"server_port", a.cfg.ServerPort,
		"max_workers", a.cfg.MaxWorkers,
		"confidence_threshold", a.cfg.ConfidenceThreshold,
	)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly.
func (a *App) Stop() error {
	a.logger.Info("shutting down sentiment service")

	// Stop the HTTP server first to prevent new incoming requests.
	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
		// Continue to stop other components even if the server failed.
	}

	// Stop the job dispatcher, allowing in-flight analyses to finish.
	a.Dispatcher.Stop()

	if serverErr != nil {
		a.logger.Error("sentiment service stopped with errors", "error", serverErr)
		return serverErr
	}

	a.logger.Info("sentiment service stopped successfully")
	return nil
}
