// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/suaraedu/sentimen/internal/app"
	"github.com/suaraedu/sentimen/internal/classifier"
	"github.com/suaraedu/sentimen/internal/config"
	"github.com/suaraedu/sentimen/internal/db"
	"github.com/suaraedu/sentimen/internal/jobs"
	"github.com/suaraedu/sentimen/internal/logger"
	"github.com/suaraedu/sentimen/internal/sentiment"
	"github.com/suaraedu/sentimen/internal/server"
	"github.com/suaraedu/sentimen/internal/server/handler"
	"github.com/suaraedu/sentimen/internal/storage"
	"github.com/suaraedu/sentimen/internal/verification"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	var logWriter io.Writer
	switch cfg.Logging.Output {
	case "stderr":
		logWriter = os.Stderr
	default:
		logWriter = os.Stdout
	}
	slogLogger := logger.NewLogger(cfg.Logging, logWriter)

	// Database
	dbConn, dbCleanup, err := db.NewDatabase(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := dbConn.RunMigrations(); err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	store := storage.NewStore(dbConn.DB)

	// Classifier client
	classifierClient := classifier.New(classifier.Config{
		Endpoint: cfg.Classifier.Endpoint,
		APIToken: cfg.Classifier.APIToken,
		Timeout:  cfg.Classifier.Timeout,
	}, slogLogger)

	// Policy engine
	policy := sentiment.Policy{
		Threshold: cfg.ConfidenceThreshold,
		LabelMap:  sentiment.DefaultLabelMap(),
	}

	// Analyze job
	analyzeJob := jobs.NewAnalyzeJob(classifierClient, policy, store, slogLogger)

	// Dispatcher
	dispatcher := jobs.NewDispatcher(analyzeJob, cfg.MaxWorkers, cfg.JobQueueSize, slogLogger)

	// Verification workflow
	workflow := verification.NewWorkflow(store, slogLogger)

	// Backlog sweeper
	sweeper := jobs.NewBacklogSweeper(store, analyzeJob, dispatcher, slogLogger)

	// HTTP handler + server
	reviewHandler := handler.NewReviewHandler(store, analyzeJob, dispatcher, workflow, sweeper, slogLogger)
	srv := server.NewServer(ctx, cfg, reviewHandler, slogLogger)

	// App
	application := app.NewApp(cfg, dbConn, store, analyzeJob, dispatcher, workflow, sweeper, srv, slogLogger)

	cleanup := func() {
		dbCleanup()
	}

	return application, cleanup, nil
}
