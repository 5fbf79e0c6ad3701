//go:build wireinject
// +build wireinject

package wire

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/wire"

	"github.com/suaraedu/sentimen/internal/app"
	"github.com/suaraedu/sentimen/internal/classifier"
	"github.com/suaraedu/sentimen/internal/config"
	"github.com/suaraedu/sentimen/internal/core"
	"github.com/suaraedu/sentimen/internal/db"
	"github.com/suaraedu/sentimen/internal/jobs"
	"github.com/suaraedu/sentimen/internal/logger"
	"github.com/suaraedu/sentimen/internal/sentiment"
	"github.com/suaraedu/sentimen/internal/server"
	"github.com/suaraedu/sentimen/internal/server/handler"
	"github.com/suaraedu/sentimen/internal/storage"
	"github.com/suaraedu/sentimen/internal/verification"
)

func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	wire.Build(
		app.NewApp,
		server.NewServer,
		handler.NewReviewHandler,
		config.LoadConfig,
		db.NewDatabase,
		storage.NewStore,
		jobs.NewAnalyzeJob,
		jobs.NewBacklogSweeper,
		verification.NewWorkflow,
		provideDispatcher,
		provideClassifier,
		providePolicy,
		provideJob,
		provideDBConfig,
		provideLoggerConfig,
		provideLogWriter,
		provideSlogLogger,
	)
	return &app.App{}, nil, nil
}

func provideClassifier(cfg *config.Config, log *slog.Logger) classifier.Client {
	return classifier.New(classifier.Config{
		Endpoint: cfg.Classifier.Endpoint,
		APIToken: cfg.Classifier.APIToken,
		Timeout:  cfg.Classifier.Timeout,
	}, log)
}

func providePolicy(cfg *config.Config) sentiment.Policy {
	return sentiment.Policy{
		Threshold: cfg.ConfidenceThreshold,
		LabelMap:  sentiment.DefaultLabelMap(),
	}
}

func provideJob(job *jobs.AnalyzeJob) core.Job {
	return job
}

func provideDispatcher(job *jobs.AnalyzeJob, cfg *config.Config, log *slog.Logger) core.JobDispatcher {
	return jobs.NewDispatcher(job, cfg.MaxWorkers, cfg.JobQueueSize, log)
}

func provideDBConfig(cfg *config.Config) *config.DBConfig {
	return cfg.Database
}

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideLogWriter() io.Writer {
	return os.Stdout
}

func provideSlogLogger(loggerConfig logger.Config, writer io.Writer) *slog.Logger {
	return logger.NewLogger(loggerConfig, writer)
}
