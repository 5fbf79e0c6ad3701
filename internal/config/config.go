package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/suaraedu/sentimen/internal/logger"
)

// DefaultModelURL is the inference endpoint of the Indonesian BERT sentiment
// model the portal uses in production.
const DefaultModelURL = "https://router.huggingface.co/hf-inference/models/mdhugol/indonesia-bert-sentiment-classification"

// DBConfig holds the Postgres connection settings.
type DBConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	SSLMode         string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// ClassifierConfig holds the settings for the external classification service.
type ClassifierConfig struct {
	Endpoint string
	APIToken string
	Timeout  time.Duration
}

// Config holds the application's configuration values.
type Config struct {
	ServerPort          string
	Logging             logger.Config
	Database            *DBConfig
	Classifier          ClassifierConfig
	ConfidenceThreshold float64
	MaxWorkers          int
	JobQueueSize        int
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields. It uses the Viper
// library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "sentimen")
	viper.SetDefault("DB_NAME", "sentimen")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", "15m")
	viper.SetDefault("SENTIMENT_MODEL_URL", DefaultModelURL)
	viper.SetDefault("CLASSIFIER_TIMEOUT", "30s")
	viper.SetDefault("CONFIDENCE_THRESHOLD", 0.70)
	viper.SetDefault("MAX_WORKERS", 5)
	viper.SetDefault("JOB_QUEUE_SIZE", 100)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", "error", err)
		}
	}

	threshold := viper.GetFloat64("CONFIDENCE_THRESHOLD")
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("CONFIDENCE_THRESHOLD must be in (0, 1], got %v", threshold)
	}

	if viper.GetString("DB_PASSWORD") == "" {
		return nil, fmt.Errorf("DB_PASSWORD must be set")
	}

	// A missing API token is not fatal here: the verification workflow and
	// read accessors still work. The classifier fails fast per call instead.
	if viper.GetString("HF_API_TOKEN") == "" {
		slog.Warn("HF_API_TOKEN is not set; sentiment analysis will fail until it is configured")
	}

	return &Config{
		ServerPort: viper.GetString("SERVER_PORT"),
		Logging: logger.Config{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
		Database: &DBConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			Username:        viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Database:        viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: viper.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
		Classifier: ClassifierConfig{
			Endpoint: viper.GetString("SENTIMENT_MODEL_URL"),
			APIToken: viper.GetString("HF_API_TOKEN"),
			Timeout:  viper.GetDuration("CLASSIFIER_TIMEOUT"),
		},
		ConfidenceThreshold: threshold,
		MaxWorkers:          viper.GetInt("MAX_WORKERS"),
		JobQueueSize:        viper.GetInt("JOB_QUEUE_SIZE"),
	}, nil
}
