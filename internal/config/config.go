// Package config loads service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the smsledger services.
type Config struct {
	Port     string
	LogLevel string

	// BigQuery record store.
	ProjectID string
	DatasetID string

	// GCS bucket for raw-message archival; empty disables archival.
	ArchiveBucket string

	// SQLite journal used for message dedup. ":memory:" is valid.
	JournalPath string

	// Worker pool sizing for the inbound message queue.
	QueueSize   int
	WorkerCount int
}

// Load reads configuration from the environment. A missing .env file is
// not an error; OS environment variables and defaults still apply.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		ProjectID:     getEnv("BQ_PROJECT_ID", ""),
		DatasetID:     getEnv("BQ_DATASET_ID", "smsledger"),
		ArchiveBucket: getEnv("ARCHIVE_BUCKET", ""),
		JournalPath:   getEnv("JOURNAL_PATH", "./smsledger.db"),
		QueueSize:     getEnvAsInt("QUEUE_SIZE", 100),
		WorkerCount:   getEnvAsInt("WORKER_COUNT", 5),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
