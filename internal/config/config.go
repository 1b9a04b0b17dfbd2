// Package config loads the application configuration from the
// environment. A .env file is honored when present.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/finflow/statement-extractor/internal/models"
)

// DataFolderEnv names the required environment variable holding the base
// data directory. All source folders and default outputs resolve under it.
const DataFolderEnv = "DATA_FOLDER"

// Config holds the resolved application configuration.
type Config struct {
	// DataFolder is the absolute base directory for statement data.
	DataFolder string
	// LogLevel is the zap log level (debug, info, warn, error).
	LogLevel string
	// ListenAddr is the HTTP listen address for serve mode.
	ListenAddr string
}

// Load reads configuration from the environment. The DATA_FOLDER variable
// is required; its absence is a fatal configuration error at startup, not
// something discovered mid-run.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	base := os.Getenv(DataFolderEnv)
	if base == "" {
		return nil, &models.ConfigurationError{Detail: "environment variable " + DataFolderEnv + " is not set"}
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, &models.ConfigurationError{Detail: "cannot resolve " + DataFolderEnv + ": " + err.Error()}
	}

	cfg := &Config{
		DataFolder: abs,
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
	}
	return cfg, nil
}

// SourceFolder resolves a source folder relative to the data folder.
func (c *Config) SourceFolder(sub string) string {
	return filepath.Join(c.DataFolder, sub)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
