// Package config loads application settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting. Values come from environment
// variables, with a .env file honored for local use.
type Config struct {
	// DBPath is where the durable ledger lives.
	DBPath string `env:"BILLSPLIT_DB" envDefault:"./data/records.db"`

	// BackupDir is where `billsplit backup` copies the ledger file.
	BackupDir string `env:"BILLSPLIT_BACKUP_DIR" envDefault:"./backup"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the optional .env file and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional in production

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
