// Package config builds the process configuration once at startup. Values
// come from the environment (a .env file is honored when present) and the
// resulting struct is passed explicitly to whatever needs it; there is no
// ambient global connection state.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the validator reads.
type Config struct {
	// DatabaseURL is the postgres connection string for the record store.
	DatabaseURL string

	// RulesPath points at the rule source file (.csv or .xlsx).
	RulesPath string

	// OutputDir receives persisted result files.
	OutputDir string

	// OutputPrefix is the result filename prefix.
	OutputPrefix string

	// ListenAddr is the HTTP listen address for the serve command.
	ListenAddr string
}

// Defaults applied when the corresponding variable is unset.
const (
	DefaultRulesPath    = "rules/rules.csv"
	DefaultOutputDir    = "output"
	DefaultOutputPrefix = "validations"
	DefaultListenAddr   = ":8080"
)

// FromEnv loads a .env file if one exists and builds the configuration from
// the environment.
func FromEnv() *Config {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RulesPath:    envOr("RULES_PATH", DefaultRulesPath),
		OutputDir:    envOr("OUTPUT_DIR", DefaultOutputDir),
		OutputPrefix: envOr("OUTPUT_PREFIX", DefaultOutputPrefix),
		ListenAddr:   envOr("LISTEN_ADDR", DefaultListenAddr),
	}
}

// RequireDatabase verifies that a database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
