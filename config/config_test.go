package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RULES_PATH", "")
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("OUTPUT_PREFIX", "")
	t.Setenv("LISTEN_ADDR", "")

	cfg := FromEnv()

	if cfg.RulesPath != DefaultRulesPath {
		t.Errorf("RulesPath = %q, want %q", cfg.RulesPath, DefaultRulesPath)
	}
	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, DefaultOutputDir)
	}
	if cfg.OutputPrefix != DefaultOutputPrefix {
		t.Errorf("OutputPrefix = %q, want %q", cfg.OutputPrefix, DefaultOutputPrefix)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, DefaultListenAddr)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("RULES_PATH", "/etc/validator/rules.xlsx")
	t.Setenv("OUTPUT_DIR", "/var/lib/validator")

	cfg := FromEnv()

	if cfg.DatabaseURL != "postgres://localhost/test" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.RulesPath != "/etc/validator/rules.xlsx" {
		t.Errorf("RulesPath = %q", cfg.RulesPath)
	}
	if cfg.OutputDir != "/var/lib/validator" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestRequireDatabase(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireDatabase(); err == nil {
		t.Error("RequireDatabase() should fail when DATABASE_URL is unset")
	}

	cfg.DatabaseURL = "postgres://localhost/db"
	if err := cfg.RequireDatabase(); err != nil {
		t.Errorf("RequireDatabase() failed: %v", err)
	}
}
