package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvURL, EnvAnonKey, EnvDSN, EnvPort} {
		t.Setenv(k, "")
	}
}

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if cfg.Store.Backend != BackendREST {
		t.Errorf("expected backend %q, got %q", BackendREST, cfg.Store.Backend)
	}
	if cfg.Store.Timeout != 15*time.Second {
		t.Errorf("expected timeout 15s, got %v", cfg.Store.Timeout)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Dashboard.TreemapHeight != 400 || cfg.Dashboard.TreemapPadding != 2 {
		t.Errorf("unexpected treemap size: %+v", cfg.Dashboard)
	}
	if cfg.Dashboard.SearchLimit != 20 {
		t.Errorf("expected search limit 20, got %d", cfg.Dashboard.SearchLimit)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
store:
  backend: SQLite
  path: /tmp/mirror.db
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Store.Backend != BackendSQLite {
		t.Errorf("expected backend normalised to sqlite, got %q", cfg.Store.Backend)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Dashboard.FeedDays != 7 {
		t.Errorf("expected default feed_days, got %d", cfg.Dashboard.FeedDays)
	}
	if cfg.GetDBPath() != "/tmp/mirror.db" {
		t.Errorf("expected configured db path, got %q", cfg.GetDBPath())
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Store.URL != "" {
		t.Errorf("expected empty url, got %q", cfg.Store.URL)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvURL, "https://demo.supabase.co")
	t.Setenv(EnvAnonKey, "anon")
	t.Setenv(EnvPort, "9100")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Store.URL != "https://demo.supabase.co" || cfg.Store.AnonKey != "anon" {
		t.Errorf("env overrides not applied: %+v", cfg.Store)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Server.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestApplyEnvRejectsBadPort(t *testing.T) {
	cfg, _ := parse(nil)
	lookup := func(k string) (string, bool) {
		if k == EnvPort {
			return "eighty", true
		}
		return "", false
	}
	if err := cfg.ApplyEnv(lookup); err == nil {
		t.Error("expected error for non-numeric port")
	}
}

func TestValidate(t *testing.T) {
	cfg, _ := parse(DefaultConfigYAML)
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected rest backend without url to be invalid")
	}
	if !strings.Contains(err.Error(), EnvURL) || !strings.Contains(err.Error(), EnvAnonKey) {
		t.Errorf("expected both missing settings reported, got %v", err)
	}

	cfg.Store.Backend = BackendPostgres
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), EnvDSN) {
		t.Errorf("expected missing dsn error, got %v", err)
	}

	cfg.Store.Backend = BackendSQLite
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected sqlite to be valid, got %v", err)
	}

	cfg.Store.Backend = "mongo"
	if err := cfg.Validate(); err == nil {
		t.Error("expected unknown backend to be invalid")
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvAnonKey)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SUPABASE_ANON_KEY=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("failed to load env file: %v", err)
	}
	if got := os.Getenv(EnvAnonKey); got != "from-dotenv" {
		t.Errorf("expected key from env file, got %q", got)
	}
}

func TestGetDBPath(t *testing.T) {
	cfg := &Config{}
	if cfg.GetDBPath() == "" {
		t.Error("expected non-empty default db path")
	}
	if !strings.HasSuffix(cfg.GetDBPath(), "trendboard.db") {
		t.Errorf("unexpected default db path %q", cfg.GetDBPath())
	}
}
