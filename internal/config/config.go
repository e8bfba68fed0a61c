package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// Store backends.
const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Environment variables that override the file.
const (
	EnvURL     = "SUPABASE_URL"
	EnvAnonKey = "SUPABASE_ANON_KEY"
	EnvDSN     = "DATABASE_URL"
	EnvPort    = "TRENDBOARD_PORT"
)

type Config struct {
	Store     Store     `yaml:"store"`
	Server    Server    `yaml:"server"`
	Dashboard Dashboard `yaml:"dashboard"`
	Logging   Logging   `yaml:"logging"`
}

type Store struct {
	Backend   string        `yaml:"backend"`
	URL       string        `yaml:"url"`
	AnonKey   string        `yaml:"anon_key"`
	DSN       string        `yaml:"dsn"`
	Path      string        `yaml:"path"`
	RateLimit float64       `yaml:"rate_limit"`
	Burst     int           `yaml:"burst"`
	Timeout   time.Duration `yaml:"timeout"`
}

type Server struct {
	Port            int `yaml:"port"`
	SessionCapacity int `yaml:"session_capacity"`
}

type Dashboard struct {
	TreemapWidth   float64 `yaml:"treemap_width"`
	TreemapHeight  float64 `yaml:"treemap_height"`
	TreemapPadding float64 `yaml:"treemap_padding"`
	ArticleLimit   int     `yaml:"article_limit"`
	SearchLimit    int     `yaml:"search_limit"`
	FeedDays       int     `yaml:"feed_days"`
}

type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConfigDir returns the XDG config directory for trendboard.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "trendboard")
}

// DataDir returns the XDG data directory for trendboard.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "trendboard")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/trendboard/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'trendboard init' to create a default config",
		xdgConfig,
	)
}

// LoadDotEnv loads KEY=value pairs from the given files (default ./.env) into the
// environment. Variables already set win, and missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// Load reads and parses a config YAML file, then applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Store: Store{
			Backend:   BackendREST,
			RateLimit: 10,
			Burst:     5,
			Timeout:   15 * time.Second,
		},
		Server: Server{Port: 8000, SessionCapacity: 1024},
		Dashboard: Dashboard{
			TreemapWidth:   960,
			TreemapHeight:  400,
			TreemapPadding: 2,
			ArticleLimit:   50,
			SearchLimit:    20,
			FeedDays:       7,
		},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))

	return cfg, nil
}

// ApplyEnv overrides connection settings from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvURL); ok && v != "" {
		c.Store.URL = v
	}
	if v, ok := lookup(EnvAnonKey); ok && v != "" {
		c.Store.AnonKey = v
	}
	if v, ok := lookup(EnvDSN); ok && v != "" {
		c.Store.DSN = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks that the selected backend has what it needs to connect.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case BackendREST:
		if c.Store.URL == "" {
			errs = append(errs, fmt.Errorf("store.url is required for the rest backend (or set %s)", EnvURL))
		}
		if c.Store.AnonKey == "" {
			errs = append(errs, fmt.Errorf("store.anon_key is required for the rest backend (or set %s)", EnvAnonKey))
		}
	case BackendPostgres:
		if c.Store.DSN == "" {
			errs = append(errs, fmt.Errorf("store.dsn is required for the postgres backend (or set %s)", EnvDSN))
		}
	case BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q (want rest, postgres or sqlite)", c.Store.Backend))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Dashboard.SearchLimit <= 0 {
		errs = append(errs, errors.New("dashboard.search_limit must be positive"))
	}
	return errors.Join(errs...)
}

// GetDBPath returns the SQLite mirror path from config or the XDG default.
func (c *Config) GetDBPath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(DataDir(), "trendboard.db")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
