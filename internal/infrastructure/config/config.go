package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig
	Storage    StorageConfig
	Content    ContentConfig
	Terminal   TerminalConfig
	Monitoring MonitoringConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration. Keystrokes arriving
// over a websocket are limited with the same numbers per connection.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// StorageConfig selects the durable store for created files and high scores.
type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"file"` // file, sqlite, memory
	Path   string `envconfig:"STORAGE_PATH" default:"data"`
}

// ContentConfig points at the static content catalog.
type ContentConfig struct {
	Path  string `envconfig:"CONTENT_PATH" default:""`
	Watch bool   `envconfig:"CONTENT_WATCH" default:"false"`
}

// TerminalConfig holds per-session terminal settings.
type TerminalConfig struct {
	Cols        int           `envconfig:"TERMINAL_COLS" default:"120"`
	Rows        int           `envconfig:"TERMINAL_ROWS" default:"36"`
	Scrollback  int           `envconfig:"TERMINAL_SCROLLBACK" default:"1000"`
	MaxSessions int           `envconfig:"TERMINAL_MAX_SESSIONS" default:"256"`
	CharDelay   time.Duration `envconfig:"TERMINAL_INTRO_CHAR_DELAY" default:"20ms"`
	LineDelay   time.Duration `envconfig:"TERMINAL_INTRO_LINE_DELAY" default:"150ms"`
	GameTick    time.Duration `envconfig:"TERMINAL_GAME_TICK" default:"50ms"`
}

// MonitoringConfig toggles the prometheus endpoint.
type MonitoringConfig struct {
	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Storage: StorageConfig{
			Driver: "file",
			Path:   "data",
		},
		Terminal: TerminalConfig{
			Cols:        120,
			Rows:        36,
			Scrollback:  1000,
			MaxSessions: 256,
			CharDelay:   20 * time.Millisecond,
			LineDelay:   150 * time.Millisecond,
			GameTick:    50 * time.Millisecond,
		},
		Monitoring: MonitoringConfig{
			MetricsEnabled: true,
		},
	}
}
