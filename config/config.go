package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"students-api-go/db"
)

// Default values for the service configuration.
const (
	DefaultAddr           = ":8000"
	DefaultMessage        = "Students API"
	DefaultSourceLocation = db.DefaultSourceLocation
	DefaultLogLevel       = "info"

	// SourceEnv overrides source.location when set.
	SourceEnv = "STUDENTS_SOURCE"
)

// Config holds the service configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Source SourceConfig `yaml:"source"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `yaml:"addr"`

	// Message is returned by GET / to identify the service.
	Message string `yaml:"message"`
}

// SourceConfig describes where the student dataset comes from.
type SourceConfig struct {
	// Location is a local .csv/.xlsx path, s3://bucket/key, or
	// redis://host:port/db?key=name. Default: students.csv.
	Location string `yaml:"location"`

	// Watch reloads the dataset when the source file changes. Local files only.
	Watch bool `yaml:"watch"`

	// ReloadInterval reloads the dataset periodically. Zero disables it.
	ReloadInterval time.Duration `yaml:"reload_interval"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`
}

// SlogLevel maps Level onto a slog.Level.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads the config file at path, if any, over the defaults, applies the
// STUDENTS_SOURCE override and validates the result. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if loc := os.Getenv(SourceEnv); loc != "" {
		cfg.Source.Location = loc
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    DefaultAddr,
			Message: DefaultMessage,
		},
		Source: SourceConfig{
			Location: DefaultSourceLocation,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Validate checks structural constraints on cfg.
func Validate(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if cfg.Source.Location == "" {
		return fmt.Errorf("source.location must not be empty")
	}
	if cfg.Source.ReloadInterval < 0 {
		return fmt.Errorf("source.reload_interval must not be negative")
	}
	if cfg.Source.Watch && !db.IsLocalFile(cfg.Source.Location) {
		return fmt.Errorf("source.watch needs a local file, got %q", cfg.Source.Location)
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error", "":
	default:
		return fmt.Errorf("log.level %q unknown: want debug|info|warn|error", cfg.Log.Level)
	}
	return nil
}
