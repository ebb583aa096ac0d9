// Package config loads CLI settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into Config.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
	// ErrInvalidValue is returned when a parsed value is outside its allowed set.
	ErrInvalidValue = errors.New("invalid config value")
)

// Config holds process-level settings for cmd/valirator.
type Config struct {
	LogLevel  string `env:"VALIRATOR_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"VALIRATOR_LOG_FORMAT" envDefault:"text"`
	Output    string `env:"VALIRATOR_OUTPUT" envDefault:"json"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (Config, error) {
	// Ignore errors - the .env file might not exist and that's ok
	_ = godotenv.Load()
	return Parse(env.Options{})
}

// Parse parses Config with the given options, without touching .env files.
// Tests use opts.Environment to inject variables.
func Parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: VALIRATOR_LOG_FORMAT=%q", ErrInvalidValue, c.LogFormat)
	}
	switch c.Output {
	case "json", "yaml":
	default:
		return fmt.Errorf("%w: VALIRATOR_OUTPUT=%q", ErrInvalidValue, c.Output)
	}
	return nil
}

// ParseLevel maps debug|info|warn|error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidValue, s)
	}
}
