// Package config reads the settings of the command line tools from the
// environment.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
)

// Environment variables.
const (
	EnvLogLevel  = "FITS_LOG_LEVEL"
	EnvLogFormat = "FITS_LOG_FORMAT"
	EnvWorkers   = "FITS_WORKERS"
)

// Config holds the settings shared by the tools. Flags override them.
type Config struct {
	// LogLevel is the minimum log level: debug, info, warn, error (default: warn)
	LogLevel string
	// LogFormat is text or json (default: text)
	LogFormat string
	// Workers is the number of files processed at once (default: GOMAXPROCS)
	Workers int
}

// FromEnv builds a Config from environment variables, with defaults for
// the unset ones.
func FromEnv() (Config, error) {
	cfg := Config{
		LogLevel:  os.Getenv(EnvLogLevel),
		LogFormat: os.Getenv(EnvLogFormat),
		Workers:   runtime.GOMAXPROCS(0),
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("%s=%q: want a positive integer", EnvWorkers, v)
		}
		cfg.Workers = n
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the log format and the worker count.
func (c Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%s=%q: want text or json", EnvLogFormat, c.LogFormat)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers = %d: want at least 1", c.Workers)
	}
	return nil
}
