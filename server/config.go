package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/meikuraledutech/workflow"
)

const (
	defaultHTTPAddr        = ":3000"
	defaultShutdownTimeout = 5 * time.Second
)

// Config controls server boot and shutdown behavior.
type Config struct {
	HTTPAddr        string
	LogFormat       string // text or json
	LogLevel        slog.Level
	Workers         int
	GraphsDir       string
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:        defaultHTTPAddr,
		LogFormat:       "text",
		LogLevel:        slog.LevelInfo,
		Workers:         workflow.DefaultWorkers,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// LoadConfig reads WORKFLOW_* variables through getenv on top of the defaults.
func LoadConfig(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if addr := strings.TrimSpace(getenv("WORKFLOW_HTTP_ADDR")); addr != "" {
		cfg.HTTPAddr = addr
	}

	if format := strings.ToLower(strings.TrimSpace(getenv("WORKFLOW_LOG_FORMAT"))); format != "" {
		if format != "text" && format != "json" {
			return Config{}, fmt.Errorf("parse WORKFLOW_LOG_FORMAT: must be 'text' or 'json', got %q", format)
		}
		cfg.LogFormat = format
	}

	if level := strings.TrimSpace(getenv("WORKFLOW_LOG_LEVEL")); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return Config{}, fmt.Errorf("parse WORKFLOW_LOG_LEVEL: %w", err)
		}
	}

	if workers := strings.TrimSpace(getenv("WORKFLOW_WORKERS")); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return Config{}, fmt.Errorf("parse WORKFLOW_WORKERS: %w", err)
		}
		if n < 1 {
			return Config{}, fmt.Errorf("parse WORKFLOW_WORKERS: value must be > 0")
		}
		cfg.Workers = n
	}

	cfg.GraphsDir = strings.TrimSpace(getenv("WORKFLOW_GRAPHS_DIR"))

	if timeout := strings.TrimSpace(getenv("WORKFLOW_SHUTDOWN_TIMEOUT")); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse WORKFLOW_SHUTDOWN_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("parse WORKFLOW_SHUTDOWN_TIMEOUT: value must be > 0")
		}
		cfg.ShutdownTimeout = d
	}

	return cfg, nil
}
