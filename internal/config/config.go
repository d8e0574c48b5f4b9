// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the tool. Every field has a default;
// nothing is required.
type Config struct {
	// External tool paths. Empty values resolve from PATH.
	FFmpegPath  string `env:"FFMPEG_PATH" json:"ffmpeg_path,omitempty"`
	FFprobePath string `env:"FFPROBE_PATH" json:"ffprobe_path,omitempty"`
	CWebPPath   string `env:"CWEBP_PATH" json:"cwebp_path,omitempty"`

	// Storage settings. Empty means the operating system's temp directory.
	TempDir string `env:"TEMP_DIR" json:"temp_dir,omitempty"`

	// Processing settings.
	MaxWorkers int `env:"MAX_WORKERS, default=1" json:"max_workers"`
	// FFmpegTimeout bounds a single encode. Zero means no timeout,
	// matching the historical behavior.
	FFmpegTimeout time.Duration `env:"FFMPEG_TIMEOUT, default=0" json:"ffmpeg_timeout"`

	// Logging settings.
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=warn" json:"log_level"`   // "debug", "info", "warn", "error"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for piping into
// log collectors; otherwise human-readable text. Logs go to stderr so the
// CLI's own output on stdout stays clean.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{FFmpegPath: %s, FFprobePath: %s, CWebPPath: %s, TempDir: %s, MaxWorkers: %d, FFmpegTimeout: %s, LogFormat: %s, LogLevel: %s}",
		c.FFmpegPath,
		c.FFprobePath,
		c.CWebPPath,
		c.TempDir,
		c.MaxWorkers,
		c.FFmpegTimeout,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
