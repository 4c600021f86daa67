// Package logging provides structured logging configuration using zerolog.
//
// The logger is constructed once at process startup and handed to the
// components that need it; there is no package-level global.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel `yaml:"level,omitempty" json:"level,omitempty"`

	// Dir is the directory for rotated log files.
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`

	// Console enables console output on stderr.
	Console bool `yaml:"console" json:"console"`

	// File enables rotating file output under Dir.
	File bool `yaml:"file" json:"file"`

	// Pretty enables human-readable console output (default: JSON).
	Pretty bool `yaml:"pretty,omitempty" json:"pretty,omitempty"`

	// MaxSizeMB is the file size that triggers rotation.
	MaxSizeMB int `yaml:"max_size_mb,omitempty" json:"max_size_mb,omitempty"`

	// MaxBackups is the number of rotated files to keep.
	MaxBackups int `yaml:"max_backups,omitempty" json:"max_backups,omitempty"`

	// MaxAgeDays is the age after which rotated files are dropped.
	MaxAgeDays int `yaml:"max_age_days,omitempty" json:"max_age_days,omitempty"`

	// ConsoleOutput overrides the console writer, for tests.
	ConsoleOutput io.Writer `yaml:"-" json:"-"`
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:      LevelInfo,
		Dir:        "./logs",
		Console:    true,
		File:       true,
		Pretty:     true,
		MaxSizeMB:  10,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}
}

// Setup builds the root logger according to cfg. The file writer rotates
// by size and drops backups past the configured count and age.
func Setup(cfg Config) (zerolog.Logger, error) {
	level := parseLevel(cfg.Level)

	var writers []io.Writer
	if cfg.Console {
		out := cfg.ConsoleOutput
		if out == nil {
			out = os.Stderr
		}
		if cfg.Pretty {
			out = zerolog.ConsoleWriter{Out: out}
		}
		writers = append(writers, out)
	}
	if cfg.File {
		dir := cfg.Dir
		if dir == "" {
			dir = "./logs"
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerolog.Nop(), fmt.Errorf("logging: create log dir %s: %w", dir, err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(dir, logFileName()),
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		})
	}
	if len(writers) == 0 {
		return zerolog.Nop(), nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger, nil
}

// NewLogger derives a component-scoped logger from the root logger.
func NewLogger(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}

// CleanupOldLogs removes log files in dir older than maxAge and returns
// the paths it deleted.
func CleanupOldLogs(dir string, maxAge time.Duration) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.log*"))
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-maxAge)
	var removed []string
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return removed, fmt.Errorf("logging: remove %s: %w", path, err)
			}
			removed = append(removed, path)
		}
	}
	return removed, nil
}

func logFileName() string {
	return fmt.Sprintf("raster2sensor_%s.log", time.Now().Format("2006-01-02"))
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
