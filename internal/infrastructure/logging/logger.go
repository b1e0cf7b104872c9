// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger level, encoding and destination
type Options struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	OutputFile string // empty logs to stderr
}

// ParseLevel converts a level name to a zap level
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", level)
	}
}

// Config returns the zap configuration for opts without building it
func Config(opts Options) (zap.Config, error) {
	zapLevel, err := ParseLevel(opts.Level)
	if err != nil {
		return zap.Config{}, err
	}

	var config zap.Config
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "console":
		config = zap.NewDevelopmentConfig()
	case "", "json":
		config = zap.NewProductionConfig()
	default:
		return zap.Config{}, fmt.Errorf("invalid log format: %s", opts.Format)
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	if opts.OutputFile != "" {
		if dir := filepath.Dir(opts.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return zap.Config{}, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}
		config.OutputPaths = []string{opts.OutputFile}
		config.ErrorOutputPaths = []string{opts.OutputFile}
	}

	return config, nil
}

// New builds a logger for opts
func New(opts Options) (*zap.Logger, error) {
	config, err := Config(opts)
	if err != nil {
		return nil, err
	}
	return config.Build()
}
