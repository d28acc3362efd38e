// Package logger builds the zap loggers used across the game and launcher.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config defines logging configuration
type Config struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"` // json or console
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the production configuration: info level, JSON.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
	}
}

// DevelopmentConfig returns a debug level console configuration.
func DevelopmentConfig() Config {
	return Config{
		Level:       "debug",
		Format:      "console",
		Development: true,
	}
}

// FromEnv applies FINGERBIRD_ENV, FINGERBIRD_LOG_LEVEL and
// FINGERBIRD_LOG_FORMAT on top of cfg.
func FromEnv(cfg Config) Config {
	if strings.ToLower(os.Getenv("FINGERBIRD_ENV")) == "development" {
		cfg = DevelopmentConfig()
	}
	if level := os.Getenv("FINGERBIRD_LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	if format := os.Getenv("FINGERBIRD_LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	return cfg
}

// New builds a zap logger from cfg. An unknown level falls back to info.
func New(cfg Config) (*zap.Logger, error) {
	var zapConfig zap.Config

	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	if cfg.Format == "console" {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	// no sampling
	zapConfig.Sampling = nil

	return zapConfig.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
