// Package logging builds the structured logger used across the install
// core. The core only emits events; formatting and persistence belong to
// whatever sink zap is configured with.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config defines logger configuration.
type Config struct {
	Level   string // "debug", "info", "warn", "error"
	Verbose bool   // shorthand for debug level with console encoding
}

// New creates a logger with the provided configuration.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, err
		}
	}
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          "console",
		EncoderConfig:     encoderConfig(),
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     true,
		DisableStacktrace: true,
	}

	return zapCfg.Build()
}

// NewDefault creates a logger that cannot fail; misconfiguration falls back
// to a no-op logger. Non-verbose runs log warnings and errors only, keeping
// interactive output clean.
func NewDefault(verbose bool) *zap.Logger {
	logger, err := New(Config{Level: "warn", Verbose: verbose})
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		MessageKey:     "M",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}
