// Package logger builds the zap logger shared by every engine component.
package logger

import (
	"github.com/Carmen-Shannon/oxy-rt/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds configuration for the logger.
type Config struct {
	// Level is one of debug, info, warn or error. Unknown values fall back to info.
	Level string

	// Encoding is "console" or "json". Empty selects console.
	Encoding string

	// Name is attached to every entry as the logger name.
	Name string
}

// New creates a logger with the given configuration.
//
// Parameters:
//   - cfg: level, encoding and name
//
// Returns:
//   - *zap.Logger: the configured logger
//   - error: error if zap fails to build the sinks
func New(cfg Config) (*zap.Logger, error) {
	cfg.Encoding = common.Coalesce(cfg.Encoding, "console")

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if cfg.Encoding == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config := zap.Config{
		Level:            ParseLevel(cfg.Level),
		Encoding:         cfg.Encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	l, err := config.Build()
	if err != nil {
		return nil, err
	}
	if cfg.Name != "" {
		l = l.Named(cfg.Name)
	}
	return l, nil
}

// ParseLevel converts a level name to a zap.AtomicLevel, defaulting to info.
//
// Parameters:
//   - level: debug, info, warn or error
//
// Returns:
//   - zap.AtomicLevel: the matching level
func ParseLevel(level string) zap.AtomicLevel {
	switch level {
	case "debug":
		return zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
}
