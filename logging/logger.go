// Package logging builds the zap loggers used across the server.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger writing to stderr. With debug set it switches
// to the console encoder at debug level. Stdout is left alone so the
// stdio MCP transport can own it.
func New(debug bool) (*zap.Logger, error) {
	level := zap.InfoLevel
	encoding := "json"
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if debug {
		level = zap.DebugLevel
		encoding = "console"
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: debug,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    !debug,
	}

	return config.Build()
}
