/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package logs

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logs *zap.Logger

// Init builds the process logger. Level and format are read from
// TOL_LOG_LEVEL and TOL_LOG_FORMAT because logging starts before the
// configuration is loaded.
func Init(name string) {
	logger, err := NewLogger(os.Getenv("TOL_LOG_LEVEL"), os.Getenv("TOL_LOG_FORMAT"), name)
	if err != nil {
		// fall back to a development logger
		logger, _ = zap.NewDevelopment()
	}

	// assign writer to Logs var
	Logs = logger
}

// NewLogger creates a zap logger with the given level ("debug", "info",
// "warn", "error") and format ("json" or "console").
func NewLogger(level string, format string, serviceName string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	var config zap.Config
	if format == "json" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.OutputPaths = []string{"stderr"}
	} else {
		config = zap.NewDevelopmentConfig()
		config.DisableStacktrace = true
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	if serviceName != "" {
		logger = logger.With(zap.String("service_name", serviceName))
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		logger = logger.With(zap.String("hostname", hostname))
	}

	return logger, nil
}

// Logger returns the structured logger, creating a no-op one when Init
// was never called.
func Logger() *zap.Logger {
	if Logs == nil {
		Logs = zap.NewNop()
	}
	return Logs
}

// Log writes a message in the "[LEVEL][TAG] text" form. The first bracket
// selects the zap level.
func Log(message string) {
	logger := Logger()

	switch levelOf(message) {
	case "CRITICAL", "ERROR":
		logger.Error(message)
	case "WARNING", "WARN", "SECURITY":
		logger.Warn(message)
	case "DEBUG":
		logger.Debug(message)
	default:
		logger.Info(message)
	}
}

func levelOf(message string) string {
	if !strings.HasPrefix(message, "[") {
		return ""
	}
	end := strings.Index(message, "]")
	if end < 0 {
		return ""
	}
	return strings.ToUpper(message[1:end])
}
