package shared

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger. Console encoding is used unless jsonOutput is set.
func NewLogger(level string, jsonOutput bool) (*zap.Logger, error) {
	parsedLevel, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	config := zap.NewProductionConfig()
	if !jsonOutput {
		config = zap.NewDevelopmentConfig()
		config.DisableStacktrace = true
	}
	config.Level = zap.NewAtomicLevelAt(parsedLevel)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}

// LoggerOrNop returns logger, or a no-op logger when it is nil.
func LoggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
