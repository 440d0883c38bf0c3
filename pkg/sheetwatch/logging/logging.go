// Package logging builds the zap loggers used by the dashboard.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Plugin is a log sink.
type Plugin = zapcore.Core

// DefaultEncoderConfig returns the production encoder config with capital
// levels and ISO8601 timestamps.
func DefaultEncoderConfig() zapcore.EncoderConfig {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return encoderConfig
}

// DefaultEncoder returns a JSON encoder using DefaultEncoderConfig.
func DefaultEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(DefaultEncoderConfig())
}

// DefaultOption adds caller information and records stack traces from
// DPanic upwards.
func DefaultOption() []zap.Option {
	var stackTraceLevel zap.LevelEnablerFunc = func(level zapcore.Level) bool {
		return level >= zapcore.DPanicLevel
	}
	return []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(stackTraceLevel),
	}
}

// DefaultLumberjackLogger returns a rotating writer capped at 200MB per file.
func DefaultLumberjackLogger() *lumberjack.Logger {
	return &lumberjack.Logger{
		MaxSize:    200,
		MaxBackups: 5,
		LocalTime:  true,
		Compress:   true,
	}
}

// NewLogger creates a logger writing to plugin.
func NewLogger(plugin Plugin, options ...zap.Option) *zap.Logger {
	return zap.New(plugin, append(DefaultOption(), options...)...)
}

// NewPlugin creates a JSON sink on writer.
func NewPlugin(writer zapcore.WriteSyncer, enabler zapcore.LevelEnabler) Plugin {
	return zapcore.NewCore(DefaultEncoder(), writer, enabler)
}

// NewStderrPlugin creates a sink on standard error.
func NewStderrPlugin(enabler zapcore.LevelEnabler) Plugin {
	return NewPlugin(zapcore.Lock(zapcore.AddSync(os.Stderr)), enabler)
}

// NewFilePlugin creates a rotating file sink. lumberjack does not expose Sync,
// so the returned closer must be closed before exit to flush the file.
func NewFilePlugin(filePath string, enabler zapcore.LevelEnabler) (Plugin, io.Closer) {
	writer := DefaultLumberjackLogger()
	writer.Filename = filePath
	return NewPlugin(zapcore.AddSync(writer), enabler), writer
}

// ParseLevel maps a level name ("debug", "info", ...) to a zap level.
// An empty name means info.
func ParseLevel(name string) (zapcore.Level, error) {
	if strings.TrimSpace(name) == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// New builds the application logger: stderr always, plus a rotating file when
// filePath is set. The closer is a no-op without a file.
func New(levelName, filePath string) (*zap.Logger, io.Closer, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}

	plugins := []Plugin{NewStderrPlugin(level)}
	var closer io.Closer = nopCloser{}
	if filePath != "" {
		filePlugin, fileCloser := NewFilePlugin(filePath, level)
		plugins = append(plugins, filePlugin)
		closer = fileCloser
	}
	return NewLogger(zapcore.NewTee(plugins...)), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
