package logging

import (
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// InitLogger initializes the global logger and installs it as the slog
// default.
func InitLogger(logDir string, retentionDays int, level slog.Level) {
	defaultLogger = SetupLogger(logDir, retentionDays, level)
	slog.SetDefault(defaultLogger)
}

// fallback is used before InitLogger runs, so library packages can log in
// tests without any setup.
func fallback(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func Info(msg string, args ...any) {
	if defaultLogger == nil {
		fallback(slog.LevelInfo).Info(msg, args...)
		return
	}
	defaultLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	if defaultLogger == nil {
		fallback(slog.LevelWarn).Warn(msg, args...)
		return
	}
	defaultLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	if defaultLogger == nil {
		fallback(slog.LevelError).Error(msg, args...)
		return
	}
	defaultLogger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	if defaultLogger == nil {
		fallback(slog.LevelDebug).Debug(msg, args...)
		return
	}
	defaultLogger.Debug(msg, args...)
}
