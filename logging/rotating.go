// Package logging wraps log/slog with a console handler plus a rotating
// JSON file handler, and exposes package-level helpers so every other
// package logs the same way.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RotatingWriter writes to one log file per day and deletes files older
// than the retention period.
type RotatingWriter struct {
	logDir      string
	retention   time.Duration
	mu          sync.Mutex
	currentDay  string
	currentFile *os.File
	lastCleanup time.Time
}

// NewRotatingWriter creates a daily-rotating log writer.
func NewRotatingWriter(logDir string, retentionDays int) *RotatingWriter {
	return &RotatingWriter{
		logDir:    logDir,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Write rotates to a new file when the day changes, then appends.
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	day := dayKey(time.Now())
	if rw.currentFile == nil || rw.currentDay != day {
		if err := rw.rotate(day); err != nil {
			return 0, err
		}
	}

	n, err := rw.currentFile.Write(p)

	// Cleanup piggybacks on writes, at most once an hour
	if time.Since(rw.lastCleanup) > time.Hour {
		rw.lastCleanup = time.Now()
		go rw.cleanupOldLogs()
	}

	return n, err
}

// rotate closes the current file and opens the one for day. Caller holds
// the lock.
func (rw *RotatingWriter) rotate(day string) error {
	if rw.currentFile != nil {
		if err := rw.currentFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file during rotation: %v\n", err)
		}
	}

	logPath := filepath.Join(rw.logDir, fmt.Sprintf("getmol-%s.log", day))
	file, err := os.OpenFile(filepath.Clean(logPath), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	rw.currentFile = file
	rw.currentDay = day
	return nil
}

// cleanupOldLogs removes log files older than the retention period.
func (rw *RotatingWriter) cleanupOldLogs() {
	entries, err := os.ReadDir(rw.logDir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-rw.retention)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "getmol-") || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(rw.logDir, entry.Name()))
		}
	}
}

// Close closes the current log file.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.currentFile != nil {
		err := rw.currentFile.Close()
		rw.currentFile = nil
		return err
	}
	return nil
}

// SetupLogger wires slog to the console (text) and a rotating file (JSON).
// If the log directory cannot be created, it falls back to console only.
func SetupLogger(logDir string, retentionDays int, level slog.Level) *slog.Logger {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	if err := os.MkdirAll(logDir, 0o750); err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to create logs directory, logging to console only", "error", err)
		return logger
	}

	fileHandler := slog.NewJSONHandler(NewRotatingWriter(logDir, retentionDays), &slog.HandlerOptions{Level: level})

	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}})
}

// multiHandler fans one record out to several handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
