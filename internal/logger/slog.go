package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

var (
	slogger  *slog.Logger
	slogFile *os.File
)

// InitSlog initializes the structured logger used for machine-readable
// records (audit events, request traces). Output goes to stderr and, when
// logDir is set, to a day-stamped file. jsonOutput selects JSON lines.
func InitSlog(logDir string, jsonOutput bool) error {
	writer := io.Writer(os.Stderr)

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return err
		}

		logFileName := "dokploy-mcp-structured-" + time.Now().Format("2006-01-02") + ".log"
		logFilePath := filepath.Join(logDir, logFileName)

		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		slogFile = f
		writer = io.MultiWriter(os.Stderr, slogFile)
	}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(writer, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	slogger = slog.New(handler)
	return nil
}

// CloseSlog closes the structured log file
func CloseSlog() error {
	if slogFile != nil {
		return slogFile.Close()
	}
	return nil
}

// Slog returns the slog.Logger instance for structured logging
func Slog() *slog.Logger {
	if slogger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return slogger
}

// WithContext returns a logger annotated with request-scoped fields
func WithContext(ctx context.Context) *slog.Logger {
	l := Slog()

	if requestID := ctx.Value(ContextKeyRequestID); requestID != nil {
		l = l.With("request_id", requestID)
	}
	if tool := ctx.Value(ContextKeyTool); tool != nil {
		l = l.With("tool", tool)
	}
	if projectID := ctx.Value(ContextKeyProjectID); projectID != nil {
		l = l.With("project_id", projectID)
	}

	return l
}

// Context keys for structured logging
type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"
	ContextKeyTool      contextKey = "tool"
	ContextKeyProjectID contextKey = "project_id"
)
