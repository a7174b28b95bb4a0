package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	instance *Logger
	once     sync.Once
)

// Logger writes to stderr and optionally to a log file. Nothing may be
// written to stdout: in stdio transport mode stdout carries the MCP
// protocol stream.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	logFile     *os.File
	mu          sync.Mutex
}

// Init initializes the global logger instance. An empty logDir disables
// file logging and keeps stderr only.
func Init(logDir string) error {
	var initErr error
	once.Do(func() {
		instance, initErr = newLogger(logDir)
	})
	return initErr
}

func newLogger(logDir string) (*Logger, error) {
	var logFile *os.File
	out := io.Writer(os.Stderr)

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		logFileName := fmt.Sprintf("dokploy-mcp-%s.log", time.Now().Format("2006-01-02"))
		logFilePath := filepath.Join(logDir, logFileName)

		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		out = io.MultiWriter(os.Stderr, logFile)
	}

	return &Logger{
		infoLogger:  log.New(out, "", log.LstdFlags),
		warnLogger:  log.New(out, "WARN: ", log.LstdFlags),
		errorLogger: log.New(out, "ERROR: ", log.LstdFlags),
		logFile:     logFile,
	}, nil
}

// Close closes the log file
func Close() error {
	if instance != nil && instance.logFile != nil {
		return instance.logFile.Close()
	}
	return nil
}

// Info logs an informational message
func Info(format string, v ...interface{}) {
	if instance != nil {
		instance.mu.Lock()
		defer instance.mu.Unlock()
		instance.infoLogger.Printf(format, v...)
	}
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	if instance != nil {
		instance.mu.Lock()
		defer instance.mu.Unlock()
		instance.warnLogger.Printf(format, v...)
	}
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	if instance != nil {
		instance.mu.Lock()
		defer instance.mu.Unlock()
		instance.errorLogger.Printf(format, v...)
	}
}

// Printf logs a formatted message
func Printf(format string, v ...interface{}) {
	if instance != nil {
		instance.mu.Lock()
		defer instance.mu.Unlock()
		instance.infoLogger.Printf(format, v...)
	}
}

// Fatal logs a fatal error and exits
func Fatal(v ...interface{}) {
	if instance != nil {
		instance.mu.Lock()
		instance.errorLogger.Fatal(v...)
		instance.mu.Unlock()
	} else {
		log.Fatal(v...)
	}
}

// Fatalf logs a formatted fatal error and exits
func Fatalf(format string, v ...interface{}) {
	if instance != nil {
		instance.mu.Lock()
		instance.errorLogger.Fatalf(format, v...)
		instance.mu.Unlock()
	} else {
		log.Fatalf(format, v...)
	}
}
