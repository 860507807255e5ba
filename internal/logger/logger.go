// Package logger provides leveled logging for the service with a console
// backend and an optional file backend.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/op/go-logging"
)

const (
	module     = "discussx"
	timeFormat = "2006/01/02 15:04:05"
)

var (
	logger  = logging.MustGetLogger(module)
	logFile *os.File
)

func init() {
	// usable before InitLogger is called (tests, CLI)
	logger.SetBackend(leveled(consoleBackend(os.Stderr), logging.WARNING))
}

// ParseLevel maps a level name (DEBUG, INFO, WARNING, ERROR) to a logging.Level.
// Unknown names fall back to INFO.
func ParseLevel(name string) logging.Level {
	level, err := logging.LogLevel(strings.ToUpper(strings.TrimSpace(name)))
	if err != nil {
		return logging.INFO
	}
	return level
}

// InitLogger sets up the console backend at the given level and, when filePath
// is not empty, a file backend that always logs at DEBUG.
func InitLogger(level logging.Level, filePath string) {
	backends := []logging.Backend{leveled(consoleBackend(os.Stderr), level)}

	if filePath != "" {
		if fileBackend := initFileBackend(filePath); fileBackend != nil {
			backends = append(backends, leveled(fileBackend, logging.DEBUG))
		}
	}

	logger.SetBackend(logging.MultiLogger(backends...))
}

// SetOutput redirects all logging to w at the given level.
func SetOutput(w io.Writer, level logging.Level) {
	logger.SetBackend(leveled(consoleBackend(w), level))
}

func leveled(backend logging.Backend, level logging.Level) logging.LeveledBackend {
	leveledBackend := logging.AddModuleLevel(backend)
	leveledBackend.SetLevel(level, module)
	return leveledBackend
}

func consoleBackend(w io.Writer) logging.Backend {
	backend := logging.NewLogBackend(w, "", 0)
	return logging.NewBackendFormatter(backend, newFormatter())
}

func initFileBackend(filePath string) logging.Backend {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log folder for %s: %v\n", filePath, err)
		return nil
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o660)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", filePath, err)
		return nil
	}

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file

	return logging.NewBackendFormatter(logging.NewLogBackend(file, "", 0), newFormatter())
}

func newFormatter() logging.Formatter {
	return logging.MustStringFormatter(`%{time:` + timeFormat + `} %{level:.4s} - %{message}`)
}

// CloseLogger closes the log file, if any.
func CloseLogger() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func Debug(args ...any) {
	logger.Debug(args...)
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Info(args ...any) {
	logger.Info(args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warning(args ...any) {
	logger.Warning(args...)
}

func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
}

func Error(args ...any) {
	logger.Error(args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}

// Fatalf logs at critical level and exits the process.
func Fatalf(format string, args ...any) {
	logger.Fatalf(format, args...)
}
