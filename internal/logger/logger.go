package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file at the given level.
// Entries are also copied to any extra writers.
func NewFileLogger(path string, level log.Level, extra ...io.Writer) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewMultiLogger(level, append([]io.Writer{f}, extra...)...), cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(level log.Level, writers ...io.Writer) *Logger {
	return NewWithLevel(io.MultiWriter(writers...), level)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// SyncStarted logs the start of a sync operation
func (l *Logger) SyncStarted(runID, sourceDir, outputDir string) {
	l.Info("sync started",
		"run", runID,
		"source_dir", sourceDir,
		"output_dir", outputDir)
}

// SyncCompleted logs the completion of a sync operation
func (l *Logger) SyncCompleted(runID string, filesConverted int, errors int, duration time.Duration) {
	l.Info("sync completed",
		"run", runID,
		"files_converted", filesConverted,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// FileConverted logs a successful conversion
func (l *Logger) FileConverted(source, dest, reason string) {
	l.Info("file converted",
		"source", source,
		"dest", dest,
		"reason", reason)
}

// FileRemoved logs removal of an output whose source is gone
func (l *Logger) FileRemoved(source, dest string) {
	l.Info("output removed",
		"source", source,
		"dest", dest)
}

// ConversionError logs a conversion error
func (l *Logger) ConversionError(source, dest string, err error) {
	l.Error("conversion failed",
		"source", source,
		"dest", dest,
		"error", err)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(sourceDir, outputDir string, interval time.Duration) {
	l.Debug("config loaded",
		"source_dir", sourceDir,
		"output_dir", outputDir,
		"interval", interval)
}

// Skipped logs when a file is skipped
func (l *Logger) Skipped(file, reason string) {
	l.Debug("file skipped",
		"file", file,
		"reason", reason)
}
