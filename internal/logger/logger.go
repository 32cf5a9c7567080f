package logger

import (
	"io"
	"os"
	"strings"
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

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(level log.Level, writers ...io.Writer) *Logger {
	return NewWithLevel(io.MultiWriter(writers...), level)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel maps a config level name to a log level. Unknown names fall
// back to info.
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// DocumentParsed logs a completed full-document parse
func (l *Logger) DocumentParsed(blocks int, duration time.Duration) {
	l.Debug("document parsed",
		"blocks", blocks,
		"duration", duration.Round(time.Microsecond))
}

// BlockReparsed logs an in-place block update
func (l *Logger) BlockReparsed(index int, syntax string) {
	l.Debug("block reparsed",
		"index", index,
		"syntax", syntax)
}

// BlockInserted logs a structural insert
func (l *Logger) BlockInserted(index int, syntax string) {
	l.Debug("block inserted",
		"index", index,
		"syntax", syntax)
}

// BlockRemoved logs a structural removal
func (l *Logger) BlockRemoved(index int, syntax string) {
	l.Debug("block removed",
		"index", index,
		"syntax", syntax)
}

// ParseFailed logs a parse error surfaced to the caller
func (l *Logger) ParseFailed(operation string, err error) {
	l.Warn("parse failed",
		"operation", operation,
		"error", err)
}

// DetectionFallback logs an unterminated marker read as markdown
func (l *Logger) DetectionFallback(line int, marker string) {
	l.Warn("unterminated block, reading as markdown",
		"line", line,
		"marker", marker)
}

// RenderSkipped logs a block rendered from its raw text because no parser
// was registered for it
func (l *Logger) RenderSkipped(index int, syntax string) {
	l.Warn("no parser for block, using raw text",
		"index", index,
		"syntax", syntax)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path string, strict bool) {
	l.Debug("config loaded",
		"path", path,
		"strict_detection", strict)
}

// FileConverted logs a note converted between formats
func (l *Logger) FileConverted(source, dest, format string) {
	l.Info("file converted",
		"source", source,
		"dest", dest,
		"format", format)
}

// SyncCompleted logs one finished directory sync
func (l *Logger) SyncCompleted(converted, skipped, errors int) {
	l.Info("sync completed",
		"converted", converted,
		"skipped", skipped,
		"errors", errors)
}

// FileError logs an error for a specific file
func (l *Logger) FileError(file string, err error) {
	l.Error("file error",
		"file", file,
		"error", err)
}
