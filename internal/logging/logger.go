// Package logging provides the leveled run logger: every line goes to the
// console (colored when enabled) and to the run log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/mkvshrink/internal/config"
	"github.com/backmassage/mkvshrink/internal/term"
)

// TimeFormat is used for every timestamp the logger writes.
const TimeFormat = "2006-01-02 15:04:05"

// Logger provides leveled, optionally colored logging with an optional file
// sink. It is safe for concurrent use, though the pipeline only ever logs
// from one goroutine.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	file    *os.File
	verbose bool
	runID   string
}

// New returns a console-only logger writing INFO and below to out and ERROR
// to errOut. Colors follow the current [term] configuration.
func New(out, errOut io.Writer) *Logger {
	return &Logger{out: out, errOut: errOut, runID: uuid.NewString()}
}

// NewLogger creates the run logger: console output on stdout/stderr plus the
// log file at cfg.LogFile, which is truncated and started with a header
// banner. Call Close() when the run ends.
func NewLogger(cfg *config.Config) (*Logger, error) {
	l := New(os.Stdout, os.Stderr)
	l.verbose = cfg.Verbose

	if cfg.LogFile == "" {
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.file = f

	if _, err := io.WriteString(f, l.header(time.Now())); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write log header: %w", err)
	}
	return l, nil
}

func (l *Logger) header(start time.Time) string {
	var b strings.Builder
	b.WriteString("=== Video Processing Log ===\n")
	fmt.Fprintf(&b, "Start Time: %s\n", start.Format(TimeFormat))
	fmt.Fprintf(&b, "Run ID: %s\n", l.runID)
	b.WriteString(strings.Repeat("=", 30) + "\n\n")
	return b.String()
}

// RunID returns the identifier written to the log header.
func (l *Logger) RunID() string { return l.runID }

// Close syncs and closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	syncErr := l.file.Sync()
	err := l.file.Close()
	l.file = nil
	if err != nil {
		return err
	}
	return syncErr
}

func (l *Logger) line(level, color, text string) {
	ts := time.Now().Format(TimeFormat)
	l.mu.Lock()
	defer l.mu.Unlock()
	plain := ts + " [" + level + "] " + text + "\n"
	out := l.out
	if level == "ERROR" {
		out = l.errOut
	}
	if color != "" {
		_, _ = io.WriteString(out, ts+" "+color+"["+level+"]"+term.NC+" "+text+"\n")
	} else {
		_, _ = io.WriteString(out, plain)
	}
	if l.file != nil {
		_, _ = io.WriteString(l.file, plain)
	}
}

// Debug logs at DEBUG level (cyan) when verbose output is enabled.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.mu.Lock()
	verbose := l.verbose
	l.mu.Unlock()
	if !verbose {
		return
	}
	l.line("DEBUG", term.Cyan, fmt.Sprintf(format, args...))
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", term.Blue, fmt.Sprintf(format, args...))
}

// Success logs a positive outcome at INFO level (green on the console).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("INFO", term.Green, fmt.Sprintf(format, args...))
}

// Warn logs at WARNING level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARNING", term.Yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to stderr on the console.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", term.Red, fmt.Sprintf(format, args...))
}
