package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Log levels accepted by NewLogger and ParseLevel.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogFileName is the name of the log file created inside the log directory.
const LogFileName = "intake.log"

// Logger writes JSON log lines through log/slog. Child loggers derived with
// the With* methods share the parent's output and must not outlive a Close
// of the root. It is safe for concurrent use.
type Logger struct {
	sl  *slog.Logger
	out *logFile
}

// logFile is the file shared by a root logger and its children. f is nil
// when the logger writes somewhere it does not own.
type logFile struct {
	mu sync.Mutex
	f  *os.File
}

// NewLogger creates a Logger that appends to {dir}/intake.log, creating dir
// if needed. An empty dir logs to stderr.
func NewLogger(dir string, level string) (*Logger, error) {
	if dir == "" {
		return NewWriterLogger(os.Stderr, level), nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := NewWriterLogger(f, level)
	l.out.f = f
	return l, nil
}

// NewWriterLogger creates a Logger that writes to w. The caller owns w.
func NewWriterLogger(w io.Writer, level string) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel(ParseLevel(level))})
	return &Logger{sl: slog.New(h), out: &logFile{}}
}

// NopLogger returns a Logger that discards everything.
func NopLogger() *Logger {
	return NewWriterLogger(io.Discard, LevelError)
}

// ParseLevel normalizes a user-supplied level. Unknown levels read as INFO.
func ParseLevel(level string) string {
	switch l := strings.ToUpper(strings.TrimSpace(level)); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l
	default:
		return LevelInfo
	}
}

// ValidLevels returns the accepted level names.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}

func slogLevel(level string) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithDate tags entries with the ledger date they concern.
func (l *Logger) WithDate(date string) *Logger {
	return l.derive(slog.String("date", date))
}

// WithOp tags entries with a remote operation name, e.g. "list days".
func (l *Logger) WithOp(op string) *Logger {
	return l.derive(slog.String("op", op))
}

// WithComponent tags entries with the emitting component, e.g. "ledger".
func (l *Logger) WithComponent(name string) *Logger {
	return l.derive(slog.String("component", name))
}

// With returns a child carrying alternating key/value pairs. A pair whose
// key is not a string is dropped.
func (l *Logger) With(args ...any) *Logger {
	attrs := make([]any, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			attrs = append(attrs, slog.Any(key, args[i+1]))
		}
	}
	if len(attrs) == 0 {
		return l
	}
	return &Logger{sl: l.sl.With(attrs...), out: l.out}
}

func (l *Logger) derive(attr slog.Attr) *Logger {
	return &Logger{sl: l.sl.With(attr), out: l.out}
}

// Debug logs at DEBUG with optional key/value pairs.
func (l *Logger) Debug(msg string, args ...any) { l.sl.Debug(msg, args...) }

// Info logs at INFO with optional key/value pairs.
func (l *Logger) Info(msg string, args ...any) { l.sl.Info(msg, args...) }

// Warn logs at WARN with optional key/value pairs.
func (l *Logger) Warn(msg string, args ...any) { l.sl.Warn(msg, args...) }

// Error logs at ERROR with optional key/value pairs.
func (l *Logger) Error(msg string, args ...any) { l.sl.Error(msg, args...) }

// Close syncs and closes the log file. It is a no-op for loggers that do not
// own their output, and safe to call more than once.
func (l *Logger) Close() error {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if l.out.f == nil {
		return nil
	}
	f := l.out.f
	l.out.f = nil
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}
