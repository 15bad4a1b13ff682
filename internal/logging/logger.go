package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Logger wraps slog.Logger with redaction and domain tag helpers. Loggers
// write to stderr by default so stdout stays clean for report content.
type Logger struct {
	*slog.Logger
	sanitizer *Sanitizer
}

// Config selects level, format, and destination.
type Config struct {
	Level     string
	Format    string // auto, text, json
	Output    io.Writer
	AddSource bool
}

// New builds a logger. Format "auto" picks the pretty console handler on a
// terminal and JSON otherwise; every handler is wrapped with the sanitizer.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		if isTerminal(out) {
			handler = NewPrettyHandler(out, parseLevel(cfg.Level))
		} else {
			handler = slog.NewJSONHandler(out, opts)
		}
	}

	sanitizer := NewSanitizer()
	return &Logger{
		Logger:    slog.New(&sanitizingHandler{next: handler, sanitizer: sanitizer}),
		sanitizer: sanitizer,
	}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		sanitizer: NewSanitizer(),
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// WithComponent tags records with a subsystem name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With("component", name)
}

// WithReport tags records with a report ID.
func (l *Logger) WithReport(reportID string) *Logger {
	return l.With("report_id", reportID)
}

// WithSignal tags records with a signal description.
func (l *Logger) WithSignal(signal string) *Logger {
	return l.With("signal", signal)
}

// With returns a logger carrying extra fields.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), sanitizer: l.sanitizer}
}

// Sanitizer exposes the redactor for callers that clean text themselves.
func (l *Logger) Sanitizer() *Sanitizer {
	return l.sanitizer
}

// Sanitize redacts secrets from input using the logger's pattern set.
func (l *Logger) Sanitize(input string) string {
	return l.sanitizer.Sanitize(input)
}
