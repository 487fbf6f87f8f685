// Package logging builds the zerolog loggers used across bundlekit and carries
// them, together with a per-invocation run ID, through context.Context.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config controls logger construction.
type Config struct {
	Level  string
	Format string
	// File, when set, receives a JSON copy of every log line (append mode).
	File string
}

// Result is the outcome of NewLogger. Close releases the log file, if any.
type Result struct {
	Logger   zerolog.Logger
	FilePath string
	file     *os.File
}

// UsingFile reports whether log lines are also written to a file.
func (r *Result) UsingFile() bool {
	return r.file != nil
}

// Close closes the log file handle opened by NewLogger.
func (r *Result) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// NewLogger creates a logger writing to stderr in the configured format and,
// when cfg.File is set, to that file as JSON. An unparsable level falls back
// to info; a log file that cannot be opened is reported as an error and the
// returned Result still holds a usable stderr-only logger.
func NewLogger(cfg Config, stderr io.Writer) (*Result, error) {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var console io.Writer = stderr
	if cfg.Format != FormatJSON {
		console = zerolog.ConsoleWriter{
			Out:        stderr,
			TimeFormat: time.RFC3339,
		}
	}

	writers := []io.Writer{console}
	result := &Result{}

	var openErr error
	if cfg.File != "" {
		f, fileErr := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if fileErr != nil {
			openErr = fmt.Errorf("opening log file %s: %w", cfg.File, fileErr)
		} else {
			result.file = f
			result.FilePath = cfg.File
			writers = append(writers, f)
		}
	}

	result.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return result, openErr
}

// ComponentLogger returns a child logger tagged with the component name.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// FromContext returns the logger stored in ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

type runIDKey struct{}

// NewRunID returns a fresh, lexically sortable run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// ContextWithRunID stores runID in ctx.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run ID stored in ctx, or "".
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetOrGenerateRunID returns the run ID from ctx, generating one if absent.
func GetOrGenerateRunID(ctx context.Context) string {
	if id := RunIDFromContext(ctx); id != "" {
		return id
	}
	return NewRunID()
}
