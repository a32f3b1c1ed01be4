// Package log provides the logging infrastructure shared by every mcplab
// command.
//
// Loggers are injected into components via constructors rather than read
// from a package-level default, so multiple sessions can run side by side
// without sharing state.
//
// The interactive clients own stdout for the chat display, so they log to
// a file (see NewFile); servers log to stderr, keeping stdout free for the
// stdio transport.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is a type alias for *slog.Logger. Using the standard library type
// directly keeps full compatibility with the slog ecosystem and With().
type Logger = *slog.Logger

// Config defines logger options.
type Config struct {
	// Level sets the minimum log level. Default: slog.LevelInfo.
	Level slog.Level

	// JSON enables JSON output. Default: false (text format).
	JSON bool

	// AddSource adds source file information to log entries.
	AddSource bool
}

// New creates a logger writing to os.Stderr.
func New(cfg Config) Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter creates a logger that writes to w. Useful for tests and
// custom destinations.
func NewWithWriter(w io.Writer, cfg Config) Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// NewFile creates a logger appending to the file at path, creating parent
// directories as needed. The returned closer must be called on shutdown.
// Interactive clients use this so log output never interleaves with the
// chat display.
func NewFile(path string, cfg Config) (Logger, io.Closer, error) {
	if path == "" {
		path = DefaultFile()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return NewWithWriter(f, cfg), f, nil
}

// DefaultFile returns the default client log path under the OS temp
// directory.
func DefaultFile() string {
	return filepath.Join(os.TempDir(), "mcplab.log")
}

// NewNop creates a logger that discards all output. Test use only.
func NewNop() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
