// Package logging provides a shared, structured logger for the suggestion
// editor.
//
// Callers log through the standard [log/slog] API. The handler underneath is a
// charmbracelet/log logger, which renders leveled, timestamped, key/value
// output. The level can be controlled at startup via the SUGGEST_LOG_LEVEL
// environment variable (debug, info, warn, error); if unset, the default level
// is INFO.
//
// Usage:
//
//	log := logging.New("popup")       // logger tagged with component="popup"
//	log.Debug("repositioned", "top", top, "side", side)
//	log.Error("failed to load directory", "error", err)
//
// Output goes to stderr unless Configure redirects it. The terminal UI owns
// stdout, so the CLI points logs at a file when one is configured.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

var (
	// mu guards current.
	mu sync.Mutex

	// current is the charmbracelet/log logger every component writes through.
	current *charmlog.Logger

	// base is the slog front end. Its handler resolves current on every
	// record, so loggers created before Configure follow later changes.
	base = slog.New(&forwardHandler{})
)

// New returns a structured logger scoped to the given component name.
//
// The component name is added as a "component" attribute to every entry
// produced by the returned logger. If component is empty, the base logger is
// returned. Package-level loggers may be created at init time; output and level
// are resolved when each record is written.
func New(component string) *slog.Logger {
	if component == "" {
		return base
	}
	return base.With("component", component)
}

// Configure replaces the output writer and level of the shared handler.
func Configure(w io.Writer, level string) {
	mu.Lock()
	defer mu.Unlock()
	current = newCharmLogger(w, level)
}

func newCharmLogger(w io.Writer, level string) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		Level:           parseLevel(level),
		ReportTimestamp: true,
		Prefix:          "suggest",
	})
}

func handler() slog.Handler {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = newCharmLogger(os.Stderr, os.Getenv("SUGGEST_LOG_LEVEL"))
	}
	return current
}

// forwardHandler replays derived attributes and groups onto whichever
// charmbracelet/log logger is current when a record is handled.
type forwardHandler struct {
	derive []func(slog.Handler) slog.Handler
}

func (h *forwardHandler) resolve() slog.Handler {
	out := handler()
	for _, d := range h.derive {
		out = d(out)
	}
	return out
}

func (h *forwardHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return handler().Enabled(ctx, level)
}

func (h *forwardHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.resolve().Handle(ctx, r)
}

func (h *forwardHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.with(func(next slog.Handler) slog.Handler { return next.WithAttrs(attrs) })
}

func (h *forwardHandler) WithGroup(name string) slog.Handler {
	return h.with(func(next slog.Handler) slog.Handler { return next.WithGroup(name) })
}

func (h *forwardHandler) with(d func(slog.Handler) slog.Handler) *forwardHandler {
	derive := make([]func(slog.Handler) slog.Handler, 0, len(h.derive)+1)
	derive = append(derive, h.derive...)
	derive = append(derive, d)
	return &forwardHandler{derive: derive}
}

// parseLevel converts a human-readable log level string to a charmbracelet/log
// level.
//
// Recognized values (case-insensitive, whitespace-trimmed):
//   - "debug"           → DebugLevel
//   - "warn", "warning" → WarnLevel
//   - "error"           → ErrorLevel
//   - anything else     → InfoLevel (the default)
func parseLevel(value string) charmlog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return charmlog.DebugLevel
	case "warn", "warning":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}
