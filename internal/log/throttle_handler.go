package log

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultThrottleWindow is the default suppression window for repeated
// log records.
const DefaultThrottleWindow = 30 * time.Second

// ThrottleHandler wraps an slog.Handler to suppress identical repeated
// records. A record is identical to a previous one when its level and
// message match; the first occurrence passes through and subsequent
// occurrences within the window are dropped. After the window expires
// the record passes through again with a repeat count attached.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. It can be composed with other handler wrappers
type ThrottleHandler struct {
	// handler is the underlying slog handler that receives records.
	handler slog.Handler

	// window is how long identical records are suppressed after one
	// passes through.
	window time.Duration

	// now returns the current time. Tests replace it.
	now func() time.Time

	// state is shared across handlers derived with WithAttrs and
	// WithGroup so the same message stays throttled everywhere.
	state *throttleState
}

// throttleState is the suppression bookkeeping shared by a handler and
// its derivatives.
type throttleState struct {
	mu   sync.Mutex
	seen map[string]*throttleEntry
}

// throttleEntry tracks the suppression state of one message key.
type throttleEntry struct {
	last       time.Time
	suppressed int
}

// ThrottleHandlerOption configures a ThrottleHandler.
type ThrottleHandlerOption func(*ThrottleHandler)

// WithWindow sets the suppression window.
func WithWindow(window time.Duration) ThrottleHandlerOption {
	return func(h *ThrottleHandler) {
		h.window = window
	}
}

// withClock replaces the time source. Test use only.
func withClock(now func() time.Time) ThrottleHandlerOption {
	return func(h *ThrottleHandler) {
		h.now = now
	}
}

// NewThrottleHandler creates a ThrottleHandler wrapping the given handler.
// If handler is nil, the returned ThrottleHandler wraps slog.Default().Handler().
func NewThrottleHandler(handler slog.Handler, opts ...ThrottleHandlerOption) *ThrottleHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}

	h := &ThrottleHandler{
		handler: handler,
		window:  DefaultThrottleWindow,
		now:     time.Now,
		state: &throttleState{
			seen: make(map[string]*throttleEntry),
		},
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *ThrottleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle passes the record to the underlying handler unless an identical
// record already passed through within the window.
//
// Error and higher levels are never throttled: a fatal condition must
// reach the terminal even if a warning with the same text just did.
func (h *ThrottleHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return h.handler.Handle(ctx, r)
	}

	key := r.Level.String() + "\x00" + r.Message

	h.state.mu.Lock()
	entry, ok := h.state.seen[key]
	if !ok {
		entry = &throttleEntry{}
		h.state.seen[key] = entry
	}

	now := h.now()
	if !entry.last.IsZero() && now.Sub(entry.last) < h.window {
		entry.suppressed++
		h.state.mu.Unlock()
		return nil
	}

	suppressed := entry.suppressed
	entry.last = now
	entry.suppressed = 0
	h.state.mu.Unlock()

	if suppressed > 0 {
		r = r.Clone()
		r.AddAttrs(slog.Int("repeated", suppressed))
	}
	return h.handler.Handle(ctx, r)
}

// WithAttrs returns a new handler with the given attributes added.
// The suppression state is shared with the receiver so that the same
// message remains throttled across derived loggers.
func (h *ThrottleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ThrottleHandler{
		handler: h.handler.WithAttrs(attrs),
		window:  h.window,
		now:     h.now,
		state:   h.state,
	}
}

// WithGroup returns a new handler with the given group name.
func (h *ThrottleHandler) WithGroup(name string) slog.Handler {
	return &ThrottleHandler{
		handler: h.handler.WithGroup(name),
		window:  h.window,
		now:     h.now,
		state:   h.state,
	}
}

// NewLogger creates a *slog.Logger that writes human-readable output to
// w with repeat suppression.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewThrottleHandler(textHandler))
}

// NewJSONLogger creates a *slog.Logger that writes JSON output to w with
// repeat suppression. Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(NewThrottleHandler(jsonHandler))
}
