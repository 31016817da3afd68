package evalsession

import (
	"log/slog"

	"github.com/fritzcoder/evalsession/engine"
)

// Option configures a Session at construction time.
type Option func(*options)

type options struct {
	eng           engine.Engine
	logger        *slog.Logger
	initialScript string
}

// WithEngine supplies the embedded engine the session delegates to. The
// session takes exclusive ownership: no two sessions may share one engine,
// and the session closes it. When omitted, a fresh default engine is created.
func WithEngine(eng engine.Engine) Option {
	return func(o *options) {
		o.eng = eng
	}
}

// WithLogger sets the logger used by all session operations. When omitted,
// the logger is taken from the construction context, falling back to
// slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithInitialScript primes the engine's scope before the session is handed
// to the caller. A fault during the script aborts construction.
func WithInitialScript(script string) Option {
	return func(o *options) {
		o.initialScript = script
	}
}
