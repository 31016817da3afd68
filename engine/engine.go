// Package engine defines the capability contract between an evaluation
// session and the embedded expression engine it delegates to. It abstracts
// away which engine implementation is in use.
package engine

import (
	"context"
	"io"
)

// SelfName is the reserved identifier engines use for the implicit
// self-reference to the current scope. Sessions refuse it as a binding name.
const SelfName = "self"

// Engine is the narrow surface a session drives. Implementations keep a
// persistent variable scope across Evaluate calls so that a session can grow
// incrementally, and report recoverable compile/eval problems through the
// diagnostic sink rather than through the error return.
type Engine interface {
	// Run evaluates an initial script to prime the engine's scope.
	Run(ctx context.Context, initialScript string) error

	// Evaluate compiles and evaluates a single snippet. Recoverable problems
	// are written to the diagnostic sink and yield a zero Result with a nil
	// error; the error return is reserved for unexpected engine faults.
	Evaluate(ctx context.Context, snippet string) (Result, error)

	// SetDiagnosticSink directs the engine's side-channel diagnostic text to
	// w. A nil sink discards diagnostics.
	SetDiagnosticSink(w io.Writer)

	// Settings exposes the engine's mutable reference list. When and how a
	// registered reference affects later evaluations is engine-defined.
	Settings() Settings

	// Close releases engine resources. Implementations must tolerate being
	// closed more than once.
	Close() error
}

// Settings is the engine's mutable settings store holding the list of
// referenced external libraries.
type Settings interface {
	AddReference(name string) error
	References() []string
}

// RawBinder is an optional capability: engines that expose their internal
// variable table implement it so a caller-owned value can be written straight
// into a scope slot, bypassing normal assignment semantics. Callers must
// discover it with a type assertion and degrade gracefully when it is absent.
type RawBinder interface {
	// TryBindRawValue overwrites the named slot with value, reporting whether
	// the binding took effect.
	TryBindRawValue(name string, value any) bool
}
