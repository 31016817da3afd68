// Package evalsession provides an incremental expression-evaluation session
// over an embedded engine. A session owns its engine exclusively, collects
// the engine's side-channel diagnostics per operation, deduplicates namespace
// import directives, tracks referenced external libraries, and can force-bind
// caller-owned Go values into the engine scope.
//
// A session is meant to be driven by one serial caller. There is no internal
// locking: concurrent calls race on the diagnostic buffer and on the engine's
// scope. Every operation blocks until the engine completes; the context is
// used for logging only and cannot cancel an evaluation in progress.
package evalsession

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/fritzcoder/evalsession/engine"
	"github.com/fritzcoder/evalsession/internal/ctxlog"
	"github.com/fritzcoder/evalsession/internal/hclengine"
)

// Session is the sole stateful entity: one engine handle plus the scope,
// diagnostics, imports, and references accumulated around it.
type Session struct {
	eng    engine.Engine
	diags  *diagnosticBuffer
	logger *slog.Logger

	imported    []string
	importedSet map[string]struct{}
	libs        []string
	libSet      map[string]struct{}

	closed bool
}

// New creates a session, wiring the diagnostic sink into the engine and
// running the initial script when one was configured. A fault during the
// initial script releases the engine and fails construction with an
// *EvaluationError.
func New(ctx context.Context, opts ...Option) (*Session, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.eng == nil {
		o.eng = hclengine.New()
	}
	if o.logger == nil {
		o.logger = ctxlog.FromContext(ctx)
	}

	s := &Session{
		eng:         o.eng,
		diags:       &diagnosticBuffer{},
		logger:      o.logger,
		importedSet: make(map[string]struct{}),
		libSet:      make(map[string]struct{}),
	}
	s.eng.SetDiagnosticSink(s.diags)

	if o.initialScript != "" {
		if err := s.eng.Run(s.opCtx(ctx), o.initialScript); err != nil {
			evalErr := &EvaluationError{Diagnostics: s.diags.String(), Err: err}
			_ = s.Close()
			return nil, evalErr
		}
		s.diags.Reset()
	}

	s.logger.Debug("Evaluation session created.")
	return s, nil
}

// Evaluate forwards one snippet to the engine. The returned string is the
// produced value's text, else the diagnostic text the attempt generated, else
// empty. Only unexpected engine faults use the error return (as
// *EvaluationError); a snippet that merely fails to compile is a normal
// string result, and the session stays usable afterwards.
//
// The diagnostic buffer is cleared on every exit path, so a later operation
// never observes this call's diagnostics.
func (s *Session) Evaluate(ctx context.Context, expression string) (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}
	s.diags.Reset()
	defer s.diags.Reset()

	res, err := s.eng.Evaluate(s.opCtx(ctx), expression)
	if err != nil {
		return "", &EvaluationError{Diagnostics: s.diags.String(), Err: err}
	}

	if res.Produced {
		text, err := res.Text()
		if err != nil {
			return "", &EvaluationError{Diagnostics: s.diags.String(), Err: err}
		}
		return text, nil
	}

	if diag := s.diags.String(); diag != "" {
		return diag, nil
	}
	return "", nil
}

// ImportNamespaces canonicalizes the given directive fragments and submits
// each one the session has not seen before through the normal evaluate path,
// recording it in insertion order. Re-submitting a known directive is
// silently skipped: no re-evaluation, no duplicate entry. A nil or empty
// input only clears the diagnostic buffer.
//
// A malformed directive surfaces as an evaluation diagnostic, which this
// method logs and drops; the directive still occupies its slot so the same
// text is never evaluated twice.
func (s *Session) ImportNamespaces(ctx context.Context, directives ...string) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.diags.Reset()

	logger := s.logger
	for _, directive := range splitDirectives(directives) {
		if _, ok := s.importedSet[directive]; ok {
			logger.Debug("Namespace directive already imported, skipping.", "directive", directive)
			continue
		}

		out, err := s.Evaluate(ctx, directive)
		if err != nil {
			return err
		}
		if out != "" {
			logger.Warn("Namespace directive produced diagnostics.", "directive", directive, "diagnostics", out)
		}

		s.importedSet[directive] = struct{}{}
		s.imported = append(s.imported, directive)
	}
	return nil
}

// AddInjectedInstance makes a caller-owned value visible to evaluated
// expressions under the given name. The name must not be the engine's
// reserved self-reference and must contain no whitespace; violations fail
// with an *ArgumentError before any engine interaction.
//
// The instance is first declared as a null placeholder through the evaluate
// path, then bound by overwriting the scope slot via the engine's optional
// raw-binding capability. When the engine does not expose that capability, or
// the value has no engine representation, the call degrades to the
// declaration alone and logs a warning; it does not fail. Re-registering a
// name overwrites the previous binding.
func (s *Session) AddInjectedInstance(ctx context.Context, instance any, name string) error {
	if s.closed {
		return ErrSessionClosed
	}
	if name == engine.SelfName {
		return &ArgumentError{Name: name, Reason: "reserved for the scope self-reference"}
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return &ArgumentError{Name: name, Reason: "must not contain whitespace"}
	}

	logger := s.logger
	out, err := s.Evaluate(ctx, name+" = null")
	if err != nil {
		return err
	}
	if out != "" {
		logger.Warn("Placeholder declaration produced diagnostics.", "name", name, "diagnostics", out)
	}

	binder, ok := s.eng.(engine.RawBinder)
	if !ok {
		logger.Warn("Engine exposes no raw-binding capability; instance declared but not bound.", "name", name)
		return nil
	}
	if !binder.TryBindRawValue(name, instance) {
		logger.Warn("Raw binding failed; instance declared but not bound.",
			"name", name, "go_type", fmt.Sprintf("%T", instance))
	}
	return nil
}

// AddAssemblyReference registers an external library name with the engine's
// settings store. Idempotent: a name already registered is skipped without
// touching the engine. Whether and when a reference affects later evaluations
// is entirely up to the engine.
func (s *Session) AddAssemblyReference(ctx context.Context, name string) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.diags.Reset()

	if _, ok := s.libSet[name]; ok {
		return nil
	}
	if err := s.eng.Settings().AddReference(name); err != nil {
		return &EvaluationError{Diagnostics: s.diags.String(), Err: err}
	}

	s.libSet[name] = struct{}{}
	s.libs = append(s.libs, name)
	s.logger.Debug("Library reference added.", "name", name)
	return nil
}

// LastOperationErrors returns the diagnostic text left behind by the most
// recent operation. Evaluate clears the buffer on exit, so its diagnostics
// are read from its return value instead.
func (s *Session) LastOperationErrors() string {
	return s.diags.String()
}

// ImportedNamespaces returns the canonical imported directives in insertion
// order.
func (s *Session) ImportedNamespaces() []string {
	out := make([]string, len(s.imported))
	copy(out, s.imported)
	return out
}

// ReferencedLibraries returns the registered library names in insertion
// order.
func (s *Session) ReferencedLibraries() []string {
	out := make([]string, len(s.libs))
	copy(out, s.libs)
	return out
}

// Close releases the engine and the diagnostic sink. Idempotent, and release
// problems never propagate: teardown is best-effort and logged at debug
// level. After Close, every mutating operation fails with ErrSessionClosed.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.eng.Close(); err != nil {
		s.logger.Debug("Engine close failed.", "error", err)
	}
	if err := s.diags.Close(); err != nil {
		s.logger.Debug("Diagnostic sink close failed.", "error", err)
	}
	s.logger.Debug("Evaluation session closed.")
	return nil
}

// opCtx guarantees downstream code finds the session logger in the context.
func (s *Session) opCtx(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, s.logger)
}
