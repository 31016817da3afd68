// Package hclengine is the default embedded expression engine. Snippets are
// HCL expressions evaluated against a variable scope that persists across
// calls, so a session built on it grows incrementally: each assignment stays
// visible to every later snippet.
//
// Three snippet forms are accepted, each optionally ending in a single ";":
//
//	using <namespace>;    enable a named group of functions
//	<ident> = <expr>      declare or reassign a scope variable (no value)
//	<expr>                evaluate and produce a value
//
// Compile and evaluation problems are written to the diagnostic sink; the
// error return of Evaluate is reserved for unexpected faults.
package hclengine

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/fritzcoder/evalsession/engine"
	"github.com/fritzcoder/evalsession/internal/ctxlog"
)

const snippetFilename = "snippet"

// assignPattern matches "<ident> = <expr>" while rejecting comparison
// operators such as "==" and ">=".
var assignPattern = regexp.MustCompile(`(?s)^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*([^=].*)$`)

// Engine implements engine.Engine and the optional engine.RawBinder
// capability. Not safe for concurrent use; one engine belongs to one session.
type Engine struct {
	vars     map[string]cty.Value
	funcs    map[string]function.Function
	sink     io.Writer
	settings *settings
}

// New creates an engine with an empty scope, no enabled namespaces, and a
// discarding diagnostic sink.
func New() *Engine {
	return &Engine{
		vars:     make(map[string]cty.Value),
		funcs:    make(map[string]function.Function),
		sink:     io.Discard,
		settings: newSettings(),
	}
}

// SetDiagnosticSink implements engine.Engine.
func (e *Engine) SetDiagnosticSink(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	e.sink = w
}

// Settings implements engine.Engine.
func (e *Engine) Settings() engine.Settings {
	return e.settings
}

// Run evaluates an initial script one line at a time, skipping blank lines.
// Diagnostics from individual lines go to the sink as usual; only faults
// abort the run.
func (e *Engine) Run(ctx context.Context, initialScript string) error {
	logger := ctxlog.FromContext(ctx)
	for i, line := range strings.Split(initialScript, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := e.Evaluate(ctx, line); err != nil {
			return fmt.Errorf("initial script line %d: %w", i+1, err)
		}
	}
	logger.Debug("Initial script evaluated.")
	return nil
}

// Evaluate implements engine.Engine.
func (e *Engine) Evaluate(ctx context.Context, snippet string) (engine.Result, error) {
	logger := ctxlog.FromContext(ctx)

	stmt := strings.TrimSpace(snippet)
	stmt = strings.TrimSpace(strings.TrimSuffix(stmt, ";"))

	switch {
	case stmt == "":
		return engine.Result{}, e.diagnosef("empty statement")

	case isUsing(stmt):
		ns := strings.TrimSpace(strings.TrimPrefix(stmt, "using"))
		return engine.Result{}, e.importNamespace(ctx, ns)

	case assignPattern.MatchString(stmt):
		m := assignPattern.FindStringSubmatch(stmt)
		return engine.Result{}, e.assign(ctx, m[1], m[2])
	}

	expr, diags := hclsyntax.ParseExpression([]byte(stmt), snippetFilename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return engine.Result{}, e.writeDiagnostics(diags)
	}

	val, diags := expr.Value(e.evalContext())
	if diags.HasErrors() {
		return engine.Result{}, e.writeDiagnostics(diags)
	}

	logger.Debug("Snippet produced a value.", "type", val.Type().FriendlyName())
	return engine.Result{Value: val, Produced: true}, nil
}

// TryBindRawValue implements engine.RawBinder. The caller's Go value is
// converted to its implied cty representation by reflection and written
// straight into the scope slot, bypassing assignment. Values with no cty
// representation (channels, funcs, untagged structs) report false.
func (e *Engine) TryBindRawValue(name string, value any) bool {
	if name == "" || name == engine.SelfName {
		return false
	}
	if value == nil {
		e.vars[name] = cty.NullVal(cty.DynamicPseudoType)
		return true
	}
	ty, err := gocty.ImpliedType(value)
	if err != nil {
		return false
	}
	val, err := gocty.ToCtyValue(value, ty)
	if err != nil {
		return false
	}
	e.vars[name] = val
	return true
}

// Close implements engine.Engine. The engine holds no external resources, so
// repeated closes are trivially safe.
func (e *Engine) Close() error {
	return nil
}

// isUsing reports whether stmt is a namespace import, i.e. its first word is
// the "using" keyword.
func isUsing(stmt string) bool {
	rest, ok := strings.CutPrefix(stmt, "using")
	if !ok {
		return false
	}
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// importNamespace enables the function group named by ns. An unknown or
// empty namespace is a diagnostic, not a fault, so a malformed directive
// surfaces through the normal channel.
func (e *Engine) importNamespace(ctx context.Context, ns string) error {
	logger := ctxlog.FromContext(ctx)
	group, ok := namespaceFunctions[ns]
	if !ok {
		return e.diagnosef("unknown namespace %q", ns)
	}
	for name, fn := range group {
		e.funcs[name] = fn
	}
	logger.Debug("Namespace imported.", "namespace", ns, "functions", len(group))
	return nil
}

// assign evaluates rhs and stores the result under name. Produces no value.
func (e *Engine) assign(ctx context.Context, name, rhs string) error {
	logger := ctxlog.FromContext(ctx)
	if name == engine.SelfName {
		return e.diagnosef("cannot assign to reserved name %q", engine.SelfName)
	}

	expr, diags := hclsyntax.ParseExpression([]byte(rhs), snippetFilename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return e.writeDiagnostics(diags)
	}
	val, diags := expr.Value(e.evalContext())
	if diags.HasErrors() {
		return e.writeDiagnostics(diags)
	}

	e.vars[name] = val
	logger.Debug("Variable assigned.", "name", name, "type", val.Type().FriendlyName())
	return nil
}

// evalContext builds the HCL evaluation context for one snippet: every scope
// variable as a top-level name, the whole scope as the "self" object, and the
// functions enabled by imported namespaces.
func (e *Engine) evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(e.vars)+1)
	for name, val := range e.vars {
		vars[name] = val
	}
	vars[engine.SelfName] = cty.ObjectVal(e.vars)

	return &hcl.EvalContext{
		Variables: vars,
		Functions: e.funcs,
	}
}

// writeDiagnostics renders diags one per line on the sink. A sink write
// failure is a fault.
func (e *Engine) writeDiagnostics(diags hcl.Diagnostics) error {
	for _, d := range diags {
		if _, err := fmt.Fprintf(e.sink, "%s\n", d.Error()); err != nil {
			return fmt.Errorf("writing diagnostics: %w", err)
		}
	}
	return nil
}

// diagnosef writes a single engine-level diagnostic line to the sink.
func (e *Engine) diagnosef(format string, args ...any) error {
	if _, err := fmt.Fprintf(e.sink, format+"\n", args...); err != nil {
		return fmt.Errorf("writing diagnostics: %w", err)
	}
	return nil
}
