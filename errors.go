package evalsession

import (
	"errors"
	"fmt"
)

// ErrSessionClosed is returned by every mutating operation once Close has
// been called.
var ErrSessionClosed = errors.New("evalsession: session is closed")

// ArgumentError reports a binding name that violates the session's
// preconditions. It is raised before any engine interaction.
type ArgumentError struct {
	Name   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid binding name %q: %s", e.Name, e.Reason)
}

// EvaluationError reports an unexpected engine fault. Diagnostics holds the
// buffered diagnostic text gathered before the fault; Err is the underlying
// fault and is reachable through errors.Unwrap.
//
// Recoverable compile and evaluation problems never take this form: they come
// back as the string result of Evaluate.
type EvaluationError struct {
	Diagnostics string
	Err         error
}

func (e *EvaluationError) Error() string {
	if e.Diagnostics == "" {
		return fmt.Sprintf("engine fault: %v", e.Err)
	}
	return fmt.Sprintf("engine fault: %v; diagnostics: %s", e.Err, e.Diagnostics)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
