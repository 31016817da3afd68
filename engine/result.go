package engine

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Result is the outcome of evaluating one snippet. Produced distinguishes a
// snippet that yielded a value from one that only mutated the scope (or only
// produced diagnostics).
type Result struct {
	Value    cty.Value
	Produced bool
}

// Text renders the produced value for display: strings verbatim, other
// primitives converted ("4", "true"), null as "null", and composite values as
// JSON. An unproduced result renders as the empty string.
func (r Result) Text() (string, error) {
	if !r.Produced {
		return "", nil
	}

	v := r.Value
	if v.IsNull() {
		return "null", nil
	}
	if !v.IsWhollyKnown() {
		return "", fmt.Errorf("evaluation produced an unknown value of type %s", v.Type().FriendlyName())
	}

	if v.Type().Equals(cty.String) {
		return v.AsString(), nil
	}
	if v.Type().IsPrimitiveType() {
		sv, err := convert.Convert(v, cty.String)
		if err != nil {
			return "", fmt.Errorf("cannot render %s value as text: %w", v.Type().FriendlyName(), err)
		}
		return sv.AsString(), nil
	}

	out, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return "", fmt.Errorf("cannot render %s value as text: %w", v.Type().FriendlyName(), err)
	}
	return string(out), nil
}
