package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/fritzcoder/evalsession/engine"
)

func TestResultText(t *testing.T) {
	tests := []struct {
		name string
		res  engine.Result
		want string
	}{
		{"unproduced", engine.Result{}, ""},
		{"null", engine.Result{Value: cty.NullVal(cty.DynamicPseudoType), Produced: true}, "null"},
		{"string verbatim", engine.Result{Value: cty.StringVal("a b"), Produced: true}, "a b"},
		{"number", engine.Result{Value: cty.NumberIntVal(4), Produced: true}, "4"},
		{"bool", engine.Result{Value: cty.True, Produced: true}, "true"},
		{
			"list as JSON",
			engine.Result{Value: cty.ListVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)}), Produced: true},
			"[1,2]",
		},
		{
			"object as JSON",
			engine.Result{Value: cty.ObjectVal(map[string]cty.Value{"a": cty.NumberIntVal(1)}), Produced: true},
			`{"a":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.res.Text()
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResultText_UnknownValue(t *testing.T) {
	res := engine.Result{Value: cty.UnknownVal(cty.Number), Produced: true}

	_, err := res.Text()
	require.Error(t, err)
}
