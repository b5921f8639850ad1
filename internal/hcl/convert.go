package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// stringList evaluates an optional list-of-strings expression. A missing
// attribute yields ok=false; an explicit empty list yields an empty slice.
func stringList(expr hcl.Expression, evalCtx *hcl.EvalContext) (out []string, ok bool, err error) {
	if expr == nil {
		return nil, false, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, false, diags
	}
	if val.IsNull() {
		return nil, false, nil
	}

	converted, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, false, fmt.Errorf("%s: expected a list of strings: %w", expr.Range(), err)
	}
	out = []string{}
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, false, fmt.Errorf("%s: %w", expr.Range(), err)
	}
	return out, true, nil
}
