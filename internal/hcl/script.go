package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/flowcanvas/internal/ctxlog"
	"github.com/vk/flowcanvas/internal/event"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// LoadScript parses an interaction script: an ordered list of event blocks
// whose label is the event type and whose attributes are its fields.
//
//	event "click-add" { kind = "Menu" }
//	event "connect" {
//	  source        = node(0)
//	  sourceHandle  = "item-0"
//	  target        = node(1)
//	}
//
// node(n) expands to the id the n-th created node receives under idPrefix.
func LoadScript(ctx context.Context, path, idPrefix string) ([]event.Event, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse script %s: %w", path, diags)
	}
	return decodeScript(ctx, file.Body, idPrefix)
}

// ParseScript is LoadScript for in-memory sources.
func ParseScript(ctx context.Context, src []byte, filename, idPrefix string) ([]event.Event, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse script %s: %w", filename, diags)
	}
	return decodeScript(ctx, file.Body, idPrefix)
}

func decodeScript(ctx context.Context, body hcl.Body, idPrefix string) ([]event.Event, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode script: %w", diags)
	}

	evalCtx := scriptContext(idPrefix)
	events := make([]event.Event, 0, len(root.Events))
	for i, b := range root.Events {
		ev, err := decodeEvent(b, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, b.Type, err)
		}
		events = append(events, ev)
	}
	ctxlog.FromContext(ctx).Debug("Script loaded.", "events", len(events))
	return events, nil
}

func decodeEvent(b *eventBlock, evalCtx *hcl.EvalContext) (event.Event, error) {
	attrs, diags := b.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := map[string]cty.Value{"type": cty.StringVal(b.Type)}
	for _, name := range names {
		val, diags := attrs[name].Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		fields[name] = val
	}

	obj := cty.ObjectVal(fields)
	raw, err := ctyjson.Marshal(obj, obj.Type())
	if err != nil {
		return nil, err
	}
	return event.Decode(raw)
}

func scriptContext(idPrefix string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"id_prefix": cty.StringVal(idPrefix),
		},
		Functions: map[string]function.Function{
			"node": nodeIDFunc(idPrefix),
		},
	}
}

func nodeIDFunc(prefix string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "n", Type: cty.Number}},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			var n int
			if err := gocty.FromCtyValue(args[0], &n); err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(fmt.Sprintf("%s%d", prefix, n)), nil
		},
	})
}
