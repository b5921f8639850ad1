package node

import "slices"

// Patch is a partial-data merge. Nil fields are left untouched, so fields
// the caller does not know about survive the merge.
type Patch struct {
	Label         *string
	Items         []string
	ItemKeys      []string
	ItemColors    map[string]string
	Options       []string
	SelectedValue *string
}

// Apply merges the patch onto a copy of d and returns it.
func (p Patch) Apply(d Data) Data {
	out := d.Clone()
	if p.Label != nil {
		out.Label = *p.Label
	}
	if p.Items != nil {
		out.Items = slices.Clone(p.Items)
	}
	if p.ItemKeys != nil {
		out.ItemKeys = slices.Clone(p.ItemKeys)
	}
	if p.ItemColors != nil {
		if out.ItemColors == nil {
			out.ItemColors = make(map[string]string, len(p.ItemColors))
		}
		for k, v := range p.ItemColors {
			out.ItemColors[k] = v
		}
	}
	if p.Options != nil {
		out.Options = slices.Clone(p.Options)
	}
	if p.SelectedValue != nil {
		out.SelectedValue = *p.SelectedValue
	}
	if out.SelectedValue != "" && !slices.Contains(out.Options, out.SelectedValue) {
		out.SelectedValue = ""
	}
	return out
}

// String returns a pointer to s, for building patches.
func String(s string) *string {
	return &s
}
