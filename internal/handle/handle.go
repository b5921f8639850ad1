// Package handle derives the connection points of a node from its kind and
// data. Derivation is pure: the same node always yields the same specs.
package handle

import (
	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/nodeid"
	"github.com/vk/flowcanvas/internal/palette"
)

// Type is the direction of a handle.
type Type string

const (
	Source Type = "source"
	Target Type = "target"
)

// Side is the node boundary a handle sits on.
type Side string

const (
	Top    Side = "top"
	Bottom Side = "bottom"
)

// ChoiceTargetID is the id of a choice node's input handle.
const ChoiceTargetID = "in"

// Spec describes one connection point. An empty ID is the node's default
// handle on that side.
type Spec struct {
	ID              string  `json:"id,omitempty"`
	Type            Type    `json:"type"`
	Side            Side    `json:"side"`
	PositionPercent float64 `json:"positionPercent"`
	Color           string  `json:"color,omitempty"`
}

// Derive returns the ordered handle specs of n.
func Derive(n *node.Node) []Spec {
	switch n.Kind {
	case node.KindInput:
		return []Spec{defaultSource()}
	case node.KindOutput:
		return []Spec{defaultTarget()}
	case node.KindMenu:
		specs := []Spec{defaultTarget()}
		return append(specs, listHandles(nodeid.ItemPrefix, n.Data.Items, n.Data.ItemKeys, n.Data.ItemColors, true)...)
	case node.KindChoice:
		specs := []Spec{{ID: ChoiceTargetID, Type: Target, Side: Top, PositionPercent: 50}}
		return append(specs, listHandles(nodeid.OptionPrefix, n.Data.Options, nil, nil, false)...)
	default:
		return []Spec{defaultTarget(), defaultSource()}
	}
}

// SourceIDs returns the set of source handle ids Derive would produce.
func SourceIDs(n *node.Node) map[string]struct{} {
	out := make(map[string]struct{})
	for _, s := range Derive(n) {
		if s.Type == Source {
			out[s.ID] = struct{}{}
		}
	}
	return out
}

// Percent is the position of element i of n along the node's width.
func Percent(i, n int) float64 {
	return float64(i+1) * 100 / float64(n+1)
}

// listHandles builds one source handle per element. Without keys the ids
// are positional; with keys they follow the element.
func listHandles(prefix string, values, keys []string, colors map[string]string, colored bool) []Spec {
	specs := make([]Spec, 0, len(values))
	for i, v := range values {
		id := nodeid.IndexHandle(prefix, i)
		if len(keys) == len(values) {
			id = nodeid.KeyHandle(prefix, keys[i])
		}
		s := Spec{ID: id, Type: Source, Side: Bottom, PositionPercent: Percent(i, len(values))}
		if colored {
			s.Color = palette.FallbackHandle
			if c, ok := palette.Lookup(colors, v); ok {
				s.Color = c
			}
		}
		specs = append(specs, s)
	}
	return specs
}

func defaultSource() Spec {
	return Spec{Type: Source, Side: Bottom, PositionPercent: 50}
}

func defaultTarget() Spec {
	return Spec{Type: Target, Side: Top, PositionPercent: 50}
}
