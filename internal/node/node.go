package node

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrInvalidNode is wrapped by every invariant violation reported by Validate.
var ErrInvalidNode = errors.New("invalid node")

// Position is a point in canvas coordinate space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Finite reports whether both coordinates are real numbers.
func (p Position) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Size is a node's rendered width and height.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Data is the variant-specific payload of a node. Label is always present.
// Callback functions never live here; see package handlers.
type Data struct {
	Label string `json:"label"`

	// Menu nodes.
	Items      []string          `json:"items,omitempty"`
	ItemKeys   []string          `json:"itemKeys,omitempty"`
	ItemColors map[string]string `json:"itemColors,omitempty"`

	// Choice nodes.
	Options       []string `json:"options,omitempty"`
	SelectedValue string   `json:"selectedValue,omitempty"`
}

// Clone returns a deep copy of the data.
func (d Data) Clone() Data {
	out := d
	out.Items = slices.Clone(d.Items)
	out.ItemKeys = slices.Clone(d.ItemKeys)
	out.Options = slices.Clone(d.Options)
	if d.ItemColors != nil {
		out.ItemColors = make(map[string]string, len(d.ItemColors))
		for k, v := range d.ItemColors {
			out.ItemColors[k] = v
		}
	}
	return out
}

// Node is a placed, typed unit on the canvas.
type Node struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"type"`
	Position Position `json:"position"`
	Size     Size     `json:"size"`
	Data     Data     `json:"data"`
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.Data = n.Data.Clone()
	return &out
}

// Validate checks the structural invariants a stored node must satisfy.
func (n *Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidNode)
	}
	if _, err := ParseKind(string(n.Kind)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidNode, err)
	}
	if !n.Position.Finite() {
		return fmt.Errorf("%w: node %s has a non-finite position", ErrInvalidNode, n.ID)
	}
	if len(n.Data.ItemKeys) > 0 && len(n.Data.ItemKeys) != len(n.Data.Items) {
		return fmt.Errorf("%w: node %s has %d item keys for %d items", ErrInvalidNode, n.ID, len(n.Data.ItemKeys), len(n.Data.Items))
	}
	if n.Data.SelectedValue != "" && !slices.Contains(n.Data.Options, n.Data.SelectedValue) {
		return fmt.Errorf("%w: node %s selects %q which is not an option", ErrInvalidNode, n.ID, n.Data.SelectedValue)
	}
	return nil
}

// ClampSize enforces the minimum size on resizable kinds.
func (n *Node) ClampSize(min Size) {
	if !n.Kind.Resizable() {
		return
	}
	n.Size.Width = math.Max(n.Size.Width, min.Width)
	n.Size.Height = math.Max(n.Size.Height, min.Height)
}
