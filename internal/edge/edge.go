// Package edge defines directed connections between node handles.
package edge

import "fmt"

// DefaultStrokeWidth is the width applied whenever an edge carries an
// explicit stroke color.
const DefaultStrokeWidth = 2

// Style is derived from the source node at connect time. The zero value is the
// default style: no explicit color, not animated.
type Style struct {
	StrokeColor string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Animated    bool    `json:"animated"`
}

// IsDefault reports whether the style carries no explicit color.
func (s Style) IsDefault() bool {
	return s == Style{}
}

// Edge is a directed connection from a source handle to a target handle.
// Empty handle ids mean the node's single default handle.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle,omitempty"`
	Style        Style  `json:"style"`
}

// ID derives the deterministic identifier of a connection.
func ID(source, sourceHandle, target, targetHandle string) string {
	return fmt.Sprintf("xy-edge__%s%s-%s%s", source, sourceHandle, target, targetHandle)
}

// New builds an unstyled edge with its derived id.
func New(source, sourceHandle, target, targetHandle string) *Edge {
	return &Edge{
		ID:           ID(source, sourceHandle, target, targetHandle),
		Source:       source,
		SourceHandle: sourceHandle,
		Target:       target,
		TargetHandle: targetHandle,
	}
}

// Clone returns a copy of the edge.
func (e *Edge) Clone() *Edge {
	if e == nil {
		return nil
	}
	out := *e
	return &out
}

// Touches reports whether the edge has nodeID as either endpoint.
func (e *Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// Predicate selects edges for bulk removal.
type Predicate func(*Edge) bool

// FromNode selects every edge leaving nodeID.
func FromNode(nodeID string) Predicate {
	return func(e *Edge) bool { return e.Source == nodeID }
}

// FromHandle selects edges leaving a specific handle of nodeID.
func FromHandle(nodeID, handleID string) Predicate {
	return func(e *Edge) bool { return e.Source == nodeID && e.SourceHandle == handleID }
}
