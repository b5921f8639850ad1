// Package placement computes positions for new nodes and tracks the
// positions already in use.
package placement

import (
	"slices"

	"github.com/vk/flowcanvas/internal/node"
)

// Cascade configures click-to-add placement. Successive nodes step by
// Offset; after Wrap steps the cascade starts a new column shifted by Column.
type Cascade struct {
	Start  node.Position
	Offset node.Position
	Column node.Position
	Wrap   int
}

// DefaultCascade matches the built-in editor settings.
var DefaultCascade = Cascade{
	Start:  node.Position{X: 100, Y: 100},
	Offset: node.Position{X: 40, Y: 40},
	Column: node.Position{X: 320, Y: 0},
	Wrap:   10,
}

// at returns the cascade position of step s.
func (c Cascade) at(s int) node.Position {
	wrap := c.Wrap
	if wrap <= 0 {
		wrap = 1
	}
	row, col := s%wrap, s/wrap
	return node.Position{
		X: c.Start.X + float64(row)*c.Offset.X + float64(col)*c.Column.X,
		Y: c.Start.Y + float64(row)*c.Offset.Y + float64(col)*c.Column.Y,
	}
}

// Allocator hands out positions for new nodes and keeps the Placement
// History. It is not safe for concurrent use; the session serializes calls.
type Allocator struct {
	cascade  Cascade
	viewport Viewport
	step     int
	history  []node.Position
}

// New creates an allocator with an empty history and the identity viewport.
func New(c Cascade) *Allocator {
	return &Allocator{cascade: c, viewport: Identity}
}

// Next returns the position for a new node. A pointer position is converted
// through the viewport and returned as is. Without one, the next cascade
// position not present in the history is returned.
func (a *Allocator) Next(pointer *node.Position) node.Position {
	if pointer != nil {
		return a.viewport.ToCanvas(*pointer)
	}
	// An injective cascade finds a free spot within len(history)+1 steps.
	for range len(a.history) + 1 {
		p := a.cascade.at(a.step)
		a.step++
		if !slices.Contains(a.history, p) {
			return p
		}
	}
	return a.fallback()
}

// fallback walks away from the last recorded position until it finds a free
// one. It is used when the cascade repeats positions.
func (a *Allocator) fallback() node.Position {
	delta := a.cascade.Offset
	if delta == (node.Position{}) {
		delta = a.cascade.Column
	}
	if delta == (node.Position{}) {
		delta = DefaultCascade.Offset
	}
	p := a.cascade.Start
	if n := len(a.history); n > 0 {
		p = a.history[n-1]
	}
	for slices.Contains(a.history, p) {
		p = node.Position{X: p.X + delta.X, Y: p.Y + delta.Y}
	}
	return p
}

// Record appends a successfully used position to the history.
func (a *Allocator) Record(p node.Position) {
	a.history = append(a.history, p)
}

// Resync replaces the history with the live node positions.
func (a *Allocator) Resync(positions []node.Position) {
	a.history = append(a.history[:0:0], positions...)
}

// History returns a copy of the recorded positions.
func (a *Allocator) History() []node.Position {
	return slices.Clone(a.history)
}

// SetViewport updates the screen-to-canvas transform.
func (a *Allocator) SetViewport(v Viewport) {
	a.viewport = v
}

// Viewport returns the current transform.
func (a *Allocator) Viewport() Viewport {
	return a.viewport
}

// Reset clears the history and restarts the cascade.
func (a *Allocator) Reset() {
	a.history = nil
	a.step = 0
}
