package editor

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/vk/flowcanvas/internal/ctxlog"
	"github.com/vk/flowcanvas/internal/graph"
	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/nodeid"
	"github.com/vk/flowcanvas/internal/nodestore"
	"github.com/vk/flowcanvas/internal/palette"
)

var (
	// ErrNotOpen is returned by form operations while no editor is open.
	ErrNotOpen = errors.New("no editor is open")
	// ErrUnknownNode is returned when the target node does not exist.
	ErrUnknownNode = errors.New("unknown node")
	// ErrNotInForm is returned when a field is not part of the open form.
	ErrNotInForm = errors.New("field is not part of this form")
	// ErrIndexOutOfRange is returned for list edits past the end of the list.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Bounds is the popup rectangle in screen coordinates.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies inside the rectangle. Empty bounds contain
// nothing.
func (b Bounds) Contains(p node.Position) bool {
	if b.Width <= 0 || b.Height <= 0 {
		return false
	}
	return p.X >= b.X && p.X <= b.X+b.Width && p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// Working is the popup's copy of the form fields of one node.
type Working struct {
	NodeID   string    `json:"nodeId"`
	Kind     node.Kind `json:"kind"`
	Label    string    `json:"label"`
	Items    []string  `json:"items,omitempty"`
	ItemKeys []string  `json:"itemKeys,omitempty"`
	Options  []string  `json:"options,omitempty"`
	Bounds   Bounds    `json:"bounds"`
}

func (w Working) clone() Working {
	w.Items = slices.Clone(w.Items)
	w.ItemKeys = slices.Clone(w.ItemKeys)
	w.Options = slices.Clone(w.Options)
	return w
}

// SaveResult summarizes what a Save changed besides node data.
type SaveResult struct {
	NodeID      string
	PrunedEdges []string
	Restyled    int
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithPalette sets the palette used to color new menu items on save.
func WithPalette(p palette.Palette) Option {
	return func(b *Bridge) { b.palette = p }
}

// WithItemKeys enables stable item identity: every menu item added in the
// form gets a permanent key from seq.
func WithItemKeys(seq nodeid.Sequence) Option {
	return func(b *Bridge) { b.keys = seq }
}

// Bridge is the single, session-wide popup editor. It is not safe for
// concurrent use; the session serializes calls.
type Bridge struct {
	g       graph.Graph
	palette palette.Palette
	keys    nodeid.Sequence
	active  *Working
}

// New creates a closed editor over g.
func New(g graph.Graph, opts ...Option) *Bridge {
	b := &Bridge{g: g, palette: palette.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open snapshots the node's form fields into a fresh working copy. An editor
// already open on another node is cancelled first. Opening the node that is
// already being edited keeps the current working copy.
func (b *Bridge) Open(ctx context.Context, id string) (Working, error) {
	if b.active != nil {
		if b.active.NodeID == id {
			return b.active.clone(), nil
		}
		b.Cancel(ctx)
	}

	n, ok := b.g.Node(ctx, id)
	if !ok {
		return Working{}, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}

	w := Working{NodeID: n.ID, Kind: n.Kind, Label: n.Data.Label}
	switch n.Kind {
	case node.KindMenu:
		w.Items = slices.Clone(n.Data.Items)
		if b.keys != nil {
			w.ItemKeys = slices.Clone(n.Data.ItemKeys)
			for len(w.ItemKeys) < len(w.Items) {
				w.ItemKeys = append(w.ItemKeys, b.keys.Next())
			}
		}
	case node.KindChoice:
		w.Options = slices.Clone(n.Data.Options)
	case node.KindText:
		if draft := b.g.Drafts().Draft(ctx, id, nodestore.FieldText); draft != "" {
			w.Label = draft
		}
	}

	b.active = &w
	ctxlog.FromContext(ctx).Debug("Editor opened.", "node_id", id, "kind", n.Kind)
	return w.clone(), nil
}

// Active returns the id of the node being edited.
func (b *Bridge) Active() (string, bool) {
	if b.active == nil {
		return "", false
	}
	return b.active.NodeID, true
}

// Working returns a copy of the current working copy.
func (b *Bridge) Working() (Working, bool) {
	if b.active == nil {
		return Working{}, false
	}
	return b.active.clone(), true
}

// SetLabel edits the label field.
func (b *Bridge) SetLabel(label string) error {
	if b.active == nil {
		return ErrNotOpen
	}
	b.active.Label = label
	return nil
}

// SetItem replaces the menu item at i.
func (b *Bridge) SetItem(i int, value string) error {
	w, err := b.form(node.KindMenu, "items")
	if err != nil {
		return err
	}
	if i < 0 || i >= len(w.Items) {
		return fmt.Errorf("%w: item %d of %d", ErrIndexOutOfRange, i, len(w.Items))
	}
	w.Items[i] = value
	return nil
}

// AddItem appends a menu item. Empty values are allowed in the form.
func (b *Bridge) AddItem(value string) error {
	w, err := b.form(node.KindMenu, "items")
	if err != nil {
		return err
	}
	w.Items = append(w.Items, value)
	if b.keys != nil {
		w.ItemKeys = append(w.ItemKeys, b.keys.Next())
	}
	return nil
}

// RemoveItem deletes the menu item at i.
func (b *Bridge) RemoveItem(i int) error {
	w, err := b.form(node.KindMenu, "items")
	if err != nil {
		return err
	}
	if i < 0 || i >= len(w.Items) {
		return fmt.Errorf("%w: item %d of %d", ErrIndexOutOfRange, i, len(w.Items))
	}
	w.Items = slices.Delete(w.Items, i, i+1)
	if b.keys != nil {
		w.ItemKeys = slices.Delete(w.ItemKeys, i, i+1)
	}
	return nil
}

// SetOption replaces the choice option at i.
func (b *Bridge) SetOption(i int, value string) error {
	w, err := b.form(node.KindChoice, "options")
	if err != nil {
		return err
	}
	if i < 0 || i >= len(w.Options) {
		return fmt.Errorf("%w: option %d of %d", ErrIndexOutOfRange, i, len(w.Options))
	}
	w.Options[i] = value
	return nil
}

// AddOption appends a choice option.
func (b *Bridge) AddOption(value string) error {
	w, err := b.form(node.KindChoice, "options")
	if err != nil {
		return err
	}
	w.Options = append(w.Options, value)
	return nil
}

// RemoveOption deletes the choice option at i.
func (b *Bridge) RemoveOption(i int) error {
	w, err := b.form(node.KindChoice, "options")
	if err != nil {
		return err
	}
	if i < 0 || i >= len(w.Options) {
		return fmt.Errorf("%w: option %d of %d", ErrIndexOutOfRange, i, len(w.Options))
	}
	w.Options = slices.Delete(w.Options, i, i+1)
	return nil
}

// SetBounds records where the popup is rendered on screen.
func (b *Bridge) SetBounds(bounds Bounds) error {
	if b.active == nil {
		return ErrNotOpen
	}
	b.active.Bounds = bounds
	return nil
}

// PointerDown cancels the editor if p falls outside the popup bounds. It
// reports whether a cancel happened.
func (b *Bridge) PointerDown(ctx context.Context, p node.Position) bool {
	if b.active == nil || b.active.Bounds.Contains(p) {
		return false
	}
	return b.Cancel(ctx)
}

// Cancel discards the working copy. It reports false if nothing was open.
func (b *Bridge) Cancel(ctx context.Context) bool {
	if b.active == nil {
		return false
	}
	ctxlog.FromContext(ctx).Debug("Editor cancelled.", "node_id", b.active.NodeID)
	b.active = nil
	return true
}

// Save merges the working copy's form fields into the node and closes the
// editor. Menu items get colors for values never seen before, and edges
// bound to handles the saved data no longer derives are pruned.
//
// A rejected merge leaves the graph untouched and the editor open.
func (b *Bridge) Save(ctx context.Context) (SaveResult, error) {
	if b.active == nil {
		return SaveResult{}, ErrNotOpen
	}
	w := b.active
	logger := ctxlog.FromContext(ctx)

	n, ok := b.g.Node(ctx, w.NodeID)
	if !ok {
		b.active = nil
		return SaveResult{}, fmt.Errorf("%w: %s was removed while being edited", ErrUnknownNode, w.NodeID)
	}

	patch := node.Patch{Label: node.String(w.Label)}
	switch n.Kind {
	case node.KindMenu:
		patch.Items = append([]string{}, w.Items...)
		patch.ItemColors = b.palette.AssignAll(n.Data.ItemColors, w.Items)
		if b.keys != nil {
			patch.ItemKeys = append([]string{}, w.ItemKeys...)
		}
	case node.KindChoice:
		patch.Options = append([]string{}, w.Options...)
	}

	if _, err := b.g.PatchNode(ctx, w.NodeID, patch); err != nil {
		logger.Warn("Editor save rejected.", "node_id", w.NodeID, "error", err)
		return SaveResult{}, err
	}
	if n.Kind == node.KindText && w.Label != "" {
		b.g.Drafts().ClearDraft(ctx, w.NodeID, nodestore.FieldText)
	}

	res := SaveResult{NodeID: w.NodeID}
	if n.Kind.DataDerived() {
		res.PrunedEdges = b.g.PruneVanishedHandles(ctx, w.NodeID)
		res.Restyled = b.g.Restyle(ctx, w.NodeID)
	}
	b.active = nil

	logger.Debug("Editor saved.", "node_id", w.NodeID, "pruned_edges", len(res.PrunedEdges), "restyled_edges", res.Restyled)
	return res, nil
}

// form returns the open working copy if it edits field for kind.
func (b *Bridge) form(kind node.Kind, field string) (*Working, error) {
	if b.active == nil {
		return nil, ErrNotOpen
	}
	if b.active.Kind != kind {
		return nil, fmt.Errorf("%w: %s on a %s node", ErrNotInForm, field, b.active.Kind)
	}
	return b.active, nil
}
