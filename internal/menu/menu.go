// Package menu propagates inline item-list edits of menu nodes into the
// graph: colors, node data and edge retraction.
package menu

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vk/flowcanvas/internal/ctxlog"
	"github.com/vk/flowcanvas/internal/edge"
	"github.com/vk/flowcanvas/internal/graph"
	"github.com/vk/flowcanvas/internal/handlers"
	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/nodeid"
	"github.com/vk/flowcanvas/internal/nodestore"
	"github.com/vk/flowcanvas/internal/palette"
)

var (
	// ErrNotMenu is returned when the target node is missing or not a menu.
	ErrNotMenu = errors.New("not a menu node")
	// ErrIndexOutOfRange is returned when removing past the end of the list.
	ErrIndexOutOfRange = errors.New("item index out of range")
)

// Mode selects how edges react to an item-list change.
type Mode string

const (
	// ModeIndex keys handles by position and retracts every outgoing edge
	// of the node on any change.
	ModeIndex Mode = "index"
	// ModeStable keys handles by a permanent item key and retracts only the
	// edges of a removed item.
	ModeStable Mode = "stable"
)

// Outcome reports what a propagation did.
type Outcome struct {
	// Ignored is set when an empty value was submitted; nothing changed.
	Ignored bool
	Item    string
	Color   string
	Pruned  []string
}

// Propagator applies inline menu edits. It is not safe for concurrent use;
// the session serializes calls.
type Propagator struct {
	g       graph.Graph
	palette palette.Palette
	mode    Mode
	keys    nodeid.Sequence
}

// New creates a propagator. keys is required in ModeStable and ignored
// otherwise.
func New(g graph.Graph, p palette.Palette, mode Mode, keys nodeid.Sequence) (*Propagator, error) {
	switch mode {
	case ModeIndex:
	case ModeStable:
		if keys == nil {
			return nil, fmt.Errorf("stable mode requires an item key sequence")
		}
	default:
		return nil, fmt.Errorf("unknown handle mode %q", mode)
	}
	return &Propagator{g: g, palette: p, mode: mode, keys: keys}, nil
}

// Mode returns the configured retraction mode.
func (p *Propagator) Mode() Mode {
	return p.mode
}

// AddItem appends value to the node's items. An empty value falls back to
// the node's new-item draft; if that is empty too the call is ignored. The
// draft is cleared on success.
func (p *Propagator) AddItem(ctx context.Context, nodeID, value string) (Outcome, error) {
	n, err := p.menuNode(ctx, nodeID)
	if err != nil {
		return Outcome{}, err
	}

	drafts := p.g.Drafts()
	if strings.TrimSpace(value) == "" {
		value = drafts.Draft(ctx, nodeID, nodestore.FieldNewItem)
	}
	if strings.TrimSpace(value) == "" {
		ctxlog.FromContext(ctx).Debug("Empty menu item ignored.", "node_id", nodeID)
		return Outcome{Ignored: true}, nil
	}

	colors := p.palette.AssignAll(n.Data.ItemColors, nil)
	color, _ := p.palette.Assign(colors, value)

	patch := node.Patch{
		Items:      append(slices.Clone(n.Data.Items), value),
		ItemColors: colors,
	}
	if p.mode == ModeStable {
		keys := slices.Clone(n.Data.ItemKeys)
		for len(keys) < len(n.Data.Items) {
			keys = append(keys, p.keys.Next())
		}
		patch.ItemKeys = append(keys, p.keys.Next())
	}
	if _, err := p.g.PatchNode(ctx, nodeID, patch); err != nil {
		return Outcome{}, err
	}
	drafts.ClearDraft(ctx, nodeID, nodestore.FieldNewItem)

	out := Outcome{Item: value, Color: color}
	if p.mode == ModeIndex {
		out.Pruned = p.g.PruneEdges(ctx, edge.FromNode(nodeID))
	}
	return out, p.notify(ctx, nodeID)
}

// RemoveItem deletes the item at index.
func (p *Propagator) RemoveItem(ctx context.Context, nodeID string, index int) (Outcome, error) {
	n, err := p.menuNode(ctx, nodeID)
	if err != nil {
		return Outcome{}, err
	}
	if index < 0 || index >= len(n.Data.Items) {
		return Outcome{}, fmt.Errorf("%w: %d of %d on %s", ErrIndexOutOfRange, index, len(n.Data.Items), nodeID)
	}

	removed := n.Data.Items[index]
	patch := node.Patch{Items: slices.Delete(slices.Clone(n.Data.Items), index, index+1)}

	var pred edge.Predicate = edge.FromNode(nodeID)
	if p.mode == ModeStable && len(n.Data.ItemKeys) == len(n.Data.Items) {
		key := n.Data.ItemKeys[index]
		patch.ItemKeys = slices.Delete(slices.Clone(n.Data.ItemKeys), index, index+1)
		pred = edge.FromHandle(nodeID, nodeid.KeyHandle(nodeid.ItemPrefix, key))
	}

	if _, err := p.g.PatchNode(ctx, nodeID, patch); err != nil {
		return Outcome{}, err
	}
	out := Outcome{Item: removed, Pruned: p.g.PruneEdges(ctx, pred)}
	return out, p.notify(ctx, nodeID)
}

func (p *Propagator) menuNode(ctx context.Context, nodeID string) (*node.Node, error) {
	n, ok := p.g.Node(ctx, nodeID)
	if !ok || n.Kind != node.KindMenu {
		return nil, fmt.Errorf("%w: %s", ErrNotMenu, nodeID)
	}
	return n, nil
}

// notify runs the node's items-change callback with the committed data.
func (p *Propagator) notify(ctx context.Context, nodeID string) error {
	n, ok := p.g.Node(ctx, nodeID)
	if !ok {
		return nil
	}
	_, err := p.g.Callbacks().Invoke(ctx, nodeID, handlers.ItemsChange, n.Data.Items, n.Data.ItemColors)
	return err
}
