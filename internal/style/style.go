// Package style derives an edge's appearance from its source node.
package style

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/vk/flowcanvas/internal/ctxlog"
	"github.com/vk/flowcanvas/internal/edge"
	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/nodeid"
)

// ErrMalformedHandle describes a source handle id that cannot be mapped to a
// menu item. It is logged, never returned from Resolve.
var ErrMalformedHandle = errors.New("malformed handle reference")

// Resolve computes the style of an edge leaving sourceHandle on source.
// Anything other than a resolvable, colored menu item yields the default
// style.
func Resolve(ctx context.Context, source *node.Node, sourceHandle string) edge.Style {
	if source == nil || source.Kind != node.KindMenu || sourceHandle == "" {
		return edge.Style{}
	}

	item, err := itemFor(source, sourceHandle)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Falling back to default edge style.",
			"node_id", source.ID, "source_handle", sourceHandle, "error", err)
		return edge.Style{}
	}

	color, ok := source.Data.ItemColors[item]
	if !ok || color == "" {
		return edge.Style{}
	}
	return edge.Style{StrokeColor: color, StrokeWidth: edge.DefaultStrokeWidth, Animated: true}
}

// itemFor maps a handle id to the menu item value it currently refers to.
func itemFor(n *node.Node, sourceHandle string) (string, error) {
	ref, err := nodeid.ParseHandle(sourceHandle)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedHandle, err)
	}
	if ref.Prefix != nodeid.ItemPrefix {
		return "", fmt.Errorf("%w: %q is not an item handle", ErrMalformedHandle, sourceHandle)
	}

	items := n.Data.Items
	if len(n.Data.ItemKeys) > 0 {
		i := slices.Index(n.Data.ItemKeys, ref.Key)
		if i < 0 {
			return "", fmt.Errorf("%w: no item with key %q", ErrMalformedHandle, ref.Key)
		}
		return items[i], nil
	}

	i, ok := ref.Index()
	if !ok {
		return "", fmt.Errorf("%w: %q has a non-numeric index", ErrMalformedHandle, sourceHandle)
	}
	if i >= len(items) {
		return "", fmt.Errorf("%w: index %d out of range [0,%d)", ErrMalformedHandle, i, len(items))
	}
	return items[i], nil
}
