package graph

import (
	"context"

	"github.com/vk/flowcanvas/internal/edge"
	"github.com/vk/flowcanvas/internal/handlers"
	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/nodestore"
	"github.com/vk/flowcanvas/internal/topologystore"
)

// Graph is the unified interface over an editor session's state.
//
// # Usage Patterns
//
// **Session** uses Graph to:
//   - Create and move nodes: AddNode(), UpdateNode()
//   - Delete: RemoveNode(), RemoveEdge()
//   - Connect handles: Connect()
//
// **Editor bridge and menu propagator** use Graph to:
//   - Commit data: PatchNode()
//   - Retract edges: PruneEdges(), PruneVanishedHandles()
//   - Keep colors in sync: Restyle()
type Graph interface {
	// Node retrieves a copy of a node by id.
	Node(ctx context.Context, id string) (*node.Node, bool)

	// Nodes returns copies of all nodes in insertion order.
	Nodes(ctx context.Context) []*node.Node

	// Edges returns copies of all edges in insertion order.
	Edges(ctx context.Context) []*edge.Edge

	// AddNode inserts a node. See topologystore.Store.AddNode for errors.
	AddNode(ctx context.Context, n *node.Node) error

	// UpdateNode applies mutate to the node. Absent ids are a no-op.
	UpdateNode(ctx context.Context, id string, mutate func(*node.Node)) (bool, error)

	// PatchNode merges a partial data update into the node. Fields the
	// patch does not name are preserved.
	PatchNode(ctx context.Context, id string, p node.Patch) (bool, error)

	// RemoveNode removes the node, every edge touching it, its drafts and
	// its callbacks. It returns the ids of the cascaded edges.
	RemoveNode(ctx context.Context, id string) ([]string, bool)

	// Connect styles and inserts the edge between two handles.
	//
	// Returns:
	//   - The edge as stored (or as already present, when added is false)
	//   - ErrDanglingReference (wrapped) if either endpoint is missing
	Connect(ctx context.Context, source, sourceHandle, target, targetHandle string) (e *edge.Edge, added bool, err error)

	// RemoveEdge removes a single edge by id.
	RemoveEdge(ctx context.Context, id string) bool

	// PruneEdges removes every edge matching pred.
	PruneEdges(ctx context.Context, pred edge.Predicate) []string

	// PruneVanishedHandles removes edges leaving nodeID through a named
	// handle the node no longer derives.
	PruneVanishedHandles(ctx context.Context, nodeID string) []string

	// Restyle recomputes the style of every edge leaving nodeID.
	Restyle(ctx context.Context, nodeID string) int

	// Drafts exposes the transient per-node state.
	Drafts() nodestore.Store

	// Callbacks exposes the out-of-band callback registry.
	Callbacks() *handlers.Handlers

	// Subscribe forwards topology change notifications.
	Subscribe(l topologystore.Listener) func()
}
