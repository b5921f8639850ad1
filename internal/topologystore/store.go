// Package topologystore defines the contract of the authoritative node and
// edge collections of an editor session.
//
// # Why Topology Store Exists
//
// Every other component of the editor reads a snapshot of the graph and
// proposes mutations through this contract. The store is the only place
// node and edge collections change, which keeps the following true:
//   - **All-or-nothing:** a rejected mutation leaves nodes and edges untouched
//   - **No dangling edges:** removing a node removes every edge touching it
//   - **Observability:** each applied mutation produces one Change notification
//
// Transient per-node UI state (draft text, in-progress item input) does not
// live here; see nodestore.
//
// # Lifecycle
//
// A store is created once per editor session, mutated in reaction to
// interaction events, and discarded with the session. Nothing is persisted.
package topologystore

import (
	"context"
	"errors"

	"github.com/vk/flowcanvas/internal/edge"
	"github.com/vk/flowcanvas/internal/node"
)

var (
	// ErrDuplicateID is returned by AddNode when the id is already taken.
	ErrDuplicateID = errors.New("duplicate node id")
	// ErrDanglingReference is returned by AddEdge when an endpoint is missing.
	ErrDanglingReference = errors.New("edge references a missing node")
)

// ChangeKind classifies a Change.
type ChangeKind string

const (
	NodeAdded     ChangeKind = "node_added"
	NodeUpdated   ChangeKind = "node_updated"
	NodeRemoved   ChangeKind = "node_removed"
	EdgesAdded    ChangeKind = "edges_added"
	EdgesPruned   ChangeKind = "edges_pruned"
	EdgesRestyled ChangeKind = "edges_restyled"
)

// Change describes one applied mutation.
type Change struct {
	Kind ChangeKind
	// NodeID is set for node changes.
	NodeID string
	// EdgeIDs lists the edges added or removed, including edges removed by a
	// node cascade.
	EdgeIDs []string
}

// Listener receives change notifications. It runs synchronously after the
// mutation is applied and must not mutate the store.
type Listener func(ctx context.Context, c Change)

// Store is the Graph Store contract.
//
// Reads return copies; callers can never alter stored state except through
// the mutation methods.
type Store interface {
	// AddNode appends a node. It fails with ErrDuplicateID if the id is taken,
	// or with node.ErrInvalidNode if the node breaks a structural invariant.
	AddNode(ctx context.Context, n *node.Node) error

	// UpdateNode applies mutate to a copy of the node and stores the result.
	// It reports false, without error, if id is absent. The mutation is
	// rejected if it changes the id or kind or breaks an invariant.
	UpdateNode(ctx context.Context, id string, mutate func(*node.Node)) (bool, error)

	// RemoveNode removes a node and every edge whose source or target is id.
	// It returns the ids of the cascaded edges and false if id was absent.
	RemoveNode(ctx context.Context, id string) ([]string, bool)

	// AddEdge inserts an already styled edge. It fails with
	// ErrDanglingReference if the source or target is missing. Adding an edge
	// whose id already exists is a no-op and reports false.
	AddEdge(ctx context.Context, e *edge.Edge) (bool, error)

	// RemoveEdgesWhere prunes every edge matching pred and returns their ids.
	RemoveEdgesWhere(ctx context.Context, pred edge.Predicate) []string

	// ReplaceEdgeStyles rewrites the style of edges matching pred. Used when
	// the data an edge's style was derived from changes.
	ReplaceEdgeStyles(ctx context.Context, pred edge.Predicate, style func(*edge.Edge) edge.Style) int

	Node(ctx context.Context, id string) (*node.Node, bool)
	// Nodes returns every node in insertion order.
	Nodes(ctx context.Context) []*node.Node
	// Edges returns every edge in insertion order.
	Edges(ctx context.Context) []*edge.Edge

	// Subscribe registers a listener and returns a function that removes it.
	Subscribe(l Listener) (unsubscribe func())
}
