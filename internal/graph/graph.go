package graph

import (
	"context"

	"github.com/vk/flowcanvas/internal/ctxlog"
	"github.com/vk/flowcanvas/internal/edge"
	"github.com/vk/flowcanvas/internal/handle"
	"github.com/vk/flowcanvas/internal/handlers"
	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/nodestore"
	"github.com/vk/flowcanvas/internal/style"
	"github.com/vk/flowcanvas/internal/topologystore"
)

// Manager composes the topology store, the draft store and the callback
// registry behind the Graph interface.
type Manager struct {
	topology  topologystore.Store
	nodeState nodestore.Store
	callbacks *handlers.Handlers
}

// New creates a new graph manager.
func New(ts topologystore.Store, ns nodestore.Store, cb *handlers.Handlers) *Manager {
	if cb == nil {
		cb = handlers.New()
	}
	return &Manager{topology: ts, nodeState: ns, callbacks: cb}
}

var _ Graph = (*Manager)(nil)

func (m *Manager) Node(ctx context.Context, id string) (*node.Node, bool) {
	return m.topology.Node(ctx, id)
}

func (m *Manager) Nodes(ctx context.Context) []*node.Node {
	return m.topology.Nodes(ctx)
}

func (m *Manager) Edges(ctx context.Context) []*edge.Edge {
	return m.topology.Edges(ctx)
}

func (m *Manager) AddNode(ctx context.Context, n *node.Node) error {
	return m.topology.AddNode(ctx, n)
}

func (m *Manager) UpdateNode(ctx context.Context, id string, mutate func(*node.Node)) (bool, error) {
	return m.topology.UpdateNode(ctx, id, mutate)
}

func (m *Manager) PatchNode(ctx context.Context, id string, p node.Patch) (bool, error) {
	return m.topology.UpdateNode(ctx, id, func(n *node.Node) {
		n.Data = p.Apply(n.Data)
	})
}

func (m *Manager) RemoveNode(ctx context.Context, id string) ([]string, bool) {
	removed, ok := m.topology.RemoveNode(ctx, id)
	if !ok {
		return nil, false
	}
	m.nodeState.Forget(ctx, id)
	m.callbacks.Forget(id)
	return removed, true
}

func (m *Manager) Connect(ctx context.Context, source, sourceHandle, target, targetHandle string) (*edge.Edge, bool, error) {
	e := edge.New(source, sourceHandle, target, targetHandle)
	if src, ok := m.topology.Node(ctx, source); ok {
		e.Style = style.Resolve(ctx, src, sourceHandle)
	}

	added, err := m.topology.AddEdge(ctx, e)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Connection rejected.", "edge_id", e.ID, "error", err)
		return nil, false, err
	}
	if !added {
		for _, existing := range m.topology.Edges(ctx) {
			if existing.ID == e.ID {
				return existing, false, nil
			}
		}
	}
	return e, added, nil
}

func (m *Manager) RemoveEdge(ctx context.Context, id string) bool {
	return len(m.topology.RemoveEdgesWhere(ctx, func(e *edge.Edge) bool { return e.ID == id })) > 0
}

func (m *Manager) PruneEdges(ctx context.Context, pred edge.Predicate) []string {
	return m.topology.RemoveEdgesWhere(ctx, pred)
}

func (m *Manager) PruneVanishedHandles(ctx context.Context, nodeID string) []string {
	n, ok := m.topology.Node(ctx, nodeID)
	if !ok {
		return nil
	}
	live := handle.SourceIDs(n)
	return m.topology.RemoveEdgesWhere(ctx, func(e *edge.Edge) bool {
		if e.Source != nodeID || e.SourceHandle == "" {
			return false
		}
		_, ok := live[e.SourceHandle]
		return !ok
	})
}

func (m *Manager) Restyle(ctx context.Context, nodeID string) int {
	n, ok := m.topology.Node(ctx, nodeID)
	if !ok {
		return 0
	}
	return m.topology.ReplaceEdgeStyles(ctx, edge.FromNode(nodeID), func(e *edge.Edge) edge.Style {
		return style.Resolve(ctx, n, e.SourceHandle)
	})
}

func (m *Manager) Drafts() nodestore.Store {
	return m.nodeState
}

func (m *Manager) Callbacks() *handlers.Handlers {
	return m.callbacks
}

func (m *Manager) Subscribe(l topologystore.Listener) func() {
	return m.topology.Subscribe(l)
}
