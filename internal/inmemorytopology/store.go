package inmemorytopology

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/vk/flowcanvas/internal/ctxlog"
	"github.com/vk/flowcanvas/internal/edge"
	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/topologystore"
)

// Store implements the topologystore.Store interface using maps for lookup,
// ordered id slices for iteration, and a mutex for concurrent access.
//
// Listeners are called after the lock is released, in registration order.
type Store struct {
	mu        sync.RWMutex
	nodes     map[string]*node.Node
	nodeOrder []string
	edges     map[string]*edge.Edge
	edgeOrder []string

	lmu       sync.Mutex
	listeners map[int]topologystore.Listener
	nextID    int
}

// New creates a new, empty in-memory topology store.
func New() *Store {
	return &Store{
		nodes:     make(map[string]*node.Node),
		edges:     make(map[string]*edge.Edge),
		listeners: make(map[int]topologystore.Listener),
	}
}

var _ topologystore.Store = (*Store)(nil)

// AddNode appends a copy of n.
func (s *Store) AddNode(ctx context.Context, n *node.Node) error {
	if err := n.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if _, exists := s.nodes[n.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", topologystore.ErrDuplicateID, n.ID)
	}
	s.nodes[n.ID] = n.Clone()
	s.nodeOrder = append(s.nodeOrder, n.ID)
	s.mu.Unlock()

	ctxlog.FromContext(ctx).Debug("Node added.", "node_id", n.ID, "kind", n.Kind)
	s.notify(ctx, topologystore.Change{Kind: topologystore.NodeAdded, NodeID: n.ID})
	return nil
}

// UpdateNode applies mutate to a copy and swaps it in if it stays valid.
func (s *Store) UpdateNode(ctx context.Context, id string, mutate func(*node.Node)) (bool, error) {
	s.mu.Lock()
	current, ok := s.nodes[id]
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	next := current.Clone()
	mutate(next)
	if next.ID != current.ID || next.Kind != current.Kind {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: update of %s may not change id or kind", node.ErrInvalidNode, id)
	}
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.nodes[id] = next
	s.mu.Unlock()

	ctxlog.FromContext(ctx).Debug("Node updated.", "node_id", id)
	s.notify(ctx, topologystore.Change{Kind: topologystore.NodeUpdated, NodeID: id})
	return true, nil
}

// RemoveNode deletes the node and cascades to every edge touching it.
func (s *Store) RemoveNode(ctx context.Context, id string) ([]string, bool) {
	s.mu.Lock()
	if _, ok := s.nodes[id]; !ok {
		s.mu.Unlock()
		return nil, false
	}
	delete(s.nodes, id)
	s.nodeOrder = slices.DeleteFunc(s.nodeOrder, func(n string) bool { return n == id })
	removed := s.removeEdgesLocked(func(e *edge.Edge) bool { return e.Touches(id) })
	s.mu.Unlock()

	ctxlog.FromContext(ctx).Debug("Node removed.", "node_id", id, "cascaded_edges", len(removed))
	s.notify(ctx, topologystore.Change{Kind: topologystore.NodeRemoved, NodeID: id, EdgeIDs: removed})
	return removed, true
}

// AddEdge inserts a copy of e once both endpoints resolve.
func (s *Store) AddEdge(ctx context.Context, e *edge.Edge) (bool, error) {
	s.mu.Lock()
	if _, ok := s.nodes[e.Source]; !ok {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: source %q of edge %s", topologystore.ErrDanglingReference, e.Source, e.ID)
	}
	if _, ok := s.nodes[e.Target]; !ok {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: target %q of edge %s", topologystore.ErrDanglingReference, e.Target, e.ID)
	}
	if _, exists := s.edges[e.ID]; exists {
		s.mu.Unlock()
		return false, nil
	}
	s.edges[e.ID] = e.Clone()
	s.edgeOrder = append(s.edgeOrder, e.ID)
	s.mu.Unlock()

	ctxlog.FromContext(ctx).Debug("Edge added.", "edge_id", e.ID, "animated", e.Style.Animated)
	s.notify(ctx, topologystore.Change{Kind: topologystore.EdgesAdded, EdgeIDs: []string{e.ID}})
	return true, nil
}

// RemoveEdgesWhere prunes matching edges.
func (s *Store) RemoveEdgesWhere(ctx context.Context, pred edge.Predicate) []string {
	s.mu.Lock()
	removed := s.removeEdgesLocked(pred)
	s.mu.Unlock()

	if len(removed) == 0 {
		return nil
	}
	ctxlog.FromContext(ctx).Debug("Edges pruned.", "count", len(removed))
	s.notify(ctx, topologystore.Change{Kind: topologystore.EdgesPruned, EdgeIDs: removed})
	return removed
}

// ReplaceEdgeStyles recomputes the style of matching edges.
func (s *Store) ReplaceEdgeStyles(ctx context.Context, pred edge.Predicate, style func(*edge.Edge) edge.Style) int {
	var changed []string

	s.mu.Lock()
	for _, id := range s.edgeOrder {
		e := s.edges[id]
		if !pred(e) {
			continue
		}
		next := style(e.Clone())
		if next != e.Style {
			e.Style = next
			changed = append(changed, id)
		}
	}
	s.mu.Unlock()

	if len(changed) > 0 {
		s.notify(ctx, topologystore.Change{Kind: topologystore.EdgesRestyled, EdgeIDs: changed})
	}
	return len(changed)
}

// Node returns a copy of a single node.
func (s *Store) Node(ctx context.Context, id string) (*node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil, false
	}
	return n.Clone(), true
}

// Nodes returns copies of all nodes in insertion order.
func (s *Store) Nodes(ctx context.Context) []*node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*node.Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		out = append(out, s.nodes[id].Clone())
	}
	return out
}

// Edges returns copies of all edges in insertion order.
func (s *Store) Edges(ctx context.Context) []*edge.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*edge.Edge, 0, len(s.edgeOrder))
	for _, id := range s.edgeOrder {
		out = append(out, s.edges[id].Clone())
	}
	return out
}

// Subscribe registers l for change notifications.
func (s *Store) Subscribe(l topologystore.Listener) func() {
	s.lmu.Lock()
	defer s.lmu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		delete(s.listeners, id)
	}
}

// removeEdgesLocked must be called with mu held for writing.
func (s *Store) removeEdgesLocked(pred edge.Predicate) []string {
	var removed []string
	kept := s.edgeOrder[:0]
	for _, id := range s.edgeOrder {
		if pred(s.edges[id]) {
			delete(s.edges, id)
			removed = append(removed, id)
			continue
		}
		kept = append(kept, id)
	}
	s.edgeOrder = kept
	return removed
}

func (s *Store) notify(ctx context.Context, c topologystore.Change) {
	s.lmu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	ls := make([]topologystore.Listener, 0, len(ids))
	for _, id := range ids {
		ls = append(ls, s.listeners[id])
	}
	s.lmu.Unlock()

	for _, l := range ls {
		l(ctx, c)
	}
}
