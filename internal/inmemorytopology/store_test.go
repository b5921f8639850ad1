package inmemorytopology

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowcanvas/internal/edge"
	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/topologystore"
)

func textNode(id string) *node.Node {
	return &node.Node{ID: id, Kind: node.KindText, Data: node.Data{Label: id}}
}

func seeded(t *testing.T, ids ...string) *Store {
	t.Helper()
	s := New()
	for _, id := range ids {
		require.NoError(t, s.AddNode(context.Background(), textNode(id)))
	}
	return s
}

func TestAddAndGetNode(t *testing.T) {
	s := seeded(t, "a")

	got, ok := s.Node(context.Background(), "a")
	require.True(t, ok)
	assert.Equal(t, textNode("a"), got)

	_, ok = s.Node(context.Background(), "missing")
	assert.False(t, ok)
}

func TestAddNode_DuplicateIsRejected(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "a")
	before := s.Nodes(ctx)

	dup := textNode("a")
	dup.Data.Label = "other"
	err := s.AddNode(ctx, dup)

	require.Error(t, err)
	assert.True(t, errors.Is(err, topologystore.ErrDuplicateID))
	if diff := cmp.Diff(before, s.Nodes(ctx)); diff != "" {
		t.Errorf("store changed after rejected add (-before +after):\n%s", diff)
	}
}

func TestNodes_PreserveInsertionOrder(t *testing.T) {
	s := seeded(t, "c", "a", "b")
	var ids []string
	for _, n := range s.Nodes(context.Background()) {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestReads_ReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "a")

	n, _ := s.Node(ctx, "a")
	n.Data.Label = "mutated"

	again, _ := s.Node(ctx, "a")
	assert.Equal(t, "a", again.Data.Label)
}

func TestUpdateNode(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "a")

	ok, err := s.UpdateNode(ctx, "a", func(n *node.Node) { n.Data.Label = "renamed" })
	require.NoError(t, err)
	assert.True(t, ok)
	got, _ := s.Node(ctx, "a")
	assert.Equal(t, "renamed", got.Data.Label)
}

func TestUpdateNode_AbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	var calls int
	s.Subscribe(func(context.Context, topologystore.Change) { calls++ })

	ok, err := s.UpdateNode(ctx, "ghost", func(n *node.Node) { n.Data.Label = "x" })
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, calls)
}

func TestUpdateNode_InvalidResultIsRejected(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.AddNode(ctx, &node.Node{
		ID:   "d",
		Kind: node.KindChoice,
		Data: node.Data{Label: "pick", Options: []string{"A"}},
	}))

	_, err := s.UpdateNode(ctx, "d", func(n *node.Node) { n.Data.SelectedValue = "Z" })
	require.ErrorIs(t, err, node.ErrInvalidNode)

	_, err = s.UpdateNode(ctx, "d", func(n *node.Node) { n.ID = "e" })
	require.ErrorIs(t, err, node.ErrInvalidNode)

	got, _ := s.Node(ctx, "d")
	assert.Equal(t, "", got.Data.SelectedValue)
	assert.Equal(t, "d", got.ID)
}

func TestAddEdge_DanglingIsRejected(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "a", "b")
	require.NoError(t, mustAdd(s, edge.New("a", "", "b", "")))
	before := s.Edges(ctx)

	_, err := s.AddEdge(ctx, edge.New("ghost", "", "b", ""))
	require.ErrorIs(t, err, topologystore.ErrDanglingReference)
	_, err = s.AddEdge(ctx, edge.New("a", "", "ghost", ""))
	require.ErrorIs(t, err, topologystore.ErrDanglingReference)

	if diff := cmp.Diff(before, s.Edges(ctx)); diff != "" {
		t.Errorf("edges changed after rejected add (-before +after):\n%s", diff)
	}
}

func TestAddEdge_DuplicateIsNoop(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "a", "b")

	added, err := s.AddEdge(ctx, edge.New("a", "", "b", ""))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddEdge(ctx, edge.New("a", "", "b", ""))
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, s.Edges(ctx), 1)
}

func TestRemoveNode_CascadesEdges(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "a", "b", "c")
	require.NoError(t, mustAdd(s, edge.New("a", "", "b", "")))
	require.NoError(t, mustAdd(s, edge.New("b", "", "c", "")))
	require.NoError(t, mustAdd(s, edge.New("a", "", "c", "")))

	removed, ok := s.RemoveNode(ctx, "b")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{edge.ID("a", "", "b", ""), edge.ID("b", "", "c", "")}, removed)

	for _, e := range s.Edges(ctx) {
		assert.False(t, e.Touches("b"), "dangling edge %s", e.ID)
	}
	assert.Len(t, s.Edges(ctx), 1)

	_, ok = s.RemoveNode(ctx, "b")
	assert.False(t, ok)
}

func TestRemoveEdgesWhere(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "m", "x", "y")
	require.NoError(t, mustAdd(s, edge.New("m", "item-0", "x", "")))
	require.NoError(t, mustAdd(s, edge.New("m", "item-1", "y", "")))
	require.NoError(t, mustAdd(s, edge.New("x", "", "y", "")))

	removed := s.RemoveEdgesWhere(ctx, edge.FromNode("m"))
	assert.Len(t, removed, 2)
	edges := s.Edges(ctx)
	require.Len(t, edges, 1)
	assert.Equal(t, "x", edges[0].Source)

	assert.Nil(t, s.RemoveEdgesWhere(ctx, edge.FromNode("m")))
}

func TestReplaceEdgeStyles(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "m", "x")
	require.NoError(t, mustAdd(s, edge.New("m", "item-0", "x", "")))

	n := s.ReplaceEdgeStyles(ctx, edge.FromNode("m"), func(*edge.Edge) edge.Style {
		return edge.Style{StrokeColor: "#111", StrokeWidth: 2, Animated: true}
	})
	assert.Equal(t, 1, n)
	assert.True(t, s.Edges(ctx)[0].Style.Animated)

	n = s.ReplaceEdgeStyles(ctx, edge.FromNode("m"), func(e *edge.Edge) edge.Style { return e.Style })
	assert.Zero(t, n)
}

func TestSubscribe_ReceivesEveryMutation(t *testing.T) {
	ctx := context.Background()
	s := New()
	var got []topologystore.ChangeKind
	unsubscribe := s.Subscribe(func(_ context.Context, c topologystore.Change) {
		got = append(got, c.Kind)
	})

	require.NoError(t, s.AddNode(ctx, textNode("a")))
	require.NoError(t, s.AddNode(ctx, textNode("b")))
	require.NoError(t, mustAdd(s, edge.New("a", "", "b", "")))
	_, err := s.UpdateNode(ctx, "a", func(n *node.Node) { n.Position.X = 5 })
	require.NoError(t, err)
	s.RemoveNode(ctx, "a")

	unsubscribe()
	require.NoError(t, s.AddNode(ctx, textNode("c")))

	assert.Equal(t, []topologystore.ChangeKind{
		topologystore.NodeAdded,
		topologystore.NodeAdded,
		topologystore.EdgesAdded,
		topologystore.NodeUpdated,
		topologystore.NodeRemoved,
	}, got)
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('A' + i%26))
			_ = s.AddNode(ctx, textNode(id+"-"+string(rune('a'+i/26))))
			_ = s.Nodes(ctx)
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.Nodes(ctx), 50)
}

func mustAdd(s *Store, e *edge.Edge) error {
	_, err := s.AddEdge(context.Background(), e)
	return err
}
