package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowcanvas/internal/edge"
	"github.com/vk/flowcanvas/internal/handlers"
	"github.com/vk/flowcanvas/internal/inmemorystore"
	"github.com/vk/flowcanvas/internal/inmemorytopology"
	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/nodestore"
	"github.com/vk/flowcanvas/internal/topologystore"
)

// createTestGraph creates a graph manager with in-memory stores for testing
func createTestGraph() *Manager {
	return New(inmemorytopology.New(), inmemorystore.New(), handlers.New())
}

func addMenu(t *testing.T, g Graph, id string, items ...string) {
	t.Helper()
	colors := map[string]string{}
	for i, it := range items {
		colors[it] = []string{"#111", "#222", "#333", "#444"}[i%4]
	}
	require.NoError(t, g.AddNode(context.Background(), &node.Node{
		ID:   id,
		Kind: node.KindMenu,
		Data: node.Data{Label: "Menu Items", Items: items, ItemColors: colors},
	}))
}

func addText(t *testing.T, g Graph, id string) {
	t.Helper()
	require.NoError(t, g.AddNode(context.Background(), &node.Node{
		ID: id, Kind: node.KindText, Data: node.Data{Label: id},
	}))
}

func TestConnect_StylesFromSource(t *testing.T) {
	ctx := context.Background()
	g := createTestGraph()
	addMenu(t, g, "m", "A", "B", "C")
	addText(t, g, "t")

	e, added, err := g.Connect(ctx, "m", "item-1", "t", "")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, edge.Style{StrokeColor: "#222", StrokeWidth: 2, Animated: true}, e.Style)
	assert.Equal(t, edge.ID("m", "item-1", "t", ""), e.ID)

	e, added, err = g.Connect(ctx, "t", "", "m", "")
	require.NoError(t, err)
	assert.True(t, added)
	assert.False(t, e.Style.Animated)
}

func TestConnect_DuplicateReturnsExisting(t *testing.T) {
	ctx := context.Background()
	g := createTestGraph()
	addText(t, g, "a")
	addText(t, g, "b")

	first, _, err := g.Connect(ctx, "a", "", "b", "")
	require.NoError(t, err)
	again, added, err := g.Connect(ctx, "a", "", "b", "")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, first, again)
	assert.Len(t, g.Edges(ctx), 1)
}

func TestConnect_DanglingLeavesEdgesUnchanged(t *testing.T) {
	ctx := context.Background()
	g := createTestGraph()
	addText(t, g, "a")

	_, _, err := g.Connect(ctx, "ghost", "", "a", "")
	require.ErrorIs(t, err, topologystore.ErrDanglingReference)
	assert.Empty(t, g.Edges(ctx))
}

func TestRemoveNode_DropsDraftsAndCallbacks(t *testing.T) {
	ctx := context.Background()
	g := createTestGraph()
	addMenu(t, g, "m", "A")
	addText(t, g, "t")
	_, _, err := g.Connect(ctx, "m", "item-0", "t", "")
	require.NoError(t, err)

	g.Drafts().SetDraft(ctx, "m", nodestore.FieldNewItem, "half")
	g.Callbacks().Register(ctx, "m", handlers.ItemsChange, func(context.Context, string, ...any) error { return nil })

	removed, ok := g.RemoveNode(ctx, "m")
	require.True(t, ok)
	assert.Len(t, removed, 1)
	assert.Empty(t, g.Edges(ctx))
	assert.Equal(t, "", g.Drafts().Draft(ctx, "m", nodestore.FieldNewItem))
	assert.Empty(t, g.Callbacks().Names("m"))
}

func TestPatchNode_PreservesOtherFields(t *testing.T) {
	ctx := context.Background()
	g := createTestGraph()
	addMenu(t, g, "m", "A", "B")

	ok, err := g.PatchNode(ctx, "m", node.Patch{Label: node.String("Lunch")})
	require.NoError(t, err)
	require.True(t, ok)

	n, _ := g.Node(ctx, "m")
	assert.Equal(t, "Lunch", n.Data.Label)
	assert.Equal(t, []string{"A", "B"}, n.Data.Items)
	assert.Len(t, n.Data.ItemColors, 2)
}

func TestPruneVanishedHandles(t *testing.T) {
	ctx := context.Background()
	g := createTestGraph()
	addMenu(t, g, "m", "A", "B", "C")
	addText(t, g, "t")
	for _, h := range []string{"item-0", "item-2"} {
		_, _, err := g.Connect(ctx, "m", h, "t", "")
		require.NoError(t, err)
	}
	_, _, err := g.Connect(ctx, "t", "", "m", "")
	require.NoError(t, err)

	_, err = g.PatchNode(ctx, "m", node.Patch{Items: []string{"A", "B"}})
	require.NoError(t, err)

	removed := g.PruneVanishedHandles(ctx, "m")
	assert.Equal(t, []string{edge.ID("m", "item-2", "t", "")}, removed)
	assert.Len(t, g.Edges(ctx), 2)
}

func TestRestyle(t *testing.T) {
	ctx := context.Background()
	g := createTestGraph()
	addMenu(t, g, "m", "A", "B")
	addText(t, g, "t")
	_, _, err := g.Connect(ctx, "m", "item-1", "t", "")
	require.NoError(t, err)

	_, err = g.PatchNode(ctx, "m", node.Patch{ItemColors: map[string]string{"B": "#abcdef"}})
	require.NoError(t, err)
	assert.Equal(t, 1, g.Restyle(ctx, "m"))
	assert.Equal(t, "#abcdef", g.Edges(ctx)[0].Style.StrokeColor)
}

func TestRemoveEdge(t *testing.T) {
	ctx := context.Background()
	g := createTestGraph()
	addText(t, g, "a")
	addText(t, g, "b")
	e, _, err := g.Connect(ctx, "a", "", "b", "")
	require.NoError(t, err)

	assert.True(t, g.RemoveEdge(ctx, e.ID))
	assert.False(t, g.RemoveEdge(ctx, e.ID))
}
