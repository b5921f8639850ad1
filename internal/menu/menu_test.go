package menu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowcanvas/internal/graph"
	"github.com/vk/flowcanvas/internal/handlers"
	"github.com/vk/flowcanvas/internal/inmemorystore"
	"github.com/vk/flowcanvas/internal/inmemorytopology"
	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/nodeid"
	"github.com/vk/flowcanvas/internal/nodestore"
	"github.com/vk/flowcanvas/internal/palette"
)

var testPalette, _ = palette.New([]string{"#111111", "#222222", "#333333"})

func setup(t *testing.T, mode Mode, items ...string) (*graph.Manager, *Propagator) {
	t.Helper()
	ctx := context.Background()
	g := graph.New(inmemorytopology.New(), inmemorystore.New(), handlers.New())

	var keys nodeid.Sequence
	var itemKeys []string
	if mode == ModeStable {
		c := nodeid.NewCounter("k")
		keys = c
		for range items {
			itemKeys = append(itemKeys, c.Next())
		}
	}
	require.NoError(t, g.AddNode(ctx, &node.Node{ID: "m", Kind: node.KindMenu, Data: node.Data{
		Label:      "Menu Items",
		Items:      items,
		ItemKeys:   itemKeys,
		ItemColors: testPalette.AssignAll(nil, items),
	}}))
	for _, id := range []string{"x", "y"} {
		require.NoError(t, g.AddNode(ctx, &node.Node{ID: id, Kind: node.KindText, Data: node.Data{Label: id}}))
	}

	p, err := New(g, testPalette, mode, keys)
	require.NoError(t, err)
	return g, p
}

func TestNew_Validation(t *testing.T) {
	g := graph.New(inmemorytopology.New(), inmemorystore.New(), nil)
	_, err := New(g, testPalette, ModeStable, nil)
	require.Error(t, err)
	_, err = New(g, testPalette, "bogus", nil)
	require.Error(t, err)
}

func TestAddItem_AssignsNextPaletteColor(t *testing.T) {
	ctx := context.Background()
	g, p := setup(t, ModeIndex, "A")

	out, err := p.AddItem(ctx, "m", "B")
	require.NoError(t, err)
	assert.Equal(t, "#222222", out.Color)

	n, _ := g.Node(ctx, "m")
	assert.Equal(t, []string{"A", "B"}, n.Data.Items)
	assert.Equal(t, map[string]string{"A": "#111111", "B": "#222222"}, n.Data.ItemColors)
}

func TestAddItem_ReaddedValueKeepsColor(t *testing.T) {
	ctx := context.Background()
	g, p := setup(t, ModeIndex, "A", "B")

	_, err := p.RemoveItem(ctx, "m", 0)
	require.NoError(t, err)
	_, err = p.AddItem(ctx, "m", "C")
	require.NoError(t, err)
	out, err := p.AddItem(ctx, "m", "A")
	require.NoError(t, err)

	assert.Equal(t, "#111111", out.Color)
	n, _ := g.Node(ctx, "m")
	assert.Equal(t, "#333333", n.Data.ItemColors["C"], "C is the third distinct value")
	assert.Equal(t, []string{"B", "C", "A"}, n.Data.Items)
}

func TestAddItem_EmptyIsIgnored(t *testing.T) {
	ctx := context.Background()
	g, p := setup(t, ModeIndex, "A")
	_, _, err := g.Connect(ctx, "m", "item-0", "x", "")
	require.NoError(t, err)

	for _, v := range []string{"", "   ", "\t"} {
		out, err := p.AddItem(ctx, "m", v)
		require.NoError(t, err)
		assert.True(t, out.Ignored)
	}

	n, _ := g.Node(ctx, "m")
	assert.Equal(t, []string{"A"}, n.Data.Items)
	assert.Len(t, g.Edges(ctx), 1, "ignored input retracts nothing")
}

func TestAddItem_KeepsSurroundingWhitespace(t *testing.T) {
	ctx := context.Background()
	g, p := setup(t, ModeIndex, "A")

	padded, err := p.AddItem(ctx, "m", "  A ")
	require.NoError(t, err)
	assert.Equal(t, "  A ", padded.Item)
	assert.Equal(t, "#222222", padded.Color, "a padded value is a new item with its own color")

	n, _ := g.Node(ctx, "m")
	assert.Equal(t, []string{"A", "  A "}, n.Data.Items)
}

func TestAddItem_UsesAndClearsDraft(t *testing.T) {
	ctx := context.Background()
	g, p := setup(t, ModeIndex, "A")
	g.Drafts().SetDraft(ctx, "m", nodestore.FieldNewItem, "Pizza")

	out, err := p.AddItem(ctx, "m", "")
	require.NoError(t, err)
	assert.Equal(t, "Pizza", out.Item)
	assert.Equal(t, "", g.Drafts().Draft(ctx, "m", nodestore.FieldNewItem))
}

func TestIndexMode_AnyChangeRetractsAllOutgoingEdges(t *testing.T) {
	for _, removeAt := range []int{0, 1, 2} {
		ctx := context.Background()
		g, p := setup(t, ModeIndex, "A", "B", "C")
		_, _, err := g.Connect(ctx, "m", "item-0", "x", "")
		require.NoError(t, err)
		_, _, err = g.Connect(ctx, "m", "item-2", "y", "")
		require.NoError(t, err)
		_, _, err = g.Connect(ctx, "x", "", "m", "")
		require.NoError(t, err)

		out, err := p.RemoveItem(ctx, "m", removeAt)
		require.NoError(t, err)
		assert.Len(t, out.Pruned, 2)

		for _, e := range g.Edges(ctx) {
			assert.NotEqual(t, "m", e.Source, "outgoing edge survived removal of item %d", removeAt)
		}
		assert.Len(t, g.Edges(ctx), 1, "incoming edges are untouched")
	}
}

func TestIndexMode_AddAlsoRetracts(t *testing.T) {
	ctx := context.Background()
	g, p := setup(t, ModeIndex, "A")
	_, _, err := g.Connect(ctx, "m", "item-0", "x", "")
	require.NoError(t, err)

	out, err := p.AddItem(ctx, "m", "B")
	require.NoError(t, err)
	assert.Len(t, out.Pruned, 1)
	assert.Empty(t, g.Edges(ctx))
}

func TestStableMode_OnlyRemovedItemEdgesArePruned(t *testing.T) {
	ctx := context.Background()
	g, p := setup(t, ModeStable, "A", "B", "C")
	_, _, err := g.Connect(ctx, "m", "item-k0", "x", "")
	require.NoError(t, err)
	_, _, err = g.Connect(ctx, "m", "item-k2", "y", "")
	require.NoError(t, err)

	out, err := p.AddItem(ctx, "m", "D")
	require.NoError(t, err)
	assert.Empty(t, out.Pruned)

	out, err = p.RemoveItem(ctx, "m", 0)
	require.NoError(t, err)
	assert.Len(t, out.Pruned, 1)

	edges := g.Edges(ctx)
	require.Len(t, edges, 1)
	assert.Equal(t, "item-k2", edges[0].SourceHandle)

	n, _ := g.Node(ctx, "m")
	assert.Equal(t, []string{"B", "C", "D"}, n.Data.Items)
	assert.Equal(t, []string{"k1", "k2", "k3"}, n.Data.ItemKeys)
}

func TestRemoveItem_Errors(t *testing.T) {
	ctx := context.Background()
	_, p := setup(t, ModeIndex, "A")

	_, err := p.RemoveItem(ctx, "m", 3)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = p.RemoveItem(ctx, "x", 0)
	require.ErrorIs(t, err, ErrNotMenu)
	_, err = p.AddItem(ctx, "ghost", "v")
	require.ErrorIs(t, err, ErrNotMenu)
}

func TestItemsChangeCallback(t *testing.T) {
	ctx := context.Background()
	g, p := setup(t, ModeIndex, "A")
	var got []string
	g.Callbacks().Register(ctx, "m", handlers.ItemsChange, func(_ context.Context, _ string, args ...any) error {
		got = args[0].([]string)
		return nil
	})

	_, err := p.AddItem(ctx, "m", "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, got)
}
