package session

import (
	"context"

	"github.com/vk/flowcanvas/internal/edge"
	"github.com/vk/flowcanvas/internal/editor"
	"github.com/vk/flowcanvas/internal/graph"
	"github.com/vk/flowcanvas/internal/handle"
	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/palette"
	"github.com/vk/flowcanvas/internal/placement"
)

// Snapshot is the derived state a renderer needs to draw the canvas.
type Snapshot struct {
	Nodes       []NodeView         `json:"nodes"`
	Edges       []*edge.Edge       `json:"edges"`
	Editor      *editor.Working    `json:"editor,omitempty"`
	PendingKind node.Kind          `json:"pendingKind,omitempty"`
	Viewport    placement.Viewport `json:"viewport"`
}

// NodeView is a node together with its derived handles and, for menu nodes,
// the colored item rows.
type NodeView struct {
	*node.Node
	Handles []handle.Spec `json:"handles"`
	Rows    []ItemRow     `json:"rows,omitempty"`
}

// ItemRow is one rendered menu item.
type ItemRow struct {
	Value string `json:"value"`
	Color string `json:"color"`
	Tint  string `json:"tint"`
}

// State is what a session contributes to a snapshot besides the graph.
type State struct {
	Editor      *editor.Working
	PendingKind node.Kind
	Viewport    placement.Viewport
}

// NewSnapshot derives a snapshot of g.
func NewSnapshot(ctx context.Context, g graph.Graph, st State) *Snapshot {
	nodes := g.Nodes(ctx)
	snap := &Snapshot{
		Nodes:       make([]NodeView, 0, len(nodes)),
		Edges:       g.Edges(ctx),
		Editor:      st.Editor,
		PendingKind: st.PendingKind,
		Viewport:    st.Viewport,
	}
	for _, n := range nodes {
		snap.Nodes = append(snap.Nodes, NodeView{Node: n, Handles: handle.Derive(n), Rows: itemRows(n)})
	}
	return snap
}

// Node returns the view of id, if present.
func (s *Snapshot) Node(id string) (NodeView, bool) {
	for _, v := range s.Nodes {
		if v.Node != nil && v.ID == id {
			return v, true
		}
	}
	return NodeView{}, false
}

func itemRows(n *node.Node) []ItemRow {
	if n.Kind != node.KindMenu {
		return nil
	}
	rows := make([]ItemRow, 0, len(n.Data.Items))
	for _, item := range n.Data.Items {
		row := ItemRow{Value: item, Color: palette.FallbackIndicator, Tint: palette.FallbackRow}
		if c, ok := palette.Lookup(n.Data.ItemColors, item); ok {
			row.Color = c
			row.Tint = palette.Tint(c)
		}
		rows = append(rows, row)
	}
	return rows
}
