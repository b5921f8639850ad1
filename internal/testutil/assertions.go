package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/flowcanvas/internal/session"
)

// EdgeIDs returns the ids of the snapshot's edges in order.
func EdgeIDs(snap *session.Snapshot) []string {
	ids := make([]string, 0, len(snap.Edges))
	for _, e := range snap.Edges {
		ids = append(ids, e.ID)
	}
	return ids
}

// NodeIDs returns the ids of the snapshot's nodes in order.
func NodeIDs(snap *session.Snapshot) []string {
	ids := make([]string, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

// RequireNode returns the view of id or fails the test.
func RequireNode(t *testing.T, snap *session.Snapshot, id string) session.NodeView {
	t.Helper()
	v, ok := snap.Node(id)
	require.True(t, ok, "node %s is not in the snapshot", id)
	return v
}
