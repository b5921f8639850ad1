// Package nodestore defines the interface for transient, per-node UI state.
//
// # Why Node Store Exists
//
// Node-kind renderers hold in-progress input that is not authoritative until
// committed to the topology store: the text typed into a text node, or the
// value typed into a menu node's "new item" field. Keeping those drafts out
// of node data means a popup save or an item-list change can never pick up
// half-typed text by accident.
//
// Drafts are forgotten when their node is removed.
package nodestore

import "context"

// Field names a draft slot on a node.
type Field string

const (
	// FieldText is the in-progress text of a text node.
	FieldText Field = "text"
	// FieldNewItem is the in-progress value of a menu node's add-item input.
	FieldNewItem Field = "newItem"
)

// Store is the interface for managing transient per-node drafts.
//
// Implementations MUST be safe for concurrent use.
type Store interface {
	// SetDraft records the in-progress value of a field.
	SetDraft(ctx context.Context, nodeID string, f Field, value string)

	// Draft returns the in-progress value of a field, or "" if none is set.
	Draft(ctx context.Context, nodeID string, f Field) string

	// ClearDraft discards a single field's draft.
	ClearDraft(ctx context.Context, nodeID string, f Field)

	// Forget discards every draft held for a node.
	Forget(ctx context.Context, nodeID string)
}
