package inmemorystore

import (
	"context"
	"sync"

	"github.com/vk/flowcanvas/internal/nodestore"
)

type draftKey struct {
	nodeID string
	field  nodestore.Field
}

// Store is an in-memory implementation of nodestore.Store using sync.Map.
// Keys are independent per node and field, so concurrent renderers writing
// different drafts never contend on a global lock.
type Store struct {
	drafts sync.Map // Key: draftKey, Value: string
}

// New creates a new, empty draft store.
func New() *Store {
	return &Store{}
}

var _ nodestore.Store = (*Store)(nil)

// SetDraft records a draft. An empty value clears it.
func (s *Store) SetDraft(ctx context.Context, nodeID string, f nodestore.Field, value string) {
	if value == "" {
		s.drafts.Delete(draftKey{nodeID, f})
		return
	}
	s.drafts.Store(draftKey{nodeID, f}, value)
}

// Draft returns the recorded draft or "".
func (s *Store) Draft(ctx context.Context, nodeID string, f nodestore.Field) string {
	v, ok := s.drafts.Load(draftKey{nodeID, f})
	if !ok {
		return ""
	}
	return v.(string)
}

// ClearDraft discards one draft.
func (s *Store) ClearDraft(ctx context.Context, nodeID string, f nodestore.Field) {
	s.drafts.Delete(draftKey{nodeID, f})
}

// Forget discards all drafts of a node.
func (s *Store) Forget(ctx context.Context, nodeID string) {
	s.drafts.Range(func(k, _ any) bool {
		if k.(draftKey).nodeID == nodeID {
			s.drafts.Delete(k)
		}
		return true
	})
}
