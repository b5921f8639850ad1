// Package handlers is the out-of-band callback registry of an editor session.
// Node data never carries functions; a consumer that needs a node's callback
// looks it up here by node id and callback name.
package handlers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vk/flowcanvas/internal/ctxlog"
)

// Well-known callback names.
const (
	// ItemsChange is invoked after a menu node's item list changed through
	// its inline controls.
	ItemsChange = "itemsChange"
	// Change is invoked when a choice node's selected value changes.
	Change = "change"
)

// Func is a registered callback.
type Func func(ctx context.Context, nodeID string, args ...any) error

// Handlers holds callbacks keyed by node id and name.
type Handlers struct {
	mu  sync.RWMutex
	all map[string]map[string]Func
}

// New creates an empty registry.
func New() *Handlers {
	return &Handlers{all: make(map[string]map[string]Func)}
}

// Register binds fn to (nodeID, name), replacing any previous binding.
func (h *Handlers) Register(ctx context.Context, nodeID, name string, fn Func) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.all[nodeID] == nil {
		h.all[nodeID] = make(map[string]Func)
	}
	ctxlog.FromContext(ctx).Debug("Registering node callback.", "node_id", nodeID, "name", name)
	h.all[nodeID][name] = fn
}

// Lookup returns the callback bound to (nodeID, name).
func (h *Handlers) Lookup(nodeID, name string) (Func, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	fn, ok := h.all[nodeID][name]
	return fn, ok
}

// Invoke calls the callback bound to (nodeID, name). A missing binding is not
// an error; it reports false.
func (h *Handlers) Invoke(ctx context.Context, nodeID, name string, args ...any) (bool, error) {
	fn, ok := h.Lookup(nodeID, name)
	if !ok {
		return false, nil
	}
	if err := fn(ctx, nodeID, args...); err != nil {
		return true, fmt.Errorf("callback %s of node %s: %w", name, nodeID, err)
	}
	return true, nil
}

// Names lists the callbacks bound to nodeID, sorted.
func (h *Handlers) Names(nodeID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.all[nodeID]))
	for name := range h.all[nodeID] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Forget drops every callback of nodeID.
func (h *Handlers) Forget(nodeID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.all, nodeID)
}
