// Package session defines the contract of one editor session: the unit that
// owns a graph, its placement history and its popup editor, and reacts to
// interaction events one at a time.
package session

import (
	"context"
	"errors"

	"github.com/vk/flowcanvas/internal/config"
	"github.com/vk/flowcanvas/internal/event"
)

var (
	// ErrClosed is returned by Handle after Close.
	ErrClosed = errors.New("session is closed")
	// ErrUnknownNode is returned for events that name a node the graph does
	// not hold.
	ErrUnknownNode = errors.New("unknown node")
	// ErrWrongKind is returned for events that target a node of a kind that
	// cannot receive them.
	ErrWrongKind = errors.New("event does not apply to this node kind")
	// ErrInvalidSelection is returned when a dropdown selection is not one
	// of the node's options.
	ErrInvalidSelection = errors.New("value is not an option of this node")
	// ErrUnsupportedEvent is returned for event types the session does not
	// react to.
	ErrUnsupportedEvent = errors.New("unsupported event")
)

// SessionFactory creates editor sessions from the loaded configuration.
type SessionFactory interface {
	NewSession(ctx context.Context, cfg *config.Model) (Session, error)
}

// Session reacts to interaction events. Implementations must apply each
// event completely, including every derived recomputation, before the next
// one is observed. A rejected event leaves the session unchanged.
type Session interface {
	// Handle applies ev and returns the resulting snapshot.
	Handle(ctx context.Context, ev event.Event) (*Snapshot, error)
	// Snapshot returns the current state without changing it.
	Snapshot(ctx context.Context) *Snapshot
	// Close releases the session's resources. Further events are rejected.
	Close(ctx context.Context) error
}
