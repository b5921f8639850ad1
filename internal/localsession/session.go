// Package localsession provides the in-process implementation of the
// session.Session and session.SessionFactory interfaces. It is where the
// graph, the placement allocator, the popup editor and the menu propagator
// are wired together and where interaction events are turned into calls on
// them.
package localsession

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/flowcanvas/internal/config"
	"github.com/vk/flowcanvas/internal/ctxlog"
	"github.com/vk/flowcanvas/internal/editor"
	"github.com/vk/flowcanvas/internal/event"
	"github.com/vk/flowcanvas/internal/graph"
	"github.com/vk/flowcanvas/internal/handlers"
	"github.com/vk/flowcanvas/internal/inmemorystore"
	"github.com/vk/flowcanvas/internal/inmemorytopology"
	"github.com/vk/flowcanvas/internal/menu"
	"github.com/vk/flowcanvas/internal/metrics"
	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/nodeid"
	"github.com/vk/flowcanvas/internal/palette"
	"github.com/vk/flowcanvas/internal/placement"
	"github.com/vk/flowcanvas/internal/session"
)

// itemKeyPrefix prefixes the permanent item keys minted in stable mode.
const itemKeyPrefix = "k"

// SessionFactory implements session.SessionFactory for local sessions.
type SessionFactory struct {
	// Metrics is optional. When set every session reports to it.
	Metrics *metrics.Metrics
}

// NewSession creates and wires a new local session.
func (f *SessionFactory) NewSession(ctx context.Context, cfg *config.Model) (session.Session, error) {
	var opts []Option
	if f.Metrics != nil {
		opts = append(opts, WithMetrics(f.Metrics))
	}
	return New(ctx, cfg, opts...)
}

// Option configures a Session.
type Option func(*Session)

// WithIDSequence overrides the node id sequence chosen from the config.
func WithIDSequence(seq nodeid.Sequence) Option {
	return func(s *Session) { s.ids = seq }
}

// WithMetrics reports store mutations and events to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// Session implements session.Session. Events are applied under one mutex,
// so a session is safe to share but never applies two events at once.
type Session struct {
	mu     sync.Mutex
	closed bool

	cfg     *config.Model
	palette palette.Palette
	ids     nodeid.Sequence
	keys    nodeid.Sequence

	graph  *graph.Manager
	alloc  *placement.Allocator
	editor *editor.Bridge
	menu   *menu.Propagator

	pending node.Kind

	metrics     *metrics.Metrics
	unsubscribe func()
}

var _ session.Session = (*Session)(nil)

// New wires a session from cfg. cfg must already be validated.
func New(ctx context.Context, cfg *config.Model, opts ...Option) (*Session, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("localsession.New called", "handle_mode", cfg.HandleMode, "id_sequence", cfg.IDSequence)

	pal, err := palette.New(cfg.Palette)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}

	s := &Session{cfg: cfg, palette: pal}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		switch cfg.IDSequence {
		case config.IDSequenceUUID:
			s.ids = nodeid.NewUUID(cfg.IDPrefix)
		default:
			s.ids = nodeid.NewCounter(cfg.IDPrefix)
		}
	}

	// --- Dependency wiring ---
	topoStore := inmemorytopology.New()
	nodeStore := inmemorystore.New()
	s.graph = graph.New(topoStore, nodeStore, handlers.New())
	s.alloc = placement.New(placement.Cascade{
		Start:  node.Position{X: cfg.Cascade.StartX, Y: cfg.Cascade.StartY},
		Offset: node.Position{X: cfg.Cascade.OffsetX, Y: cfg.Cascade.OffsetY},
		Column: node.Position{X: cfg.Cascade.ColumnX, Y: cfg.Cascade.ColumnY},
		Wrap:   cfg.Cascade.Wrap,
	})

	editorOpts := []editor.Option{editor.WithPalette(pal)}
	mode := menu.ModeIndex
	if cfg.HandleMode == config.HandleModeStable {
		mode = menu.ModeStable
		s.keys = nodeid.NewCounter(itemKeyPrefix)
		editorOpts = append(editorOpts, editor.WithItemKeys(s.keys))
	}
	s.editor = editor.New(s.graph, editorOpts...)
	s.menu, err = menu.New(s.graph, pal, mode, s.keys)
	if err != nil {
		return nil, err
	}
	// --- End of wiring ---

	if s.metrics != nil {
		s.unsubscribe = s.graph.Subscribe(s.metrics.ObserveChange)
		s.metrics.SessionOpened()
	}
	return s, nil
}

// Graph exposes the session's graph. Reads only; mutations go through Handle.
func (s *Session) Graph() graph.Graph {
	return s.graph
}

// History returns the current Placement History.
func (s *Session) History() []node.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alloc.History()
}

// Handle applies ev and returns the resulting snapshot.
func (s *Session) Handle(ctx context.Context, ev event.Event) (*session.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = ctxlog.With(ctx, "event", ev.Type())
	if s.closed {
		return nil, session.ErrClosed
	}

	err := s.apply(ctx, ev)
	if s.metrics != nil {
		s.metrics.ObserveEvent(ev.Type(), err)
	}
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Event rejected.", "error", err)
		return nil, err
	}
	return s.snapshotLocked(ctx), nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot(ctx context.Context) *session.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(ctx)
}

// Close detaches the session from its metrics. It is safe to call twice.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if s.metrics != nil {
		s.metrics.SessionClosed()
	}
	ctxlog.FromContext(ctx).Debug("localsession.Session.Close called")
	return nil
}

func (s *Session) snapshotLocked(ctx context.Context) *session.Snapshot {
	st := session.State{PendingKind: s.pending, Viewport: s.alloc.Viewport()}
	if w, ok := s.editor.Working(); ok {
		st.Editor = &w
	}
	return session.NewSnapshot(ctx, s.graph, st)
}
