package localsession

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/flowcanvas/internal/ctxlog"
	"github.com/vk/flowcanvas/internal/event"
	"github.com/vk/flowcanvas/internal/handlers"
	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/nodestore"
	"github.com/vk/flowcanvas/internal/session"
)

// apply dispatches one event. Every branch validates before it mutates.
func (s *Session) apply(ctx context.Context, ev event.Event) error {
	switch e := ev.(type) {
	// Sidebar and canvas.
	case event.DragStart:
		kind, err := node.ParseKind(string(e.Kind))
		if err != nil {
			return err
		}
		s.pending = kind
		return nil
	case event.Drop:
		if s.pending == "" {
			ctxlog.FromContext(ctx).Debug("Drop without a dragged kind ignored.")
			return nil
		}
		screen := e.Screen
		if err := s.create(ctx, s.pending, s.alloc.Next(&screen)); err != nil {
			return err
		}
		s.pending = ""
		return nil
	case event.ClickAdd:
		kind, err := node.ParseKind(string(e.Kind))
		if err != nil {
			return err
		}
		return s.create(ctx, kind, s.alloc.Next(nil))
	case event.Connect:
		_, _, err := s.graph.Connect(ctx, e.Source, e.SourceHandle, e.Target, e.TargetHandle)
		return err
	case event.Move:
		return s.move(ctx, e)
	case event.Resize:
		return s.resize(ctx, e)
	case event.Viewport:
		s.alloc.SetViewport(e.Viewport)
		return nil
	case event.RemoveNode:
		if active, ok := s.editor.Active(); ok && active == e.NodeID {
			s.editor.Cancel(ctx)
		}
		if _, ok := s.graph.RemoveNode(ctx, e.NodeID); !ok {
			return fmt.Errorf("%w: %s", session.ErrUnknownNode, e.NodeID)
		}
		return nil
	case event.RemoveEdge:
		if !s.graph.RemoveEdge(ctx, e.EdgeID) {
			ctxlog.FromContext(ctx).Debug("Edge already gone.", "edge_id", e.EdgeID)
		}
		return nil

	// Node-kind renderers.
	case event.ItemDraft:
		if _, err := s.nodeOfKind(ctx, e.NodeID, node.KindMenu); err != nil {
			return err
		}
		s.graph.Drafts().SetDraft(ctx, e.NodeID, nodestore.FieldNewItem, e.Value)
		return nil
	case event.ItemAdd:
		_, err := s.menu.AddItem(ctx, e.NodeID, e.Value)
		return err
	case event.ItemRemove:
		_, err := s.menu.RemoveItem(ctx, e.NodeID, e.Index)
		return err
	case event.SelectOption:
		return s.selectOption(ctx, e)
	case event.TextInput:
		if _, err := s.nodeOfKind(ctx, e.NodeID, node.KindText); err != nil {
			return err
		}
		s.graph.Drafts().SetDraft(ctx, e.NodeID, nodestore.FieldText, e.Value)
		return nil

	// Popup editor.
	case event.EditOpen:
		_, err := s.editor.Open(ctx, e.NodeID)
		return err
	case event.EditLabel:
		return s.editor.SetLabel(e.Value)
	case event.EditItem:
		return s.editor.SetItem(e.Index, e.Value)
	case event.EditAddItem:
		return s.editor.AddItem(e.Value)
	case event.EditRemoveItem:
		return s.editor.RemoveItem(e.Index)
	case event.EditOption:
		return s.editor.SetOption(e.Index, e.Value)
	case event.EditAddOption:
		return s.editor.AddOption(e.Value)
	case event.EditRemoveOption:
		return s.editor.RemoveOption(e.Index)
	case event.EditBounds:
		return s.editor.SetBounds(e.Bounds)
	case event.PointerDown:
		s.editor.PointerDown(ctx, e.Screen)
		return nil
	case event.EditSave:
		_, err := s.editor.Save(ctx)
		return err
	case event.EditCancel:
		s.editor.Cancel(ctx)
		return nil
	case event.Snapshot:
		return nil
	}
	return fmt.Errorf("%w: %s", session.ErrUnsupportedEvent, ev.Type())
}

// create places a new node of kind at pos with the kind's template data.
func (s *Session) create(ctx context.Context, kind node.Kind, pos node.Position) error {
	n := &node.Node{
		ID:       s.ids.Next(),
		Kind:     kind,
		Position: pos,
		Data:     s.cfg.TemplateFor(kind).Data(),
	}
	if kind.Resizable() {
		n.Size = node.Size{Width: s.cfg.DefaultSize.Width, Height: s.cfg.DefaultSize.Height}
	}
	if kind == node.KindMenu {
		n.Data.ItemColors = s.palette.AssignAll(nil, n.Data.Items)
		if s.keys != nil {
			for range n.Data.Items {
				n.Data.ItemKeys = append(n.Data.ItemKeys, s.keys.Next())
			}
		}
	}

	if err := s.graph.AddNode(ctx, n); err != nil {
		return err
	}
	s.alloc.Record(pos)
	s.registerCallbacks(ctx, n)
	ctxlog.FromContext(ctx).Debug("Node created.", "node_id", n.ID, "kind", kind, "x", pos.X, "y", pos.Y)
	return nil
}

// registerCallbacks binds the per-kind change callbacks of a new node.
func (s *Session) registerCallbacks(ctx context.Context, n *node.Node) {
	switch n.Kind {
	case node.KindMenu:
		s.graph.Callbacks().Register(ctx, n.ID, handlers.ItemsChange, func(ctx context.Context, nodeID string, args ...any) error {
			ctxlog.FromContext(ctx).Debug("Menu items changed.", "node_id", nodeID, "args", args)
			return nil
		})
	case node.KindChoice:
		s.graph.Callbacks().Register(ctx, n.ID, handlers.Change, func(ctx context.Context, nodeID string, args ...any) error {
			ctxlog.FromContext(ctx).Debug("Dropdown selection changed.", "node_id", nodeID, "args", args)
			return nil
		})
	}
}

func (s *Session) move(ctx context.Context, e event.Move) error {
	ok, err := s.graph.UpdateNode(ctx, e.NodeID, func(n *node.Node) {
		n.Position = e.Position
	})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", session.ErrUnknownNode, e.NodeID)
	}

	nodes := s.graph.Nodes(ctx)
	positions := make([]node.Position, 0, len(nodes))
	for _, n := range nodes {
		positions = append(positions, n.Position)
	}
	s.alloc.Resync(positions)
	return nil
}

func (s *Session) resize(ctx context.Context, e event.Resize) error {
	n, ok := s.graph.Node(ctx, e.NodeID)
	if !ok {
		return fmt.Errorf("%w: %s", session.ErrUnknownNode, e.NodeID)
	}
	if !n.Kind.Resizable() {
		return fmt.Errorf("%w: %s is not resizable", session.ErrWrongKind, n.Kind)
	}
	minSize := node.Size{Width: s.cfg.MinSize.Width, Height: s.cfg.MinSize.Height}
	_, err := s.graph.UpdateNode(ctx, e.NodeID, func(n *node.Node) {
		n.Size = e.Size
		n.ClampSize(minSize)
	})
	return err
}

func (s *Session) selectOption(ctx context.Context, e event.SelectOption) error {
	n, err := s.nodeOfKind(ctx, e.NodeID, node.KindChoice)
	if err != nil {
		return err
	}
	if e.Value != "" && !slices.Contains(n.Data.Options, e.Value) {
		return fmt.Errorf("%w: %q on %s", session.ErrInvalidSelection, e.Value, e.NodeID)
	}
	if _, err := s.graph.PatchNode(ctx, e.NodeID, node.Patch{SelectedValue: node.String(e.Value)}); err != nil {
		return err
	}
	_, err = s.graph.Callbacks().Invoke(ctx, e.NodeID, handlers.Change, e.Value)
	return err
}

func (s *Session) nodeOfKind(ctx context.Context, id string, kind node.Kind) (*node.Node, error) {
	n, ok := s.graph.Node(ctx, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", session.ErrUnknownNode, id)
	}
	if n.Kind != kind {
		return nil, fmt.Errorf("%w: %s is a %s node", session.ErrWrongKind, id, n.Kind)
	}
	return n, nil
}
