// Package event defines the interaction events the rendering collaborator
// delivers to an editor session, and their JSON wire form.
//
// On the wire every event is a JSON object whose "type" member names the
// event; the remaining members are the event's fields:
//
//	{"type": "connect", "source": "dndnode_0", "sourceHandle": "item-1", "target": "dndnode_1"}
package event

import (
	"github.com/vk/flowcanvas/internal/editor"
	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/placement"
)

// Event is one discrete interaction.
type Event interface {
	Type() string
}

// Sidebar and canvas.

type DragStart struct {
	Kind node.Kind `json:"kind"`
}

type Drop struct {
	Screen node.Position `json:"screen"`
}

type ClickAdd struct {
	Kind node.Kind `json:"kind"`
}

type Connect struct {
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

type Move struct {
	NodeID   string        `json:"nodeId"`
	Position node.Position `json:"position"`
}

// Resize carries the new absolute size requested by the resize control.
type Resize struct {
	NodeID string    `json:"nodeId"`
	Size   node.Size `json:"size"`
}

type Viewport struct {
	Viewport placement.Viewport `json:"viewport"`
}

type RemoveNode struct {
	NodeID string `json:"nodeId"`
}

type RemoveEdge struct {
	EdgeID string `json:"edgeId"`
}

// Node-kind renderers.

type ItemDraft struct {
	NodeID string `json:"nodeId"`
	Value  string `json:"value"`
}

// ItemAdd adds Value, or the node's item draft when Value is empty.
type ItemAdd struct {
	NodeID string `json:"nodeId"`
	Value  string `json:"value,omitempty"`
}

type ItemRemove struct {
	NodeID string `json:"nodeId"`
	Index  int    `json:"index"`
}

type SelectOption struct {
	NodeID string `json:"nodeId"`
	Value  string `json:"value"`
}

type TextInput struct {
	NodeID string `json:"nodeId"`
	Value  string `json:"value"`
}

// Popup editor.

type EditOpen struct {
	NodeID string `json:"nodeId"`
}

type EditLabel struct {
	Value string `json:"value"`
}

type EditItem struct {
	Index int    `json:"index"`
	Value string `json:"value"`
}

type EditAddItem struct {
	Value string `json:"value"`
}

type EditRemoveItem struct {
	Index int `json:"index"`
}

type EditOption struct {
	Index int    `json:"index"`
	Value string `json:"value"`
}

type EditAddOption struct {
	Value string `json:"value"`
}

type EditRemoveOption struct {
	Index int `json:"index"`
}

type EditBounds struct {
	Bounds editor.Bounds `json:"bounds"`
}

// PointerDown is a press anywhere on screen; outside the popup it cancels
// the open editor.
type PointerDown struct {
	Screen node.Position `json:"screen"`
}

type EditSave struct{}

type EditCancel struct{}

// Snapshot requests the current state without changing it.
type Snapshot struct{}

func (DragStart) Type() string        { return "drag-start" }
func (Drop) Type() string             { return "drop" }
func (ClickAdd) Type() string         { return "click-add" }
func (Connect) Type() string          { return "connect" }
func (Move) Type() string             { return "move" }
func (Resize) Type() string           { return "resize" }
func (Viewport) Type() string         { return "viewport" }
func (RemoveNode) Type() string       { return "remove-node" }
func (RemoveEdge) Type() string       { return "remove-edge" }
func (ItemDraft) Type() string        { return "item-draft" }
func (ItemAdd) Type() string          { return "item-add" }
func (ItemRemove) Type() string       { return "item-remove" }
func (SelectOption) Type() string     { return "select-option" }
func (TextInput) Type() string        { return "text-input" }
func (EditOpen) Type() string         { return "edit-open" }
func (EditLabel) Type() string        { return "edit-label" }
func (EditItem) Type() string         { return "edit-item" }
func (EditAddItem) Type() string      { return "edit-add-item" }
func (EditRemoveItem) Type() string   { return "edit-remove-item" }
func (EditOption) Type() string       { return "edit-option" }
func (EditAddOption) Type() string    { return "edit-add-option" }
func (EditRemoveOption) Type() string { return "edit-remove-option" }
func (EditBounds) Type() string       { return "edit-bounds" }
func (PointerDown) Type() string      { return "pointer-down" }
func (EditSave) Type() string         { return "edit-save" }
func (EditCancel) Type() string       { return "edit-cancel" }
func (Snapshot) Type() string         { return "snapshot" }
