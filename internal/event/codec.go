package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownEvent is returned for a missing or unregistered "type".
var ErrUnknownEvent = errors.New("unknown event type")

var registry = map[string]func() Event{}

func register(newFn func() Event) {
	registry[newFn().Type()] = newFn
}

func init() {
	register(func() Event { return &DragStart{} })
	register(func() Event { return &Drop{} })
	register(func() Event { return &ClickAdd{} })
	register(func() Event { return &Connect{} })
	register(func() Event { return &Move{} })
	register(func() Event { return &Resize{} })
	register(func() Event { return &Viewport{} })
	register(func() Event { return &RemoveNode{} })
	register(func() Event { return &RemoveEdge{} })
	register(func() Event { return &ItemDraft{} })
	register(func() Event { return &ItemAdd{} })
	register(func() Event { return &ItemRemove{} })
	register(func() Event { return &SelectOption{} })
	register(func() Event { return &TextInput{} })
	register(func() Event { return &EditOpen{} })
	register(func() Event { return &EditLabel{} })
	register(func() Event { return &EditItem{} })
	register(func() Event { return &EditAddItem{} })
	register(func() Event { return &EditRemoveItem{} })
	register(func() Event { return &EditOption{} })
	register(func() Event { return &EditAddOption{} })
	register(func() Event { return &EditRemoveOption{} })
	register(func() Event { return &EditBounds{} })
	register(func() Event { return &PointerDown{} })
	register(func() Event { return &EditSave{} })
	register(func() Event { return &EditCancel{} })
	register(func() Event { return &Snapshot{} })
}

// Types lists every registered event type, sorted.
func Types() []string {
	out := make([]string, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Decode parses a wire event. Unknown members are rejected so typos in a
// script surface instead of being silently dropped.
func Decode(raw []byte) (Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	newFn, ok := registry[head.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, head.Type)
	}

	ev := newFn()
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decoding %s event: %w", head.Type, err)
	}
	delete(fields, "type")
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("decoding %s event: %w", head.Type, err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(ev); err != nil {
		return nil, fmt.Errorf("decoding %s event: %w", head.Type, err)
	}
	return deref(ev), nil
}

// DecodeValue decodes an already parsed JSON value, as delivered by
// transports that unmarshal payloads themselves.
func DecodeValue(v any) (Event, error) {
	if s, ok := v.(string); ok {
		return Decode([]byte(s))
	}
	if b, ok := v.([]byte); ok {
		return Decode(b)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	return Decode(raw)
}

// Encode renders ev in wire form.
func Encode(ev Event) ([]byte, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	typ, _ := json.Marshal(ev.Type())
	fields["type"] = typ
	return json.Marshal(fields)
}

// deref turns the registry's pointer back into the value type so callers
// can switch on value types.
func deref(ev Event) Event {
	switch e := ev.(type) {
	case *DragStart:
		return *e
	case *Drop:
		return *e
	case *ClickAdd:
		return *e
	case *Connect:
		return *e
	case *Move:
		return *e
	case *Resize:
		return *e
	case *Viewport:
		return *e
	case *RemoveNode:
		return *e
	case *RemoveEdge:
		return *e
	case *ItemDraft:
		return *e
	case *ItemAdd:
		return *e
	case *ItemRemove:
		return *e
	case *SelectOption:
		return *e
	case *TextInput:
		return *e
	case *EditOpen:
		return *e
	case *EditLabel:
		return *e
	case *EditItem:
		return *e
	case *EditAddItem:
		return *e
	case *EditRemoveItem:
		return *e
	case *EditOption:
		return *e
	case *EditAddOption:
		return *e
	case *EditRemoveOption:
		return *e
	case *EditBounds:
		return *e
	case *PointerDown:
		return *e
	case *EditSave:
		return *e
	case *EditCancel:
		return *e
	case *Snapshot:
		return *e
	}
	return ev
}
