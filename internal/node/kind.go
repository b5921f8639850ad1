package node

import "fmt"

// Kind is the closed set of node variants. The string values are the type
// tags the canvas renderer registers its components under.
type Kind string

const (
	KindInput     Kind = "input"
	KindDefault   Kind = "default"
	KindOutput    Kind = "output"
	KindText      Kind = "textUpdater"
	KindChoice    Kind = "Dropdown"
	KindMenu      Kind = "Menu"
	KindResizable Kind = "resizable"
)

// Kinds lists every variant in sidebar order.
var Kinds = []Kind{KindInput, KindDefault, KindOutput, KindText, KindChoice, KindMenu, KindResizable}

// ParseKind validates a raw type tag.
func ParseKind(raw string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown node kind %q", raw)
}

// Resizable reports whether nodes of this kind carry a resize control and
// are subject to the minimum size.
func (k Kind) Resizable() bool {
	switch k {
	case KindText, KindChoice, KindMenu, KindResizable:
		return true
	}
	return false
}

// DataDerived reports whether the kind's output handles depend on its data.
func (k Kind) DataDerived() bool {
	return k == KindMenu || k == KindChoice
}
