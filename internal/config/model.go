package config

import (
	"fmt"

	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/nodeid"
	"github.com/vk/flowcanvas/internal/palette"
)

// Handle identity modes.
const (
	HandleModeIndex  = "index"
	HandleModeStable = "stable"
)

// Id sequence kinds.
const (
	IDSequenceCounter = "counter"
	IDSequenceUUID    = "uuid"
)

// Model is the complete editor configuration.
type Model struct {
	Palette     []string `validate:"min=1,dive,hexcolor"`
	MinSize     Size
	DefaultSize Size
	Cascade     Cascade
	HandleMode  string `validate:"oneof=index stable"`
	IDSequence  string `validate:"oneof=counter uuid"`
	IDPrefix    string `validate:"max=32"`
	Templates   map[string]Template
}

// Size is a width/height pair in canvas units.
type Size struct {
	Width  float64 `validate:"gt=0"`
	Height float64 `validate:"gt=0"`
}

// Cascade configures click-to-add placement.
type Cascade struct {
	StartX  float64
	StartY  float64
	OffsetX float64
	OffsetY float64
	ColumnX float64
	ColumnY float64
	Wrap    int `validate:"gt=0"`
}

// Template is the initial data of a newly created node of one kind.
type Template struct {
	Label         string
	Items         []string
	Options       []string
	SelectedValue string
}

// Default returns the built-in settings.
func Default() *Model {
	return &Model{
		Palette:     palette.Default().Colors(),
		MinSize:     Size{Width: 250, Height: 200},
		DefaultSize: Size{Width: 250, Height: 200},
		Cascade: Cascade{
			StartX: 100, StartY: 100,
			OffsetX: 40, OffsetY: 40,
			ColumnX: 320, ColumnY: 0,
			Wrap: 10,
		},
		HandleMode: HandleModeIndex,
		IDSequence: IDSequenceCounter,
		IDPrefix:   nodeid.DefaultPrefix,
		Templates: map[string]Template{
			string(node.KindChoice): {
				Label:   "Select an option:",
				Options: []string{"Option A", "Option B", "Option C", "Option D"},
			},
			string(node.KindMenu): {
				Label: "Menu Items",
				Items: []string{"Initial Item"},
			},
		},
	}
}

// TemplateFor returns the template of kind, falling back to a label of the
// form "<kind> node".
func (m *Model) TemplateFor(kind node.Kind) Template {
	if t, ok := m.Templates[string(kind)]; ok {
		return t
	}
	return Template{Label: fmt.Sprintf("%s node", kind)}
}

// Data builds fresh node data from the template of kind.
func (t Template) Data() node.Data {
	d := node.Data{Label: t.Label}
	if len(t.Items) > 0 {
		d.Items = append([]string(nil), t.Items...)
	}
	if len(t.Options) > 0 {
		d.Options = append([]string(nil), t.Options...)
	}
	d.SelectedValue = t.SelectedValue
	return d
}
