package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a settings or script file may hold.
type fileRoot struct {
	Editor    *editorBlock     `hcl:"editor,block"`
	Templates []*templateBlock `hcl:"template,block"`
	Events    []*eventBlock    `hcl:"event,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

type editorBlock struct {
	HandleMode  *string        `hcl:"handle_mode,optional"`
	IDSequence  *string        `hcl:"id_sequence,optional"`
	IDPrefix    *string        `hcl:"id_prefix,optional"`
	Palette     hcl.Expression `hcl:"palette,optional"`
	MinSize     *sizeBlock     `hcl:"min_size,block"`
	DefaultSize *sizeBlock     `hcl:"default_size,block"`
	Cascade     *cascadeBlock  `hcl:"cascade,block"`
}

type sizeBlock struct {
	Width  float64 `hcl:"width"`
	Height float64 `hcl:"height"`
}

type cascadeBlock struct {
	StartX  *float64 `hcl:"start_x,optional"`
	StartY  *float64 `hcl:"start_y,optional"`
	OffsetX *float64 `hcl:"offset_x,optional"`
	OffsetY *float64 `hcl:"offset_y,optional"`
	ColumnX *float64 `hcl:"column_x,optional"`
	ColumnY *float64 `hcl:"column_y,optional"`
	Wrap    *int     `hcl:"wrap,optional"`
}

type templateBlock struct {
	Kind          string         `hcl:"kind,label"`
	Label         *string        `hcl:"label,optional"`
	Items         hcl.Expression `hcl:"items,optional"`
	Options       hcl.Expression `hcl:"options,optional"`
	SelectedValue *string        `hcl:"selected_value,optional"`
}

// eventBlock is one scripted interaction. Its attributes are the event's
// wire fields and are decoded dynamically.
type eventBlock struct {
	Type string   `hcl:"type,label"`
	Body hcl.Body `hcl:",remain"`
}
