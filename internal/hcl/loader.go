package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/flowcanvas/internal/config"
	"github.com/vk/flowcanvas/internal/ctxlog"
	"github.com/vk/flowcanvas/internal/fsutil"
	"github.com/vk/flowcanvas/internal/node"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load overlays every .hcl file found under paths onto the default settings,
// in discovery order, and validates the result.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := config.Default()

	files, err := fsutil.Collect(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := applyEditor(model, root.Editor); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		for _, t := range root.Templates {
			if err := applyTemplate(model, t); err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
		}
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "handle_mode", model.HandleMode, "palette_size", len(model.Palette), "templates", len(model.Templates))
	return model, nil
}

func applyEditor(m *config.Model, b *editorBlock) error {
	if b == nil {
		return nil
	}
	if b.HandleMode != nil {
		m.HandleMode = *b.HandleMode
	}
	if b.IDSequence != nil {
		m.IDSequence = *b.IDSequence
	}
	if b.IDPrefix != nil {
		m.IDPrefix = *b.IDPrefix
	}
	colors, ok, err := stringList(b.Palette, nil)
	if err != nil {
		return err
	}
	if ok {
		m.Palette = colors
	}
	if b.MinSize != nil {
		m.MinSize = config.Size{Width: b.MinSize.Width, Height: b.MinSize.Height}
	}
	if b.DefaultSize != nil {
		m.DefaultSize = config.Size{Width: b.DefaultSize.Width, Height: b.DefaultSize.Height}
	}
	if c := b.Cascade; c != nil {
		setFloat(&m.Cascade.StartX, c.StartX)
		setFloat(&m.Cascade.StartY, c.StartY)
		setFloat(&m.Cascade.OffsetX, c.OffsetX)
		setFloat(&m.Cascade.OffsetY, c.OffsetY)
		setFloat(&m.Cascade.ColumnX, c.ColumnX)
		setFloat(&m.Cascade.ColumnY, c.ColumnY)
		if c.Wrap != nil {
			m.Cascade.Wrap = *c.Wrap
		}
	}
	return nil
}

func applyTemplate(m *config.Model, b *templateBlock) error {
	t := m.TemplateFor(node.Kind(b.Kind))
	if b.Label != nil {
		t.Label = *b.Label
	}
	items, ok, err := stringList(b.Items, nil)
	if err != nil {
		return err
	}
	if ok {
		t.Items = items
	}
	options, ok, err := stringList(b.Options, nil)
	if err != nil {
		return err
	}
	if ok {
		t.Options = options
	}
	if b.SelectedValue != nil {
		t.SelectedValue = *b.SelectedValue
	}

	if m.Templates == nil {
		m.Templates = make(map[string]config.Template)
	}
	m.Templates[b.Kind] = t
	return nil
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
