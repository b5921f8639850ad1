package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vk/flowcanvas/internal/node"
	"github.com/vk/flowcanvas/internal/palette"
)

var validate = validator.New()

// Validate checks struct constraints and the cross-field rules the tags
// cannot express.
func (m *Model) Validate() error {
	if err := validate.Struct(m); err != nil {
		return formatValidationError(err)
	}
	if _, err := palette.New(m.Palette); err != nil {
		return err
	}
	for kind, t := range m.Templates {
		if _, err := node.ParseKind(kind); err != nil {
			return fmt.Errorf("template: %w", err)
		}
		if t.SelectedValue != "" && !slices.Contains(t.Options, t.SelectedValue) {
			return fmt.Errorf("template %s: selected value %q is not an option", kind, t.SelectedValue)
		}
	}
	c := m.Cascade
	if c.OffsetX == 0 && c.OffsetY == 0 && c.ColumnX == 0 && c.ColumnY == 0 {
		return errors.New("cascade: offset and column cannot both be zero")
	}
	if m.MinSize.Width > m.DefaultSize.Width || m.MinSize.Height > m.DefaultSize.Height {
		return fmt.Errorf("default size %gx%g is below the minimum %gx%g",
			m.DefaultSize.Width, m.DefaultSize.Height, m.MinSize.Width, m.MinSize.Height)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	switch e.Tag() {
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, e.Param())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color, got %v", field, e.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, e.Tag())
	}
}
