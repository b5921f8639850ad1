package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowcanvas/internal/node"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(m *Model)
		wantErr string
	}{
		{name: "empty palette", mutate: func(m *Model) { m.Palette = nil }, wantErr: "at least 1"},
		{name: "bad color", mutate: func(m *Model) { m.Palette = []string{"red"} }, wantErr: "hex color"},
		{name: "zero min width", mutate: func(m *Model) { m.MinSize.Width = 0 }, wantErr: "greater than 0"},
		{name: "bad handle mode", mutate: func(m *Model) { m.HandleMode = "sticky" }, wantErr: "one of: index stable"},
		{name: "bad id sequence", mutate: func(m *Model) { m.IDSequence = "random" }, wantErr: "one of: counter uuid"},
		{name: "zero wrap", mutate: func(m *Model) { m.Cascade.Wrap = 0 }, wantErr: "Wrap"},
		{name: "unknown template kind", mutate: func(m *Model) { m.Templates["Group"] = Template{Label: "g"} }, wantErr: "unknown node kind"},
		{
			name: "selected value outside options",
			mutate: func(m *Model) {
				m.Templates["Dropdown"] = Template{Label: "d", Options: []string{"a"}, SelectedValue: "b"}
			},
			wantErr: "not an option",
		},
		{
			name: "cascade without movement",
			mutate: func(m *Model) {
				m.Cascade.OffsetX, m.Cascade.OffsetY, m.Cascade.ColumnX, m.Cascade.ColumnY = 0, 0, 0, 0
			},
			wantErr: "offset and column cannot both be zero",
		},
		{name: "default below min", mutate: func(m *Model) { m.DefaultSize.Width = 100 }, wantErr: "below the minimum"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := Default()
			tc.mutate(m)
			err := m.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestTemplateFor(t *testing.T) {
	m := Default()

	menu := m.TemplateFor(node.KindMenu).Data()
	assert.Equal(t, "Menu Items", menu.Label)
	assert.Equal(t, []string{"Initial Item"}, menu.Items)

	choice := m.TemplateFor(node.KindChoice).Data()
	assert.Equal(t, "Select an option:", choice.Label)
	assert.Len(t, choice.Options, 4)
	assert.Equal(t, "", choice.SelectedValue)

	assert.Equal(t, "textUpdater node", m.TemplateFor(node.KindText).Label)
	assert.Equal(t, "input node", m.TemplateFor(node.KindInput).Label)
}

func TestTemplateData_IsFreshCopy(t *testing.T) {
	m := Default()
	d := m.TemplateFor(node.KindMenu).Data()
	d.Items[0] = "changed"
	assert.Equal(t, "Initial Item", m.TemplateFor(node.KindMenu).Items[0])
}
