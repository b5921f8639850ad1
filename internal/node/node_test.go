package node

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("Group")
	assert.ErrorContains(t, err, "unknown node kind")
}

func TestKindTraits(t *testing.T) {
	assert.True(t, KindMenu.Resizable())
	assert.True(t, KindResizable.Resizable())
	assert.False(t, KindInput.Resizable())
	assert.True(t, KindChoice.DataDerived())
	assert.False(t, KindText.DataDerived())
}

func TestClone_IsDeep(t *testing.T) {
	n := &Node{
		ID:   "dndnode_0",
		Kind: KindMenu,
		Data: Data{
			Label:      "Menu Items",
			Items:      []string{"A"},
			ItemColors: map[string]string{"A": "#FF5733"},
		},
	}
	c := n.Clone()
	c.Data.Items[0] = "B"
	c.Data.ItemColors["A"] = "#000000"

	assert.Equal(t, "A", n.Data.Items[0])
	assert.Equal(t, "#FF5733", n.Data.ItemColors["A"])
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		node    Node
		wantErr bool
	}{
		{name: "valid", node: Node{ID: "a", Kind: KindText, Data: Data{Label: "hi"}}},
		{name: "empty id", node: Node{Kind: KindText}, wantErr: true},
		{name: "unknown kind", node: Node{ID: "a", Kind: "nope"}, wantErr: true},
		{name: "nan position", node: Node{ID: "a", Kind: KindText, Position: Position{X: math.NaN()}}, wantErr: true},
		{name: "inf position", node: Node{ID: "a", Kind: KindText, Position: Position{Y: math.Inf(1)}}, wantErr: true},
		{
			name:    "selected value outside options",
			node:    Node{ID: "a", Kind: KindChoice, Data: Data{Options: []string{"x"}, SelectedValue: "y"}},
			wantErr: true,
		},
		{
			name:    "item keys mismatch",
			node:    Node{ID: "a", Kind: KindMenu, Data: Data{Items: []string{"x", "y"}, ItemKeys: []string{"k0"}}},
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.node.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidNode))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestClampSize(t *testing.T) {
	min := Size{Width: 250, Height: 200}

	n := &Node{Kind: KindMenu, Size: Size{Width: 100, Height: 400}}
	n.ClampSize(min)
	assert.Equal(t, Size{Width: 250, Height: 400}, n.Size)

	in := &Node{Kind: KindInput, Size: Size{Width: 10, Height: 10}}
	in.ClampSize(min)
	assert.Equal(t, Size{Width: 10, Height: 10}, in.Size)
}

func TestPatch_PreservesUntouchedFields(t *testing.T) {
	orig := Data{
		Label:         "Select an option:",
		Options:       []string{"Option A", "Option B"},
		SelectedValue: "Option B",
		ItemColors:    map[string]string{"x": "#111"},
	}

	got := Patch{Label: String("Pick one")}.Apply(orig)

	want := orig.Clone()
	want.Label = "Pick one"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("patched data mismatch (-want +got):\n%s", diff)
	}
}

func TestPatch_ClearsSelectionDroppedFromOptions(t *testing.T) {
	orig := Data{Options: []string{"A", "B"}, SelectedValue: "B"}
	got := Patch{Options: []string{"A"}}.Apply(orig)
	assert.Equal(t, "", got.SelectedValue)
	assert.Equal(t, []string{"A", "B"}, orig.Options, "original must not be mutated")
}

func TestPatch_MergesColors(t *testing.T) {
	orig := Data{ItemColors: map[string]string{"A": "#111"}}
	got := Patch{ItemColors: map[string]string{"B": "#222"}}.Apply(orig)
	assert.Equal(t, map[string]string{"A": "#111", "B": "#222"}, got.ItemColors)
	assert.Len(t, orig.ItemColors, 1)
}
