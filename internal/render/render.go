// Package render prints snapshots for terminals, coloring menu items and
// edges with their assigned palette colors.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vk/flowcanvas/internal/driver"
	"github.com/vk/flowcanvas/internal/edge"
	"github.com/vk/flowcanvas/internal/handle"
	"github.com/vk/flowcanvas/internal/session"
)

// Renderer formats snapshots for one output. Color support is detected from
// the writer, so output to a file or buffer is plain text.
type Renderer struct {
	r *lipgloss.Renderer

	heading lipgloss.Style
	muted   lipgloss.Style
	kind    lipgloss.Style
	bad     lipgloss.Style
}

// New creates a renderer for w.
func New(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		r:       r,
		heading: r.NewStyle().Bold(true).Underline(true),
		muted:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"}),
		kind:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "27", Dark: "62"}),
		bad:     r.NewStyle().Foreground(lipgloss.Color("#E74C3C")),
	}
}

// Result renders a replay outcome: the final snapshot and the rejections.
func (r *Renderer) Result(res *driver.Result) string {
	var b strings.Builder
	b.WriteString(r.Snapshot(res.Snapshot))
	if len(res.Rejections) > 0 {
		b.WriteString("\n")
		b.WriteString(r.heading.Render(fmt.Sprintf("Rejected (%d)", len(res.Rejections))))
		b.WriteString("\n")
		for _, rej := range res.Rejections {
			fmt.Fprintf(&b, "  #%d %s: %s\n", rej.Index, rej.Type, r.bad.Render(rej.Message))
		}
	}
	return b.String()
}

// Snapshot renders nodes, edges and the open editor.
func (r *Renderer) Snapshot(snap *session.Snapshot) string {
	if snap == nil {
		return r.muted.Render("(no snapshot)") + "\n"
	}
	var b strings.Builder

	b.WriteString(r.heading.Render(fmt.Sprintf("Nodes (%d)", len(snap.Nodes))))
	b.WriteString("\n")
	for _, v := range snap.Nodes {
		r.node(&b, v)
	}

	b.WriteString(r.heading.Render(fmt.Sprintf("Edges (%d)", len(snap.Edges))))
	b.WriteString("\n")
	for _, e := range snap.Edges {
		r.edge(&b, e)
	}

	if w := snap.Editor; w != nil {
		fmt.Fprintf(&b, "%s %s (%s) label=%q\n", r.heading.Render("Editor"), w.NodeID, w.Kind, w.Label)
	}
	return b.String()
}

func (r *Renderer) node(b *strings.Builder, v session.NodeView) {
	if v.Node == nil {
		return
	}
	fmt.Fprintf(b, "  %s  %s  %s  %q\n",
		v.ID,
		r.kind.Render(string(v.Kind)),
		r.muted.Render(fmt.Sprintf("(%g, %g)", v.Position.X, v.Position.Y)),
		v.Data.Label,
	)
	for _, row := range v.Rows {
		swatch := r.r.NewStyle().Foreground(lipgloss.Color(row.Color)).Render("●")
		fmt.Fprintf(b, "    %s %s\n", swatch, row.Value)
	}
	for i, opt := range v.Data.Options {
		marker := "○"
		if opt == v.Data.SelectedValue {
			marker = "◉"
		}
		fmt.Fprintf(b, "    %s %s %s\n", marker, opt, r.muted.Render(fmt.Sprintf("option-%d", i)))
	}
	if ids := sourceHandles(v.Handles); len(ids) > 0 {
		fmt.Fprintf(b, "    %s %s\n", r.muted.Render("handles:"), strings.Join(ids, " "))
	}
}

func (r *Renderer) edge(b *strings.Builder, e *edge.Edge) {
	line := fmt.Sprintf("%s → %s", endpoint(e.Source, e.SourceHandle), endpoint(e.Target, e.TargetHandle))
	if e.Style.IsDefault() {
		fmt.Fprintf(b, "  %s\n", line)
		return
	}
	colored := r.r.NewStyle().Foreground(lipgloss.Color(e.Style.StrokeColor)).Render(line)
	attrs := e.Style.StrokeColor
	if e.Style.Animated {
		attrs += " animated"
	}
	fmt.Fprintf(b, "  %s  %s\n", colored, r.muted.Render(attrs))
}

func endpoint(nodeID, handleID string) string {
	if handleID == "" {
		return nodeID
	}
	return nodeID + ":" + handleID
}

func sourceHandles(specs []handle.Spec) []string {
	var ids []string
	for _, s := range specs {
		if s.Type == handle.Source && s.ID != "" {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
