package sink

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/render"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene"
)

const nodeInteractionCSS = `
    .node { transition: stroke-width 0.2s ease; }
    .node:hover { stroke-width: 3; }
    .focused { stroke: #000; stroke-width: 3; }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels     bool
	background string
	splines    bool
}

// WithLabels draws node labels.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithBackground fills the canvas with color.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithoutSplines omits the per-element splines of highlighted bands.
func WithoutSplines() SVGOption { return func(r *svgRenderer) { r.splines = false } }

// RenderSVG draws f as a standalone SVG document.
func RenderSVG(f scene.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{splines: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.Width, f.Height, f.Width, f.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", nodeInteractionCSS)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}

	buf.WriteString("  <g class=\"bands\">\n")
	for _, b := range f.Bands {
		if !b.Highlighted {
			renderStubs(&buf, b)
		}
	}
	for _, b := range f.Bands {
		if b.Highlighted {
			renderRibbons(&buf, b, r.splines)
		}
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"nodes\">\n")
	for _, n := range f.Nodes {
		if n.Visible {
			renderNode(&buf, n, n.ID == f.Focused, r.labels)
		}
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderStubs draws each strip segment as a quad whose opacity is the mean
// of its two vertex alphas.
func renderStubs(buf *bytes.Buffer, b scene.BandFrame) {
	color := render.AxisColor(b.Axis)
	fmt.Fprintf(buf, `    <g class="band %s" data-a="%d" data-b="%d" fill="%s">`+"\n", b.Axis, b.A, b.B, color)
	for _, s := range b.Stubs {
		for i := 0; i+1 < s.Len(); i++ {
			a := (s.Alpha[i] + s.Alpha[i+1]) / 2
			if a <= 0 {
				continue
			}
			fmt.Fprintf(buf, `      <polygon points="%s" fill-opacity="%s"/>`+"\n",
				points([]geom.Vec2{s.Top[i], s.Top[i+1], s.Bottom[i+1], s.Bottom[i]}), render.Opacity(a))
		}
	}
	buf.WriteString("    </g>\n")
}

func renderRibbons(buf *bytes.Buffer, b scene.BandFrame, splines bool) {
	color := render.AxisColor(b.Axis)
	fmt.Fprintf(buf, `    <g class="band %s highlight" data-a="%d" data-b="%d" opacity="%s">`+"\n",
		b.Axis, b.A, b.B, render.Opacity(b.Opacity))
	for _, rb := range b.Ribbons {
		fmt.Fprintf(buf, `      <polygon points="%s" fill="%s" fill-opacity="0.5" stroke="%s"/>`+"\n",
			points(rb.Outline), color, color)
	}
	if splines {
		for _, sp := range b.Splines {
			fmt.Fprintf(buf, `      <polyline points="%s" fill="none" stroke="%s" stroke-width="0.5"/>`+"\n",
				points(sp), color)
		}
	}
	buf.WriteString("    </g>\n")
}

func renderNode(buf *bytes.Buffer, n scene.NodeFrame, focused, labels bool) {
	class := "node"
	if focused {
		class += " focused"
	}
	r := n.Rect
	fmt.Fprintf(buf, `    <rect id="node-%d" class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="#333" opacity="%s"><title>%s</title></rect>`+"\n",
		n.ID, class, r.X, r.Y, r.W, r.H, render.NodeFill(n.ID, n.Kind), render.Opacity(n.Opacity), html.EscapeString(n.Label))
	if labels {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-size="10" text-anchor="middle" opacity="%s">%s</text>`+"\n",
			r.X+r.W/2, r.Y-3, render.Opacity(n.Opacity), html.EscapeString(n.Label))
	}
}

func points(ps []geom.Vec2) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

