package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/render"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds member counts to node labels and overlap counts to edges.
	Detailed bool

	// All includes invisible nodes, drawn dashed.
	All bool
}

// ToDOT converts the overlap graph of f to Graphviz DOT.
func ToDOT(f scene.Frame, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	shown := make(map[int]bool, len(f.Nodes))
	for _, n := range f.Nodes {
		if !n.Visible && !opts.All {
			continue
		}
		shown[n.ID] = true
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(nodeAttrs(n, n.ID == f.Focused, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range f.Edges {
		if !shown[e.A] || !shown[e.B] {
			continue
		}
		fmt.Fprintf(&buf, "  n%d -- n%d [%s];\n", e.A, e.B, strings.Join(edgeAttrs(e, opts.Detailed), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n scene.NodeFrame, focused, detailed bool) []string {
	label := n.Label
	if detailed {
		label = fmt.Sprintf("%s\ndims: %d\nrecs: %d", n.Label, len(n.Dims), len(n.Recs))
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", render.NodeFill(n.ID, n.Kind)),
	}
	switch {
	case !n.Visible:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fontcolor=grey")
	case focused:
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

func edgeAttrs(e scene.EdgeFrame, detailed bool) []string {
	attrs := []string{
		fmt.Sprintf("weight=%d", 1+int(10*e.Relationship)),
		fmt.Sprintf("penwidth=%.2f", 1+4*e.Relationship),
	}
	switch {
	case e.Dim > 0 && e.Rec > 0:
		attrs = append(attrs, "color=\"#555555\"")
	case e.Rec > 0:
		attrs = append(attrs, fmt.Sprintf("color=%q", render.RecColor))
	default:
		attrs = append(attrs, fmt.Sprintf("color=%q", render.DimColor))
	}
	if detailed {
		attrs = append(attrs, fmt.Sprintf("label=\"%d/%d\"", e.Dim, e.Rec), "fontsize=10")
	}
	return attrs
}

// RenderSVG lays out a DOT graph with the neato engine and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// viewBox starts at the origin and whose size is unitless.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
