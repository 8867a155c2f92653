// Package render turns simulated frames into artifacts.
//
// Frames come from [scene.Scene.Frame]. Two renderers consume them:
//
//   - [sink]: the frame itself as JSON, or drawn as SVG with node boxes,
//     faded band stubs, highlighted ribbons and element splines
//   - [nodelink]: the overlap graph as Graphviz DOT, laid out to SVG by
//     go-graphviz
//
// This package holds the shared palette.
//
// [scene.Scene.Frame]: github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene.Scene.Frame
// [sink]: github.com/sgratzl/org.caleydo.view.bicluster/pkg/render/sink
// [nodelink]: github.com/sgratzl/org.caleydo.view.bicluster/pkg/render/nodelink
package render

import "fmt"

// Output formats understood by the pipeline.
const (
	FormatJSON  = "json"
	FormatSVG   = "svg"
	FormatDOT   = "dot"
	FormatGraph = "graph" // overlap graph as SVG
)

// Formats lists every supported format.
var Formats = []string{FormatJSON, FormatSVG, FormatDOT, FormatGraph}

// ValidFormat reports whether f is a supported format.
func ValidFormat(f string) bool {
	for _, s := range Formats {
		if s == f {
			return true
		}
	}
	return false
}

// Band colors per axis.
const (
	DimColor = "#1f77b4"
	RecColor = "#d62728"
)

// AxisColor returns the band color for an axis name ("dim" or "rec").
func AxisColor(axis string) string {
	if axis == "rec" {
		return RecColor
	}
	return DimColor
}

var palette = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
	"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
}

// NodeFill returns the fill color of node id. External nodes are grey.
func NodeFill(id int, kind string) string {
	if kind == "external" {
		return "#eeeeee"
	}
	if id < 0 {
		id = -id
	}
	return palette[id%len(palette)]
}

// Opacity formats an opacity for SVG attributes.
func Opacity(a float64) string {
	switch {
	case a <= 0:
		return "0"
	case a >= 1:
		return "1"
	}
	return fmt.Sprintf("%.3f", a)
}
