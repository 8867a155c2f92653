package sink

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/band"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene"
)

func testFrame() scene.Frame {
	stub := band.Strip{
		Top:    []geom.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}},
		Bottom: []geom.Vec2{{X: 0, Y: 5}, {X: 10, Y: 5}, {X: 20, Y: 5}},
		Alpha:  []float64{0.8, 0, 0},
	}
	return scene.Frame{
		Seq: 7, Width: 200, Height: 100, Focused: 0, Hovered: scene.None,
		Nodes: []scene.NodeFrame{
			{ID: 0, Label: "a<b", Kind: "normal", Visible: true, Opacity: 1, Rect: geom.Rect{X: 10, Y: 10, W: 20, H: 20}},
			{ID: 1, Label: "hidden", Kind: "normal", Visible: false},
		},
		Bands: []scene.BandFrame{
			{A: 0, B: 1, Axis: "dim", Opacity: 1, Stubs: []band.Strip{stub}},
			{A: 0, B: 1, Axis: "rec", Opacity: 0.5, Highlighted: true,
				Ribbons: []scene.RibbonFrame{{Elements: []int{1}, Split: true, Outline: []geom.Vec2{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 3}}}},
				Splines: [][]geom.Vec2{{{X: 1, Y: 1}, {X: 5, Y: 5}}},
			},
		},
		Edges: []scene.EdgeFrame{{A: 0, B: 1, Dim: 1, Rec: 1, Relationship: 0.25}},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testFrame(), WithLabels(), WithBackground("#fff")))

	checks := []struct {
		name string
		want string
	}{
		{"header", `viewBox="0 0 200.0 100.0"`},
		{"background", `fill="#fff"`},
		{"stub quad", `points="0.00,0.00 10.00,0.00 10.00,5.00 0.00,5.00" fill-opacity="0.400"`},
		{"ribbon", `class="band rec highlight"`},
		{"spline", `<polyline points="1.00,1.00 5.00,5.00"`},
		{"focused node", `class="node focused"`},
		{"escaped label", "a&lt;b"},
	}
	for _, c := range checks {
		if !strings.Contains(svg, c.want) {
			t.Errorf("%s: missing %q", c.name, c.want)
		}
	}
	if strings.Contains(svg, "node-1") {
		t.Error("invisible node drawn")
	}
	if strings.Count(svg, "<polygon") != 2 {
		t.Errorf("want 1 visible stub quad and 1 ribbon, got %d polygons", strings.Count(svg, "<polygon"))
	}
}

func TestRenderSVGWithoutSplines(t *testing.T) {
	svg := string(RenderSVG(testFrame(), WithoutSplines()))
	if strings.Contains(svg, "<polyline") {
		t.Error("splines drawn")
	}
	if strings.Contains(svg, "<text") {
		t.Error("labels drawn without WithLabels")
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testFrame(), WithJSONDataset("demo"))
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Dataset string            `json:"dataset"`
		Seq     int               `json:"seq"`
		Bands   []scene.BandFrame `json:"bands"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Dataset != "demo" || out.Seq != 7 {
		t.Errorf("out = %+v", out)
	}
	if len(out.Bands) != 2 || len(out.Bands[0].Stubs) != 1 {
		t.Errorf("bands = %+v", out.Bands)
	}
}

func TestRenderJSONOptions(t *testing.T) {
	f := testFrame()
	data, err := RenderJSON(f, WithJSONCompact(), WithoutJSONGeometry())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "\n  ") {
		t.Error("compact output is indented")
	}
	if strings.Contains(string(data), `"stubs"`) || strings.Contains(string(data), `"splines"`) {
		t.Error("geometry not dropped")
	}
	if len(f.Bands[0].Stubs) != 1 {
		t.Error("RenderJSON mutated the caller's frame")
	}
}
