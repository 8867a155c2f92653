package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene"
)

func testFrame() scene.Frame {
	return scene.Frame{
		Width: 400, Height: 300, Focused: 1, Hovered: scene.None,
		Nodes: []scene.NodeFrame{
			{ID: 0, Label: "bicluster1", Kind: "normal", Visible: true, Dims: []int{0, 1}, Recs: []int{2}},
			{ID: 1, Label: "bicluster2", Kind: "normal", Visible: true, Dims: []int{1}},
			{ID: 2, Label: "pathway", Kind: "external", Visible: false, Dims: []int{0}},
		},
		Edges: []scene.EdgeFrame{
			{A: 0, B: 1, Dim: 1, Relationship: 0.5},
			{A: 0, B: 2, Dim: 1, Relationship: 0.5},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testFrame(), Options{})

	for _, want := range []string{"graph G {", `n0 [label="bicluster1"`, "n0 -- n1", "penwidth=3"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "n2") {
		t.Errorf("invisible node rendered:\n%s", dot)
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(testFrame(), Options{Detailed: true, All: true})

	for _, want := range []string{`dims: 2\nrecs: 1`, "n0 -- n2", "dashed", `label="1/0"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testFrame(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("header not normalized:\n%.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox changed")
	}
}
