package scene

import (
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/layout"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/overlap"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/source"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/zoom"
)

// node is the scene's per-cluster record around the model's node.
type node struct {
	*overlap.Node

	body *layout.Body
	zoom *zoom.State
	fade *zoom.Fade

	thresholds source.Thresholds
	dirty      bool              // thresholds changed since the last scan
	scores     [2][]source.Score // last successful scan, strongest first
	visible    bool
}

func newNode(n *overlap.Node, t source.Thresholds) *node {
	return &node{
		Node:       n,
		body:       &layout.Body{ID: n.ID, Center: geom.NaN()},
		zoom:       zoom.NewState(),
		fade:       zoom.NewFade(),
		thresholds: t,
	}
}

// uniform reports whether the node scales both axes alike. External nodes
// show a fixed glyph rather than a member grid.
func (n *node) uniform() bool { return n.Kind == overlap.SpecialExternal }

// targetSize is the node's size under its current zoom.
func (n *node) targetSize() geom.Vec2 {
	base := minSize(n.ElementCount(overlap.Dim), n.ElementCount(overlap.Rec))
	return n.zoom.Size(base, n.uniform())
}

// probabilityOrder returns the members on axis a ordered by score. Nodes
// without scores keep their current order.
func (n *node) probabilityOrder(a overlap.Axis) []int {
	if n.Kind == overlap.SpecialExternal {
		return n.Indices(a)
	}
	return source.Indices(n.scores[a])
}
