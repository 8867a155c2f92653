package band

import (
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/overlap"
)

// Endpoint describes one node as seen by the band builder.
type Endpoint struct {
	Rect     geom.Rect
	Sequence []int // the node's full ordered members on the band's axis
	Visible  bool
}

// Input is everything [Build] needs for one edge and one axis.
type Input struct {
	Axis    overlap.Axis
	Overlap []int // shared elements in A's order
	A, B    Endpoint
}

// Set is the geometry of one band. It is recomputed whenever the overlap or
// an endpoint's rectangle changes.
type Set struct {
	Axis     overlap.Axis
	RunsA    [][]int
	RunsB    [][]int
	NonSplit []Ribbon
	Split    []Ribbon
	Splines  []Spline

	// Renderable is false while either endpoint is hidden. The geometry is
	// kept so it can be reused when the endpoint reappears.
	Renderable bool
}

// Empty reports whether the band carries no elements.
func (s Set) Empty() bool { return len(s.Splines) == 0 }

// Ribbons returns the non-split ribbons followed by the split ones.
func (s Set) Ribbons() []Ribbon {
	out := make([]Ribbon, 0, len(s.NonSplit)+len(s.Split))
	out = append(out, s.NonSplit...)
	return append(out, s.Split...)
}

// Build computes the band geometry for one edge on one axis. An empty overlap
// yields an empty, non-renderable set.
func Build(in Input) Set {
	set := Set{Axis: in.Axis}
	if len(in.Overlap) == 0 {
		return set
	}
	set.Renderable = in.A.Visible && in.B.Visible

	overlapB := overlap.Intersect(in.B.Sequence, in.Overlap)
	set.RunsA = Runs(in.Overlap, in.A.Sequence)
	set.RunsB = Runs(overlapB, in.B.Sequence)

	posA, posB := positions(in.A.Sequence), positions(in.B.Sequence)
	anchorA, anchorB := anchors(in.Axis, in.A.Rect, in.B.Rect)
	pitchA := pitch(in.Axis, in.A.Rect, len(in.A.Sequence))
	pitchB := pitch(in.Axis, in.B.Rect, len(in.B.Sequence))

	groups, whole := pieces(set.RunsA, set.RunsB, posB)
	for i, g := range groups {
		loA, hiA := span(g, posA)
		loB, hiB := span(g, posB)
		r := Ribbon{
			Elements: g,
			A0:       anchorA.at(float64(loA) * pitchA),
			A1:       anchorA.at(float64(hiA+1) * pitchA),
			NA:       anchorA.normal,
			NB:       anchorB.normal,
		}
		// keep the ribbon untwisted when B's run is stored in reverse
		if posB[g[0]] <= posB[g[len(g)-1]] {
			r.B0, r.B1 = anchorB.at(float64(loB)*pitchB), anchorB.at(float64(hiB+1)*pitchB)
		} else {
			r.B0, r.B1 = anchorB.at(float64(hiB+1)*pitchB), anchorB.at(float64(loB)*pitchB)
		}
		if whole[i] {
			set.NonSplit = append(set.NonSplit, r)
		} else {
			set.Split = append(set.Split, r)
		}
	}

	for _, e := range in.Overlap {
		set.Splines = append(set.Splines, Spline{
			Element: e,
			From:    anchorA.at((float64(posA[e]) + 0.5) * pitchA),
			To:      anchorB.at((float64(posB[e]) + 0.5) * pitchB),
			NA:      anchorA.normal,
			NB:      anchorB.normal,
		})
	}
	return set
}

// anchor is a node edge: elements are laid out from origin along dir.
type anchor struct {
	origin, dir, normal geom.Vec2
}

func (a anchor) at(offset float64) geom.Vec2 {
	return a.origin.Add(a.dir.Scale(offset))
}

// anchors picks the facing edges: top/bottom for dimension bands and
// left/right for record bands.
func anchors(ax overlap.Axis, a, b geom.Rect) (anchor, anchor) {
	ca, cb := a.Center(), b.Center()
	if ax == overlap.Dim {
		right := geom.Vec2{X: 1}
		top := func(r geom.Rect) anchor {
			return anchor{origin: geom.Vec2{X: r.X, Y: r.Y}, dir: right, normal: geom.Vec2{Y: -1}}
		}
		bottom := func(r geom.Rect) anchor {
			return anchor{origin: geom.Vec2{X: r.X, Y: r.Y + r.H}, dir: right, normal: geom.Vec2{Y: 1}}
		}
		if cb.Y >= ca.Y {
			return bottom(a), top(b)
		}
		return top(a), bottom(b)
	}
	down := geom.Vec2{Y: 1}
	left := func(r geom.Rect) anchor {
		return anchor{origin: geom.Vec2{X: r.X, Y: r.Y}, dir: down, normal: geom.Vec2{X: -1}}
	}
	right := func(r geom.Rect) anchor {
		return anchor{origin: geom.Vec2{X: r.X + r.W, Y: r.Y}, dir: down, normal: geom.Vec2{X: 1}}
	}
	if cb.X >= ca.X {
		return right(a), left(b)
	}
	return left(a), right(b)
}

// pitch is the extent of one element along the anchor edge.
func pitch(ax overlap.Axis, r geom.Rect, count int) float64 {
	if count == 0 {
		return 0
	}
	if ax == overlap.Dim {
		return r.W / float64(count)
	}
	return r.H / float64(count)
}

// span returns the lowest and highest sequence position among elements.
func span(elements []int, pos map[int]int) (lo, hi int) {
	lo, hi = pos[elements[0]], pos[elements[0]]
	for _, e := range elements[1:] {
		p := pos[e]
		lo, hi = min(lo, p), max(hi, p)
	}
	return lo, hi
}
