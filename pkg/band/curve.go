package band

import "github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"

// MergingLength is the minimum distance the curves travel straight out of a
// node before bending towards the other endpoint.
const MergingLength = 20

// DefaultSegments is the number of samples per curve used by the renderers.
const DefaultSegments = 16

// Ribbon is a band between a span on node A and a span on node B.
type Ribbon struct {
	Elements []int     // shared elements carried by the ribbon, in A's order
	A0, A1   geom.Vec2 // span on A's anchor edge
	B0, B1   geom.Vec2 // span on B's anchor edge
	NA, NB   geom.Vec2 // outward normals of the anchor edges
}

// Curves samples the two boundary curves. top runs A0->B0 and bottom runs
// A1->B1; both have segments+1 points.
func (r Ribbon) Curves(segments int) (top, bottom []geom.Vec2) {
	return cubic(r.A0, r.NA, r.B0, r.NB, segments), cubic(r.A1, r.NA, r.B1, r.NB, segments)
}

// Polygon returns the closed outline: the top curve followed by the reversed
// bottom curve.
func (r Ribbon) Polygon(segments int) []geom.Vec2 {
	top, bottom := r.Curves(segments)
	out := make([]geom.Vec2, 0, len(top)+len(bottom))
	out = append(out, top...)
	for i := len(bottom) - 1; i >= 0; i-- {
		out = append(out, bottom[i])
	}
	return out
}

// Strip samples the ribbon with a uniform alpha, ready for [Stubify].
func (r Ribbon) Strip(segments int, alpha float64) Strip {
	top, bottom := r.Curves(segments)
	a := make([]float64, len(top))
	for i := range a {
		a[i] = alpha
	}
	return Strip{Top: top, Bottom: bottom, Alpha: a}
}

// Spline connects one element's slot on A to its slot on B.
type Spline struct {
	Element  int
	From, To geom.Vec2
	NA, NB   geom.Vec2
}

// Points samples the spline with segments+1 points.
func (s Spline) Points(segments int) []geom.Vec2 {
	return cubic(s.From, s.NA, s.To, s.NB, segments)
}

// cubic samples a Bézier curve leaving p0 along n0 and entering p3 against n3.
func cubic(p0, n0, p3, n3 geom.Vec2, segments int) []geom.Vec2 {
	if segments < 1 {
		segments = 1
	}
	k := MergingLength + 0.25*p3.Sub(p0).Len()
	c1 := p0.Add(n0.Scale(k))
	c2 := p3.Add(n3.Scale(k))
	out := make([]geom.Vec2, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		u := 1 - t
		out[i] = p0.Scale(u * u * u).
			Add(c1.Scale(3 * u * u * t)).
			Add(c2.Scale(3 * u * t * t)).
			Add(p3.Scale(t * t * t))
	}
	return out
}
