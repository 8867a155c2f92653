package scene

import (
	"slices"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/band"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/distance"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/layout"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/overlap"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/source"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/zoom"
)

// bandAlpha is the base alpha of a resting band before stubbing.
const bandAlpha = 0.8

type bandKey struct {
	pair overlap.Pair
	axis overlap.Axis
}

// Frame is the complete drawable state after one simulation step.
type Frame struct {
	Seq         int          `json:"seq"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	Focused     int          `json:"focused"`
	Hovered     int          `json:"hovered"`
	MaxDistance int          `json:"maxDistance"`
	Nodes       []NodeFrame  `json:"nodes"`
	Bands       []BandFrame  `json:"bands"`
	Edges       []EdgeFrame  `json:"edges"`
	Stats       layout.Stats `json:"stats"`
}

// NodeFrame is one node's drawable state. Invisible nodes carry a zero Rect.
type NodeFrame struct {
	ID         int               `json:"id"`
	UUID       string            `json:"uuid"`
	Label      string            `json:"label"`
	Kind       string            `json:"kind"`
	Cluster    int               `json:"cluster"`
	Rect       geom.Rect         `json:"rect"`
	Visible    bool              `json:"visible"`
	Opacity    float64           `json:"opacity"`
	Mode       string            `json:"mode"`
	Zoom       geom.Vec2         `json:"zoom"`
	Dims       []int             `json:"dims"`
	Recs       []int             `json:"recs"`
	Hidden     bool              `json:"hidden,omitempty"`
	Locked     bool              `json:"locked,omitempty"`
	Thresholds source.Thresholds `json:"thresholds"`
}

// RibbonFrame is a sampled ribbon outline.
type RibbonFrame struct {
	Elements []int       `json:"elements"`
	Split    bool        `json:"split"`
	Outline  []geom.Vec2 `json:"outline"`
}

// BandFrame is the drawable geometry of one edge on one axis. Highlighted
// bands carry their split ribbons and per-element splines; resting bands
// carry their whole ribbons as stubs that fade towards the middle.
type BandFrame struct {
	A           int           `json:"a"`
	B           int           `json:"b"`
	Axis        string        `json:"axis"`
	Opacity     float64       `json:"opacity"`
	Highlighted bool          `json:"highlighted"`
	Size        int           `json:"size"`
	Ribbons     []RibbonFrame `json:"ribbons,omitempty"`
	Splines     [][]geom.Vec2 `json:"splines,omitempty"`
	Stubs       []band.Strip  `json:"stubs,omitempty"`
}

// EdgeFrame summarises one edge of the overlap graph.
type EdgeFrame struct {
	A            int     `json:"a"`
	B            int     `json:"b"`
	Dim          int     `json:"dim"`
	Rec          int     `json:"rec"`
	Relationship float64 `json:"relationship"`
}

// Node returns the frame entry for id.
func (f Frame) Node(id int) (NodeFrame, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeFrame{}, false
}

// VisibleNodes counts the visible nodes.
func (f Frame) VisibleNodes() int {
	c := 0
	for _, n := range f.Nodes {
		if n.Visible {
			c++
		}
	}
	return c
}

// Frame advances fades and the layout by dtMs milliseconds and returns the
// resulting frame.
func (s *Scene) Frame(dtMs float64) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bodies []*layout.Body
	for _, n := range s.nodes {
		if n == nil {
			continue
		}
		n.fade.Update(dtMs)
		if n.visible {
			n.body.Size = n.targetSize()
			bodies = append(bodies, n.body)
		}
	}
	for _, f := range s.bandFades {
		f.Update(dtMs)
	}
	stats := s.engine.Step(s.ctx, bodies, s.model, dtMs)

	s.seq++
	f := s.snapshot()
	f.Stats = stats
	s.last = f
	return f
}

// Last returns the most recent frame without advancing the simulation.
func (s *Scene) Last() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scene) snapshot() Frame {
	focused, _ := s.ctx.Focused()
	hovered, _ := s.ctx.Hovered()
	f := Frame{
		Seq:         s.seq,
		Width:       s.ctx.Viewport.X,
		Height:      s.ctx.Viewport.Y,
		Focused:     focused,
		Hovered:     hovered,
		MaxDistance: s.cfg.MaxDistance,
	}
	for _, n := range s.nodes {
		if n != nil {
			f.Nodes = append(f.Nodes, s.nodeFrame(n))
		}
	}
	for _, e := range s.model.Edges() {
		f.Edges = append(f.Edges, EdgeFrame{
			A:            e.Pair.A,
			B:            e.Pair.B,
			Dim:          e.Size(overlap.Dim),
			Rec:          e.Size(overlap.Rec),
			Relationship: s.model.Relationship(e.Pair.A, e.Pair.B),
		})
		for _, ax := range overlap.AllAxes {
			if bf, ok := s.bandFrame(e, ax); ok {
				f.Bands = append(f.Bands, bf)
			}
		}
	}
	return f
}

func (s *Scene) nodeFrame(n *node) NodeFrame {
	nf := NodeFrame{
		ID:         n.ID,
		UUID:       n.UUID.String(),
		Label:      n.Label,
		Kind:       n.Kind.String(),
		Cluster:    n.Cluster,
		Visible:    s.drawable(n),
		Opacity:    n.fade.Opacity(),
		Mode:       n.zoom.Mode().String(),
		Zoom:       n.zoom.Zoom(),
		Dims:       n.DimIndices(),
		Recs:       n.RecIndices(),
		Hidden:     n.Hidden,
		Locked:     n.Locked,
		Thresholds: n.thresholds,
	}
	if nf.Visible {
		nf.Rect = n.body.Rect()
	}
	return nf
}

func (s *Scene) drawable(n *node) bool { return n.visible && n.body.Valid() }

// bandFrame builds the band of edge e on axis ax if it is to be drawn: the
// axis is enabled, the overlap is non-empty, both endpoints are drawable and,
// while a node is focused, the band is near enough to the focus.
func (s *Scene) bandFrame(e *overlap.Edge, ax overlap.Axis) (BandFrame, bool) {
	if !s.cfg.bandAxes().Has(ax) || e.Size(ax) == 0 {
		return BandFrame{}, false
	}
	a, b := s.nodes[e.Pair.A], s.nodes[e.Pair.B]
	if f, ok := s.ctx.Focused(); ok &&
		!distance.NearEnough(s.model, f, a.ID, b.ID, s.cfg.MaxDistance, s.cfg.distanceAxes()) {
		return BandFrame{}, false
	}

	set := s.bandSet(e, ax, a, b)
	if !set.Renderable {
		return BandFrame{}, false
	}
	key := bandKey{pair: e.Pair, axis: ax}
	opacity := s.bandFade(key).Opacity()
	bf := BandFrame{
		A:           e.Pair.A,
		B:           e.Pair.B,
		Axis:        ax.String(),
		Opacity:     opacity,
		Highlighted: s.highlighted(key),
		Size:        e.Size(ax),
	}
	if !bf.Highlighted {
		strips := make([]band.Strip, 0, len(set.NonSplit))
		for _, r := range set.NonSplit {
			strips = append(strips, r.Strip(band.DefaultSegments, bandAlpha))
		}
		bf.Stubs = band.StubifyAll(strips, opacity, zoom.HighOpacity)
		return bf, true
	}
	for _, r := range set.Split {
		bf.Ribbons = append(bf.Ribbons, RibbonFrame{Elements: r.Elements, Split: true, Outline: r.Polygon(band.DefaultSegments)})
	}
	for _, sp := range set.Splines {
		bf.Splines = append(bf.Splines, sp.Points(band.DefaultSegments))
	}
	return bf, true
}

// highlighted reports whether the band is hovered or attached to the
// hovered node.
func (s *Scene) highlighted(k bandKey) bool {
	if s.hoveredBand != nil && *s.hoveredBand == k {
		return true
	}
	h, ok := s.ctx.Hovered()
	return ok && (k.pair.A == h || k.pair.B == h)
}

// bandFade returns the fade of band k, creating it in the state matching the
// current hover.
// bandSet returns the band geometry of e on axis ax. A set whose inputs are
// unchanged is reused. While an endpoint is not drawable the last set is kept
// as is and reported as not renderable.
func (s *Scene) bandSet(e *overlap.Edge, ax overlap.Axis, a, b *node) band.Set {
	key := bandKey{pair: e.Pair, axis: ax}
	in := band.Input{
		Axis:    ax,
		Overlap: e.Overlap(ax),
		A:       band.Endpoint{Rect: a.body.Rect(), Sequence: a.Indices(ax), Visible: s.drawable(a)},
		B:       band.Endpoint{Rect: b.body.Rect(), Sequence: b.Indices(ax), Visible: s.drawable(b)},
	}
	cached, ok := s.bandSets[key]
	if ok && (!in.A.Visible || !in.B.Visible) {
		set := cached.set
		set.Renderable = false
		return set
	}
	if ok && sameBandInput(cached.in, in) {
		return cached.set
	}
	in.Overlap = slices.Clone(in.Overlap)
	in.A.Sequence, in.B.Sequence = slices.Clone(in.A.Sequence), slices.Clone(in.B.Sequence)
	set := band.Build(in)
	s.bandSets[key] = bandCache{in: in, set: set}
	return set
}

type bandCache struct {
	in  band.Input
	set band.Set
}

func sameBandInput(x, y band.Input) bool {
	return x.Axis == y.Axis && slices.Equal(x.Overlap, y.Overlap) &&
		sameEndpoint(x.A, y.A) && sameEndpoint(x.B, y.B)
}

func sameEndpoint(x, y band.Endpoint) bool {
	return x.Rect == y.Rect && x.Visible == y.Visible && slices.Equal(x.Sequence, y.Sequence)
}

func (s *Scene) bandFade(k bandKey) *zoom.Fade {
	f, ok := s.bandFades[k]
	if !ok {
		f = zoom.NewFade()
		if h, hovering := s.ctx.Hovered(); hovering && k.pair.A != h && k.pair.B != h {
			f.Set(LowBandOpacity)
		}
		s.bandFades[k] = f
	}
	return f
}
