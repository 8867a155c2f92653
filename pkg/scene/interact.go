package scene

import (
	"strings"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/distance"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/errors"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/events"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/overlap"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/source"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/zoom"
)

// subscribe registers the handlers that apply published events to the nodes.
func (s *Scene) subscribe() {
	s.bus.Subscribe(events.FocusChanged, func(e events.Event) {
		s.applyFocus(e.(events.Focus).Node)
		s.updateVisibility()
	})
	s.bus.Subscribe(events.NodeHidden, func(e events.Event) {
		id := e.(events.Hidden).Node
		s.nodes[id].Hidden = true
		if f, ok := s.ctx.Focused(); ok && f == id {
			s.bus.Publish(events.Focus{Node: None})
		}
		s.ctx.Forget(id)
		s.updateVisibility()
	})
	s.bus.Subscribe(events.NodeShown, func(e events.Event) {
		s.nodes[e.(events.Shown).Node].Hidden = false
		s.updateVisibility()
	})
	s.bus.Subscribe(events.SortingChanged, func(e events.Event) {
		s.cfg.Sorting = e.(events.Sorting).Mode
		s.resortAll()
		s.refocus()
	})
	s.bus.Subscribe(events.ThresholdChanged, func(e events.Event) {
		ev := e.(events.Threshold)
		t := thresholdsOf(ev)
		for _, n := range s.nodes {
			if n == nil || n.Kind != overlap.Normal {
				continue
			}
			if ev.Global && n.Locked {
				continue
			}
			if ev.Global || n.ID == ev.Node {
				n.thresholds = t
				n.dirty = true
			}
		}
	})
	s.bus.Subscribe(events.MaxDistanceChanged, func(e events.Event) {
		s.cfg.MaxDistance = e.(events.MaxDistance).Max
		s.refocus()
	})
	s.bus.Subscribe(events.LockChanged, func(e events.Event) {
		ev := e.(events.Lock)
		s.nodes[ev.Node].Locked = ev.Locked
	})
	s.bus.Subscribe(events.SearchChanged, func(e events.Event) {
		s.search = e.(events.Search).Term
		for _, n := range s.nodes {
			if n != nil {
				n.fade.Set(s.restingOpacity(n))
			}
		}
	})
	s.bus.Subscribe(events.ForcesChanged, func(e events.Event) {
		ev := e.(events.Forces)
		s.engine.SetForces(ev.Repulsion, ev.Attraction, ev.Border)
		s.cfg.Layout = s.engine.Config()
	})
	s.bus.Subscribe(events.BandsToggled, func(e events.Event) {
		ev := e.(events.Bands)
		s.cfg.ShowDimBands, s.cfg.ShowRecBands = ev.Dim, ev.Rec
		s.refocus()
	})
}

// applyFocus moves every node into the zoom mode matching a new focus.
func (s *Scene) applyFocus(id int) {
	s.ctx.Focus(id)
	for _, n := range s.nodes {
		if n == nil {
			continue
		}
		switch {
		case id == None:
			n.zoom.ClearFocus()
		case n.ID == id:
			n.zoom.EnterFocus()
		default:
			d := distance.MinDistance(s.model, id, n.ID, s.cfg.MaxDistance, s.cfg.distanceAxes())
			n.zoom.FocusChanged(d, s.cfg.MaxDistance)
		}
	}
}

// refocus re-evaluates neighbour distances after the graph or the radius
// changed.
func (s *Scene) refocus() {
	if f, ok := s.ctx.Focused(); ok {
		s.applyFocus(f)
	}
	s.updateVisibility()
}

// shouldBeVisible is the content rule before focus distance is applied.
func (s *Scene) shouldBeVisible(n *node) bool {
	if !n.ShouldBeVisible() {
		return false
	}
	if n.Kind == overlap.SpecialExternal {
		return n.TotalOverlap(overlap.Dim)+n.TotalOverlap(overlap.Rec) > 0
	}
	biggest := max(s.model.Biggest(overlap.Dim), s.model.Biggest(overlap.Rec))
	return zoom.ShouldBeVisible(len(n.DimIndices()), len(n.RecIndices()), biggest,
		s.cfg.ClusterSizeThreshold, n.Hidden)
}

// updateVisibility recomputes every node's visibility. A node that becomes
// visible loses its position so the layout places it afresh.
func (s *Scene) updateVisibility() {
	for _, n := range s.nodes {
		if n == nil {
			continue
		}
		v := n.zoom.Visible(s.shouldBeVisible(n))
		if v && !n.visible {
			n.body.Center = geom.NaN()
		}
		if !v {
			if d, ok := s.ctx.Dragged(); ok && d == n.ID {
				s.ctx.Drag(None)
			}
			if h, ok := s.ctx.Hovered(); ok && h == n.ID {
				s.ctx.Hover(None)
			}
		}
		n.visible = v
	}
}

// restingOpacity is the opacity a node returns to when nothing is hovered.
func (s *Scene) restingOpacity(n *node) float64 {
	if s.search == "" || strings.Contains(strings.ToLower(n.Label), strings.ToLower(s.search)) {
		return zoom.HighOpacity
	}
	return zoom.LowOpacity
}

// Focus makes id the focused node; None releases the focus.
func (s *Scene) Focus(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != None {
		if _, err := s.node(id); err != nil {
			return err
		}
	}
	s.bus.Publish(events.Focus{Node: id})
	return nil
}

// Focused returns the focused node.
func (s *Scene) Focused() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx.Focused()
}

// Hover marks id as hovered; None ends the hover. While a node is hovered,
// nodes within the maximum distance of it stay opaque and the rest fade out.
// Bands not attached to it fade as well. Ending the hover restores opacity
// after a short delay.
func (s *Scene) Hover(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != None {
		if _, err := s.node(id); err != nil {
			return err
		}
	}
	s.ctx.Hover(id)
	s.hoveredBand = nil
	axes := s.cfg.distanceAxes()
	for _, n := range s.nodes {
		if n == nil {
			continue
		}
		if id == None {
			n.fade.Release(s.restingOpacity(n))
			continue
		}
		n.fade.Emphasize(distance.Within(s.model, id, n.ID, s.cfg.MaxDistance, axes))
	}
	for k, f := range s.bandFades {
		switch {
		case id == None:
			f.Release(zoom.HighOpacity)
		case k.pair.A == id || k.pair.B == id:
			f.Set(zoom.HighOpacity)
		default:
			f.Set(LowBandOpacity)
		}
	}
	return nil
}

// HoverBand marks the band between a and b on axis ax as hovered. Nodes near
// enough to that band stay opaque; the rest fade out. Passing None for a
// clears the band hover.
func (s *Scene) HoverBand(a, b int, ax overlap.Axis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a == None {
		s.hoveredBand = nil
		for _, n := range s.nodes {
			if n != nil {
				n.fade.Release(s.restingOpacity(n))
			}
		}
		return nil
	}
	if _, err := s.node(a); err != nil {
		return err
	}
	if _, err := s.node(b); err != nil {
		return err
	}
	k := bandKey{pair: overlap.MakePair(a, b), axis: ax}
	s.hoveredBand = &k
	axes := s.cfg.distanceAxes()
	for _, n := range s.nodes {
		if n != nil {
			n.fade.Emphasize(distance.NearEnough(s.model, n.ID, k.pair.A, k.pair.B, s.cfg.MaxDistance, axes))
		}
	}
	return nil
}

// Drag pins id at pos until EndDrag.
func (s *Scene) Drag(id int, pos geom.Vec2) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.node(id)
	if err != nil {
		return err
	}
	s.ctx.Drag(id)
	n.body.Center = pos
	return nil
}

// EndDrag releases the dragged node.
func (s *Scene) EndDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx.Drag(None)
}

// Hide hides id. Hiding the focused node releases the focus.
func (s *Scene) Hide(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.node(id); err != nil {
		return err
	}
	s.bus.Publish(events.Hidden{Node: id})
	return nil
}

// Show makes a hidden node visible again.
func (s *Scene) Show(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.node(id); err != nil {
		return err
	}
	s.bus.Publish(events.Shown{Node: id})
	return nil
}

// Lock pins or releases a node's thresholds against global changes.
func (s *Scene) Lock(id int, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.normal(id); err != nil {
		return err
	}
	s.bus.Publish(events.Lock{Node: id, Locked: locked})
	return nil
}

// SetMaxDistance changes the focus neighbourhood radius.
func (s *Scene) SetMaxDistance(n int) error {
	if n < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "maxDistance must not be negative, got %d", n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Publish(events.MaxDistance{Max: n})
	return nil
}

// Search fades out nodes whose label does not contain term, ignoring case.
// An empty term clears the search.
func (s *Scene) Search(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Publish(events.Search{Term: term})
}

// SetForces changes the three force constants of the layout.
func (s *Scene) SetForces(repulsion, attraction, border float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cfg.Layout
	c.Repulsion, c.AttractionFactor, c.BorderForceFactor = repulsion, attraction, border
	if err := c.Validate(); err != nil {
		return err
	}
	s.bus.Publish(events.Forces{Repulsion: repulsion, Attraction: attraction, Border: border})
	return nil
}

// ShowBands switches the band axes on or off.
func (s *Scene) ShowBands(dim, rec bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Publish(events.Bands{Dim: dim, Rec: rec})
}

// Zoom steps id's zoom in (positive) or out (negative) per axis.
func (s *Scene) Zoom(id, dimDir, recDir int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.node(id)
	if err != nil {
		return err
	}
	n.zoom.Step(dimDir, recDir)
	return nil
}

// ResetZoom sets id's zoom in its current mode back to 1.
func (s *Scene) ResetZoom(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.node(id)
	if err != nil {
		return err
	}
	n.zoom.Reset()
	return nil
}

// Resize changes the viewport.
func (s *Scene) Resize(w, h float64) error {
	if err := errors.ValidatePositive("width", w); err != nil {
		return err
	}
	if err := errors.ValidatePositive("height", h); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Width, s.cfg.Height = w, h
	s.ctx.Resize(w, h)
	s.ctx.Toolbar = s.cfg.toolbar()
	return nil
}

func thresholdsOf(ev events.Threshold) source.Thresholds {
	return source.Thresholds{Dim: ev.DimThreshold, Rec: ev.RecThreshold, DimTopN: ev.DimTopN, RecTopN: ev.RecTopN}
}
