package zoom

import (
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"
)

const (
	// MinZoom is the smallest zoom factor on either axis.
	MinZoom = 0.01

	// FocusZoom is the initial zoom factor of the Focus mode.
	FocusZoom = 2.0

	// StepFactor is the multiplicative change of one zoom-in or zoom-out step.
	StepFactor = 1.2
)

// Mode is the node's role relative to the current focus.
type Mode int

const (
	Overview Mode = iota
	Focus
	FocusNeighbor
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Overview:
		return "overview"
	case Focus:
		return "focus"
	case FocusNeighbor:
		return "focus_neighbor"
	default:
		return "unknown"
	}
}

// State is one node's zoom and visibility state. The zero value is not
// usable; create states with NewState.
type State struct {
	zooms     [3]geom.Vec2
	mode      Mode
	forceHide bool
}

// NewState returns a state in Overview mode. The Overview and FocusNeighbor
// vectors start at (1,1), the Focus vector at (FocusZoom, FocusZoom).
func NewState() *State {
	return &State{
		zooms: [3]geom.Vec2{
			Overview:      {X: 1, Y: 1},
			Focus:         {X: FocusZoom, Y: FocusZoom},
			FocusNeighbor: {X: 1, Y: 1},
		},
	}
}

// Mode returns the active mode.
func (s *State) Mode() Mode { return s.mode }

// ForceHide reports whether the node is hidden for being too far from the focus.
func (s *State) ForceHide() bool { return s.forceHide }

// Zoom returns the zoom vector of the active mode.
func (s *State) Zoom() geom.Vec2 { return s.zooms[s.mode] }

// SetZoom replaces the active zoom vector. Each axis is floored at MinZoom;
// NaN counts as below the floor.
func (s *State) SetZoom(v geom.Vec2) {
	s.zooms[s.mode] = geom.Vec2{X: floor(v.X), Y: floor(v.Y)}
}

// ZoomBy adds delta to the active zoom vector.
func (s *State) ZoomBy(delta geom.Vec2) { s.SetZoom(s.Zoom().Add(delta)) }

// Scale multiplies the active zoom vector per axis.
func (s *State) Scale(dim, rec float64) {
	z := s.Zoom()
	s.SetZoom(geom.Vec2{X: z.X * dim, Y: z.Y * rec})
}

// Step zooms in (positive) or out (negative) by StepFactor per axis; zero
// leaves the axis alone.
func (s *State) Step(dimDir, recDir int) {
	s.Scale(stepScale(dimDir), stepScale(recDir))
}

// Reset sets the active zoom vector back to (1,1).
func (s *State) Reset() { s.SetZoom(geom.Vec2{X: 1, Y: 1}) }

// Size returns the node's target size for its minimum size. Uniform nodes
// use the mean of both factors on both axes.
func (s *State) Size(minSize geom.Vec2, uniform bool) geom.Vec2 {
	z := s.Zoom()
	if uniform {
		m := (z.X + z.Y) / 2
		z = geom.Vec2{X: m, Y: m}
	}
	return geom.Vec2{X: minSize.X * z.X, Y: minSize.Y * z.Y}
}

// EnterFocus makes this node the focused one.
func (s *State) EnterFocus() {
	s.mode = Focus
	s.forceHide = false
}

// FocusChanged records that another node became focused at hop distance
// dist. The node is force-hidden when dist exceeds maxDistance.
func (s *State) FocusChanged(dist, maxDistance int) {
	s.mode = FocusNeighbor
	s.forceHide = dist > maxDistance
}

// ClearFocus reverts to Overview after the focus was released.
func (s *State) ClearFocus() {
	s.mode = Overview
	s.forceHide = false
}

// Visible combines the node's own content rule with the focus distance rule.
func (s *State) Visible(shouldBeVisible bool) bool {
	return shouldBeVisible && !s.forceHide
}

// ShouldBeVisible is the content rule for a node with dim×rec members: it
// must not be hidden, must have members on both axes, and at least one axis
// must reach fraction of biggest, the largest member count of any node. A
// fraction <= 0 disables the size check.
func ShouldBeVisible(dim, rec, biggest int, fraction float64, hidden bool) bool {
	if hidden || dim <= 0 || rec <= 0 {
		return false
	}
	if fraction <= 0 || biggest <= 0 {
		return true
	}
	b := float64(biggest)
	return float64(dim)/b >= fraction || float64(rec)/b >= fraction
}

func floor(v float64) float64 {
	if !(v >= MinZoom) {
		return MinZoom
	}
	return v
}

func stepScale(dir int) float64 {
	switch {
	case dir > 0:
		return StepFactor
	case dir < 0:
		return 1 / StepFactor
	default:
		return 1
	}
}
