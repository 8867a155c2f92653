package zoom

import "math"

const (
	HighOpacity = 1.0
	LowOpacity  = 0.2

	// FadeSpeed is the opacity change per millisecond.
	FadeSpeed = 0.002

	// fadeEpsilon snaps the opacity onto its target once closer than this.
	fadeEpsilon = 0.01

	// HoverOutDelay is how long a node keeps its opacity after the pointer
	// left, in milliseconds.
	HoverOutDelay = 200.0
)

// Fade animates a node's opacity towards a target.
type Fade struct {
	opacity float64
	target  float64

	pending float64
	delay   float64
}

// NewFade returns a fully opaque fade at rest.
func NewFade() *Fade {
	return &Fade{opacity: HighOpacity, target: HighOpacity, pending: math.NaN()}
}

// Opacity returns the current opacity.
func (f *Fade) Opacity() float64 { return f.opacity }

// Target returns the opacity the fade moves towards.
func (f *Fade) Target() float64 { return f.target }

// Done reports whether the fade has reached its target and nothing is pending.
func (f *Fade) Done() bool { return f.opacity == f.target && math.IsNaN(f.pending) }

// Set moves towards target from now on and cancels a pending release.
func (f *Fade) Set(target float64) {
	f.target = clamp01(target)
	f.pending = math.NaN()
	f.delay = 0
}

// Emphasize is Set(HighOpacity) or Set(LowOpacity).
func (f *Fade) Emphasize(high bool) {
	if high {
		f.Set(HighOpacity)
		return
	}
	f.Set(LowOpacity)
}

// Release switches to target after HoverOutDelay has elapsed.
func (f *Fade) Release(target float64) {
	f.pending = clamp01(target)
	f.delay = HoverOutDelay
}

// Update advances the fade by dtMs milliseconds and reports whether the
// opacity changed.
func (f *Fade) Update(dtMs float64) bool {
	if dtMs <= 0 {
		return false
	}
	if !math.IsNaN(f.pending) {
		f.delay -= dtMs
		if f.delay > 0 {
			return false
		}
		f.target = f.pending
		f.pending = math.NaN()
		f.delay = 0
	}
	delta := f.target - f.opacity
	if delta == 0 {
		return false
	}
	if math.Abs(delta) < fadeEpsilon {
		f.opacity = f.target
		return true
	}
	step := FadeSpeed * dtMs
	if step >= math.Abs(delta) {
		f.opacity = f.target
	} else {
		f.opacity += math.Copysign(step, delta)
	}
	return true
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
