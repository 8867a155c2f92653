package band

import "github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"

// Strip is a band sampled into paired boundary vertices with a per-vertex alpha.
type Strip struct {
	Top    []geom.Vec2 `json:"top"`
	Bottom []geom.Vec2 `json:"bottom"`
	Alpha  []float64   `json:"alpha"`
}

// Len returns the number of vertex pairs.
func (s Strip) Len() int { return len(s.Top) }

func (s Strip) slice(from, to int) Strip {
	return Strip{Top: s.Top[from:to], Bottom: s.Bottom[from:to], Alpha: s.Alpha[from:to]}
}

// StubFade returns the alpha multipliers for a strip of size vertex pairs and
// the first index whose alpha reached zero (-1 if none does).
//
// The multiplier starts at 1 at both ends and changes by
// (centerAlpha - maxAlpha) / (0.3 × center) per vertex towards the middle,
// clamped to [0, 1]. center is size/2 - 1 for even sizes and size/2 for odd.
func StubFade(size int, centerAlpha, maxAlpha float64) (fade []float64, firstZero int) {
	firstZero = -1
	if size == 0 {
		return nil, firstZero
	}
	center := size / 2
	if size%2 == 0 {
		center--
	}
	fade = make([]float64, size)
	if center <= 0 {
		for i := range fade {
			fade[i] = 1
		}
		return fade, firstZero
	}
	delta := (centerAlpha - maxAlpha) / (float64(center) * 0.3)
	for i := range fade {
		steps := min(i, size-1-i)
		fade[i] = max(0, min(1, 1+delta*float64(steps)))
		if fade[i] <= 0 && firstZero < 0 {
			firstZero = i
		}
	}
	return fade, firstZero
}

// Stubify fades a strip from its ends towards its middle. centerAlpha is the
// band's current opacity and maxAlpha the opacity of a fully shown band; a
// strip that is already fully opaque (centerAlpha >= 1) or empty is returned
// unchanged.
//
// When the fade reaches zero the strip is cut into two stubs, one at each end,
// each including its first transparent vertex. Otherwise a single faded strip
// is returned.
func Stubify(s Strip, centerAlpha, maxAlpha float64) []Strip {
	n := s.Len()
	if n == 0 || centerAlpha >= 1 {
		return []Strip{s}
	}
	fade, firstZero := StubFade(n, centerAlpha, maxAlpha)
	out := Strip{
		Top:    s.Top,
		Bottom: s.Bottom,
		Alpha:  make([]float64, n),
	}
	for i := range out.Alpha {
		out.Alpha[i] = s.Alpha[i] * fade[i]
	}
	if firstZero < 0 {
		return []Strip{out}
	}
	cut := firstZero + 1
	return []Strip{out.slice(0, cut), out.slice(n-cut, n)}
}

// StubifyAll applies [Stubify] to every strip.
func StubifyAll(strips []Strip, centerAlpha, maxAlpha float64) []Strip {
	out := make([]Strip, 0, len(strips)*2)
	for _, s := range strips {
		out = append(out, Stubify(s, centerAlpha, maxAlpha)...)
	}
	return out
}
