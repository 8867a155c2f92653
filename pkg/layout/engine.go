package layout

import (
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"
)

// Body is one node as seen by the simulation. A NaN centre marks a node that
// has not been placed yet; it takes no part in forces until it is.
type Body struct {
	ID     int
	Center geom.Vec2
	Size   geom.Vec2
}

// Rect returns the body's bounding box.
func (b *Body) Rect() geom.Rect { return geom.RectAround(b.Center, b.Size) }

// Valid reports whether the body has a position.
func (b *Body) Valid() bool { return !b.Center.IsNaN() }

func (b *Body) radius(scale float64) float64 {
	return max(b.Size.X, b.Size.Y) * 0.5 * scale
}

// Graph supplies the overlap counts attraction is based on.
// *overlap.Model satisfies it.
type Graph interface {
	SharedCount(a, b int) int
	GrandTotal() int
}

// Stats summarises one pass.
type Stats struct {
	Initial    bool    `json:"initial"`    // the pass ran the grid layout
	Iterations int     `json:"iterations"` // force integration steps run
	Relocated  int     `json:"relocated"`  // nodes brought back into the frame
	Collisions int     `json:"collisions"` // collision displacements applied
	MaxStep    float64 `json:"maxStep"`    // longest single-step displacement
}

// Engine runs the simulation. It is not safe for concurrent use.
type Engine struct {
	cfg    Config
	rng    *rand.Rand
	Logger *log.Logger
}

// New returns an engine with cfg; zero fields take their defaults. A nil
// logger falls back to log.Default().
func New(cfg Config, logger *log.Logger) *Engine {
	cfg.SetDefaults()
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0xdeadbeef)),
		Logger: logger,
	}
}

// Config returns the current parameters.
func (e *Engine) Config() Config { return e.cfg }

// SetForces replaces the three user-adjustable force constants.
func (e *Engine) SetForces(repulsion, attraction, border float64) {
	e.cfg.Repulsion = repulsion
	e.cfg.AttractionFactor = attraction
	e.cfg.BorderForceFactor = border
}

// Iterations returns the number of integration steps for a frame that took
// dtMs milliseconds. Frames shorter than one millisecond count as one.
func (e *Engine) Iterations(dtMs float64) int {
	return int(e.cfg.IterationFactor/max(dtMs, 1)) + 1
}

// Step advances the layout by one frame.
func (e *Engine) Step(ctx *Context, bodies []*Body, g Graph, dtMs float64) Stats {
	if len(bodies) == 0 {
		return Stats{}
	}
	if !ctx.initialized {
		e.initialLayout(bodies)
		ctx.initialized = true
		ctx.last = ctx.Viewport
		e.Logger.Debug("initial layout", "nodes", len(bodies))
		return Stats{Initial: true}
	}

	var stats Stats
	e.rescale(ctx, bodies)
	e.pinFocus(ctx, bodies)
	stats.Relocated = e.bringBack(ctx, bodies)
	stats.Collisions = e.clearCollisions(ctx, bodies)

	valid := make([]*Body, 0, len(bodies))
	for _, b := range bodies {
		if b.Valid() {
			valid = append(valid, b)
		}
	}
	stats.Iterations = e.Iterations(dtMs)
	forces := make([]geom.Vec2, len(valid))
	for range stats.Iterations {
		stats.MaxStep = max(stats.MaxStep, e.integrate(ctx, valid, g, forces))
	}
	if stats.Relocated > 0 || stats.Collisions > 0 {
		e.Logger.Debug("layout corrections", "relocated", stats.Relocated, "collisions", stats.Collisions)
	}
	return stats
}

func (e *Engine) initialLayout(bodies []*Body) {
	rows := int(math.Sqrt(float64(len(bodies)))) + 1
	for i, b := range bodies {
		b.Center = geom.Vec2{
			X: float64(i/rows*gridCellW + gridOriginX),
			Y: float64(i%rows*gridCellH + gridOriginY),
		}
	}
}

func (e *Engine) rescale(ctx *Context, bodies []*Body) {
	w, h := ctx.Viewport.X, ctx.Viewport.Y
	if (ctx.last.X > w || ctx.last.Y > h) && ctx.last.X > 0 && ctx.last.Y > 0 {
		for _, b := range bodies {
			if b.Valid() {
				b.Center = geom.Vec2{X: b.Center.X * w / ctx.last.X, Y: b.Center.Y * h / ctx.last.Y}
			}
		}
	}
	ctx.last = ctx.Viewport
}

func (e *Engine) pinFocus(ctx *Context, bodies []*Body) {
	id, ok := ctx.Focused()
	if !ok {
		return
	}
	for _, b := range bodies {
		if b.ID == id {
			b.Center = ctx.Viewport.Scale(0.5)
		}
	}
}

func (e *Engine) bringBack(ctx *Context, bodies []*Body) int {
	frame := ctx.Frame()
	if frame.Empty() {
		return 0
	}
	moved := 0
	for _, b := range bodies {
		if b.Valid() && b.Rect().Intersects(frame) {
			continue
		}
		b.Center = geom.Vec2{X: e.rng.Float64() * frame.W, Y: e.rng.Float64() * frame.H}
		moved++
	}
	return moved
}

func (e *Engine) clearCollisions(ctx *Context, bodies []*Body) int {
	w, h := ctx.Viewport.X, ctx.Viewport.Y
	if w <= 0 || h <= 0 {
		return 0
	}
	moved := 0
	for _, i := range bodies {
		for _, j := range bodies {
			if i == j || !i.Valid() || !j.Valid() {
				continue
			}
			if focused, ok := ctx.Focused(); ok && j.ID == focused {
				continue
			}
			if dragged, ok := ctx.Dragged(); ok && j.ID == dragged {
				continue
			}
			if i.Rect().Intersects(j.Rect()) {
				j.Center = geom.Vec2{
					X: math.Mod(j.Center.X+collisionShift, w),
					Y: math.Mod(j.Center.Y+collisionShift, h),
				}
				moved++
			}
		}
	}
	return moved
}

// integrate runs one force step and returns the longest displacement applied.
func (e *Engine) integrate(ctx *Context, bodies []*Body, g Graph, forces []geom.Vec2) float64 {
	attraction := 0.0
	if total := g.GrandTotal(); total > 0 {
		attraction = e.cfg.AttractionFactor / float64(total)
	}
	toolbar := ctx.Toolbar

	for i, bi := range bodies {
		var rep, att geom.Vec2
		for _, bj := range bodies {
			if bi == bj {
				continue
			}
			d := e.gap(bi.Center, bi.radius(bodyScale), bj.Center, bj.radius(bodyScale))
			rep = rep.Add(inverseCube(d, e.cfg.Repulsion))

			if shared := g.SharedCount(bi.ID, bj.ID); shared > 0 && attraction > 0 {
				v := d.Scale(-1)
				att = att.Add(v.Scale(attraction * float64(shared) / v.Len()))
			}
		}
		if !toolbar.Empty() {
			r := max(toolbar.W, toolbar.H) * 0.5 * toolbarScale
			d := e.gap(bi.Center, bi.radius(bodyScale), toolbar.Center(), r)
			rep = rep.Add(inverseCube(d, 2*e.cfg.Repulsion))
		}
		forces[i] = rep.Add(att).Add(e.border(ctx, bi))
	}

	longest := 0.0
	for i, b := range bodies {
		if ctx.Pinned(b.ID) {
			continue
		}
		step := clampForce(forces[i], e.cfg.ForceCap).Scale(e.cfg.Damping)
		b.Center = b.Center.Add(step)
		longest = max(longest, step.Len())
	}
	return longest
}

// gap returns the vector from b to a scaled to the free space between the two
// bodies, never shorter than MinDistance.
func (e *Engine) gap(a geom.Vec2, ra float64, b geom.Vec2, rb float64) geom.Vec2 {
	delta := a.Sub(b)
	dist := delta.Len()
	var dir geom.Vec2
	if dist == 0 {
		angle := e.rng.Float64() * 2 * math.Pi
		dir = geom.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
	} else {
		dir = delta.Scale(1 / dist)
	}
	return dir.Scale(max(dist-ra-rb, e.cfg.MinDistance))
}

func inverseCube(d geom.Vec2, k float64) geom.Vec2 {
	l := d.Len()
	return d.Scale(k / (l * l * l))
}

func (e *Engine) border(ctx *Context, b *Body) geom.Vec2 {
	r := b.Rect()
	push := func(gap float64) float64 {
		gap = max(math.Abs(gap), e.cfg.MinDistance)
		return math.Exp(min(e.cfg.BorderForceFactor/gap, maxExponent))
	}
	return geom.Vec2{
		X: push(r.X) - push(ctx.Viewport.X-(r.X+r.W)),
		Y: push(r.Y) - push(ctx.Viewport.Y-(r.Y+r.H)),
	}
}

// clampForce halves f until it is no longer than limit. Non-finite
// components are reduced to their sign first.
func clampForce(f geom.Vec2, limit float64) geom.Vec2 {
	if math.IsNaN(f.X) || math.IsNaN(f.Y) {
		return geom.Vec2{}
	}
	if math.IsInf(f.X, 0) || math.IsInf(f.Y, 0) {
		f = geom.Vec2{X: finiteSign(f.X), Y: finiteSign(f.Y)}.Normalize().Scale(limit)
	}
	for f.Len() > limit {
		f = f.Scale(0.5)
	}
	return f
}

func finiteSign(v float64) float64 {
	switch {
	case math.IsInf(v, 1):
		return 1
	case math.IsInf(v, -1):
		return -1
	}
	return 0
}
