package layout

import (
	"io"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/overlap"
)

type stubGraph struct {
	shared map[overlap.Pair]int
}

func (g stubGraph) SharedCount(a, b int) int { return g.shared[overlap.MakePair(a, b)] }

func (g stubGraph) GrandTotal() int {
	t := 0
	for _, s := range g.shared {
		t += 2 * s
	}
	return t
}

func quietEngine(cfg Config) *Engine {
	return New(cfg, log.New(io.Discard))
}

func bodies(centers ...geom.Vec2) []*Body {
	out := make([]*Body, len(centers))
	for i, c := range centers {
		out[i] = &Body{ID: i, Center: c, Size: geom.Vec2{X: 40, Y: 30}}
	}
	return out
}

func TestIterations(t *testing.T) {
	e := quietEngine(DefaultConfig())
	tests := []struct {
		dt   float64
		want int
	}{
		{16, 32},
		{1000, 1},
		{500, 2},
		{1, 501},
		{0, 501},
	}

	for _, tt := range tests {
		if got := e.Iterations(tt.dt); got != tt.want {
			t.Errorf("Iterations(%v) = %d, want %d", tt.dt, got, tt.want)
		}
	}
}

func TestInitialLayoutGrid(t *testing.T) {
	e := quietEngine(DefaultConfig())
	ctx := NewContext(1200, 800)
	bs := bodies(geom.NaN(), geom.NaN(), geom.NaN(), geom.NaN())

	stats := e.Step(ctx, bs, stubGraph{}, 16)
	if !stats.Initial || !ctx.Initialized() {
		t.Fatalf("first pass did not run the initial layout: %+v", stats)
	}
	want := []geom.Vec2{{X: 200, Y: 100}, {X: 200, Y: 280}, {X: 200, Y: 460}, {X: 450, Y: 100}}
	for i, b := range bs {
		if b.Center != want[i] {
			t.Errorf("body %d at %v, want %v", i, b.Center, want[i])
		}
	}
}

func TestEmptyStepIsNoop(t *testing.T) {
	e := quietEngine(DefaultConfig())
	ctx := NewContext(100, 100)
	if stats := e.Step(ctx, nil, stubGraph{}, 16); stats != (Stats{}) || ctx.Initialized() {
		t.Errorf("empty pass = %+v, initialized = %v", stats, ctx.Initialized())
	}
}

func TestForceClamp(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 11^0xdeadbeef))
	for round := 0; round < 25; round++ {
		cfg := DefaultConfig()
		cfg.ForceCap = 5 + rng.Float64()*30
		cfg.Damping = 0.2 + rng.Float64()*0.8
		cfg.Seed = uint64(round + 1)
		e := quietEngine(cfg)

		ctx := NewContext(800, 600)
		n := 2 + rng.IntN(10)
		bs := make([]*Body, n)
		shared := map[overlap.Pair]int{}
		for i := range bs {
			bs[i] = &Body{
				ID:     i,
				Center: geom.Vec2{X: rng.Float64() * 800, Y: rng.Float64() * 600},
				Size:   geom.Vec2{X: 10 + rng.Float64()*100, Y: 10 + rng.Float64()*100},
			}
			if i > 0 && rng.IntN(2) == 0 {
				shared[overlap.MakePair(i-1, i)] = 1 + rng.IntN(20)
			}
		}
		ctx.initialized = true
		ctx.last = ctx.Viewport

		stats := e.Step(ctx, bs, stubGraph{shared}, 1+rng.Float64()*50)
		if limit := cfg.ForceCap * cfg.Damping; stats.MaxStep > limit+1e-9 {
			t.Fatalf("round %d: step %v exceeds cap %v", round, stats.MaxStep, limit)
		}
		for _, b := range bs {
			if !b.Valid() {
				t.Fatalf("round %d: body %d became invalid", round, b.ID)
			}
		}
	}
}

func TestPinnedBodiesDoNotMove(t *testing.T) {
	e := quietEngine(DefaultConfig())
	ctx := NewContext(1000, 1000)
	bs := bodies(geom.Vec2{X: 300, Y: 300}, geom.Vec2{X: 700, Y: 700}, geom.Vec2{X: 300, Y: 700})
	ctx.initialized = true
	ctx.last = ctx.Viewport
	ctx.Hover(1)
	ctx.Drag(2)

	g := stubGraph{map[overlap.Pair]int{{A: 0, B: 1}: 5, {A: 1, B: 2}: 5}}
	e.Step(ctx, bs, g, 16)

	if bs[1].Center != (geom.Vec2{X: 700, Y: 700}) {
		t.Errorf("hovered body moved to %v", bs[1].Center)
	}
	if bs[2].Center != (geom.Vec2{X: 300, Y: 700}) {
		t.Errorf("dragged body moved to %v", bs[2].Center)
	}
	if bs[0].Center == (geom.Vec2{X: 300, Y: 300}) {
		t.Error("free body did not move")
	}
}

func TestFocusPinnedAtCenter(t *testing.T) {
	e := quietEngine(DefaultConfig())
	ctx := NewContext(800, 600)
	bs := bodies(geom.Vec2{X: 100, Y: 100}, geom.Vec2{X: 600, Y: 500})
	ctx.initialized = true
	ctx.last = ctx.Viewport
	ctx.Focus(1)

	e.Step(ctx, bs, stubGraph{}, 16)
	if bs[1].Center != (geom.Vec2{X: 400, Y: 300}) {
		t.Errorf("focused body at %v, want viewport centre", bs[1].Center)
	}
}

func TestUnplacedBodyIsRelocated(t *testing.T) {
	e := quietEngine(DefaultConfig())
	ctx := NewContext(800, 600)
	bs := bodies(geom.Vec2{X: 200, Y: 200}, geom.NaN(), geom.Vec2{X: -5000, Y: 100})
	ctx.initialized = true
	ctx.last = ctx.Viewport

	stats := e.Step(ctx, bs, stubGraph{}, 1000)
	if stats.Relocated != 2 {
		t.Errorf("Relocated = %d, want 2", stats.Relocated)
	}
	for _, b := range bs {
		if !b.Valid() {
			t.Errorf("body %d still unplaced", b.ID)
		}
	}
}

func TestRescaleOnShrink(t *testing.T) {
	e := quietEngine(DefaultConfig())
	ctx := NewContext(800, 600)
	ctx.last = ctx.Viewport
	bs := bodies(geom.Vec2{X: 400, Y: 300}, geom.NaN())

	ctx.Resize(400, 300)
	e.rescale(ctx, bs)
	if bs[0].Center != (geom.Vec2{X: 200, Y: 150}) {
		t.Errorf("rescaled centre = %v, want {200 150}", bs[0].Center)
	}
	if !bs[1].Center.IsNaN() {
		t.Error("unplaced body was rescaled")
	}

	ctx.Resize(1000, 1000)
	e.rescale(ctx, bs)
	if bs[0].Center != (geom.Vec2{X: 200, Y: 150}) {
		t.Errorf("growing the viewport moved a body to %v", bs[0].Center)
	}
}

func TestClearCollisions(t *testing.T) {
	e := quietEngine(DefaultConfig())
	ctx := NewContext(800, 600)
	bs := bodies(geom.Vec2{X: 100, Y: 100}, geom.Vec2{X: 110, Y: 105})
	ctx.Drag(1)

	// body 1 is dragged, so body 0 is displaced when iterating j = 0
	if n := e.clearCollisions(ctx, bs); n != 1 {
		t.Fatalf("collisions = %d, want 1", n)
	}
	if bs[0].Center != (geom.Vec2{X: 300, Y: 300}) {
		t.Errorf("displaced body at %v, want {300 300}", bs[0].Center)
	}
	if bs[1].Center != (geom.Vec2{X: 110, Y: 105}) {
		t.Errorf("dragged body moved to %v", bs[1].Center)
	}

	far := bodies(geom.Vec2{X: 700, Y: 500}, geom.Vec2{X: 705, Y: 505})
	e.clearCollisions(NewContext(800, 600), far)
	if far[1].Center != (geom.Vec2{X: 105, Y: 105}) {
		t.Errorf("wrapped centre = %v, want {105 105}", far[1].Center)
	}
}

func TestAttractionPullsSharedNodesTogether(t *testing.T) {
	cfg := DefaultConfig()
	e := quietEngine(cfg)
	ctx := NewContext(2000, 2000)
	bs := bodies(geom.Vec2{X: 700, Y: 1000}, geom.Vec2{X: 1300, Y: 1000})
	g := stubGraph{map[overlap.Pair]int{{A: 0, B: 1}: 10}}

	before := bs[1].Center.Sub(bs[0].Center).Len()
	e.integrate(ctx, bs, g, make([]geom.Vec2, 2))
	after := bs[1].Center.Sub(bs[0].Center).Len()
	if after >= before {
		t.Errorf("distance %v -> %v, want shrinking", before, after)
	}

	unrelated := bodies(geom.Vec2{X: 700, Y: 1000}, geom.Vec2{X: 1300, Y: 1000})
	e.integrate(ctx, unrelated, stubGraph{}, make([]geom.Vec2, 2))
	if d := unrelated[1].Center.Sub(unrelated[0].Center).Len(); d <= before {
		t.Errorf("unrelated nodes moved closer: %v -> %v", before, d)
	}
}

func TestClampForce(t *testing.T) {
	tests := []struct {
		name string
		in   geom.Vec2
	}{
		{"small", geom.Vec2{X: 1, Y: 2}},
		{"large", geom.Vec2{X: 3000, Y: -4000}},
		{"infinite", geom.Vec2{X: math.Inf(1), Y: 3}},
		{"huge", geom.Vec2{X: 1e300, Y: 1e300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clampForce(tt.in, 20)
			if got.Len() > 20 || got.IsNaN() {
				t.Errorf("clampForce(%v) = %v", tt.in, got)
			}
		})
	}
	if got := clampForce(geom.Vec2{X: math.NaN()}, 20); got != (geom.Vec2{}) {
		t.Errorf("NaN force = %v, want zero", got)
	}
	if got := clampForce(geom.Vec2{X: 3, Y: 4}, 20); got != (geom.Vec2{X: 3, Y: 4}) {
		t.Errorf("force under the cap changed to %v", got)
	}
}

func TestToolbarRepelsTwiceAsHard(t *testing.T) {
	e := quietEngine(DefaultConfig())
	a := geom.Vec2{X: 500, Y: 400}
	obstacle := geom.Vec2{X: 600, Y: 400}

	// A 32×32 toolbar has the same radius as a 40×30 body.
	ctx := NewContext(1200, 800)
	pair := bodies(a, obstacle)
	border := e.border(ctx, pair[0])
	forces := make([]geom.Vec2, 2)
	e.integrate(ctx, pair, stubGraph{}, forces)
	fromNode := forces[0].Sub(border)

	ctx = NewContext(1200, 800)
	ctx.Toolbar = geom.RectAround(obstacle, geom.Vec2{X: 32, Y: 32})
	single := bodies(a)
	forces = make([]geom.Vec2, 1)
	e.integrate(ctx, single, stubGraph{}, forces)
	fromToolbar := forces[0].Sub(border)

	if fromToolbar.X >= 0 {
		t.Errorf("toolbar force %v does not push away", fromToolbar)
	}
	if want := fromNode.Scale(2); math.Abs(fromToolbar.X-want.X) > 1e-9*math.Abs(want.X) || fromToolbar.Y != want.Y {
		t.Errorf("toolbar force = %v, want %v", fromToolbar, want)
	}
	if single[0].Center.X >= a.X {
		t.Errorf("body next to toolbar moved to %v", single[0].Center)
	}
}

func TestEmptyToolbarIsIgnored(t *testing.T) {
	e := quietEngine(DefaultConfig())
	ctx := NewContext(1200, 800)
	b := bodies(geom.Vec2{X: 600, Y: 400})
	forces := make([]geom.Vec2, 1)
	e.integrate(ctx, b, stubGraph{}, forces)
	if want := e.border(ctx, &Body{ID: 0, Center: geom.Vec2{X: 600, Y: 400}, Size: geom.Vec2{X: 40, Y: 30}}); forces[0] != want {
		t.Errorf("force without toolbar = %v, want border force %v", forces[0], want)
	}
}
