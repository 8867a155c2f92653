package scene

import (
	"context"
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/band"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/distance"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/errors"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/events"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/overlap"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/sorting"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/source"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/zoom"
)

// chainDataset has four clusters where cluster c holds dimensions and
// records {c, c+1}, so neighbouring clusters share one element per axis and
// the overlap graph is the chain 0-1-2-3. An external cluster holds
// dimension 0 and hangs off cluster 0.
func chainDataset() *source.Dataset {
	const n, k = 6, 4
	l := make([]float64, n*k)
	z := make([]float64, n*k)
	for c := range k {
		for _, e := range []int{c, c + 1} {
			l[e*k+c] = 0.5
			z[e*k+c] = 5
		}
	}
	return &source.Dataset{
		Name:      "chain",
		X:         &source.Matrix{Rows: n, Cols: n, Data: make([]float64, n*n)},
		L:         &source.Matrix{Rows: n, Cols: k, Data: l},
		Z:         &source.Matrix{Rows: n, Cols: k, Data: z},
		Externals: []source.External{{Label: "annotation", Dims: []int{0}}},
	}
}

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	s, err := New(DefaultConfig(), log.New(io.Discard))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Load(context.Background(), chainDataset()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func visible(t *testing.T, f Frame, id int) bool {
	t.Helper()
	n, ok := f.Node(id)
	if !ok {
		t.Fatalf("node %d missing from frame", id)
	}
	return n.Visible
}

func TestLoad(t *testing.T) {
	s := newTestScene(t)
	f := s.Frame(16)

	if len(f.Nodes) != 5 {
		t.Fatalf("got %d nodes, want 5", len(f.Nodes))
	}
	if !f.Stats.Initial {
		t.Error("first frame did not run the initial layout")
	}
	n0, _ := f.Node(0)
	if n0.Label != "bicluster1" || n0.Kind != "normal" || n0.Cluster != 0 {
		t.Errorf("node 0 = %+v", n0)
	}
	if !slices.Equal(n0.Dims, []int{0, 1}) || !slices.Equal(n0.Recs, []int{0, 1}) {
		t.Errorf("node 0 members dims=%v recs=%v", n0.Dims, n0.Recs)
	}
	ext, _ := f.Node(4)
	if ext.Kind != "external" || !ext.Visible {
		t.Errorf("external node = %+v", ext)
	}
	if len(f.Edges) != 4 {
		t.Errorf("got %d edges, want 4", len(f.Edges))
	}
	if f.VisibleNodes() != 5 {
		t.Errorf("VisibleNodes() = %d", f.VisibleNodes())
	}
	for _, n := range f.Nodes {
		if n.Rect.Empty() {
			t.Errorf("node %d has empty rect", n.ID)
		}
	}
}

func TestLoadDataUnavailable(t *testing.T) {
	s, err := New(DefaultConfig(), log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	ds := chainDataset()
	ds.Z = nil
	err = s.Load(context.Background(), ds)
	if !errors.Is(err, errors.ErrCodeDataUnavailable) {
		t.Fatalf("Load() = %v, want DATA_UNAVAILABLE", err)
	}
	if f := s.Frame(16); len(f.Nodes) != 0 {
		t.Errorf("got %d nodes after failed load", len(f.Nodes))
	}
}

func TestFocusHidesDistantNodes(t *testing.T) {
	s := newTestScene(t)
	s.Frame(16)

	if err := s.Focus(0); err != nil {
		t.Fatal(err)
	}
	f := s.Frame(16)
	for id, want := range map[int]bool{0: true, 1: true, 2: true, 3: false, 4: true} {
		if got := visible(t, f, id); got != want {
			t.Errorf("node %d visible = %v, want %v", id, got, want)
		}
	}
	n0, _ := f.Node(0)
	n1, _ := f.Node(1)
	if n0.Mode != "focus" || n1.Mode != "focus_neighbor" {
		t.Errorf("modes = %s, %s", n0.Mode, n1.Mode)
	}
	if n0.Zoom != (geom.Vec2{X: zoom.FocusZoom, Y: zoom.FocusZoom}) {
		t.Errorf("focus zoom = %v", n0.Zoom)
	}
	if c := n0.Rect.Center(); c != (geom.Vec2{X: DefaultWidth / 2, Y: DefaultHeight / 2}) {
		t.Errorf("focused centre = %v", c)
	}

	if err := s.SetMaxDistance(3); err != nil {
		t.Fatal(err)
	}
	if !visible(t, s.Frame(16), 3) {
		t.Error("node 3 hidden with maxDistance 3")
	}

	if err := s.Focus(None); err != nil {
		t.Fatal(err)
	}
	f = s.Frame(16)
	if f.VisibleNodes() != 5 {
		t.Errorf("VisibleNodes() after release = %d", f.VisibleNodes())
	}
	if n, _ := f.Node(2); n.Mode != "overview" {
		t.Errorf("node 2 mode = %s", n.Mode)
	}
}

func TestBands(t *testing.T) {
	s := newTestScene(t)
	f := s.Frame(16)

	// 4 dim bands (external has dims only) + 3 rec bands
	if len(f.Bands) != 7 {
		t.Fatalf("got %d bands, want 7", len(f.Bands))
	}
	for _, b := range f.Bands {
		if b.Highlighted || len(b.Stubs) == 0 || b.Size != 1 {
			t.Errorf("band %d-%d %s = %+v", b.A, b.B, b.Axis, b)
		}
	}

	s.ShowBands(false, true)
	f = s.Frame(16)
	if len(f.Bands) != 3 {
		t.Fatalf("got %d bands with rec only, want 3", len(f.Bands))
	}
	for _, b := range f.Bands {
		if b.Axis != "rec" {
			t.Errorf("band axis = %s", b.Axis)
		}
	}
}

func TestBandSetKeptWhileEndpointHidden(t *testing.T) {
	s := newTestScene(t)
	s.Frame(16)
	e, ok := s.model.Edge(2, 3)
	if !ok {
		t.Fatal("edge 2-3 missing")
	}
	build := func() band.Set {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.bandSet(e, overlap.Dim, s.nodes[2], s.nodes[3])
	}

	first, again := build(), build()
	if !first.Renderable || len(first.NonSplit) == 0 {
		t.Fatalf("band 2-3 = %+v", first)
	}
	if &first.NonSplit[0] != &again.NonSplit[0] {
		t.Error("unchanged band was rebuilt")
	}

	if err := s.Hide(3); err != nil {
		t.Fatal(err)
	}
	for _, b := range s.Frame(16).Bands {
		if b.A == 3 || b.B == 3 {
			t.Errorf("band %d-%d drawn with node 3 hidden", b.A, b.B)
		}
	}
	hidden := build()
	if hidden.Renderable {
		t.Error("band to a hidden node reported renderable")
	}
	if len(hidden.RunsA) == 0 || len(hidden.NonSplit) == 0 {
		t.Errorf("band structure dropped while hidden: %+v", hidden)
	}

	if err := s.Show(3); err != nil {
		t.Fatal(err)
	}
	s.Frame(16)
	if shown := build(); !shown.Renderable {
		t.Error("band not renderable after node 3 returned")
	}
}

func TestBandsNearFocus(t *testing.T) {
	s := newTestScene(t)
	s.Frame(16)
	if err := s.SetMaxDistance(1); err != nil {
		t.Fatal(err)
	}
	if err := s.Focus(0); err != nil {
		t.Fatal(err)
	}
	f := s.Frame(16)
	for _, b := range f.Bands {
		if b.A != 0 && b.B != 0 {
			t.Errorf("band %d-%d drawn while focus is 0 and maxDistance 1", b.A, b.B)
		}
	}
}

func TestHoverFadesDistantNodes(t *testing.T) {
	s := newTestScene(t)
	s.Frame(16)
	if err := s.Hover(0); err != nil {
		t.Fatal(err)
	}
	f := s.Frame(1000)

	n1, _ := f.Node(1)
	n3, _ := f.Node(3)
	if n1.Opacity != zoom.HighOpacity || n3.Opacity != zoom.LowOpacity {
		t.Errorf("opacity near=%v far=%v", n1.Opacity, n3.Opacity)
	}
	for _, b := range f.Bands {
		attached := b.A == 0 || b.B == 0
		if b.Highlighted != attached {
			t.Errorf("band %d-%d highlighted = %v", b.A, b.B, b.Highlighted)
		}
		if attached && len(b.Splines) == 0 {
			t.Errorf("highlighted band %d-%d has no splines", b.A, b.B)
		}
	}

	if err := s.Hover(None); err != nil {
		t.Fatal(err)
	}
	s.Frame(zoom.HoverOutDelay + 1)
	f = s.Frame(1000)
	if n, _ := f.Node(3); n.Opacity != zoom.HighOpacity {
		t.Errorf("opacity after hover out = %v", n.Opacity)
	}
}

func TestHoverBand(t *testing.T) {
	s := newTestScene(t)
	s.Frame(16)
	if err := s.HoverBand(1, 2, overlap.Dim); err != nil {
		t.Fatal(err)
	}
	f := s.Frame(1000)
	for _, b := range f.Bands {
		want := b.A == 1 && b.B == 2 && b.Axis == "dim"
		if b.Highlighted != want {
			t.Errorf("band %d-%d %s highlighted = %v", b.A, b.B, b.Axis, b.Highlighted)
		}
	}
}

func TestSearch(t *testing.T) {
	s := newTestScene(t)
	s.Search("BICLUSTER1")
	f := s.Frame(1000)
	n0, _ := f.Node(0)
	n1, _ := f.Node(1)
	if n0.Opacity != zoom.HighOpacity || n1.Opacity != zoom.LowOpacity {
		t.Errorf("opacity match=%v other=%v", n0.Opacity, n1.Opacity)
	}
	s.Search("")
	if n, _ := s.Frame(1000).Node(1); n.Opacity != zoom.HighOpacity {
		t.Errorf("opacity after clearing search = %v", n.Opacity)
	}
}

func TestDragPinsNode(t *testing.T) {
	s := newTestScene(t)
	s.Frame(16)
	pos := geom.Vec2{X: 640, Y: 400}
	if err := s.Drag(2, pos); err != nil {
		t.Fatal(err)
	}
	f := s.Frame(16)
	if n, _ := f.Node(2); n.Rect.Center() != pos {
		t.Errorf("dragged centre = %v, want %v", n.Rect.Center(), pos)
	}
	s.EndDrag()
}

func TestHideReleasesFocus(t *testing.T) {
	s := newTestScene(t)
	s.Frame(16)
	if err := s.Focus(1); err != nil {
		t.Fatal(err)
	}
	if err := s.Hide(1); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Focused(); ok {
		t.Error("focus survived hiding the focused node")
	}
	f := s.Frame(16)
	if visible(t, f, 1) {
		t.Error("hidden node visible")
	}
	if n, _ := f.Node(1); !n.Hidden {
		t.Error("Hidden flag not reported")
	}
	if err := s.Show(1); err != nil {
		t.Fatal(err)
	}
	if !visible(t, s.Frame(16), 1) {
		t.Error("shown node still invisible")
	}
}

func TestThresholds(t *testing.T) {
	s := newTestScene(t)
	ctx := context.Background()

	if err := s.Lock(0, true); err != nil {
		t.Fatal(err)
	}
	err := s.ApplyThresholds(ctx, events.Threshold{Global: true, DimThreshold: 6, RecThreshold: 0.08})
	if err != nil {
		t.Fatal(err)
	}
	f := s.Frame(16)
	n0, _ := f.Node(0)
	n1, _ := f.Node(1)
	if len(n0.Dims) != 2 {
		t.Errorf("locked node dims = %v", n0.Dims)
	}
	if len(n1.Dims) != 0 || n1.Visible {
		t.Errorf("unlocked node dims = %v visible = %v", n1.Dims, n1.Visible)
	}
	if s.Config().Thresholds.Dim != 6 {
		t.Errorf("global thresholds not stored: %+v", s.Config().Thresholds)
	}

	err = s.ApplyThresholds(ctx, events.Threshold{Node: 1, DimThreshold: 1, RecThreshold: 0.08, DimTopN: 1})
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Frame(16).Node(1); len(n.Dims) != 1 || !n.Visible {
		t.Errorf("node 1 after local thresholds dims=%v visible=%v", n.Dims, n.Visible)
	}

	if err := s.ApplyThresholds(ctx, events.Threshold{Node: 4}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("thresholds on external node: %v", err)
	}
	if err := s.ApplyThresholds(ctx, events.Threshold{Global: true, DimThreshold: -1}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("negative threshold: %v", err)
	}
}

func TestThresholdsReevaluateFocusDistance(t *testing.T) {
	s := newTestScene(t)
	s.Frame(16)
	if err := s.Focus(0); err != nil {
		t.Fatal(err)
	}
	if !visible(t, s.Frame(16), 2) {
		t.Fatal("node 2 hidden at distance 2 before rescan")
	}

	// Shrinking node 1 to a single member cuts the chain between 1 and 2.
	err := s.ApplyThresholds(context.Background(), events.Threshold{Node: 1, DimTopN: 1, RecTopN: 1})
	if err != nil {
		t.Fatal(err)
	}
	f := s.Frame(16)
	n1, _ := f.Node(1)
	if len(n1.Dims) != 1 || len(n1.Recs) != 1 {
		t.Fatalf("node 1 members dims=%v recs=%v", n1.Dims, n1.Recs)
	}
	if d := distanceFrom(s, 0, 2); d <= s.Config().MaxDistance {
		t.Fatalf("distance(0, 2) = %d, want beyond %d", d, s.Config().MaxDistance)
	}
	if visible(t, f, 2) {
		t.Error("node 2 still visible after its path to the focus was cut")
	}
	if !visible(t, f, 0) {
		t.Error("focused node hidden")
	}
}

func TestSortingReevaluatesFocusDistance(t *testing.T) {
	s := newTestScene(t)
	s.Frame(16)
	if err := s.Focus(0); err != nil {
		t.Fatal(err)
	}
	s.SetSorting(sorting.ByBand)
	f := s.Frame(16)
	for id, want := range map[int]bool{0: true, 1: true, 2: true, 3: false} {
		if got := visible(t, f, id); got != want {
			t.Errorf("node %d visible = %v, want %v", id, got, want)
		}
	}
}

func distanceFrom(s *Scene, a, b int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return distance.MinDistance(s.model, a, b, s.cfg.MaxDistance, s.cfg.distanceAxes())
}

func TestSortingKeepsMembers(t *testing.T) {
	s := newTestScene(t)
	before := s.Frame(16)
	s.SetSorting(sorting.ByBand)
	if s.Config().Sorting != sorting.ByBand {
		t.Fatal("sorting mode not applied")
	}
	after := s.Frame(16)
	for i, n := range after.Nodes {
		a, b := slices.Sorted(slices.Values(n.Dims)), slices.Sorted(slices.Values(before.Nodes[i].Dims))
		if !slices.Equal(a, b) {
			t.Errorf("node %d dims changed from %v to %v", n.ID, b, a)
		}
	}
}

func TestEventsReachObservers(t *testing.T) {
	s := newTestScene(t)
	var got []events.Kind
	for _, k := range []events.Kind{events.FocusChanged, events.NodeHidden, events.SearchChanged, events.ForcesChanged} {
		s.Bus().Subscribe(k, func(e events.Event) { got = append(got, e.Kind()) })
	}
	_ = s.Focus(2)
	_ = s.Hide(2)
	s.Search("x")
	if err := s.SetForces(1000, 10, 50); err != nil {
		t.Fatal(err)
	}
	// hiding the focused node releases the focus before observers see the hide
	want := []events.Kind{events.FocusChanged, events.FocusChanged, events.NodeHidden, events.SearchChanged, events.ForcesChanged}
	if !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if c := s.Config().Layout; c.Repulsion != 1000 || c.AttractionFactor != 10 || c.BorderForceFactor != 50 {
		t.Errorf("forces not applied: %+v", c)
	}
}

func TestUnknownNode(t *testing.T) {
	s := newTestScene(t)
	for name, err := range map[string]error{
		"focus": s.Focus(42),
		"hover": s.Hover(-7),
		"drag":  s.Drag(9, geom.Vec2{}),
		"hide":  s.Hide(5),
		"lock":  s.Lock(4, true),
		"zoom":  s.Zoom(99, 1, 1),
	} {
		if err == nil {
			t.Errorf("%s: accepted unknown or unsuitable node", name)
		}
	}
	if err := s.SetMaxDistance(-1); err == nil {
		t.Error("negative maxDistance accepted")
	}
	if err := s.SetForces(-1, 0, 0); err == nil {
		t.Error("negative repulsion accepted")
	}
}

func TestZoomChangesSize(t *testing.T) {
	s := newTestScene(t)
	f := s.Frame(16)
	before, _ := f.Node(1)
	if err := s.Zoom(1, 1, 1); err != nil {
		t.Fatal(err)
	}
	after, _ := s.Frame(16).Node(1)
	if after.Rect.W <= before.Rect.W || after.Rect.H <= before.Rect.H {
		t.Errorf("zoom in did not grow node: %v -> %v", before.Rect, after.Rect)
	}
	if err := s.ResetZoom(1); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Frame(16).Node(1); n.Zoom != (geom.Vec2{X: 1, Y: 1}) {
		t.Errorf("zoom after reset = %v", n.Zoom)
	}
}

func TestToolbarFollowsViewport(t *testing.T) {
	s := newTestScene(t)
	want := geom.Rect{X: DefaultWidth - DefaultToolbarSize.X, W: DefaultToolbarSize.X, H: DefaultToolbarSize.Y}
	if s.ctx.Toolbar != want {
		t.Errorf("toolbar after Load = %+v, want %+v", s.ctx.Toolbar, want)
	}

	if err := s.Resize(640, 480); err != nil {
		t.Fatal(err)
	}
	want.X = 640 - DefaultToolbarSize.X
	if s.ctx.Toolbar != want {
		t.Errorf("toolbar after Resize = %+v, want %+v", s.ctx.Toolbar, want)
	}

	cfg := DefaultConfig()
	cfg.ToolbarSize = geom.Vec2{}
	bare, err := New(cfg, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	if !bare.ctx.Toolbar.Empty() {
		t.Errorf("disabled toolbar = %+v", bare.ctx.Toolbar)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	bad := DefaultConfig()
	bad.Width = 0
	if _, err := New(bad, nil); err == nil {
		t.Error("zero width accepted")
	}
	bad = DefaultConfig()
	bad.ToolbarSize = geom.Vec2{X: -1, Y: 10}
	if err := bad.Validate(); err == nil {
		t.Error("negative toolbar size accepted")
	}
	bad = DefaultConfig()
	bad.ClusterSizeThreshold = 2
	if err := bad.Validate(); err == nil {
		t.Error("clusterSizeThreshold 2 accepted")
	}
}
