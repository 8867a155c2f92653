package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/errors"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/sorting"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/source"
)

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
		Name: "chain",
		X:    &source.Matrix{Rows: n, Cols: n, Data: make([]float64, n*n)},
		L:    &source.Matrix{Rows: n, Cols: k, Data: l},
		Z:    &source.Matrix{Rows: n, Cols: k, Data: z},
	}
}

// mapCache is an in-memory cache counting writes.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) Close() error { return nil }

func quiet() *log.Logger { return log.New(io.Discard) }

func ptr[T any](v T) *T { return &v }

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Frames != DefaultFrames || o.FrameMs != DefaultFrameMs {
		t.Errorf("frames = %d, frameMs = %g", o.Frames, o.FrameMs)
	}
	if len(o.Formats) != 1 || o.Formats[0] != "svg" {
		t.Errorf("formats = %v", o.Formats)
	}
	if o.Logger == nil {
		t.Error("logger not defaulted")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"format", Options{Formats: []string{"pdf"}}, errors.ErrCodeInvalidFormat},
		{"sorting", Options{Sorting: "random"}, errors.ErrCodeInvalidConfig},
		{"frames", Options{Frames: MaxFrames + 1}, errors.ErrCodeInvalidConfig},
		{"damping", Options{Damping: 2}, errors.ErrCodeInvalidConfig},
		{"threshold", Options{DimThreshold: ptr(-1.0)}, errors.ErrCodeInvalidConfig},
		{"maxDistance", Options{MaxDistance: ptr(-1)}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSceneConfig(t *testing.T) {
	o := Options{
		Repulsion:    5000,
		DimThreshold: ptr(0.0),
		RecTopN:      3,
		MaxDistance:  ptr(0),
		ShowRecBands: ptr(false),
		Sorting:      "band",
		Width:        400,
	}
	cfg, err := o.SceneConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.Repulsion != 5000 || cfg.Layout.AttractionFactor == 0 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Thresholds.Dim != 0 || cfg.Thresholds.Rec != source.DefaultRecThreshold || cfg.Thresholds.RecTopN != 3 {
		t.Errorf("thresholds = %+v", cfg.Thresholds)
	}
	if cfg.MaxDistance != 0 || !cfg.ShowDimBands || cfg.ShowRecBands {
		t.Errorf("scene = %+v", cfg)
	}
	if cfg.Sorting != sorting.ByBand || cfg.Width != 400 {
		t.Errorf("sorting = %v, width = %g", cfg.Sorting, cfg.Width)
	}
}

func TestExecute(t *testing.T) {
	c := newMapCache()
	r := NewRunner(c, nil, quiet())
	opts := Options{Frames: 50, Formats: []string{"json", "svg", "dot"}}

	res, err := r.Execute(context.Background(), chainDataset(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Error("first run hit the cache")
	}
	if res.Stats.Nodes != 4 || res.Stats.Edges != 3 || res.Stats.Frames != 50 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Frame.Seq != 50 {
		t.Errorf("seq = %d", res.Frame.Seq)
	}
	for _, f := range opts.Formats {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("%s artifact empty", f)
		}
	}
	if !strings.HasPrefix(string(res.Artifacts["svg"]), "<svg") {
		t.Error("svg artifact is not svg")
	}
	if c.sets != 4 {
		t.Errorf("cache writes = %d, want 4", c.sets)
	}

	again, err := r.Execute(context.Background(), chainDataset(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v", again.CacheInfo)
	}
	if again.DatasetHash != res.DatasetHash || string(again.Artifacts["svg"]) != string(res.Artifacts["svg"]) {
		t.Error("cached result differs")
	}
}

func TestExecuteRefresh(t *testing.T) {
	c := newMapCache()
	r := NewRunner(c, nil, quiet())
	opts := Options{Frames: 5, Formats: []string{"json"}}
	if _, err := r.Execute(context.Background(), chainDataset(), opts); err != nil {
		t.Fatal(err)
	}
	opts.Refresh = true
	res, err := r.Execute(context.Background(), chainDataset(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("refresh read the layout cache")
	}
}

func TestExecuteDeterministic(t *testing.T) {
	opts := Options{Frames: 30, Formats: []string{"json"}, Seed: 7}
	a, err := NewRunner(nil, nil, quiet()).Execute(context.Background(), chainDataset(), opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewRunner(nil, nil, quiet()).Execute(context.Background(), chainDataset(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if string(a.Artifacts["json"]) != string(b.Artifacts["json"]) {
		t.Error("same seed produced different frames")
	}
}

func TestExecuteDataUnavailable(t *testing.T) {
	ds := chainDataset()
	ds.Z = nil
	_, err := NewRunner(nil, nil, quiet()).Execute(context.Background(), ds, Options{Frames: 1})
	if !errors.Is(err, errors.ErrCodeDataUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestExecuteFocus(t *testing.T) {
	res, err := NewRunner(nil, nil, quiet()).Execute(context.Background(), chainDataset(),
		Options{Frames: 10, Focus: ptr(0), MaxDistance: ptr(1), Formats: []string{"json"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Frame.Focused != 0 {
		t.Errorf("focused = %d", res.Frame.Focused)
	}
	if n, _ := res.Frame.Node(3); n.Visible {
		t.Error("node 3 visible beyond max distance")
	}
}

func TestSimulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, quiet()).Execute(ctx, chainDataset(), Options{Frames: 10})
	if err == nil {
		t.Error("cancelled run succeeded")
	}
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bicluster.toml")
	body := `
repulsion = 50000.0
maxDistance = 1
showRecBands = false
dimThreshold = 3.5
frames = 120
formats = ["svg", "json"]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	o, err := LoadOptions(path)
	if err != nil {
		t.Fatal(err)
	}
	if o.Repulsion != 50000 || *o.MaxDistance != 1 || *o.ShowRecBands || *o.DimThreshold != 3.5 || o.Frames != 120 {
		t.Errorf("options = %+v", o)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("repulsoin = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(bad); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown key: %v", err)
	}
	if _, err := LoadOptions(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}
}

func TestEncodeOptionsRoundTrip(t *testing.T) {
	in := Options{Repulsion: 1000, MaxDistance: ptr(3), Sorting: "band", Formats: []string{"dot"}}
	data, err := EncodeOptions(in)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "c.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("%v\n%s", err, data)
	}
	if out.Repulsion != 1000 || *out.MaxDistance != 3 || out.Sorting != "band" || out.Formats[0] != "dot" {
		t.Errorf("round trip = %+v", out)
	}
}

func TestMerge(t *testing.T) {
	base := Options{Repulsion: 1, Frames: 10, MaxDistance: ptr(2), Formats: []string{"svg"}}
	got := Merge(base, Options{Frames: 20, MaxDistance: ptr(0), Labels: true})
	if got.Repulsion != 1 || got.Frames != 20 || *got.MaxDistance != 0 || !got.Labels || got.Formats[0] != "svg" {
		t.Errorf("merged = %+v", got)
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	a := Options{Frames: 10}
	b := Options{Frames: 10, Repulsion: 5}
	ka, kb := a.LayoutKeyOpts(), b.LayoutKeyOpts()
	if ka.Frames != 10 || ka.Focus != -1 {
		t.Errorf("key opts = %+v", ka)
	}
	r := NewRunner(nil, nil, nil)
	if r.Keyer.LayoutKey("d", ka) == r.Keyer.LayoutKey("d", kb) {
		t.Error("repulsion does not change the layout key")
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	cfg, err := o.SceneConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg != scene.DefaultConfig() {
		t.Errorf("scene config = %+v, want defaults", cfg)
	}

	data, err := EncodeOptions(o)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"repulsion", "maxDistance", "dimThreshold", "frames"} {
		if !strings.Contains(string(data), key+" = ") {
			t.Errorf("encoded config missing %q:\n%s", key, data)
		}
	}
}
