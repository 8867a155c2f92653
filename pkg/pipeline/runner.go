package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/cache"
	bicio "github.com/sgratzl/org.caleydo.view.bicluster/pkg/io"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/observability"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/source"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent runs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching; a nil keyer
// uses [cache.DefaultKeyer].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute loads ds, simulates and renders it.
func (r *Runner) Execute(ctx context.Context, ds *source.Dataset, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := DatasetHash(ds)
	if err != nil {
		return nil, err
	}
	result := &Result{DatasetHash: hash}

	start := time.Now()
	frame, hit, err := r.SimulateWithCacheInfo(ctx, ds, hash, opts, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.Frame = frame
	result.CacheInfo.LayoutHit = hit
	result.Stats.SimulateTime = time.Since(start) - result.Stats.LoadTime
	result.Stats.Nodes = len(frame.Nodes)
	result.Stats.Visible = frame.VisibleNodes()
	result.Stats.Edges = len(frame.Edges)
	result.Stats.Bands = len(frame.Bands)

	opts.Logger.Info("simulated layout",
		"nodes", result.Stats.Nodes,
		"visible", result.Stats.Visible,
		"frames", result.Stats.Frames,
		"cached", hit,
		"duration", result.Stats.SimulateTime)

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, frame, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(start)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// DatasetHash hashes the canonical JSON encoding of ds.
func DatasetHash(ds *source.Dataset) (string, error) {
	var buf bytes.Buffer
	if err := bicio.WriteDataset(ds, &buf); err != nil {
		return "", fmt.Errorf("hash dataset: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}

// SimulateWithCacheInfo returns the final frame for ds, from cache when
// possible. stats may be nil.
func (r *Runner) SimulateWithCacheInfo(ctx context.Context, ds *source.Dataset, datasetHash string, opts Options, stats *Stats) (scene.Frame, bool, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return scene.Frame{}, false, fmt.Errorf("invalid options: %w", err)
	}
	if stats == nil {
		stats = &Stats{}
	}
	key := r.Keyer.LayoutKey(datasetHash, opts.LayoutKeyOpts())
	if !opts.Refresh {
		if f, ok := r.cachedFrame(ctx, key); ok {
			return f, true, nil
		}
	}

	sc, err := r.Load(ctx, ds, opts, stats)
	if err != nil {
		return scene.Frame{}, false, err
	}
	f, err := Simulate(ctx, sc, opts)
	if err != nil {
		return scene.Frame{}, false, err
	}
	stats.Frames = opts.Frames

	var buf bytes.Buffer
	if err := bicio.WriteFrame(&f, &buf); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLLayout); err != nil {
			opts.Logger.Warn("cache write failed", "key", key, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cache.KeyType(key), buf.Len())
		}
	}
	return f, false, nil
}

func (r *Runner) cachedFrame(ctx context.Context, key string) (scene.Frame, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cache.KeyType(key))
		return scene.Frame{}, false
	}
	f, err := bicio.ReadFrame(bytes.NewReader(data))
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, cache.KeyType(key))
		return scene.Frame{}, false
	}
	observability.Cache().OnCacheHit(ctx, cache.KeyType(key))
	return *f, true
}

// Load builds a scene for ds. stats may be nil.
func (r *Runner) Load(ctx context.Context, ds *source.Dataset, opts Options, stats *Stats) (*scene.Scene, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	cfg, err := opts.SceneConfig()
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, ds.Name)
	start := time.Now()

	sc, err := scene.New(cfg, opts.Logger)
	if err == nil {
		err = sc.Load(ctx, ds)
	}
	if err == nil && opts.Focus != nil {
		err = sc.Focus(*opts.Focus)
	}
	elapsed := time.Since(start)
	hooks.OnLoadComplete(ctx, ds.Name, ds.Clusters(), elapsed, err)
	if stats != nil {
		stats.LoadTime = elapsed
	}
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return sc, nil
}

// Simulate advances sc by opts.Frames frames of opts.FrameMs each and
// returns the last frame. It stops early when ctx is cancelled.
func Simulate(ctx context.Context, sc *scene.Scene, opts Options) (scene.Frame, error) {
	hooks := observability.Pipeline()
	f := sc.Last()
	hooks.OnSimulateStart(ctx, len(f.Nodes), opts.Frames)
	start := time.Now()

	var err error
	for i := 0; i < opts.Frames; i++ {
		if err = ctx.Err(); err != nil {
			break
		}
		f = sc.Frame(opts.FrameMs)
	}
	hooks.OnSimulateComplete(ctx, f.Seq, time.Since(start), err)
	if err != nil {
		return scene.Frame{}, fmt.Errorf("simulate: %w", err)
	}
	return f, nil
}

// RenderWithCacheInfo renders f in every requested format, from cache when
// all formats are cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f scene.Frame, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	var buf bytes.Buffer
	if err := bicio.WriteFrame(&f, &buf); err != nil {
		return nil, false, fmt.Errorf("serialize frame for cache key: %w", err)
	}
	frameHash := cache.Hash(buf.Bytes())

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, cache.KeyType(key))
			break
		}
		observability.Cache().OnCacheHit(ctx, cache.KeyType(key))
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, f, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "key", key, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, cache.KeyType(key), len(data))
	}
	return rendered, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
