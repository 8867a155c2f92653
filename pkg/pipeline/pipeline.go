// Package pipeline runs the load → simulate → render pipeline shared by the
// CLI and the HTTP server.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Load: validate the dataset and scan every cluster's members
//  2. Simulate: step the force layout for a fixed number of frames
//  3. Render: encode the final frame in the requested formats
//
// The simulated frame and each artifact are cached under content-addressed
// keys, so re-running with the same dataset and settings skips stages.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{Formats: []string{"svg"}, Frames: 400}
//	result, err := runner.Execute(ctx, ds, opts)
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/cache"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/errors"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/layout"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/render"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/sorting"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultFrames is the number of simulation steps before rendering.
	DefaultFrames = 300

	// DefaultFrameMs is the simulated time per frame.
	DefaultFrameMs = 16.0

	// MaxFrames bounds a single run.
	MaxFrames = 100000
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run. It is read from
// TOML config files, JSON request bodies and CLI flags. Pointer fields
// distinguish "unset" from a meaningful zero.
type Options struct {
	// Forces
	Repulsion         float64 `json:"repulsion,omitempty" toml:"repulsion,omitempty"`
	AttractionFactor  float64 `json:"attractionFactor,omitempty" toml:"attractionFactor,omitempty"`
	BorderForceFactor float64 `json:"borderForceFactor,omitempty" toml:"borderForceFactor,omitempty"`
	IterationFactor   float64 `json:"iterationFactor,omitempty" toml:"iterationFactor,omitempty"`
	Damping           float64 `json:"damping,omitempty" toml:"damping,omitempty"`
	ForceCap          float64 `json:"forceCap,omitempty" toml:"forceCap,omitempty"`
	Seed              uint64  `json:"seed,omitempty" toml:"seed,omitempty"`

	// Membership
	DimThreshold *float64 `json:"dimThreshold,omitempty" toml:"dimThreshold,omitempty"`
	RecThreshold *float64 `json:"recThreshold,omitempty" toml:"recThreshold,omitempty"`
	DimTopN      int      `json:"dimTopN,omitempty" toml:"dimTopN,omitempty"`
	RecTopN      int      `json:"recTopN,omitempty" toml:"recTopN,omitempty"`

	// Scene
	MaxDistance          *int    `json:"maxDistance,omitempty" toml:"maxDistance,omitempty"`
	ShowDimBands         *bool   `json:"showDimBands,omitempty" toml:"showDimBands,omitempty"`
	ShowRecBands         *bool   `json:"showRecBands,omitempty" toml:"showRecBands,omitempty"`
	ClusterSizeThreshold float64 `json:"clusterSizeThreshold,omitempty" toml:"clusterSizeThreshold,omitempty"`
	Sorting              string  `json:"sorting,omitempty" toml:"sorting,omitempty"`
	Width                float64 `json:"width,omitempty" toml:"width,omitempty"`
	Height               float64 `json:"height,omitempty" toml:"height,omitempty"`
	Focus                *int    `json:"focus,omitempty" toml:"focus,omitempty"`

	// Simulation
	Frames  int     `json:"frames,omitempty" toml:"frames,omitempty"`
	FrameMs float64 `json:"frameMs,omitempty" toml:"frameMs,omitempty"`

	// Render
	Formats  []string `json:"formats,omitempty" toml:"formats,omitempty"`
	Labels   bool     `json:"labels,omitempty" toml:"labels,omitempty"`
	Detailed bool     `json:"detailed,omitempty" toml:"detailed,omitempty"`

	// Runtime options (not serialized)
	Refresh bool        `json:"-" toml:"-"`
	Logger  *log.Logger `json:"-" toml:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Frame is the last simulated frame.
	Frame scene.Frame

	// DatasetHash is the content hash of the dataset.
	DatasetHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes        int
	Visible      int
	Edges        int
	Bands        int
	Frames       int
	LoadTime     time.Duration
	SimulateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	LayoutHit bool // the simulated frame came from cache
	RenderHit bool // every artifact came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates every field. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	d := scene.DefaultConfig()
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.Frames == 0 {
		o.Frames = DefaultFrames
	}
	if o.FrameMs == 0 {
		o.FrameMs = DefaultFrameMs
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Validate checks the options without applying defaults.
func (o *Options) Validate() error {
	if o.Frames < 0 || o.Frames > MaxFrames {
		return errors.New(errors.ErrCodeInvalidConfig, "frames must be in [0, %d], got %d", MaxFrames, o.Frames)
	}
	if err := errors.ValidatePositive("frameMs", o.FrameMs); err != nil {
		return err
	}
	if _, err := sorting.ParseMode(o.Sorting); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "sorting")
	}
	for _, f := range o.Formats {
		if !render.ValidFormat(f) {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of %v)", f, render.Formats)
		}
	}
	cfg, err := o.SceneConfig()
	if err != nil {
		return err
	}
	return cfg.Validate()
}

// SceneConfig converts the options to a scene configuration, keeping scene
// defaults for unset fields.
func (o *Options) SceneConfig() (scene.Config, error) {
	cfg := scene.DefaultConfig()
	cfg.Layout = layout.Config{
		Repulsion:         o.Repulsion,
		AttractionFactor:  o.AttractionFactor,
		BorderForceFactor: o.BorderForceFactor,
		IterationFactor:   o.IterationFactor,
		Damping:           o.Damping,
		ForceCap:          o.ForceCap,
		Seed:              o.Seed,
	}
	cfg.Layout.SetDefaults()

	if o.DimThreshold != nil {
		cfg.Thresholds.Dim = *o.DimThreshold
	}
	if o.RecThreshold != nil {
		cfg.Thresholds.Rec = *o.RecThreshold
	}
	cfg.Thresholds.DimTopN = o.DimTopN
	cfg.Thresholds.RecTopN = o.RecTopN

	if o.MaxDistance != nil {
		cfg.MaxDistance = *o.MaxDistance
	}
	if o.ShowDimBands != nil {
		cfg.ShowDimBands = *o.ShowDimBands
	}
	if o.ShowRecBands != nil {
		cfg.ShowRecBands = *o.ShowRecBands
	}
	cfg.ClusterSizeThreshold = o.ClusterSizeThreshold
	if o.Width != 0 {
		cfg.Width = o.Width
	}
	if o.Height != 0 {
		cfg.Height = o.Height
	}

	mode, err := sorting.ParseMode(o.Sorting)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "sorting")
	}
	cfg.Sorting = mode
	return cfg, nil
}

// FocusNode returns the node to focus before simulating, or [scene.None].
func (o *Options) FocusNode() int {
	if o.Focus == nil {
		return scene.None
	}
	return *o.Focus
}

// LayoutKeyOpts returns cache key options for the simulated frame.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	cfg, _ := o.SceneConfig()
	return cache.LayoutKeyOpts{
		Seed:    cfg.Layout.Seed,
		Frames:  o.Frames,
		FrameMs: o.FrameMs,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Focus:   o.FocusNode(),
		Settings: struct {
			Layout               layout.Config
			Thresholds           source.Thresholds
			MaxDistance          int
			Dim, Rec             bool
			ClusterSizeThreshold float64
			Sorting              string
		}{cfg.Layout, cfg.Thresholds, cfg.MaxDistance, cfg.ShowDimBands, cfg.ShowRecBands, cfg.ClusterSizeThreshold, cfg.Sorting.String()},
	}
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Style:  fmt.Sprintf("labels=%t,detailed=%t", o.Labels, o.Detailed),
	}
}
