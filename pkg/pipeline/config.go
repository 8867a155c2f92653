package pipeline

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/errors"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/render"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene"
)

// LoadOptions reads options from a TOML file. Unknown keys are rejected.
func LoadOptions(path string) (Options, error) {
	var opts Options
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return opts, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), &opts)
	if err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return opts, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown option %q", path, undecoded[0].String())
	}
	return opts, nil
}

// DefaultOptions returns options with every field set to its default, as
// written by "config init".
func DefaultOptions() Options {
	cfg := scene.DefaultConfig()
	return Options{
		Repulsion:            cfg.Layout.Repulsion,
		AttractionFactor:     cfg.Layout.AttractionFactor,
		BorderForceFactor:    cfg.Layout.BorderForceFactor,
		IterationFactor:      cfg.Layout.IterationFactor,
		Damping:              cfg.Layout.Damping,
		ForceCap:             cfg.Layout.ForceCap,
		Seed:                 cfg.Layout.Seed,
		DimThreshold:         &cfg.Thresholds.Dim,
		RecThreshold:         &cfg.Thresholds.Rec,
		MaxDistance:          &cfg.MaxDistance,
		ShowDimBands:         &cfg.ShowDimBands,
		ShowRecBands:         &cfg.ShowRecBands,
		ClusterSizeThreshold: cfg.ClusterSizeThreshold,
		Sorting:              cfg.Sorting.String(),
		Width:                cfg.Width,
		Height:               cfg.Height,
		Frames:               DefaultFrames,
		FrameMs:              DefaultFrameMs,
		Formats:              []string{render.FormatSVG},
	}
}

// EncodeOptions writes opts as TOML.
func EncodeOptions(opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(opts); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Merge overlays the fields set in o onto base and returns the result.
// Flags use it to override values read from a config file.
func Merge(base, o Options) Options {
	if o.Repulsion != 0 {
		base.Repulsion = o.Repulsion
	}
	if o.AttractionFactor != 0 {
		base.AttractionFactor = o.AttractionFactor
	}
	if o.BorderForceFactor != 0 {
		base.BorderForceFactor = o.BorderForceFactor
	}
	if o.IterationFactor != 0 {
		base.IterationFactor = o.IterationFactor
	}
	if o.Damping != 0 {
		base.Damping = o.Damping
	}
	if o.ForceCap != 0 {
		base.ForceCap = o.ForceCap
	}
	if o.Seed != 0 {
		base.Seed = o.Seed
	}
	if o.DimThreshold != nil {
		base.DimThreshold = o.DimThreshold
	}
	if o.RecThreshold != nil {
		base.RecThreshold = o.RecThreshold
	}
	if o.DimTopN != 0 {
		base.DimTopN = o.DimTopN
	}
	if o.RecTopN != 0 {
		base.RecTopN = o.RecTopN
	}
	if o.MaxDistance != nil {
		base.MaxDistance = o.MaxDistance
	}
	if o.ShowDimBands != nil {
		base.ShowDimBands = o.ShowDimBands
	}
	if o.ShowRecBands != nil {
		base.ShowRecBands = o.ShowRecBands
	}
	if o.ClusterSizeThreshold != 0 {
		base.ClusterSizeThreshold = o.ClusterSizeThreshold
	}
	if o.Sorting != "" {
		base.Sorting = o.Sorting
	}
	if o.Width != 0 {
		base.Width = o.Width
	}
	if o.Height != 0 {
		base.Height = o.Height
	}
	if o.Focus != nil {
		base.Focus = o.Focus
	}
	if o.Frames != 0 {
		base.Frames = o.Frames
	}
	if o.FrameMs != 0 {
		base.FrameMs = o.FrameMs
	}
	if len(o.Formats) > 0 {
		base.Formats = o.Formats
	}
	base.Labels = base.Labels || o.Labels
	base.Detailed = base.Detailed || o.Detailed
	base.Refresh = base.Refresh || o.Refresh
	if o.Logger != nil {
		base.Logger = o.Logger
	}
	base.validated = false
	return base
}
