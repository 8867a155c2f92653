package scene

import (
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/errors"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/geom"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/layout"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/overlap"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/sorting"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/source"
)

const (
	DefaultMaxDistance = 2
	DefaultWidth       = 1280
	DefaultHeight      = 800

	// DefaultClusterSizeThreshold hides nodes smaller than this fraction of
	// the biggest member count on both axes.
	DefaultClusterSizeThreshold = 0.0

	// cellSize is the pixel size of one member at zoom 1; minSide is the
	// smallest node side.
	cellSize = 2.0
	minSide  = 16.0

	// LowBandOpacity is the opacity of bands not attached to the hovered node.
	LowBandOpacity = 0.15
)

// DefaultToolbarSize is the global toolbar box in the top-right corner that
// nodes are pushed away from.
var DefaultToolbarSize = geom.Vec2{X: 200, Y: 40}

// Config holds the scene parameters.
type Config struct {
	Layout     layout.Config
	Thresholds source.Thresholds

	Width, Height        float64
	MaxDistance          int
	ShowDimBands         bool
	ShowRecBands         bool
	ClusterSizeThreshold float64
	Sorting              sorting.Mode

	// ToolbarSize is the obstacle anchored at the top-right corner of the
	// viewport. A zero size disables it.
	ToolbarSize geom.Vec2
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() Config {
	return Config{
		Layout:       layout.DefaultConfig(),
		Thresholds:   source.DefaultThresholds(),
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		MaxDistance:  DefaultMaxDistance,
		ShowDimBands: true,
		ShowRecBands: true,
		Sorting:      sorting.ByProbability,
		ToolbarSize:  DefaultToolbarSize,
	}
}

// Validate checks every parameter.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if err := errors.ValidatePositive("width", c.Width); err != nil {
		return err
	}
	if err := errors.ValidatePositive("height", c.Height); err != nil {
		return err
	}
	if c.MaxDistance < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "maxDistance must not be negative, got %d", c.MaxDistance)
	}
	if err := errors.ValidateNonNegative("toolbar width", c.ToolbarSize.X); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("toolbar height", c.ToolbarSize.Y); err != nil {
		return err
	}
	return errors.ValidateRange("clusterSizeThreshold", c.ClusterSizeThreshold, 0, 1)
}

// toolbar returns the toolbar rectangle for the configured viewport, clipped
// to it.
func (c Config) toolbar() geom.Rect {
	w, h := min(c.ToolbarSize.X, c.Width), min(c.ToolbarSize.Y, c.Height)
	if w <= 0 || h <= 0 {
		return geom.Rect{}
	}
	return geom.Rect{X: c.Width - w, Y: 0, W: w, H: h}
}

// newContext returns a layout context for the configured viewport with the
// toolbar obstacle in place.
func (c Config) newContext() *layout.Context {
	ctx := layout.NewContext(c.Width, c.Height)
	ctx.Toolbar = c.toolbar()
	return ctx
}

// bandAxes returns the axes bands are drawn on.
func (c Config) bandAxes() overlap.Axes {
	return overlap.AxesOf(c.ShowDimBands, c.ShowRecBands)
}

// distanceAxes returns the axes graph distance is measured over. With all
// bands switched off distance falls back to both axes, so that turning bands
// off never hides clusters.
func (c Config) distanceAxes() overlap.Axes {
	if a := c.bandAxes(); a != 0 {
		return a
	}
	return overlap.BothAxes
}

// minSize is the zoom-1 size of a node with the given member counts.
func minSize(dims, recs int) geom.Vec2 {
	return geom.Vec2{
		X: max(minSide, float64(dims)*cellSize),
		Y: max(minSide, float64(recs)*cellSize),
	}
}
