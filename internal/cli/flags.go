package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/pipeline"
)

// optionFlags binds pipeline options to command flags. Pointer options are
// only set when their flag was given, so config file values survive.
type optionFlags struct {
	opts       pipeline.Options
	configPath string

	dimThreshold float64
	recThreshold float64
	maxDistance  int
	dimBands     bool
	recBands     bool
	focus        int
}

// bindSceneFlags registers the flags shared by every command that builds a
// scene.
func (f *optionFlags) bindSceneFlags(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "TOML config file (default: "+configFile+" in the user config dir, if present)")

	fl.Float64Var(&f.opts.Repulsion, "repulsion", 0, "repulsion between nodes")
	fl.Float64Var(&f.opts.AttractionFactor, "attraction", 0, "attraction along overlap edges")
	fl.Float64Var(&f.opts.BorderForceFactor, "border", 0, "repulsion from the viewport border")
	fl.Float64Var(&f.opts.Damping, "damping", 0, "velocity damping in (0, 1]")
	fl.Uint64Var(&f.opts.Seed, "seed", 0, "seed for initial placement")

	fl.Float64Var(&f.dimThreshold, "dim-threshold", 0, "dimension membership threshold")
	fl.Float64Var(&f.recThreshold, "rec-threshold", 0, "record membership threshold")
	fl.IntVar(&f.opts.DimTopN, "dim-top", 0, "keep only the N strongest dimensions per cluster")
	fl.IntVar(&f.opts.RecTopN, "rec-top", 0, "keep only the N strongest records per cluster")

	fl.IntVar(&f.maxDistance, "max-distance", 0, "graph distance shown around the focused node")
	fl.BoolVar(&f.dimBands, "dim-bands", true, "draw dimension bands")
	fl.BoolVar(&f.recBands, "rec-bands", true, "draw record bands")
	fl.Float64Var(&f.opts.ClusterSizeThreshold, "min-size", 0, "hide clusters below this relative size")
	fl.StringVar(&f.opts.Sorting, "sorting", "", "member sorting: probability (default), band")
	_ = cmd.RegisterFlagCompletionFunc("sorting", completeSorting)
	fl.Float64Var(&f.opts.Width, "width", 0, "viewport width")
	fl.Float64Var(&f.opts.Height, "height", 0, "viewport height")
	fl.IntVar(&f.focus, "focus", 0, "focus this node id before simulating")
}

// bindSimulationFlags registers the flags of batch simulation commands.
func (f *optionFlags) bindSimulationFlags(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVar(&f.opts.Frames, "frames", 0, "simulation frames before rendering (default 300)")
	fl.Float64Var(&f.opts.FrameMs, "frame-ms", 0, "simulated milliseconds per frame (default 16)")
	fl.BoolVar(&f.opts.Refresh, "refresh", false, "ignore cached layouts and artifacts")
}

// bindRenderFlags registers the flags that shape rendered output.
func (f *optionFlags) bindRenderFlags(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.BoolVar(&f.opts.Labels, "labels", false, "draw node labels (svg)")
	fl.BoolVar(&f.opts.Detailed, "detailed", false, "label graph edges with overlap sizes (dot, graph)")
}

// options loads the config file, if any, and overlays the flags that were
// set on cmd.
func (f *optionFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	base, err := loadConfig(f.configPath)
	if err != nil {
		return base, err
	}

	o := f.opts
	fl := cmd.Flags()
	if fl.Changed("dim-threshold") {
		o.DimThreshold = &f.dimThreshold
	}
	if fl.Changed("rec-threshold") {
		o.RecThreshold = &f.recThreshold
	}
	if fl.Changed("max-distance") {
		o.MaxDistance = &f.maxDistance
	}
	if fl.Changed("dim-bands") {
		o.ShowDimBands = &f.dimBands
	}
	if fl.Changed("rec-bands") {
		o.ShowRecBands = &f.recBands
	}
	if fl.Changed("focus") {
		o.Focus = &f.focus
	}
	return pipeline.Merge(base, o), nil
}

// loadConfig reads path, or the default config file when path is empty. A
// missing default file yields zero options.
func loadConfig(path string) (pipeline.Options, error) {
	if path != "" {
		return pipeline.LoadOptions(path)
	}
	def, err := configPath()
	if err != nil {
		return pipeline.Options{}, nil
	}
	if _, err := os.Stat(def); err != nil {
		return pipeline.Options{}, nil
	}
	return pipeline.LoadOptions(def)
}
