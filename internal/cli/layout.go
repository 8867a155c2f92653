package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	bicio "github.com/sgratzl/org.caleydo.view.bicluster/pkg/io"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/pipeline"
)

// layoutCommand creates the layout command: dataset in, rendered files out.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags      optionFlags
		formatsStr string
		output     string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "layout [dataset]",
		Short: "Simulate a bicluster layout and render it",
		Long: `Simulate a bicluster layout and render it.

The dataset is either a JSON file with the x, l and z matrices or a directory
holding x.csv, l.csv and z.csv. The force layout runs for --frames steps and
the final frame is written in every requested format:

  svg    bands and nodes            <base>.svg
  json   the frame itself           <base>.frame.json
  dot    the overlap graph          <base>.dot
  graph  the overlap graph as SVG   <base>.graph.svg

Layouts and outputs are cached, so re-running with the same dataset and
settings is instant.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDataset,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") || len(opts.Formats) == 0 {
				opts.Formats = parseFormats(formatsStr)
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: dataset path without extension)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, graph (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	flags.bindSceneFlags(cmd)
	flags.bindSimulationFlags(cmd)
	flags.bindRenderFlags(cmd)

	return cmd
}

// runLayout loads the dataset, runs the pipeline, and writes its artifacts.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	prog := newProgress(c.Logger)
	ds, err := bicio.ImportDataset(input)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", input, err)
	}
	c.Logger.Debug("loaded dataset", "name", ds.Name)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	spinner := newSpinnerWithContext(ctx, "Simulating layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, ds, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	files, err := writeArtifacts(result.Artifacts, basePath(output, input))
	if err != nil {
		return err
	}
	prog.done("layout complete", "dataset", ds.Name)

	printSuccess("Layout complete")
	for _, f := range files {
		printFile(f)
	}
	printStats(result.Stats, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	if slices.Contains(opts.Formats, "json") {
		printNewline()
		printNextStep("Re-render", appName+" render "+outputPath(basePath(output, input), "json"))
	}
	return nil
}

// writeArtifacts writes every artifact next to base and returns the paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, base string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := outputPath(base, f)
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
