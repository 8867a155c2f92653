package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/errors"
	bicio "github.com/sgratzl/org.caleydo.view.bicluster/pkg/io"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/pipeline"
)

// renderCommand creates the render command: saved frame in, files out.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      optionFlags
		formatsStr string
		output     string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "render [frame.json]",
		Short: "Render a saved frame",
		Long: `Render a saved frame.

The frame is the JSON output of 'layout -f json'. It carries every position
and band outline, so this step only encodes it again, for example as SVG
with labels or as a DOT overlap graph.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFrame,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.opts
			opts.Formats = parseFormats(formatsStr)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: frame path without extension)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, graph (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	flags.bindRenderFlags(cmd)

	return cmd
}

// runRender reads a frame and renders it.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	f, err := os.Open(input)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "frame %s", input)
		}
		return err
	}
	frame, err := bicio.ReadFrame(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("load frame %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, *frame, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	base := basePath(output, input)
	if output == "" {
		base = basePath("", trimFrameSuffix(input))
	}
	files, err := writeArtifacts(artifacts, base)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range files {
		printFile(p)
	}
	printStats(pipeline.Stats{Nodes: len(frame.Nodes), Visible: frame.VisibleNodes(), Edges: len(frame.Edges), Bands: len(frame.Bands)}, hit)
	return nil
}

// trimFrameSuffix strips ".frame" from "x.frame.json" so re-rendering writes
// next to the layout outputs.
func trimFrameSuffix(path string) string {
	if base, ok := strings.CutSuffix(path, ".frame.json"); ok {
		return base + ".json"
	}
	return path
}
