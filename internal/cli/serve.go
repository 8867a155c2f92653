package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sgratzl/org.caleydo.view.bicluster/internal/server"
	bicio "github.com/sgratzl/org.caleydo.view.bicluster/pkg/io"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/pipeline"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/scene"
)

// serveCommand creates the serve command: a live scene behind HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags optionFlags
		addr  string
		tick  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve [dataset]",
		Short: "Serve a live layout over HTTP",
		Long: `Serve a live layout over HTTP.

The simulation keeps running in the background. Clients poll GET /frame (or
/frame.svg) and post interactions such as POST /nodes/{id}/focus. With
--tick 0 the simulation only advances on POST /frame/step.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDataset,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), args[0], opts, addr, tick)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&tick, "tick", server.DefaultTick, "wall-clock time between frames (0 disables the loop)")
	cmd.Flags().Float64Var(&flags.opts.FrameMs, "frame-ms", 0, "simulated milliseconds per frame (default 16)")
	flags.bindSceneFlags(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, opts pipeline.Options, addr string, tick time.Duration) error {
	sc, opts, err := c.loadScene(ctx, input, opts)
	if err != nil {
		return err
	}

	srv := server.New(sc, server.Options{Tick: tick, FrameMs: opts.FrameMs}, c.Logger)
	printSuccess("Serving %s", StyleHighlight.Render(input))
	printKeyValue("Address", addr)
	printKeyValue("Frame", fmt.Sprintf("http://localhost%s/frame.svg", addr))
	printNewline()
	return srv.ListenAndServe(ctx, addr)
}

// loadScene imports input and builds a scene from it. The returned options
// have their defaults applied.
func (c *CLI) loadScene(ctx context.Context, input string, opts pipeline.Options) (*scene.Scene, pipeline.Options, error) {
	ds, err := bicio.ImportDataset(input)
	if err != nil {
		return nil, opts, fmt.Errorf("load dataset %s: %w", input, err)
	}
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, opts, err
	}
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	sc, err := runner.Load(ctx, ds, opts, nil)
	if err != nil {
		return nil, opts, err
	}
	return sc, opts, nil
}
