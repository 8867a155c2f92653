package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sgratzl/org.caleydo.view.bicluster/internal/server"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/pipeline"
)

// watchCommand creates the watch command: a live scene in the terminal.
func (c *CLI) watchCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:               "watch [dataset]",
		Short:             "Run a live layout in the terminal",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDataset,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().Float64Var(&flags.opts.FrameMs, "frame-ms", 0, "simulated milliseconds per frame (default 16)")
	flags.bindSceneFlags(cmd)

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, opts pipeline.Options) error {
	sc, opts, err := c.loadScene(ctx, input, opts)
	if err != nil {
		return err
	}
	// Log lines would tear the alternate screen.
	c.SetLogLevel(LogError)

	p := tea.NewProgram(NewWatchModel(sc, server.DefaultTick, opts.FrameMs), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
