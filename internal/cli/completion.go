package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/render"
	"github.com/sgratzl/org.caleydo.view.bicluster/pkg/sorting"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for bicluster.

Besides commands and flags, the script completes dataset paths (JSON files or
CSV directories) for layout, serve and watch, frame files for render, and the
values of --format and --sorting.

Load it for the current session:

  $ source <(bicluster completion bash)
  $ source <(bicluster completion zsh)
  $ bicluster completion fish | source
  PS> bicluster completion powershell | Out-String | Invoke-Expression

Or install it once:

  $ bicluster completion bash > /etc/bash_completion.d/bicluster
  $ bicluster completion zsh > "${fpath[1]}/_bicluster"
  $ bicluster completion fish > ~/.config/fish/completions/bicluster.fish
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeDataset offers JSON files and directories for the single dataset
// argument.
func completeDataset(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeFrame offers saved frame files for the render argument.
func completeFrame(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes the last entry of a comma-separated format list,
// skipping formats already given.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, last = toComplete[:i+1], toComplete[i+1:]
	}
	given := strings.Split(prefix, ",")

	var out []string
	for _, f := range render.Formats {
		if strings.HasPrefix(f, last) && !slices.Contains(given, f) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func completeSorting(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{
		sorting.ByProbability.String() + "\tstrongest members first",
		sorting.ByBand.String() + "\tmembers shared with neighbours grouped together",
	}, cobra.ShellCompDirectiveNoFileComp
}
