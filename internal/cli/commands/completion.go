package commands

import (
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// completionWriters maps each supported shell to its cobra generator
var completionWriters = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

func completionShells() []string {
	shells := make([]string, 0, len(completionWriters))
	for shell := range completionWriters {
		shells = append(shells, shell)
	}
	slices.Sort(shells)
	return shells
}

// NewCompletionCommand creates the completion command
func NewCompletionCommand() *cobra.Command {
	shells := completionShells()

	return &cobra.Command{
		Use:   "completion [" + strings.Join(shells, "|") + "]",
		Short: "Generate shell completion script",
		Long: `Print a completion script for propkit to stdout.

  bash:        source <(propkit completion bash)
  zsh:         propkit completion zsh > "${fpath[1]}/_propkit"
  fish:        propkit completion fish > ~/.config/fish/completions/propkit.fish
  powershell:  propkit completion powershell | Out-String | Invoke-Expression

Start a new shell after installing a script.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionWriters[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
