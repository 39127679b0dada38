package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/propkit/internal/cli/ui"
	"github.com/conduit-lang/propkit/internal/compiler/errors"
	"github.com/conduit-lang/propkit/internal/tooling/build"
)

// NewCheckCommand creates the check command
func NewCheckCommand(flags *globalFlags) *cobra.Command {
	var (
		jsonOutput bool
		errorsOnly bool
	)

	cmd := &cobra.Command{
		Use:   "check [packages]",
		Short: "Report annotation diagnostics without writing files",
		Long: `Analyze annotated types and print their diagnostics.

Nothing is written. The command exits non-zero when any error diagnostic
is reported, which makes it suitable for CI.`,
		Example: `  # Check the whole module
  propkit check

  # Machine-readable output for tooling
  propkit check --json ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(flags)
			if err != nil {
				return err
			}
			defer p.logger.Sync()

			result, err := build.NewSystem(p.buildOptions(args)).Check(cmd.Context())
			if err != nil {
				return err
			}

			list := result.Diagnostics()
			if errorsOnly {
				filtered := make(errors.List, 0, len(list))
				for _, d := range list {
					if d.Severity == errors.SeverityError {
						filtered = append(filtered, d)
					}
				}
				list = filtered
			}

			out := cmd.OutOrStdout()
			var errCount, noteCount int
			if jsonOutput {
				data, err := list.ToJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, data)
				errCount, noteCount = list.ErrorCount()
			} else {
				errCount, noteCount = printDiagnostics(out, list)
				if len(list) == 0 {
					ui.WriteSuccess(out, fmt.Sprintf("No diagnostics in %d file(s)", len(result.Files())), color.NoColor)
				} else {
					fmt.Fprintln(out, errors.FormatSummary(list))
				}
			}

			if errCount > 0 {
				if !jsonOutput {
					fmt.Fprint(cmd.ErrOrStderr(), ui.DiagnosticsError(errCount, noteCount, color.NoColor))
				}
				return fmt.Errorf("check reported %d error(s)", errCount)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output diagnostics as JSON")
	cmd.Flags().BoolVar(&errorsOnly, "errors-only", false, "Hide notes")

	return cmd
}
