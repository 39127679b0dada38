package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/propkit/internal/cli/ui"
	"github.com/conduit-lang/propkit/internal/tooling/build"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand(flags *globalFlags) *cobra.Command {
	var (
		interactive bool
		dryRun      bool
		tests       bool
		quiet       bool
	)

	cmd := &cobra.Command{
		Use:     "generate [packages]",
		Aliases: []string{"gen", "g"},
		Short:   "Generate property metadata for annotated types",
		Long: `Analyze annotated types and write one <file>_propkit.go next to every
source file that declares a property container.

Generated files whose source no longer declares a container are removed.
Existing files that were not generated by propkit are never overwritten
unless confirmed with --interactive.

The command exits non-zero when any error diagnostic is reported.`,
		Example: `  # Generate for every package in the module
  propkit generate

  # Generate for a single package
  propkit generate ./geom

  # Show what would change without writing
  propkit generate --dry-run

  # From a go:generate directive
  //go:generate propkit generate .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(flags)
			if err != nil {
				return err
			}
			defer p.logger.Sync()

			opts := p.buildOptions(args)
			opts.DryRun = dryRun
			if tests {
				opts.Tests = true
			}
			if interactive {
				opts.Confirm = confirmOverwrite
			}

			out := cmd.OutOrStdout()
			var bar *ui.ProgressBar
			if !quiet {
				bar = ui.NewProgressBar(cmd.ErrOrStderr(), 0, color.NoColor)
				opts.ProgressFunc = bar.Update
			}

			result, err := build.NewSystem(opts).Generate(cmd.Context())
			if errors.Is(err, build.ErrForeignOutput) {
				return fmt.Errorf("%s", ui.OverwriteError(err.Error(), color.NoColor))
			}
			if err != nil {
				return fmt.Errorf("%s", ui.GenerateError(err.Error(), nil, color.NoColor))
			}
			if bar != nil {
				bar.Finish("")
			}

			errCount, noteCount := printDiagnostics(out, result.Diagnostics())
			printGenerateSummary(out, result, dryRun)

			if errCount > 0 {
				fmt.Fprint(cmd.ErrOrStderr(), ui.DiagnosticsError(errCount, noteCount, color.NoColor))
				return fmt.Errorf("generation reported %d error(s)", errCount)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Confirm before overwriting files not generated by propkit")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Analyze and render without writing files")
	cmd.Flags().BoolVar(&tests, "tests", false, "Include _test.go files")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not show progress")

	return cmd
}

func confirmOverwrite(path string) (bool, error) {
	ok := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s was not generated by propkit. Overwrite?", path),
		Default: false,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

func printGenerateSummary(w io.Writer, result *build.Result, dryRun bool) {
	created, updated, unchanged, removed := result.Counts()

	if dryRun {
		rendered := 0
		for _, f := range result.Files() {
			if f.Output != nil {
				rendered++
			}
		}
		ui.WriteSuccess(w, fmt.Sprintf("Dry run: %d file(s) would be generated, %d removed (%s)",
			rendered, removed, result.Duration.Round(time.Millisecond)), color.NoColor)
		return
	}

	ui.WriteSuccess(w, fmt.Sprintf("Generated %d created, %d updated, %d unchanged, %d removed (%s)",
		created, updated, unchanged, removed, result.Duration.Round(time.Millisecond)), color.NoColor)
}
