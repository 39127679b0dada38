package commands

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/propkit/internal/cli/ui"
	"github.com/conduit-lang/propkit/internal/tooling/build"
)

// NewCleanCommand creates the clean command
func NewCleanCommand(flags *globalFlags) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove generated property metadata files",
		Long: `Remove every file in the module that propkit generated.

Only files carrying the propkit header are removed; vendor, testdata and
hidden directories are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(flags)
			if err != nil {
				return err
			}
			defer p.logger.Sync()

			opts := p.buildOptions(nil)
			opts.DryRun = dryRun

			removed, err := build.NewSystem(opts).Clean(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range removed {
				if rel, err := filepath.Rel(p.dir, path); err == nil {
					path = rel
				}
				fmt.Fprintf(out, "  %s\n", path)
			}

			verb := "Removed"
			if dryRun {
				verb = "Would remove"
			}
			ui.WriteSuccess(out, fmt.Sprintf("%s %d generated file(s)", verb, len(removed)), color.NoColor)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "List files without removing them")

	return cmd
}
