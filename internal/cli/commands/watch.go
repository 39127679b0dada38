package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/propkit/internal/cli/ui"
	"github.com/conduit-lang/propkit/internal/tooling/build"
	"github.com/conduit-lang/propkit/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand(flags *globalFlags) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate property metadata when sources change",
		Long: `Generate once, then watch the module's Go files and regenerate the
packages whose sources change.

Saves are debounced so a burst of writes triggers a single run. Deleting a
source file removes its generated output.`,
		Example: `  # Watch the current module
  propkit watch

  # Wait longer before regenerating
  propkit watch --debounce 500ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(flags)
			if err != nil {
				return err
			}
			defer p.logger.Sync()

			if !cmd.Flags().Changed("debounce") {
				debounce = p.config.Watch.Debounce
			}

			out := cmd.OutOrStdout()
			opts := p.buildOptions(nil)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			initial, err := build.NewSystem(opts).Generate(ctx)
			if err != nil {
				return err
			}
			printDiagnostics(out, initial.Diagnostics())
			printGenerateSummary(out, initial, false)

			regen := watch.NewRegenerator(opts)
			watcher, err := watch.NewFileWatcher(p.dir, watch.Options{
				Patterns: []string{"*.go"},
				Ignored:  generatedPatterns(opts.OutputSuffix),
				Debounce: debounce,
				Logger:   p.logger,
			}, func(files []string) error {
				return onChange(ctx, out, regen, files)
			})
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			if err := watcher.Start(); err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}

			fmt.Fprintln(out)
			color.New(color.FgCyan, color.Bold).Fprintf(out, "Watching %s\n", p.dir)
			color.New(color.FgYellow).Fprintln(out, "Press Ctrl+C to stop")

			<-ctx.Done()

			fmt.Fprintln(out, "\nShutting down...")
			return watcher.Stop()
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before regenerating")

	return cmd
}

func generatedPatterns(suffix string) []string {
	return []string{"*" + suffix, "*" + strings.TrimSuffix(suffix, ".go") + "_test.go"}
}

func onChange(ctx context.Context, out io.Writer, regen *watch.Regenerator, files []string) error {
	result, err := regen.Regenerate(ctx, files)
	if err != nil {
		fmt.Fprint(out, ui.GenerateError(err.Error(), nil, color.NoColor))
		return err
	}
	for _, orphan := range result.Orphans {
		fmt.Fprintf(out, "  removed %s\n", orphan)
	}
	if result.Build == nil {
		return nil
	}

	printDiagnostics(out, result.Build.Diagnostics())
	if result.Success() {
		printGenerateSummary(out, result.Build, false)
	} else {
		errCount, noteCount := result.Build.Diagnostics().ErrorCount()
		fmt.Fprint(out, ui.DiagnosticsError(errCount, noteCount, color.NoColor))
	}
	return nil
}
