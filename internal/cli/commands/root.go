package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/propkit/internal/cli/config"
	"github.com/conduit-lang/propkit/internal/cli/ui"
	"github.com/conduit-lang/propkit/internal/compiler/errors"
	"github.com/conduit-lang/propkit/internal/tooling/build"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// globalFlags are the persistent flags shared by every subcommand
type globalFlags struct {
	dir     string
	verbose bool
	noColor bool
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "propkit",
		Short: "Property metadata generator for annotated Go types",
		Long: color.CyanString(`propkit - compile-time property metadata for Go

propkit reads struct types marked with //propkit:container and their members
marked with //propkit:property, then generates an ordered property registry
next to each source file.

Features:
  • Stable property ids checked for duplicates
  • Stored and computed properties with access classification
  • Value-kind classification of member types
  • Editor diagnostics through the language server`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", "", "Module directory (default: nearest propkit.yml or go.mod)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Show verbose output")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewGenerateCommand(flags))
	rootCmd.AddCommand(NewCheckCommand(flags))
	rootCmd.AddCommand(NewInspectCommand(flags))
	rootCmd.AddCommand(NewWatchCommand(flags))
	rootCmd.AddCommand(NewCleanCommand(flags))
	rootCmd.AddCommand(NewLSPCommand(flags))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the propkit version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			kv := ui.NewKeyValueTable(cmd.OutOrStdout(), color.NoColor)
			kv.AddRow("propkit version", Version)
			kv.AddRow("Git commit", GitCommit)
			kv.AddRow("Build date", BuildDate)
			kv.AddRow("Go version", goVer)
			kv.Render()
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// project is the resolved working context of a command
type project struct {
	dir string
	// workDir resolves package arguments: --dir when given, else the
	// current directory
	workDir string
	config  *config.Config
	logger  *zap.Logger
}

// loadProject resolves the module directory, loads its configuration and
// builds the logger
func loadProject(flags *globalFlags) (*project, error) {
	dir := flags.dir
	workDir := flags.dir
	if dir == "" {
		root, err := config.GetProjectRoot()
		if err != nil {
			return nil, err
		}
		dir = root

		if workDir, err = os.Getwd(); err != nil {
			return nil, err
		}
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if workDir, err = filepath.Abs(workDir); err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("%s", ui.ConfigError(err.Error(), color.NoColor))
	}

	logger, err := newLogger(flags.verbose)
	if err != nil {
		return nil, err
	}

	return &project{dir: dir, workDir: workDir, config: cfg, logger: logger}, nil
}

// buildOptions returns build options for the project. Explicit package
// arguments replace the configured patterns and resolve against workDir, so
// `propkit generate .` under go:generate loads the package it runs in.
func (p *project) buildOptions(args []string) *build.Options {
	opts := p.config.BuildOptions(p.dir)
	if len(args) > 0 {
		opts.Dir = p.workDir
		opts.Patterns = args
	}
	opts.Logger = p.logger
	return opts
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// printDiagnostics writes each diagnostic in file:line:col form followed by
// a summary. It returns the error and note counts.
func printDiagnostics(w io.Writer, list errors.List) (errCount, noteCount int) {
	for _, d := range list {
		fmt.Fprintln(w, errors.FormatForTerminal(d))
	}
	return list.ErrorCount()
}
