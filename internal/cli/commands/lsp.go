package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/conduit-lang/propkit/internal/lsp"
	"github.com/conduit-lang/propkit/internal/tooling"
)

// NewLSPCommand creates the LSP command
func NewLSPCommand(flags *globalFlags) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the propkit Language Server Protocol (LSP) server.

The server analyzes open Go files and provides:
  • Diagnostics for container and property annotations
  • Completion of directives, ids and struct tag options
  • Hover with property metadata
  • Go-to-definition and find references by property id
  • Document and workspace symbols

The LSP server communicates via JSON-RPC over stdin/stdout.
It is typically started automatically by your editor.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol, so the config is read without a
			// project logger
			cfg := &tooling.Config{}
			if p, err := loadProject(flags); err == nil {
				cfg.CacheSize = p.config.LSP.CacheSize
				cfg.TagKey = p.config.Generate.TagKey
				cfg.Qualifiers = p.config.Types.Qualifiers
			}

			logger, err := lspLogger(flags.verbose, logFile)
			if err != nil {
				return err
			}
			defer logger.Sync()

			server := lsp.NewServerWithConfig(cfg, logger, Version)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Write server logs to this file")

	return cmd
}

// lspLogger logs to stderr or logFile, never stdout
func lspLogger(verbose bool, logFile string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if logFile != "" {
		cfg.OutputPaths = []string{logFile}
	}
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
