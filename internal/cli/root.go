package cli

import (
	"fmt"
	"log/slog"
	"os"

	"cutlist-editor/internal/platform/logger"

	"github.com/spf13/cobra"
)

type options struct {
	logLevel string
	format   string
	log      *slog.Logger
}

// NewRootCmd builds the cutlist command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "cutlist",
		Short: "Inspect and edit recording cut lists",
		Long: `cutlist works on cut-list files: an ordered set of segments that
cover a recording, each either kept or deleted.

Files are JSON unless their extension is .yaml or .yml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.log = logger.NewWithWriter(cmd.ErrOrStderr(), opts.logLevel, "text")
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newValidateCmd(opts),
		newEditCmd(opts),
		newApplyCmd(opts),
		newSummaryCmd(opts),
		newFormatCmd(),
		newParseCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
