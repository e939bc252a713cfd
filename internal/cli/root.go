package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/buildinfo"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/config"
)

// configFlag holds the --config persistent flag value.
var configFlag string

// Execute runs the stirling CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (enumerate,
// count, tree, tui, serve, completion), configures logging based on the
// --verbose flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "stirling",
		Short:        "stirling enumerates set partitions and animates the Stirling recurrence",
		Long: `stirling is a CLI tool for exploring set partitions: it walks every
partition of {1..n} in lexicographic order using restricted growth strings,
counts them via Stirling and Bell numbers, and renders the recursion tree of
S(n,k) = k*S(n-1,k) + S(n-1,k-1) step by step for animation.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configFlag, "config", "", "path to TOML config file")

	root.AddCommand(newEnumerateCmd())
	root.AddCommand(newCountCmd())
	root.AddCommand(newTreeCmd())
	root.AddCommand(newTUICmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}

// loadConfig reads the file named by --config, or returns defaults when the
// flag is unset.
func loadConfig() (config.Config, error) {
	return config.Load(configFlag)
}
