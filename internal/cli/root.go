// Package cli wires the tinct command line: the root command is the
// stream processor, with subcommands for theme and config management.
package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/tinct/internal/version"
	"github.com/arthur-debert/tinct/pkg/logging"
	"github.com/arthur-debert/tinct/pkg/paths"
)

// rootOptions collects the root command's flags. Values left at their
// zero state defer to the config file.
type rootOptions struct {
	theme    string
	filter   string
	width    int
	align    string
	noColor  bool
	fallback bool
	noCache  bool
	config   string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		opts      rootOptions
	)

	rootCmd := &cobra.Command{
		Use:     "tinct",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, paths.New(), &opts)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.config, "config", "", MsgFlagConfig)

	// Highlighting flags
	rootCmd.Flags().StringVarP(&opts.theme, "theme", "t", "", MsgFlagTheme)
	rootCmd.Flags().StringVarP(&opts.filter, "filter", "f", "", MsgFlagFilter)
	rootCmd.Flags().IntVarP(&opts.width, "width", "w", 0, MsgFlagWidth)
	rootCmd.Flags().StringVarP(&opts.align, "align", "a", "", MsgFlagAlign)
	rootCmd.Flags().BoolVar(&opts.noColor, "no-color", false, MsgFlagNoColor)
	rootCmd.Flags().BoolVar(&opts.fallback, "fallback", false, MsgFlagFallback)
	rootCmd.Flags().BoolVar(&opts.noCache, "no-cache", false, MsgFlagNoCache)

	rootCmd.AddCommand(newThemeCmd())
	rootCmd.AddCommand(newConfigCmd(&opts))
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: MsgVersionShort,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tinct version %s\n", version.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.Date)
	},
}
