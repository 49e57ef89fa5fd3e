package cli

import (
	"github.com/mgpai22/subplay/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
	logger     *logging.Logger = logging.Nop()
)

// NewRootCmd builds the subplay command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "subplay",
		Short: "Subtitle overlay player for ASS scripts",
		Long: `Subplay parses an ASS subtitle script, resolves which dialogue line is
active at any playback position, and decodes its inline style tags.

The script is loaded from a local file, a URL, or the built-in sample,
in that order, falling through on failure.

Settings can also come from a YAML file (--config) or from SUBPLAY_*
environment variables, e.g. SUBPLAY_METRICS_ADDR=:9090.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger(verbose)
		},
	}

	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "", "Config file (YAML)")

	rootCmd.AddCommand(
		newEventsCmd(),
		newAtCmd(),
		newPlayCmd(),
		newProbeCmd(),
	)

	return rootCmd
}

func Execute() error {
	return NewRootCmd().Execute()
}
