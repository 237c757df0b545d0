package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "insightctl",
	Short: "Insightboard command line tool",
	Long: `insightctl runs and inspects an Insightboard deployment.

Available commands:
  serve     Start the web server
  flags     Show the build-time feature flags
  topics    List the topics carried on the message bus
  token     Issue a bearer token for the analysis function
  version   Print the version

Use "insightctl [command] --help" for more information about a command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
