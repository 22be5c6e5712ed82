package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "survey-sweeper %s (commit: %s, built: %s)\n", Version, Commit, Date)
		fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
	},
}
