package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// set with -ldflags "-X FxSignals/cmd/app/cmd.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fxsignals version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
