package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/skillcheck/cmd"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, build date, and Go version of skillcheck.`,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("skillcheck version %s\n", cmd.Version)
		fmt.Printf("  commit:    %s\n", cmd.Commit)
		fmt.Printf("  built:     %s\n", cmd.Date)
		fmt.Printf("  go:        %s\n", runtime.Version())
	},
}
