package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wizsearch version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wizsearch %s\n", build)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
