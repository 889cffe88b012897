package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/spotcheck"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of spotcheck",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "spotcheck version %s\n", strings.TrimSpace(spotcheck.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
