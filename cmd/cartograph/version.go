package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/cartograph"
	"github.com/aretw0/cartograph/internal/presentation/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of cartograph",
	Run: func(cmd *cobra.Command, args []string) {
		if isTerminal(stdout) {
			tui.PrintBanner(cmd.OutOrStdout(), cartograph.Version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cartograph version %s\n", cartograph.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
