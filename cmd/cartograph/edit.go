package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/cartograph/internal/presentation/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the interactive terminal editor",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, true)
		if err != nil {
			return err
		}
		if !isTerminal(stdout) {
			return fmt.Errorf("edit needs a terminal; use 'cartograph preview' instead")
		}
		return tui.Run(cmd.Context(), s.editor)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
