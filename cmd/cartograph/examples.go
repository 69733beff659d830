package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "List the example styles",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, false)
		if err != nil {
			return err
		}
		list, err := s.editor.Examples(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tRULES")
		for _, ex := range list {
			fmt.Fprintf(w, "%s\t%s\t%d\n", ex.ID, ex.Title, len(ex.Style.Rules))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(examplesCmd)
}
