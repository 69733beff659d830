package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/cartograph/pkg/domain"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the editor views once and exit",
	Long: `Renders the settings bar and every editor pane for the configured session.
Combine with --style and --data to inspect files without opening the editor.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, true)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		name, _ := cmd.Flags().GetString("view")
		if name != "" {
			text, err := s.editor.Render(ctx, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, text)
			return nil
		}

		frame, err := s.editor.Frame(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(out, frame.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().String("view", "", fmt.Sprintf("Render only one view: %s, %s, %s or %s",
		domain.ViewGraphical, domain.ViewCode, domain.ViewPreview, domain.ViewSettings))
}
