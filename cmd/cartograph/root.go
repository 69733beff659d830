package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cartograph",
	Short: "Cartograph is a cartographic style editor session",
	Long: `Cartograph edits map styles (SLD, GeoStyler JSON/YAML) against sample data
(GeoJSON, Shapefile, WFS) from the terminal, over HTTP, or through MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default ./cartograph.yaml if present)")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("lang", "", "UI language (en, de, es)")
	flags.String("renderer", "", "Symbolizer renderer: SLD or OpenLayers")
	flags.Bool("compact", true, "Compact rule list in the graphical editor")
	flags.String("examples", "", "Directory of example styles replacing the built-in catalog")
	flags.String("policy", "", "Concurrent load policy: last-completed or latest-request")
	flags.String("style", "", "Style file to load at startup")
	flags.String("data", "", "Dataset file or WFS URL to load at startup")
}
