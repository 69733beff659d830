package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`   ____           _                              _     `, "#0e7490"},
	{`  / ___|__ _ _ __| |_ ___   __ _ _ __ __ _ _ __ | |__  `, "#0891b2"},
	{` | |   / _' | '__| __/ _ \ / _' | '__/ _' | '_ \| '_ \ `, "#06b6d4"},
	{` | |__| (_| | |  | || (_) | (_| | | | (_| | |_) | | | |`, "#22d3ee"},
	{`  \____\__,_|_|   \__\___/ \__, |_|  \__,_| .__/|_| |_|`, "#34d399"},
	{`                           |___/          |_|          `, "#4ade80"},
}

// PrintBanner writes the Cartograph banner and version to w.
// Colours follow the terminal profile of w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.NewOutput(w).ColorProfile()

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, p.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Fprintln(w, p.String(fmt.Sprintf("  style editor session v%s", version)).Faint())
	fmt.Fprintln(w)
}
