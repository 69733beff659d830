package tui

import (
	"github.com/charmbracelet/glamour"

	"github.com/aretw0/cartograph/pkg/view"
)

// NewRenderer returns a markdown renderer for the preview pane.
// A width of zero keeps glamour's default wrapping.
func NewRenderer(width int) view.Markdown {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
