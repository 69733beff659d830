package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/cartograph/pkg/adapters/stylefile"
	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/loader"
	"github.com/aretw0/cartograph/pkg/ports"
)

// Code is the text editor for the style document.
type Code struct {
	sink     StyleSink
	registry *loader.StyleRegistry
	format   stylefile.Format
}

// CodeOption configures the Code view.
type CodeOption func(*Code)

// WithCodeFormat selects the serialization shown in the editor.
func WithCodeFormat(f stylefile.Format) CodeOption {
	return func(c *Code) {
		c.format = f
	}
}

// NewCode creates a code editor. Applied text is parsed by registry.
func NewCode(sink StyleSink, registry *loader.StyleRegistry, opts ...CodeOption) *Code {
	c := &Code{sink: sink, registry: registry, format: stylefile.FormatJSON}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements View.
func (c *Code) Name() string { return domain.ViewCode }

// Render returns the style in the configured format.
func (c *Code) Render(_ context.Context, p Props) (string, error) {
	out, err := stylefile.Encode(p.Style, c.format)
	if err != nil {
		return "", fmt.Errorf("failed to encode style: %w", err)
	}
	return string(out), nil
}

// Apply parses text and emits the resulting document.
// On a parse error nothing is emitted.
func (c *Code) Apply(ctx context.Context, text string) error {
	in := ports.Input{Data: []byte(text)}
	// Markup is left unnamed so the SLD source can claim it.
	if !strings.HasPrefix(strings.TrimSpace(text), "<") {
		in.Name = "style." + string(c.format)
	}
	doc, _, err := c.registry.Parse(ctx, in)
	if err != nil {
		return err
	}
	c.sink.OnStyleChanged(doc)
	return nil
}
