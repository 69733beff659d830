package domain

import "fmt"

// RendererKind selects how the graphical editor previews symbolizers.
type RendererKind string

const (
	RendererSLD        RendererKind = "SLD"
	RendererOpenLayers RendererKind = "OpenLayers"
)

// RendererKinds lists the supported renderers in settings-bar order.
func RendererKinds() []RendererKind {
	return []RendererKind{RendererOpenLayers, RendererSLD}
}

// ParseRendererKind validates a renderer name.
func ParseRendererKind(s string) (RendererKind, error) {
	switch RendererKind(s) {
	case RendererSLD, RendererOpenLayers:
		return RendererKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRenderer, s)
}

// DisplayPreferences affect only how the graphical editor renders.
type DisplayPreferences struct {
	Compact  bool         `json:"compact" yaml:"compact"`
	Renderer RendererKind `json:"renderer" yaml:"renderer"`
}

// DefaultPreferences returns the preferences of a new session.
func DefaultPreferences() DisplayPreferences {
	return DisplayPreferences{Compact: true, Renderer: RendererSLD}
}

// ExampleDialogState is the transient visibility of the examples dialog.
type ExampleDialogState struct {
	Open bool `json:"open"`
}
