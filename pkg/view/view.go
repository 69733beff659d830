package view

import (
	"context"
	"errors"

	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/locale"
)

// ErrRuleIndex is returned by edits addressing a rule that does not exist.
var ErrRuleIndex = errors.New("rule index out of range")

// ErrSymbolizerIndex is returned by edits addressing a missing symbolizer.
var ErrSymbolizerIndex = errors.New("symbolizer index out of range")

// Props is everything a view needs, taken from a single snapshot.
type Props struct {
	Version     uint64
	Style       domain.StyleDocument
	Dataset     *domain.DatasetDescription
	Preferences domain.DisplayPreferences
	Locale      *locale.Bundle
}

// PropsFrom builds the props of every view from snap.
func PropsFrom(snap *domain.Snapshot) Props {
	return Props{
		Version:     snap.Version,
		Style:       snap.Style,
		Dataset:     snap.Dataset,
		Preferences: snap.Preferences,
		Locale:      snap.Locale,
	}
}

// View renders one pane.
type View interface {
	Name() string
	Render(ctx context.Context, p Props) (string, error)
}

// StyleSink accepts edited documents. The session controller implements it.
type StyleSink interface {
	OnStyleChanged(doc domain.StyleDocument)
}

// Markdown turns markdown into terminal output.
type Markdown func(string) (string, error)
