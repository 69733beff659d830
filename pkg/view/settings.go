package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/locale"
)

// Settings renders the settings bar.
type Settings struct{}

// NewSettings creates the settings bar.
func NewSettings() *Settings { return &Settings{} }

// Name implements View.
func (s *Settings) Name() string { return domain.ViewSettings }

// Render prints the language, compact and renderer controls followed by the
// load and example actions.
func (s *Settings) Render(_ context.Context, p Props) (string, error) {
	text := p.Locale

	langs := make([]string, 0, len(locale.Tags()))
	for _, tag := range locale.Tags() {
		label := strings.ToUpper(tag)
		if tag == text.Language {
			label = "[" + label + "]"
		}
		langs = append(langs, label)
	}

	compact := "[ ]"
	if p.Preferences.Compact {
		compact = "[x]"
	}

	renderers := make([]string, 0, 2)
	for _, k := range domain.RendererKinds() {
		mark := "( )"
		if k == p.Preferences.Renderer {
			mark = "(*)"
		}
		renderers = append(renderers, fmt.Sprintf("%s %s", mark, k))
	}

	return fmt.Sprintf("%s: %s | %s %s | %s: %s | <%s> <%s> <%s>",
		text.App.Language, strings.Join(langs, " "),
		compact, text.App.Compact,
		text.App.SymbolizerRenderer, strings.Join(renderers, " "),
		text.Editor.LoadStyle, text.Editor.LoadData, text.App.Examples,
	), nil
}
