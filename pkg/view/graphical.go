package view

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/schema"
)

// Graphical is the rule editor.
type Graphical struct {
	sink    StyleSink
	profile termenv.Profile
}

// GraphicalOption configures the Graphical view.
type GraphicalOption func(*Graphical)

// WithColorProfile enables colours for the given terminal profile.
func WithColorProfile(p termenv.Profile) GraphicalOption {
	return func(g *Graphical) {
		g.profile = p
	}
}

// NewGraphical creates a rule editor sending edits to sink.
// Output is plain text unless a colour profile is configured.
func NewGraphical(sink StyleSink, opts ...GraphicalOption) *Graphical {
	g := &Graphical{sink: sink, profile: termenv.Ascii}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name implements View.
func (g *Graphical) Name() string { return domain.ViewGraphical }

// Render lists the rules. Compact mode prints one line per rule; otherwise
// every symbolizer attribute is shown.
func (g *Graphical) Render(_ context.Context, p Props) (string, error) {
	text := p.Locale
	var b strings.Builder

	title := g.profile.String(text.App.GraphicalEditor).Bold()
	fmt.Fprintf(&b, "%s  %s: %s\n", title, text.App.SymbolizerRenderer, p.Preferences.Renderer)
	fmt.Fprintf(&b, "%s\n", p.Style.Name)

	for i, r := range p.Style.Rules {
		name := g.profile.String(r.Name).Foreground(g.profile.Color("#a78bfa"))
		if p.Preferences.Compact {
			fmt.Fprintf(&b, "%d. %s (%s: %s)%s\n", i+1, name, text.Editor.Symbolizers, kinds(r), scaleSuffix(r))
			continue
		}

		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, text.Editor.RuleName, name)
		if len(r.Filter) > 0 {
			fmt.Fprintf(&b, "   %s: %s\n", text.Editor.Filter, formatFilter(r.Filter))
		}
		if s := scaleRange(r); s != "" {
			fmt.Fprintf(&b, "   %s: %s\n", text.Editor.Scale, s)
		}
		fmt.Fprintf(&b, "   %s:\n", text.Editor.Symbolizers)
		for _, sym := range r.Symbolizers {
			fmt.Fprintf(&b, "   - %s\n", sym.Kind)
			for _, key := range sym.AttributeKeys() {
				fmt.Fprintf(&b, "       %s: %s\n", key, g.value(key, sym.Attributes[key]))
			}
		}
	}
	return b.String(), nil
}

// value formats an attribute, adding a swatch for colours.
func (g *Graphical) value(key string, v any) string {
	s := fmt.Sprint(v)
	if g.profile == termenv.Ascii || !strings.HasSuffix(strings.ToLower(key), "color") || !strings.HasPrefix(s, "#") {
		return s
	}
	return g.profile.String("■").Foreground(g.profile.Color(s)).String() + " " + s
}

// RenameRule emits a copy of doc with rule i renamed.
func (g *Graphical) RenameRule(doc domain.StyleDocument, i int, name string) error {
	if i < 0 || i >= len(doc.Rules) {
		return ErrRuleIndex
	}
	next := doc.Clone()
	next.Rules[i].Name = name
	g.sink.OnStyleChanged(next)
	return nil
}

// AddRule emits a copy of doc with a new default rule appended.
func (g *Graphical) AddRule(doc domain.StyleDocument, name string) {
	next := doc.Clone()
	next.Rules = append(next.Rules, domain.Rule{
		Name:        name,
		Symbolizers: []domain.Symbolizer{domain.NewSymbolizer(domain.KindMark, map[string]any{"wellKnownName": "Circle"})},
	})
	g.sink.OnStyleChanged(next)
}

// RemoveRule emits a copy of doc without rule i.
func (g *Graphical) RemoveRule(doc domain.StyleDocument, i int) error {
	if i < 0 || i >= len(doc.Rules) {
		return ErrRuleIndex
	}
	next := doc.Clone()
	next.Rules = append(next.Rules[:i], next.Rules[i+1:]...)
	g.sink.OnStyleChanged(next)
	return nil
}

// SetSymbolizerAttribute emits a copy of doc with one attribute changed.
// Values that do not fit the attribute's schema are rejected.
func (g *Graphical) SetSymbolizerAttribute(doc domain.StyleDocument, rule, sym int, key string, value any) error {
	if rule < 0 || rule >= len(doc.Rules) {
		return ErrRuleIndex
	}
	if sym < 0 || sym >= len(doc.Rules[rule].Symbolizers) {
		return ErrSymbolizerIndex
	}
	if err := schema.ValidateAttribute(doc.Rules[rule].Symbolizers[sym].Kind, key, value); err != nil {
		return err
	}
	next := doc.Clone()
	s := &next.Rules[rule].Symbolizers[sym]
	if s.Attributes == nil {
		s.Attributes = make(map[string]any)
	}
	s.Attributes[key] = value
	g.sink.OnStyleChanged(next)
	return nil
}

func kinds(r domain.Rule) string {
	if len(r.Symbolizers) == 0 {
		return "-"
	}
	names := make([]string, len(r.Symbolizers))
	for i, s := range r.Symbolizers {
		names[i] = string(s.Kind)
	}
	return strings.Join(names, ", ")
}

func scaleSuffix(r domain.Rule) string {
	if s := scaleRange(r); s != "" {
		return " [" + s + "]"
	}
	return ""
}

func scaleRange(r domain.Rule) string {
	sd := r.ScaleDenominator
	if sd == nil || (sd.Min == nil && sd.Max == nil) {
		return ""
	}
	lo, hi := "0", "∞"
	if sd.Min != nil {
		lo = fmt.Sprintf("1:%g", *sd.Min)
	}
	if sd.Max != nil {
		hi = fmt.Sprintf("1:%g", *sd.Max)
	}
	return lo + " - " + hi
}

// formatFilter prints a filter expression in prefix notation.
func formatFilter(f []any) string {
	parts := make([]string, 0, len(f))
	for _, item := range f {
		switch v := item.(type) {
		case []any:
			parts = append(parts, "("+formatFilter(v)+")")
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, " ")
}

// sortedKeys returns the keys of m in order.
func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
