package view

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/schema"
)

// Preview summarises what the map would show: the dataset schema, the rules
// and the feature attributes the style refers to.
type Preview struct {
	markdown Markdown
	now      func() time.Time
}

// PreviewOption configures the Preview.
type PreviewOption func(*Preview)

// WithMarkdown renders the summary through md (e.g. glamour).
func WithMarkdown(md Markdown) PreviewOption {
	return func(p *Preview) {
		p.markdown = md
	}
}

// WithClock overrides the time shown in the footer.
func WithClock(now func() time.Time) PreviewOption {
	return func(p *Preview) {
		p.now = now
	}
}

// NewPreview creates a map preview. Without WithMarkdown it returns raw markdown.
func NewPreview(opts ...PreviewOption) *Preview {
	p := &Preview{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements View.
func (v *Preview) Name() string { return domain.ViewPreview }

// Render builds the markdown summary. Attributes missing from the dataset are
// marked in the output, never reported as errors.
func (v *Preview) Render(_ context.Context, p Props) (string, error) {
	text := p.Locale
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", text.App.PreviewMap)

	if p.Dataset == nil {
		fmt.Fprintf(&b, "_%s_\n\n", text.Editor.NoDataset)
	} else {
		d := p.Dataset
		fmt.Fprintf(&b, "**%s**: %s (%s)\n\n", text.Editor.Dataset, d.Name, d.Format)
		fmt.Fprintf(&b, "**%s**: %d\n\n", text.Editor.Features, d.FeatureCount)
		if len(d.GeometryTypes) > 0 {
			fmt.Fprintf(&b, "Geometry: %s\n\n", strings.Join(d.GeometryTypes, ", "))
		}
		if len(d.Properties) > 0 {
			b.WriteString("| Name | Type |\n|---|---|\n")
			for _, prop := range d.Properties {
				fmt.Fprintf(&b, "| %s | %s |\n", prop.Name, prop.Type)
			}
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "## %s\n\n", p.Style.Name)
	for _, r := range p.Style.Rules {
		fmt.Fprintf(&b, "- **%s**: %s\n", r.Name, kinds(r))
	}
	b.WriteString("\n")

	if refs := ReferencedAttributes(p.Style); len(refs) > 0 {
		fmt.Fprintf(&b, "### %s\n\n", text.Editor.Attributes)
		for _, name := range refs {
			if p.Dataset != nil && !p.Dataset.HasProperty(name) {
				fmt.Fprintf(&b, "- ⚠ `%s` (%s)\n", name, text.Editor.MissingAttribute)
				continue
			}
			fmt.Fprintf(&b, "- `%s`\n", name)
		}
		b.WriteString("\n")
	}

	if issues := schema.Check(p.Style); len(issues) > 0 {
		fmt.Fprintf(&b, "### %s\n\n", text.Editor.InvalidAttribute)
		for _, issue := range issues {
			fmt.Fprintf(&b, "- ⚠ %s\n", issue)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "_%s: %s_\n", text.Editor.LastChanged, text.FormatDate(v.now(), "2 January 2006"))

	if v.markdown == nil {
		return b.String(), nil
	}
	return v.markdown(b.String())
}

var templateRef = regexp.MustCompile(`\{\{\s*([A-Za-z_][\w.-]*)\s*\}\}`)

// ReferencedAttributes lists the feature attributes a style refers to, in
// {{attr}} templates, "property" attributes and filter comparisons.
func ReferencedAttributes(doc domain.StyleDocument) []string {
	seen := make(map[string]bool)
	for _, r := range doc.Rules {
		collectFilter(r.Filter, seen)
		for _, s := range r.Symbolizers {
			for key, val := range s.Attributes {
				str, ok := val.(string)
				if !ok {
					continue
				}
				if key == "property" && str != "" {
					seen[str] = true
				}
				for _, m := range templateRef.FindAllStringSubmatch(str, -1) {
					seen[m[1]] = true
				}
			}
		}
	}
	return sortedKeys(seen)
}

// collectFilter records the property operand of comparison filters,
// e.g. ["==", "type", "river"].
func collectFilter(f []any, seen map[string]bool) {
	if len(f) == 0 {
		return
	}
	op, _ := f[0].(string)
	switch op {
	case "&&", "||", "!":
		for _, sub := range f[1:] {
			if nested, ok := sub.([]any); ok {
				collectFilter(nested, seen)
			}
		}
	case "==", "!=", "<", "<=", ">", ">=", "*=":
		if len(f) > 1 {
			if name, ok := f[1].(string); ok && name != "" {
				seen[name] = true
			}
		}
	}
}
