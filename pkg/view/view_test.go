package view_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/cartograph/pkg/adapters/sld"
	"github.com/aretw0/cartograph/pkg/adapters/stylefile"
	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/examples"
	"github.com/aretw0/cartograph/pkg/loader"
	"github.com/aretw0/cartograph/pkg/schema"
	"github.com/aretw0/cartograph/pkg/session"
	"github.com/aretw0/cartograph/pkg/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labelled(t *testing.T) domain.StyleDocument {
	t.Helper()
	ex, err := examples.Builtin().Get(context.Background(), "point-with-label")
	require.NoError(t, err)
	return ex.Style
}

func cities() *domain.DatasetDescription {
	return &domain.DatasetDescription{
		Format:        "GeoJSON",
		Name:          "cities",
		FeatureCount:  3,
		GeometryTypes: []string{"Point"},
		Properties:    []domain.Property{{Name: "name", Type: "string"}, {Name: "pop", Type: "number"}},
	}
}

func TestGraphical_CompactAndFull(t *testing.T) {
	ctrl := session.NewController(session.WithInitialStyle(labelled(t)))
	g := view.NewGraphical(ctrl)
	ctx := context.Background()

	compact, err := g.Render(ctx, view.PropsFrom(ctrl.Snapshot()))
	require.NoError(t, err)
	assert.Contains(t, compact, "Graphical Editor")
	assert.Contains(t, compact, "1. Labelled circle (Symbolizers: Mark, Text)")
	assert.NotContains(t, compact, "wellKnownName")

	ctrl.SetCompactMode(false)
	full, err := g.Render(ctx, view.PropsFrom(ctrl.Snapshot()))
	require.NoError(t, err)
	assert.Contains(t, full, "wellKnownName: Circle")
	assert.Contains(t, full, "label: {{name}}")
	assert.NotContains(t, full, "\x1b[", "no escape codes without a colour profile")
}

func TestGraphical_LocalizedHeader(t *testing.T) {
	ctrl := session.NewController()
	ctrl.SetLanguage("de")
	ctrl.SetRendererKind(domain.RendererOpenLayers)

	out, err := view.NewGraphical(ctrl).Render(context.Background(), view.PropsFrom(ctrl.Snapshot()))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Grafischer Editor"))
	assert.Contains(t, out, "OpenLayers")
}

func TestGraphical_EditsAreCopyOnWrite(t *testing.T) {
	ctrl := session.NewController(session.WithInitialStyle(labelled(t)))
	g := view.NewGraphical(ctrl)
	original := ctrl.Snapshot().Style

	require.NoError(t, g.RenameRule(original, 0, "Towns"))
	assert.Equal(t, "Towns", ctrl.Snapshot().Style.Rules[0].Name)
	assert.Equal(t, "Labelled circle", original.Rules[0].Name)

	require.NoError(t, g.SetSymbolizerAttribute(ctrl.Snapshot().Style, 0, 0, "color", "#123456"))
	assert.Equal(t, "#123456", ctrl.Snapshot().Style.Rules[0].Symbolizers[0].Attributes["color"])
	assert.Equal(t, "#008000", original.Rules[0].Symbolizers[0].Attributes["color"])

	g.AddRule(ctrl.Snapshot().Style, "Extra")
	assert.Len(t, ctrl.Snapshot().Style.Rules, 2)

	require.NoError(t, g.RemoveRule(ctrl.Snapshot().Style, 0))
	require.Len(t, ctrl.Snapshot().Style.Rules, 1)
	assert.Equal(t, "Extra", ctrl.Snapshot().Style.Rules[0].Name)

	version := ctrl.Snapshot().Version
	assert.ErrorIs(t, g.RemoveRule(ctrl.Snapshot().Style, 5), view.ErrRuleIndex)
	assert.ErrorIs(t, g.SetSymbolizerAttribute(ctrl.Snapshot().Style, 0, 9, "color", "#fff"), view.ErrSymbolizerIndex)
	var invalid *schema.ValidationError
	assert.ErrorAs(t, g.SetSymbolizerAttribute(ctrl.Snapshot().Style, 0, 0, "radius", "big"), &invalid)
	assert.Equal(t, version, ctrl.Snapshot().Version)
}

func TestCode_RenderAndApply(t *testing.T) {
	ctrl := session.NewController()
	registry := loader.NewRegistry[domain.StyleDocument](sld.New(), stylefile.New())
	code := view.NewCode(ctrl, registry, view.WithCodeFormat(stylefile.FormatYAML))
	ctx := context.Background()

	text, err := code.Render(ctx, view.PropsFrom(ctrl.Snapshot()))
	require.NoError(t, err)
	assert.Contains(t, text, "name: Demo Style")

	edited := strings.Replace(text, "Demo Style", "Edited Style", 1)
	require.NoError(t, code.Apply(ctx, edited))
	assert.Equal(t, "Edited Style", ctrl.Snapshot().Style.Name)
}

func TestCode_ApplyYAMLWithPreamble(t *testing.T) {
	registry := loader.NewRegistry[domain.StyleDocument](sld.New(), stylefile.New())
	for _, text := range []string{
		"# edited\nname: Edited\nrules: []\n",
		"---\nname: Edited\nrules: []\n",
	} {
		ctrl := session.NewController()
		code := view.NewCode(ctrl, registry, view.WithCodeFormat(stylefile.FormatYAML))
		require.NoError(t, code.Apply(context.Background(), text), text)
		assert.Equal(t, "Edited", ctrl.Snapshot().Style.Name)
	}
}

func TestCode_ApplySLDInYAMLEditor(t *testing.T) {
	ctrl := session.NewController()
	registry := loader.NewRegistry[domain.StyleDocument](sld.New(), stylefile.New())
	code := view.NewCode(ctrl, registry, view.WithCodeFormat(stylefile.FormatYAML))

	doc := `<?xml version="1.0"?>
<StyledLayerDescriptor version="1.0.0" xmlns="http://www.opengis.net/sld">
  <NamedLayer><Name>roads</Name><UserStyle><Name>Roads</Name>
    <FeatureTypeStyle><Rule><Name>all</Name>
      <LineSymbolizer><Stroke><CssParameter name="stroke">#ff0000</CssParameter></Stroke></LineSymbolizer>
    </Rule></FeatureTypeStyle>
  </UserStyle></NamedLayer>
</StyledLayerDescriptor>`
	require.NoError(t, code.Apply(context.Background(), doc))
	require.Len(t, ctrl.Snapshot().Style.Rules, 1)
}

func TestCode_ApplyParseErrorEmitsNothing(t *testing.T) {
	ctrl := session.NewController()
	registry := loader.NewRegistry[domain.StyleDocument](sld.New(), stylefile.New())
	code := view.NewCode(ctrl, registry)
	before := ctrl.Snapshot()

	err := code.Apply(context.Background(), `{"name": "broken", "rules": [`)
	var perr *domain.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Same(t, before, ctrl.Snapshot())
}

func TestPreview_FlagsMissingAttributes(t *testing.T) {
	style := labelled(t)
	style.Rules[0].Filter = []any{"&&", []any{">", "pop", 1000.0}, []any{"==", "kind", "capital"}}
	clock := func() time.Time { return time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC) }

	p := view.Props{
		Style:       style,
		Dataset:     cities(),
		Preferences: domain.DefaultPreferences(),
		Locale:      session.NewController().Snapshot().Locale,
	}
	out, err := view.NewPreview(view.WithClock(clock)).Render(context.Background(), p)
	require.NoError(t, err)

	assert.Contains(t, out, "# Preview Map")
	assert.Contains(t, out, "**Dataset**: cities (GeoJSON)")
	assert.Contains(t, out, "- `name`")
	assert.Contains(t, out, "- `pop`")
	assert.Contains(t, out, "- ⚠ `kind` (attribute not in dataset)")
	assert.Contains(t, out, "5 March 2024")
}

func TestPreview_FlagsInvalidAttributes(t *testing.T) {
	style := labelled(t)
	style.Rules[0].Symbolizers[0].Attributes["color"] = "green"

	out, err := view.NewPreview().Render(context.Background(), view.Props{
		Style:       style,
		Preferences: domain.DefaultPreferences(),
		Locale:      session.NewController().Snapshot().Locale,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "### Invalid attributes")
	assert.Contains(t, out, "- ⚠ Labelled circle / Mark: field \"color\"")
}

func TestPreview_NoDataset(t *testing.T) {
	ctrl := session.NewController(session.WithInitialStyle(labelled(t)))
	ctrl.SetLanguage("es")

	out, err := view.NewPreview().Render(context.Background(), view.PropsFrom(ctrl.Snapshot()))
	require.NoError(t, err)
	assert.Contains(t, out, "No hay datos cargados")
	assert.Contains(t, out, "- `name`")
	assert.NotContains(t, out, "⚠")
}

func TestPreview_MarkdownRenderer(t *testing.T) {
	md := func(s string) (string, error) { return strings.ToUpper(s), nil }
	out, err := view.NewPreview(view.WithMarkdown(md)).Render(context.Background(), view.PropsFrom(session.NewController().Snapshot()))
	require.NoError(t, err)
	assert.Contains(t, out, "# PREVIEW MAP")
}

func TestReferencedAttributes(t *testing.T) {
	doc := domain.StyleDocument{Rules: []domain.Rule{{
		Filter: []any{"==", "type", "river"},
		Symbolizers: []domain.Symbolizer{
			domain.NewSymbolizer(domain.KindText, map[string]any{"label": "{{ name }} ({{ref}})"}),
			domain.NewSymbolizer(domain.KindFill, map[string]any{"property": "landuse", "color": "#fff"}),
		},
	}}}
	assert.Equal(t, []string{"landuse", "name", "ref", "type"}, view.ReferencedAttributes(doc))
}

func TestSettings_Render(t *testing.T) {
	ctrl := session.NewController()
	ctrl.SetLanguage("de")

	out, err := view.NewSettings().Render(context.Background(), view.PropsFrom(ctrl.Snapshot()))
	require.NoError(t, err)
	assert.Contains(t, out, "Sprache: EN [DE] ES")
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "(*) SLD")
	assert.Contains(t, out, "( ) OpenLayers")
}
