// Package sld adapts Styled Layer Descriptor (SLD 1.0/1.1) documents to style documents.
//
// Only the subset needed by the graphical editor is mapped: rules, scale denominators,
// simple comparison filters and point, line, polygon and text symbolizers.
package sld

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/ports"
)

// FormatName is reported in parse errors.
const FormatName = "SLD"

// ErrNoStyle is returned when the document has no UserStyle.
var ErrNoStyle = errors.New("no UserStyle found")

type styledLayerDescriptor struct {
	XMLName     xml.Name     `xml:"StyledLayerDescriptor"`
	NamedLayers []namedLayer `xml:"NamedLayer"`
}

type namedLayer struct {
	Name       string      `xml:"Name"`
	UserStyles []userStyle `xml:"UserStyle"`
}

type userStyle struct {
	Name              string             `xml:"Name"`
	Title             string             `xml:"Title"`
	FeatureTypeStyles []featureTypeStyle `xml:"FeatureTypeStyle"`
}

type featureTypeStyle struct {
	Rules []rule `xml:"Rule"`
}

type rule struct {
	Name                string              `xml:"Name"`
	Title               string              `xml:"Title"`
	Filter              *filter             `xml:"Filter"`
	MinScaleDenominator *float64            `xml:"MinScaleDenominator"`
	MaxScaleDenominator *float64            `xml:"MaxScaleDenominator"`
	Points              []pointSymbolizer   `xml:"PointSymbolizer"`
	Lines               []lineSymbolizer    `xml:"LineSymbolizer"`
	Polygons            []polygonSymbolizer `xml:"PolygonSymbolizer"`
	Texts               []textSymbolizer    `xml:"TextSymbolizer"`
}

type filter struct {
	EqualTo     *comparison `xml:"PropertyIsEqualTo"`
	NotEqualTo  *comparison `xml:"PropertyIsNotEqualTo"`
	LessThan    *comparison `xml:"PropertyIsLessThan"`
	GreaterThan *comparison `xml:"PropertyIsGreaterThan"`
}

type comparison struct {
	PropertyName string `xml:"PropertyName"`
	Literal      string `xml:"Literal"`
}

// parameter covers both CssParameter (1.0) and SvgParameter (1.1).
type parameter struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type paint struct {
	CSS []parameter `xml:"CssParameter"`
	SVG []parameter `xml:"SvgParameter"`
}

func (p *paint) get(name string) string {
	if p == nil {
		return ""
	}
	for _, params := range [][]parameter{p.CSS, p.SVG} {
		for _, param := range params {
			if param.Name == name {
				return strings.TrimSpace(param.Value)
			}
		}
	}
	return ""
}

type mark struct {
	WellKnownName string `xml:"WellKnownName"`
	Fill          *paint `xml:"Fill"`
	Stroke        *paint `xml:"Stroke"`
}

type externalGraphic struct {
	OnlineResource struct {
		Href string `xml:"href,attr"`
	} `xml:"OnlineResource"`
	Format string `xml:"Format"`
}

type graphic struct {
	Mark            *mark            `xml:"Mark"`
	ExternalGraphic *externalGraphic `xml:"ExternalGraphic"`
	Size            string           `xml:"Size"`
	Opacity         string           `xml:"Opacity"`
	Rotation        string           `xml:"Rotation"`
}

type pointSymbolizer struct {
	Graphic graphic `xml:"Graphic"`
}

type lineSymbolizer struct {
	Stroke *paint `xml:"Stroke"`
}

type polygonSymbolizer struct {
	Fill   *paint `xml:"Fill"`
	Stroke *paint `xml:"Stroke"`
}

type textSymbolizer struct {
	Label struct {
		PropertyName string `xml:"PropertyName"`
		Text         string `xml:",chardata"`
	} `xml:"Label"`
	Font *paint `xml:"Font"`
	Fill *paint `xml:"Fill"`
}

// Source implements ports.StyleSource for SLD documents.
type Source struct{}

var _ ports.StyleSource = (*Source)(nil)

// New creates an SLD source.
func New() *Source {
	return &Source{}
}

// Name implements ports.Source.
func (s *Source) Name() string { return FormatName }

// CanHandle accepts .sld files and XML content with a StyledLayerDescriptor root.
func (s *Source) CanHandle(in ports.Input) bool {
	switch in.Ext() {
	case ".sld":
		return true
	case ".xml", "":
		return bytes.Contains(in.Data, []byte("StyledLayerDescriptor"))
	}
	return false
}

// Parse maps the first UserStyle of the document.
func (s *Source) Parse(ctx context.Context, in ports.Input) (domain.StyleDocument, error) {
	if err := ctx.Err(); err != nil {
		return domain.StyleDocument{}, err
	}

	var doc styledLayerDescriptor
	if err := xml.Unmarshal(in.Data, &doc); err != nil {
		return domain.StyleDocument{}, fmt.Errorf("invalid SLD: %w", err)
	}

	for _, layer := range doc.NamedLayers {
		if len(layer.UserStyles) > 0 {
			return convertStyle(layer, layer.UserStyles[0]), nil
		}
	}
	return domain.StyleDocument{}, ErrNoStyle
}

func convertStyle(layer namedLayer, us userStyle) domain.StyleDocument {
	name := firstNonEmpty(us.Title, us.Name, layer.Name)
	out := domain.StyleDocument{Name: name, Rules: []domain.Rule{}}

	for _, fts := range us.FeatureTypeStyles {
		for _, r := range fts.Rules {
			out.Rules = append(out.Rules, convertRule(r, len(out.Rules)+1))
		}
	}
	return out
}

func convertRule(r rule, position int) domain.Rule {
	out := domain.Rule{
		Name:        firstNonEmpty(r.Name, r.Title, fmt.Sprintf("Rule %d", position)),
		Symbolizers: []domain.Symbolizer{},
	}

	if r.MinScaleDenominator != nil || r.MaxScaleDenominator != nil {
		out.ScaleDenominator = &domain.ScaleDenominator{
			Min: r.MinScaleDenominator,
			Max: r.MaxScaleDenominator,
		}
	}
	if r.Filter != nil {
		out.Filter = convertFilter(r.Filter)
	}

	for _, p := range r.Points {
		out.Symbolizers = append(out.Symbolizers, convertPoint(p))
	}
	for _, l := range r.Lines {
		attrs := map[string]any{}
		setString(attrs, "color", l.Stroke.get("stroke"))
		setNumber(attrs, "width", l.Stroke.get("stroke-width"))
		setNumber(attrs, "opacity", l.Stroke.get("stroke-opacity"))
		setString(attrs, "cap", l.Stroke.get("stroke-linecap"))
		setString(attrs, "join", l.Stroke.get("stroke-linejoin"))
		if dash := parseNumbers(l.Stroke.get("stroke-dasharray")); len(dash) > 0 {
			attrs["dasharray"] = dash
		}
		out.Symbolizers = append(out.Symbolizers, domain.NewSymbolizer(domain.KindLine, attrs))
	}
	for _, p := range r.Polygons {
		attrs := map[string]any{}
		setString(attrs, "color", p.Fill.get("fill"))
		setNumber(attrs, "opacity", p.Fill.get("fill-opacity"))
		setString(attrs, "outlineColor", p.Stroke.get("stroke"))
		setNumber(attrs, "outlineWidth", p.Stroke.get("stroke-width"))
		setNumber(attrs, "outlineOpacity", p.Stroke.get("stroke-opacity"))
		out.Symbolizers = append(out.Symbolizers, domain.NewSymbolizer(domain.KindFill, attrs))
	}
	for _, t := range r.Texts {
		attrs := map[string]any{}
		if prop := strings.TrimSpace(t.Label.PropertyName); prop != "" {
			attrs["label"] = "{{" + prop + "}}"
		} else {
			setString(attrs, "label", strings.TrimSpace(t.Label.Text))
		}
		if family := t.Font.get("font-family"); family != "" {
			attrs["font"] = []any{family}
		}
		setNumber(attrs, "size", t.Font.get("font-size"))
		setString(attrs, "color", t.Fill.get("fill"))
		out.Symbolizers = append(out.Symbolizers, domain.NewSymbolizer(domain.KindText, attrs))
	}
	return out
}

func convertPoint(p pointSymbolizer) domain.Symbolizer {
	g := p.Graphic
	attrs := map[string]any{}
	setNumber(attrs, "opacity", g.Opacity)
	setNumber(attrs, "rotate", g.Rotation)

	if g.ExternalGraphic != nil {
		setString(attrs, "image", g.ExternalGraphic.OnlineResource.Href)
		setNumber(attrs, "size", g.Size)
		return domain.NewSymbolizer(domain.KindIcon, attrs)
	}

	if size, ok := parseNumber(g.Size); ok {
		attrs["radius"] = size / 2
	}
	if g.Mark != nil {
		setString(attrs, "wellKnownName", capitalize(g.Mark.WellKnownName))
		setString(attrs, "color", g.Mark.Fill.get("fill"))
		setString(attrs, "strokeColor", g.Mark.Stroke.get("stroke"))
		setNumber(attrs, "strokeWidth", g.Mark.Stroke.get("stroke-width"))
	}
	if _, ok := attrs["wellKnownName"]; !ok {
		attrs["wellKnownName"] = "Square"
	}
	return domain.NewSymbolizer(domain.KindMark, attrs)
}

func convertFilter(f *filter) []any {
	ops := []struct {
		op string
		c  *comparison
	}{
		{"==", f.EqualTo},
		{"!=", f.NotEqualTo},
		{"<", f.LessThan},
		{">", f.GreaterThan},
	}
	for _, o := range ops {
		if o.c == nil {
			continue
		}
		var literal any = strings.TrimSpace(o.c.Literal)
		if n, ok := parseNumber(o.c.Literal); ok {
			literal = n
		}
		return []any{o.op, strings.TrimSpace(o.c.PropertyName), literal}
	}
	return nil
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func setString(attrs map[string]any, key, value string) {
	if value != "" {
		attrs[key] = value
	}
}

func setNumber(attrs map[string]any, key, value string) {
	if n, ok := parseNumber(value); ok {
		attrs[key] = n
	}
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	return n, err == nil
}

func parseNumbers(s string) []any {
	var out []any
	for _, f := range strings.Fields(strings.ReplaceAll(s, ",", " ")) {
		if n, ok := parseNumber(f); ok {
			out = append(out, n)
		}
	}
	return out
}
