package sld_test

import (
	"context"
	"testing"

	"github.com/aretw0/cartograph/pkg/adapters/sld"
	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/ports"
	portstest "github.com/aretw0/cartograph/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const citiesSLD = `<?xml version="1.0" encoding="UTF-8"?>
<StyledLayerDescriptor version="1.0.0"
    xmlns="http://www.opengis.net/sld"
    xmlns:ogc="http://www.opengis.net/ogc"
    xmlns:xlink="http://www.w3.org/1999/xlink">
  <NamedLayer>
    <Name>cities</Name>
    <UserStyle>
      <Title>Cities</Title>
      <FeatureTypeStyle>
        <Rule>
          <Name>Capitals</Name>
          <ogc:Filter>
            <ogc:PropertyIsEqualTo>
              <ogc:PropertyName>capital</ogc:PropertyName>
              <ogc:Literal>1</ogc:Literal>
            </ogc:PropertyIsEqualTo>
          </ogc:Filter>
          <MaxScaleDenominator>5000000</MaxScaleDenominator>
          <PointSymbolizer>
            <Graphic>
              <Mark>
                <WellKnownName>circle</WellKnownName>
                <Fill><CssParameter name="fill">#FF0000</CssParameter></Fill>
                <Stroke>
                  <CssParameter name="stroke">#000000</CssParameter>
                  <CssParameter name="stroke-width">2</CssParameter>
                </Stroke>
              </Mark>
              <Size>8</Size>
            </Graphic>
          </PointSymbolizer>
          <TextSymbolizer>
            <Label><ogc:PropertyName>name</ogc:PropertyName></Label>
            <Font><CssParameter name="font-family">Arial</CssParameter><CssParameter name="font-size">12</CssParameter></Font>
          </TextSymbolizer>
        </Rule>
        <Rule>
          <LineSymbolizer>
            <Stroke>
              <SvgParameter name="stroke">#0000FF</SvgParameter>
              <SvgParameter name="stroke-dasharray">4 2</SvgParameter>
            </Stroke>
          </LineSymbolizer>
          <PolygonSymbolizer>
            <Fill><CssParameter name="fill">#AAAAAA</CssParameter></Fill>
          </PolygonSymbolizer>
        </Rule>
      </FeatureTypeStyle>
    </UserStyle>
  </NamedLayer>
</StyledLayerDescriptor>`

func TestSource_Contract(t *testing.T) {
	portstest.RunSourceContract[domain.StyleDocument](t, sld.New(), []portstest.SourceCase{
		{Input: ports.Input{Name: "cities.sld", Data: []byte(citiesSLD)}, Valid: true},
		{Input: ports.Input{Name: "broken.sld", Data: []byte("<StyledLayerDescriptor><NamedLayer>")}, Valid: false},
		{Input: ports.Input{Name: "nostyle.sld", Data: []byte("<StyledLayerDescriptor><NamedLayer/></StyledLayerDescriptor>")}, Valid: false},
	}, portstest.StyleRuleNames("Capitals", "Rule 2"))
}

func TestSource_CanHandleSniffsXML(t *testing.T) {
	src := sld.New()
	assert.True(t, src.CanHandle(ports.Input{Name: "style.xml", Data: []byte(citiesSLD)}))
	assert.True(t, src.CanHandle(ports.Input{Data: []byte(citiesSLD)}))
	assert.False(t, src.CanHandle(ports.Input{Name: "other.xml", Data: []byte("<kml/>")}))
}

func TestSource_MapsSymbolizers(t *testing.T) {
	doc, err := sld.New().Parse(context.Background(), ports.Input{Name: "cities.sld", Data: []byte(citiesSLD)})
	require.NoError(t, err)

	assert.Equal(t, "Cities", doc.Name)
	require.Len(t, doc.Rules, 2)

	capitals := doc.Rules[0]
	assert.Equal(t, []any{"==", "capital", 1.0}, capitals.Filter)
	require.NotNil(t, capitals.ScaleDenominator)
	assert.Nil(t, capitals.ScaleDenominator.Min)
	assert.Equal(t, 5000000.0, *capitals.ScaleDenominator.Max)

	require.Len(t, capitals.Symbolizers, 2)
	var mark domain.MarkAttributes
	require.NoError(t, capitals.Symbolizers[0].Decode(&mark))
	assert.Equal(t, "Circle", mark.WellKnownName)
	assert.Equal(t, "#FF0000", mark.Color)
	assert.Equal(t, 4.0, mark.Radius)
	assert.Equal(t, 2.0, mark.StrokeWidth)

	var text domain.TextAttributes
	require.NoError(t, capitals.Symbolizers[1].Decode(&text))
	assert.Equal(t, "{{name}}", text.Label)
	assert.Equal(t, []string{"Arial"}, text.Font)
	assert.Equal(t, 12.0, text.Size)

	second := doc.Rules[1]
	require.Len(t, second.Symbolizers, 2)
	var line domain.LineAttributes
	require.NoError(t, second.Symbolizers[0].Decode(&line))
	assert.Equal(t, "#0000FF", line.Color)
	assert.Equal(t, []float64{4, 2}, line.DashArray)
	assert.Equal(t, domain.KindFill, second.Symbolizers[1].Kind)
}
