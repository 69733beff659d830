package geojson_test

import (
	"context"
	"testing"

	"github.com/aretw0/cartograph/pkg/adapters/geojson"
	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/ports"
	portstest "github.com/aretw0/cartograph/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cities = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [7.1, 50.7]},
     "properties": {"name": "Bonn", "population": 330000, "capital": null}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [13.4, 52.5]},
     "properties": {"name": "Berlin", "population": 3600000, "capital": true}},
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[7.1, 50.7], [13.4, 52.5]]},
     "properties": {"name": "Route"}}
  ]
}`

func TestSource_Contract(t *testing.T) {
	portstest.RunSourceContract[domain.DatasetDescription](t, geojson.New(), []portstest.SourceCase{
		{Input: ports.Input{Name: "cities.geojson", Data: []byte(cities)}, Valid: true},
		{Input: ports.Input{Name: "broken.geojson", Data: []byte(`{"type": "FeatureCollection", "features": [`)}, Valid: false},
	}, func(t *testing.T, data domain.DatasetDescription) {
		assert.Equal(t, "cities", data.Name)
		assert.Equal(t, 3, data.FeatureCount)
	})
}

func TestSource_CanHandleSniffsJSON(t *testing.T) {
	src := geojson.New()
	assert.True(t, src.CanHandle(ports.Input{Name: "cities.json", Data: []byte(cities)}))
	assert.False(t, src.CanHandle(ports.Input{Name: "style.json", Data: []byte(`{"name":"Demo","rules":[]}`)}))
	assert.False(t, src.CanHandle(ports.Input{URL: "https://example.com/wfs?service=WFS"}))
}

func TestDescribe_Schema(t *testing.T) {
	data, err := geojson.Describe([]byte(cities))
	require.NoError(t, err)

	assert.Equal(t, "GeoJSON", data.Format)
	assert.Equal(t, []domain.Property{
		{Name: "capital", Type: "boolean"},
		{Name: "name", Type: "string"},
		{Name: "population", Type: "number"},
	}, data.Properties)
	assert.Equal(t, []string{"LineString", "Point"}, data.GeometryTypes)
	require.NotNil(t, data.Bounds)
	assert.Equal(t, domain.Bounds{MinX: 7.1, MinY: 50.7, MaxX: 13.4, MaxY: 52.5}, *data.Bounds)
}

func TestDescribe_SingleFeature(t *testing.T) {
	data, err := geojson.Describe([]byte(`{"type":"Feature","geometry":null,"properties":{"id":1}}`))
	require.NoError(t, err)
	assert.Equal(t, 1, data.FeatureCount)
	assert.Nil(t, data.Bounds)
	assert.True(t, data.HasProperty("id"))
}

func TestSource_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := geojson.New().Parse(ctx, ports.Input{Name: "cities.geojson", Data: []byte(cities)})
	assert.ErrorIs(t, err, context.Canceled)
}
