// Package geojson describes GeoJSON datasets using paulmach/orb.
package geojson

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/ports"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FormatName is reported in parse errors and dataset descriptions.
const FormatName = "GeoJSON"

// Source implements ports.DataSource for GeoJSON files.
type Source struct{}

var _ ports.DataSource = (*Source)(nil)

// New creates a GeoJSON source.
func New() *Source {
	return &Source{}
}

// Name implements ports.Source.
func (s *Source) Name() string { return FormatName }

// CanHandle accepts .geojson files and JSON content that declares a Feature or FeatureCollection.
func (s *Source) CanHandle(in ports.Input) bool {
	if in.URL != "" && len(in.Data) == 0 {
		return false
	}
	switch in.Ext() {
	case ".geojson":
		return true
	case ".json", "":
		return looksLikeGeoJSON(in.Data)
	}
	return false
}

// Parse summarises the features of the input.
func (s *Source) Parse(ctx context.Context, in ports.Input) (domain.DatasetDescription, error) {
	if err := ctx.Err(); err != nil {
		return domain.DatasetDescription{}, err
	}
	data, err := Describe(in.Data)
	if err != nil {
		return domain.DatasetDescription{}, err
	}
	data.Name = datasetName(in)
	return data, nil
}

// Describe summarises a GeoJSON Feature or FeatureCollection.
func Describe(raw []byte) (domain.DatasetDescription, error) {
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		f, ferr := geojson.UnmarshalFeature(raw)
		if ferr != nil {
			return domain.DatasetDescription{}, fmt.Errorf("invalid GeoJSON: %w", err)
		}
		fc = geojson.NewFeatureCollection()
		fc.Append(f)
	}
	return summarize(fc), nil
}

func summarize(fc *geojson.FeatureCollection) domain.DatasetDescription {
	out := domain.DatasetDescription{
		Format:       FormatName,
		FeatureCount: len(fc.Features),
		Properties:   []domain.Property{},
	}

	types := map[string]string{}
	geometries := map[string]bool{}
	var bound *orb.Bound

	for _, f := range fc.Features {
		for name, value := range f.Properties {
			t := propertyType(value)
			if existing, ok := types[name]; !ok || existing == "null" {
				types[name] = t
			} else if existing != t && t != "null" {
				types[name] = "mixed"
			}
		}
		if f.Geometry == nil {
			continue
		}
		geometries[f.Geometry.GeoJSONType()] = true
		b := f.Geometry.Bound()
		if bound == nil {
			bound = &b
		} else {
			u := bound.Union(b)
			bound = &u
		}
	}

	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out.Properties = append(out.Properties, domain.Property{Name: name, Type: types[name]})
	}

	for g := range geometries {
		out.GeometryTypes = append(out.GeometryTypes, g)
	}
	sort.Strings(out.GeometryTypes)

	if bound != nil {
		out.Bounds = &domain.Bounds{
			MinX: bound.Min.X(),
			MinY: bound.Min.Y(),
			MaxX: bound.Max.X(),
			MaxY: bound.Max.Y(),
		}
	}
	return out
}

func propertyType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, float32, int, int64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return "unknown"
}

func looksLikeGeoJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte("{")) {
		return false
	}
	compact := strings.ReplaceAll(string(trimmed), " ", "")
	return strings.Contains(compact, `"type":"FeatureCollection"`) || strings.Contains(compact, `"type":"Feature"`)
}

func datasetName(in ports.Input) string {
	label := in.Label()
	if i := strings.LastIndexAny(label, `/\`); i >= 0 {
		label = label[i+1:]
	}
	return strings.TrimSuffix(label, in.Ext())
}
