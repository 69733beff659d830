// Package shapefile describes ESRI Shapefile datasets using jonas-p/go-shp.
package shapefile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/ports"
	"github.com/jonas-p/go-shp"
)

// FormatName is reported in parse errors and dataset descriptions.
const FormatName = "Shapefile"

// ErrNoPath is returned when a shapefile input is not backed by a file on disk.
var ErrNoPath = errors.New("shapefile input requires a path (with .dbf alongside)")

// Source implements ports.DataSource for .shp files on disk.
type Source struct{}

var _ ports.DataSource = (*Source)(nil)

// New creates a Shapefile source.
func New() *Source {
	return &Source{}
}

// Name implements ports.Source.
func (s *Source) Name() string { return FormatName }

// CanHandle accepts inputs named *.shp.
func (s *Source) CanHandle(in ports.Input) bool {
	return in.Ext() == ".shp"
}

// Parse reads the header, attribute schema and record count of the shapefile.
func (s *Source) Parse(ctx context.Context, in ports.Input) (domain.DatasetDescription, error) {
	if in.Path == "" {
		return domain.DatasetDescription{}, ErrNoPath
	}

	reader, err := shp.Open(in.Path)
	if err != nil {
		return domain.DatasetDescription{}, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer reader.Close()

	out := domain.DatasetDescription{
		Format:     FormatName,
		Name:       strings.TrimSuffix(filepath.Base(in.Path), filepath.Ext(in.Path)),
		Properties: []domain.Property{},
	}

	for _, f := range reader.Fields() {
		out.Properties = append(out.Properties, domain.Property{
			Name: f.String(),
			Type: fieldType(f.Fieldtype),
		})
	}

	if g := geometryType(reader.GeometryType); g != "" {
		out.GeometryTypes = []string{g}
	}

	for reader.Next() {
		if err := ctx.Err(); err != nil {
			return domain.DatasetDescription{}, err
		}
		out.FeatureCount++
	}

	if out.FeatureCount > 0 {
		box := reader.BBox()
		out.Bounds = &domain.Bounds{MinX: box.MinX, MinY: box.MinY, MaxX: box.MaxX, MaxY: box.MaxY}
	}
	return out, nil
}

func fieldType(t byte) string {
	switch t {
	case 'C':
		return "string"
	case 'N', 'F':
		return "number"
	case 'L':
		return "boolean"
	case 'D':
		return "date"
	}
	return "unknown"
}

func geometryType(t shp.ShapeType) string {
	switch t {
	case shp.POINT, shp.POINTZ, shp.POINTM:
		return "Point"
	case shp.MULTIPOINT, shp.MULTIPOINTZ, shp.MULTIPOINTM:
		return "MultiPoint"
	case shp.POLYLINE, shp.POLYLINEZ, shp.POLYLINEM:
		return "LineString"
	case shp.POLYGON, shp.POLYGONZ, shp.POLYGONM:
		return "Polygon"
	}
	return ""
}
