package examples

import (
	"context"
	"fmt"

	"github.com/aretw0/cartograph/pkg/domain"
)

// Example is a named style offered by a catalog.
type Example struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Style       domain.StyleDocument `json:"style"`
}

// Catalog lists the examples available to the dialog.
type Catalog interface {
	List(ctx context.Context) ([]Example, error)
	// Get returns domain.ErrExampleNotFound for unknown IDs.
	Get(ctx context.Context, id string) (Example, error)
}

// StaticCatalog is an in-memory catalog in fixed order.
type StaticCatalog struct {
	examples []Example
}

// NewStaticCatalog creates a catalog from examples.
func NewStaticCatalog(examples ...Example) *StaticCatalog {
	return &StaticCatalog{examples: examples}
}

// List returns copies of every example.
func (c *StaticCatalog) List(_ context.Context) ([]Example, error) {
	out := make([]Example, len(c.examples))
	for i, ex := range c.examples {
		out[i] = ex
		out[i].Style = ex.Style.Clone()
	}
	return out, nil
}

// Get returns a copy of the example with the given ID.
func (c *StaticCatalog) Get(_ context.Context, id string) (Example, error) {
	for _, ex := range c.examples {
		if ex.ID == id {
			ex.Style = ex.Style.Clone()
			return ex, nil
		}
	}
	return Example{}, fmt.Errorf("%w: %s", domain.ErrExampleNotFound, id)
}

func ptr(f float64) *float64 { return &f }

// Builtin returns the catalog shipped with the editor.
func Builtin() *StaticCatalog {
	return NewStaticCatalog(
		Example{
			ID:          "simple-point",
			Title:       "Simple point",
			Description: "A red circle for every point.",
			Style: domain.StyleDocument{
				Name: "Simple Point",
				Rules: []domain.Rule{{
					Name: "Red circle",
					Symbolizers: []domain.Symbolizer{
						domain.NewSymbolizer(domain.KindMark, map[string]any{
							"wellKnownName": "Circle",
							"color":         "#FF0000",
							"radius":        6.0,
							"strokeColor":   "#000000",
							"strokeWidth":   1.0,
						}),
					},
				}},
			},
		},
		Example{
			ID:          "simple-line",
			Title:       "Simple line",
			Description: "A solid blue line.",
			Style: domain.StyleDocument{
				Name: "Simple Line",
				Rules: []domain.Rule{{
					Name: "Blue line",
					Symbolizers: []domain.Symbolizer{
						domain.NewSymbolizer(domain.KindLine, map[string]any{
							"color": "#0000FF",
							"width": 3.0,
							"cap":   "round",
							"join":  "round",
						}),
					},
				}},
			},
		},
		Example{
			ID:          "simple-polygon",
			Title:       "Simple polygon",
			Description: "A translucent grey fill with a dark outline.",
			Style: domain.StyleDocument{
				Name: "Simple Polygon",
				Rules: []domain.Rule{{
					Name: "Grey fill",
					Symbolizers: []domain.Symbolizer{
						domain.NewSymbolizer(domain.KindFill, map[string]any{
							"color":        "#AAAAAA",
							"opacity":      0.5,
							"outlineColor": "#333333",
							"outlineWidth": 1.0,
						}),
					},
				}},
			},
		},
		Example{
			ID:          "point-with-label",
			Title:       "Point with label",
			Description: "A circle labelled with the feature's name attribute.",
			Style: domain.StyleDocument{
				Name: "Point with Label",
				Rules: []domain.Rule{{
					Name: "Labelled circle",
					Symbolizers: []domain.Symbolizer{
						domain.NewSymbolizer(domain.KindMark, map[string]any{
							"wellKnownName": "Circle",
							"color":         "#008000",
							"radius":        5.0,
						}),
						domain.NewSymbolizer(domain.KindText, map[string]any{
							"label": "{{name}}",
							"font":  []any{"Arial"},
							"size":  12.0,
							"color": "#000000",
						}),
					},
				}},
			},
		},
		Example{
			ID:          "scale-dependent-polygons",
			Title:       "Scale dependent polygons",
			Description: "Detailed outlines when zoomed in, plain fills when zoomed out.",
			Style: domain.StyleDocument{
				Name: "Scale Dependent Polygons",
				Rules: []domain.Rule{
					{
						Name:             "Large scale",
						ScaleDenominator: &domain.ScaleDenominator{Max: ptr(50000)},
						Symbolizers: []domain.Symbolizer{
							domain.NewSymbolizer(domain.KindFill, map[string]any{
								"color":        "#FFCC00",
								"outlineColor": "#994400",
								"outlineWidth": 2.0,
							}),
						},
					},
					{
						Name:             "Small scale",
						ScaleDenominator: &domain.ScaleDenominator{Min: ptr(50000)},
						Symbolizers: []domain.Symbolizer{
							domain.NewSymbolizer(domain.KindFill, map[string]any{
								"color": "#FFCC00",
							}),
						},
					},
				},
			},
		},
	)
}
