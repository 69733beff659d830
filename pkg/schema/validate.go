package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/cartograph/pkg/domain"
)

// Schema maps attribute names to their expected types.
type Schema map[string]Type

// MarshalJSON serializes the schema as a map of attribute names to type names.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	raw := make(map[string]string, len(s))
	for key, typ := range s {
		if typ == nil {
			return nil, fmt.Errorf("field %s: type is nil", key)
		}
		raw[key] = typ.Name()
	}
	return json.Marshal(raw)
}

var (
	opacity  = Number()
	rotation = Number()
)

var builtin = map[domain.SymbolizerKind]Schema{
	domain.KindMark: {
		"wellKnownName": Enum("Circle", "Square", "Triangle", "Star", "Cross", "X"),
		"radius":        Number(),
		"color":         Color(),
		"strokeColor":   Color(),
		"strokeWidth":   Number(),
		"opacity":       opacity,
		"rotate":        rotation,
	},
	domain.KindIcon: {
		"image":   Text(),
		"size":    Number(),
		"opacity": opacity,
		"rotate":  rotation,
	},
	domain.KindLine: {
		"color":     Color(),
		"width":     Number(),
		"opacity":   opacity,
		"cap":       Enum("butt", "round", "square"),
		"join":      Enum("miter", "round", "bevel"),
		"dasharray": Slice(Number()),
	},
	domain.KindFill: {
		"color":          Color(),
		"opacity":        opacity,
		"outlineColor":   Color(),
		"outlineWidth":   Number(),
		"outlineOpacity": opacity,
	},
	domain.KindText: {
		"label": Text(),
		"font":  Slice(Text()),
		"size":  Number(),
		"color": Color(),
	},
	domain.KindRaster: {
		"opacity": opacity,
	},
}

// ForKind returns the schema of a symbolizer kind, or nil for unknown kinds.
func ForKind(kind domain.SymbolizerKind) Schema {
	return builtin[kind]
}

// Validate checks the attributes present in data against schema.
// Absent attributes and attributes the schema does not list are accepted.
func Validate(schema Schema, data map[string]any) error {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		fieldType, ok := schema[key]
		if !ok {
			continue
		}
		value := data[key]
		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    key,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidateAttribute checks a single attribute of a symbolizer kind.
func ValidateAttribute(kind domain.SymbolizerKind, key string, value any) error {
	return Validate(ForKind(kind), map[string]any{key: value})
}

// ValidateSymbolizer checks sym against the schema of its kind.
func ValidateSymbolizer(sym domain.Symbolizer) error {
	s := ForKind(sym.Kind)
	if s == nil {
		return &ValidationError{Key: domain.KeyKind, Reason: "unknown symbolizer kind", Value: string(sym.Kind)}
	}
	return Validate(s, sym.Attributes)
}

// Issue locates one validation failure inside a style document.
type Issue struct {
	Rule       int
	RuleName   string
	Symbolizer int
	Kind       domain.SymbolizerKind
	Err        *ValidationError
}

func (i Issue) String() string {
	return fmt.Sprintf("%s / %s: %s", i.RuleName, i.Kind, i.Err.Error())
}

// Check reports every invalid attribute of doc in document order.
func Check(doc domain.StyleDocument) []Issue {
	var issues []Issue
	for ri, r := range doc.Rules {
		for si, sym := range r.Symbolizers {
			err := ValidateSymbolizer(sym)
			if err == nil {
				continue
			}
			errs := ValidationErrors(err)
			if errs == nil {
				errs = []error{err}
			}
			for _, e := range errs {
				ve, ok := e.(*ValidationError)
				if !ok {
					continue
				}
				issues = append(issues, Issue{Rule: ri, RuleName: r.Name, Symbolizer: si, Kind: sym.Kind, Err: ve})
			}
		}
	}
	return issues
}
