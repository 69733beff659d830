package domain

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// SymbolizerKind tags how a symbolizer draws features.
type SymbolizerKind string

const (
	KindMark   SymbolizerKind = "Mark"
	KindIcon   SymbolizerKind = "Icon"
	KindFill   SymbolizerKind = "Fill"
	KindLine   SymbolizerKind = "Line"
	KindText   SymbolizerKind = "Text"
	KindRaster SymbolizerKind = "Raster"
)

// KeyKind is the attribute that carries the symbolizer kind in the flat encoding.
const KeyKind = "kind"

// Symbolizer is a kind plus kind-specific attributes.
// It encodes flat, e.g. {"kind": "Mark", "wellKnownName": "Circle"}.
type Symbolizer struct {
	Kind       SymbolizerKind
	Attributes map[string]any
}

// NewSymbolizer creates a symbolizer of the given kind.
func NewSymbolizer(kind SymbolizerKind, attrs map[string]any) Symbolizer {
	if attrs == nil {
		attrs = map[string]any{}
	}
	delete(attrs, KeyKind)
	return Symbolizer{Kind: kind, Attributes: attrs}
}

// Clone returns a deep copy of the symbolizer.
func (s Symbolizer) Clone() Symbolizer {
	out := Symbolizer{Kind: s.Kind}
	if s.Attributes != nil {
		out.Attributes = copyValue(s.Attributes).(map[string]any)
	}
	return out
}

// AttributeKeys returns the attribute names in sorted order.
func (s Symbolizer) AttributeKeys() []string {
	keys := make([]string, 0, len(s.Attributes))
	for k := range s.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Decode copies the attributes into a typed struct such as MarkAttributes.
func (s Symbolizer) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(s.Attributes); err != nil {
		return fmt.Errorf("failed to decode %s symbolizer: %w", s.Kind, err)
	}
	return nil
}

func (s Symbolizer) flat() map[string]any {
	m := make(map[string]any, len(s.Attributes)+1)
	for k, v := range s.Attributes {
		m[k] = v
	}
	m[KeyKind] = string(s.Kind)
	return m
}

func (s *Symbolizer) fromFlat(m map[string]any) error {
	kind, _ := m[KeyKind].(string)
	if kind == "" {
		return fmt.Errorf("symbolizer is missing %q", KeyKind)
	}
	delete(m, KeyKind)
	s.Kind = SymbolizerKind(kind)
	s.Attributes = m
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Symbolizer) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.flat())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Symbolizer) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	return s.fromFlat(m)
}

// MarshalYAML implements yaml.Marshaler.
func (s Symbolizer) MarshalYAML() (any, error) {
	return s.flat(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Symbolizer) UnmarshalYAML(node *yaml.Node) error {
	var m map[string]any
	if err := node.Decode(&m); err != nil {
		return err
	}
	return s.fromFlat(m)
}

// MarkAttributes are the typed attributes of a Mark symbolizer.
type MarkAttributes struct {
	WellKnownName string  `mapstructure:"wellKnownName"`
	Color         string  `mapstructure:"color"`
	Radius        float64 `mapstructure:"radius"`
	Opacity       float64 `mapstructure:"opacity"`
	StrokeColor   string  `mapstructure:"strokeColor"`
	StrokeWidth   float64 `mapstructure:"strokeWidth"`
}

// FillAttributes are the typed attributes of a Fill symbolizer.
type FillAttributes struct {
	Color          string  `mapstructure:"color"`
	Opacity        float64 `mapstructure:"opacity"`
	OutlineColor   string  `mapstructure:"outlineColor"`
	OutlineWidth   float64 `mapstructure:"outlineWidth"`
	OutlineOpacity float64 `mapstructure:"outlineOpacity"`
}

// LineAttributes are the typed attributes of a Line symbolizer.
type LineAttributes struct {
	Color     string    `mapstructure:"color"`
	Width     float64   `mapstructure:"width"`
	Opacity   float64   `mapstructure:"opacity"`
	DashArray []float64 `mapstructure:"dasharray"`
	Cap       string    `mapstructure:"cap"`
	Join      string    `mapstructure:"join"`
}

// TextAttributes are the typed attributes of a Text symbolizer.
type TextAttributes struct {
	Label string   `mapstructure:"label"`
	Font  []string `mapstructure:"font"`
	Size  float64  `mapstructure:"size"`
	Color string   `mapstructure:"color"`
}
