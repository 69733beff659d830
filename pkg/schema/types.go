package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
)

// Type checks one attribute value.
type Type interface {
	// Name returns the human-readable name of the type (e.g. "number", "color").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// TextType accepts any string, including {{attr}} templates.
type TextType struct{}

func (t *TextType) Name() string { return "text" }

func (t *TextType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected text, got %T", value)
	}
	return nil
}

// NumberType accepts every Go integer and float type, since YAML decodes
// whole numbers as int and JSON as float64.
type NumberType struct{}

func (t *NumberType) Name() string { return "number" }

func (t *NumberType) Validate(value any) error {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return nil
	}
	return fmt.Errorf("expected number, got %T", value)
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ColorType accepts #rgb, #rrggbb and #rrggbbaa strings.
type ColorType struct{}

func (t *ColorType) Name() string { return "color" }

func (t *ColorType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected color, got %T", value)
	}
	if !hexColor.MatchString(s) {
		return fmt.Errorf("expected hex color, got %q", s)
	}
	return nil
}

// EnumType accepts one of a fixed set of strings.
type EnumType struct {
	values []string
}

func (t *EnumType) Name() string {
	return "enum(" + strings.Join(t.values, "|") + ")"
}

func (t *EnumType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected one of %s, got %T", strings.Join(t.values, ", "), value)
	}
	if !slices.Contains(t.values, s) {
		return fmt.Errorf("expected one of %s, got %q", strings.Join(t.values, ", "), s)
	}
	return nil
}

// SliceType validates every element against elemType.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected list, got %T", value)
	}

	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// Text creates a text type validator.
func Text() Type { return &TextType{} }

// Number creates a numeric type validator.
func Number() Type { return &NumberType{} }

// Color creates a hex color validator.
func Color() Type { return &ColorType{} }

// Enum creates a validator accepting only values.
func Enum(values ...string) Type { return &EnumType{values: values} }

// Slice creates a list type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}
