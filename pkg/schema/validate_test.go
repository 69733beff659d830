package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cartograph/pkg/domain"
)

func TestTypes(t *testing.T) {
	tests := []struct {
		typ     Type
		value   any
		wantErr bool
	}{
		{Text(), "{{name}}", false},
		{Text(), 3, true},
		{Number(), 3, false},
		{Number(), 2.5, false},
		{Number(), "3", true},
		{Color(), "#FF8800", false},
		{Color(), "#f80", false},
		{Color(), "#ff880080", false},
		{Color(), "orange", true},
		{Color(), 0xff8800, true},
		{Enum("butt", "round"), "round", false},
		{Enum("butt", "round"), "flat", true},
		{Slice(Number()), []any{4.0, 2}, false},
		{Slice(Number()), []float64{4, 2}, false},
		{Slice(Number()), []any{4.0, "x"}, true},
		{Slice(Text()), "Arial", true},
	}

	for _, tt := range tests {
		err := tt.typ.Validate(tt.value)
		assert.Equal(t, tt.wantErr, err != nil, "%s.Validate(%v): %v", tt.typ.Name(), tt.value, err)
	}
}

func TestTypeNames(t *testing.T) {
	assert.Equal(t, "[number]", Slice(Number()).Name())
	assert.Equal(t, "enum(butt|round)", Enum("butt", "round").Name())
}

func TestValidate_OnlyPresentKnownAttributes(t *testing.T) {
	s := ForKind(domain.KindLine)

	assert.NoError(t, Validate(s, map[string]any{}))
	assert.NoError(t, Validate(s, map[string]any{"vendor-option": struct{}{}}))

	err := Validate(s, map[string]any{"width": "wide", "color": "red", "opacity": 0.5})
	require.Error(t, err)
	errs := ValidationErrors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "color", errs[0].(*ValidationError).Key)
	assert.Equal(t, "width", errs[1].(*ValidationError).Key)
}

func TestValidateSymbolizer(t *testing.T) {
	ok := domain.NewSymbolizer(domain.KindMark, map[string]any{"wellKnownName": "Circle", "radius": 5, "color": "#008000"})
	assert.NoError(t, ValidateSymbolizer(ok))

	bad := domain.NewSymbolizer(domain.KindMark, map[string]any{"wellKnownName": "Hexagon"})
	err := ValidateSymbolizer(bad)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "wellKnownName", ve.Key)

	unknown := domain.Symbolizer{Kind: "Hatch"}
	assert.Error(t, ValidateSymbolizer(unknown))
	assert.Nil(t, ForKind("Hatch"))
}

func TestValidateAttribute(t *testing.T) {
	assert.NoError(t, ValidateAttribute(domain.KindText, "label", "{{name}}"))
	assert.Error(t, ValidateAttribute(domain.KindText, "size", "big"))
}

func TestCheck(t *testing.T) {
	doc := domain.StyleDocument{
		Name: "Mixed",
		Rules: []domain.Rule{
			{Name: "Good", Symbolizers: []domain.Symbolizer{
				domain.NewSymbolizer(domain.KindFill, map[string]any{"color": "#00ff00"}),
			}},
			{Name: "Bad", Symbolizers: []domain.Symbolizer{
				domain.NewSymbolizer(domain.KindLine, map[string]any{"color": "#ff0000"}),
				domain.NewSymbolizer(domain.KindLine, map[string]any{"width": "thick", "cap": "pointy"}),
			}},
		},
	}

	issues := Check(doc)
	require.Len(t, issues, 2)
	assert.Equal(t, 1, issues[0].Rule)
	assert.Equal(t, 1, issues[0].Symbolizer)
	assert.Equal(t, "cap", issues[0].Err.Key)
	assert.Equal(t, "width", issues[1].Err.Key)
	assert.Contains(t, issues[1].String(), "Bad / Line")

	assert.Empty(t, Check(domain.StyleDocument{Name: "Empty"}))
}

func TestSchema_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(ForKind(domain.KindLine))
	require.NoError(t, err)

	var m map[string]string
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "color", m["color"])
	assert.Equal(t, "[number]", m["dasharray"])
}
