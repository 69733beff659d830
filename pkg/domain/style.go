package domain

// StyleDocument is a cartographic style: a named, ordered list of rules.
type StyleDocument struct {
	Name  string `json:"name" yaml:"name" mapstructure:"name"`
	Rules []Rule `json:"rules" yaml:"rules" mapstructure:"rules"`
}

// Rule groups the symbolizers applied to features that pass its filter.
type Rule struct {
	Name             string            `json:"name" yaml:"name" mapstructure:"name"`
	Symbolizers      []Symbolizer      `json:"symbolizers" yaml:"symbolizers" mapstructure:"symbolizers"`
	Filter           []any             `json:"filter,omitempty" yaml:"filter,omitempty" mapstructure:"filter"`
	ScaleDenominator *ScaleDenominator `json:"scaleDenominator,omitempty" yaml:"scaleDenominator,omitempty" mapstructure:"scaleDenominator"`
}

// ScaleDenominator restricts a rule to a scale range.
type ScaleDenominator struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty" mapstructure:"min"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty" mapstructure:"max"`
}

// DefaultStyle returns the document a new session starts with.
func DefaultStyle() StyleDocument {
	return StyleDocument{
		Name: "Demo Style",
		Rules: []Rule{{
			Name: "Rule 1",
			Symbolizers: []Symbolizer{
				NewSymbolizer(KindMark, map[string]any{"wellKnownName": "Circle"}),
			},
		}},
	}
}

// Clone returns a deep copy of the document.
// Views edit the copy and hand it back to the session as a whole.
func (d StyleDocument) Clone() StyleDocument {
	out := StyleDocument{Name: d.Name}
	if d.Rules == nil {
		return out
	}
	out.Rules = make([]Rule, len(d.Rules))
	for i, r := range d.Rules {
		out.Rules[i] = r.Clone()
	}
	return out
}

// Clone returns a deep copy of the rule.
func (r Rule) Clone() Rule {
	out := Rule{Name: r.Name}
	if r.Symbolizers != nil {
		out.Symbolizers = make([]Symbolizer, len(r.Symbolizers))
		for i, s := range r.Symbolizers {
			out.Symbolizers[i] = s.Clone()
		}
	}
	if r.Filter != nil {
		out.Filter = copyValue(r.Filter).([]any)
	}
	if r.ScaleDenominator != nil {
		sd := ScaleDenominator{}
		if r.ScaleDenominator.Min != nil {
			v := *r.ScaleDenominator.Min
			sd.Min = &v
		}
		if r.ScaleDenominator.Max != nil {
			v := *r.ScaleDenominator.Max
			sd.Max = &v
		}
		out.ScaleDenominator = &sd
	}
	return out
}

// copyValue deep-copies the generic values produced by JSON/YAML decoding.
func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = copyValue(item)
		}
		return m
	case []any:
		s := make([]any, len(val))
		for i, item := range val {
			s[i] = copyValue(item)
		}
		return s
	default:
		return val
	}
}
