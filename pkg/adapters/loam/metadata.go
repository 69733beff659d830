package loam

import "fmt"

// ExampleMetadata is the front matter of an example document.
//
//	---
//	id: roads
//	title: Roads
//	style:
//	  name: Roads
//	  rules: [...]
//	---
//	Optional markdown description.
type ExampleMetadata struct {
	ID          string         `json:"id" mapstructure:"id"`
	Title       string         `json:"title" mapstructure:"title"`
	Description string         `json:"description" mapstructure:"description"`
	Style       map[string]any `json:"style" mapstructure:"style"`
}

// normalize rewrites the map[any]any values some YAML decoders produce so
// the tree can be encoded as JSON.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[k] = normalize(sub)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[fmt.Sprintf("%v", k)] = normalize(sub)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, sub := range val {
			out[i] = normalize(sub)
		}
		return out
	default:
		return val
	}
}
