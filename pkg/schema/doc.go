// Package schema describes the attributes each symbolizer kind understands
// and checks symbolizers against them.
//
// Attributes are optional: only keys that are present get checked, and keys a
// schema does not list pass through untouched so vendor options survive.
//
//	err := schema.ValidateSymbolizer(domain.NewSymbolizer(domain.KindLine, map[string]any{
//	    "color": "#ff0000",
//	    "width": "wide",
//	}))
//	// field "width": expected number (got string)
//
// Check walks a whole style document and reports every issue with its rule and
// symbolizer position; ReplaceStyle never rejects a document, so views use
// Check to flag problems instead.
package schema
