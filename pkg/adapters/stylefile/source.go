// Package stylefile reads and writes style documents in the native JSON/YAML encoding.
package stylefile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/ports"
	"gopkg.in/yaml.v3"
)

// FormatName is reported in parse errors.
const FormatName = "GeoStyler Style"

// Format selects the encoding of a style document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrEmptyStyle is returned for documents with neither a name nor rules.
var ErrEmptyStyle = errors.New("empty style document")

// Source implements ports.StyleSource for native style files.
type Source struct{}

var _ ports.StyleSource = (*Source)(nil)

// New creates a style file source.
func New() *Source {
	return &Source{}
}

// Name implements ports.Source.
func (s *Source) Name() string { return FormatName }

// CanHandle accepts .json/.yaml/.yml files, or unnamed content that looks like a style.
func (s *Source) CanHandle(in ports.Input) bool {
	switch in.Ext() {
	case ".json", ".yaml", ".yml":
		return true
	case "":
		return detect(in.Data) != ""
	}
	return false
}

// Parse decodes the document. JSON is chosen by extension or a leading '{'.
func (s *Source) Parse(ctx context.Context, in ports.Input) (domain.StyleDocument, error) {
	if err := ctx.Err(); err != nil {
		return domain.StyleDocument{}, err
	}
	format := FormatYAML
	if in.Ext() == ".json" || detect(in.Data) == FormatJSON {
		format = FormatJSON
	}
	return Decode(in.Data, format)
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (domain.StyleDocument, error) {
	var doc domain.StyleDocument
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return domain.StyleDocument{}, fmt.Errorf("invalid %s style: %w", format, err)
	}
	if doc.Name == "" && len(doc.Rules) == 0 {
		return domain.StyleDocument{}, ErrEmptyStyle
	}
	return doc, nil
}

// Encode renders the document in the given format.
func Encode(doc domain.StyleDocument, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported style format %q", format)
}

func detect(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.HasPrefix(trimmed, []byte("{")):
		return FormatJSON
	case bytes.HasPrefix(trimmed, []byte("name:")), bytes.HasPrefix(trimmed, []byte("rules:")):
		return FormatYAML
	}
	return ""
}
