package ports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/cartograph/pkg/domain"
)

// Input is the raw material of a load request.
// File-based loads set Name and Data (and Path when the file lives on disk);
// service-based loads such as WFS set URL.
type Input struct {
	Name string
	Path string
	URL  string
	Data []byte
}

// FileInput reads the file at path into an Input.
func FileInput(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Input{Name: filepath.Base(path), Path: path, Data: data}, nil
}

// Label identifies the input in errors and logs.
func (in Input) Label() string {
	switch {
	case in.Name != "":
		return in.Name
	case in.Path != "":
		return in.Path
	default:
		return in.URL
	}
}

// Ext returns the lower-cased extension of the input name or path (".sld", ".geojson").
func (in Input) Ext() string {
	name := in.Name
	if name == "" {
		name = in.Path
	}
	return strings.ToLower(filepath.Ext(name))
}

// Source adapts an external parser to a uniform contract.
type Source[T any] interface {
	// Name is the format name reported in ParseErrors (e.g. "SLD").
	Name() string

	// CanHandle reports whether the source accepts the input,
	// by file extension or by sniffing its content.
	CanHandle(in Input) bool

	// Parse produces a value or fails.
	Parse(ctx context.Context, in Input) (T, error)
}

// StyleSource produces style documents.
type StyleSource = Source[domain.StyleDocument]

// DataSource produces dataset descriptions.
type DataSource = Source[domain.DatasetDescription]
