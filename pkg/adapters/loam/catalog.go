// Package loam serves example styles from a directory of Markdown, YAML or
// JSON documents through the Loam library.
package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/examples"
)

// Catalog implements examples.Catalog on top of a Loam repository.
type Catalog struct {
	Repo *loam.TypedRepository[ExampleMetadata]
}

var _ examples.Catalog = (*Catalog)(nil)

// New creates a catalog over an existing typed repository.
func New(repo *loam.TypedRepository[ExampleMetadata]) *Catalog {
	return &Catalog{Repo: repo}
}

// Open initializes a read-only, strict Loam repository at dir.
func Open(dir string) (*Catalog, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ExampleMetadata](repo)), nil
}

// List returns every example sorted by ID.
func (c *Catalog) List(ctx context.Context) ([]examples.Example, error) {
	docs, err := c.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	out := make([]examples.Example, 0, len(docs))
	for _, doc := range docs {
		ex, err := toExample(doc.ID, doc.Data, doc.Content)
		if err != nil {
			return nil, err
		}
		if existing, ok := seen[ex.ID]; ok {
			return nil, fmt.Errorf("collision detected: example '%s' is defined in both '%s' and '%s'", ex.ID, existing, doc.ID)
		}
		seen[ex.ID] = doc.ID
		out = append(out, ex)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get returns the example with the given ID.
func (c *Catalog) Get(ctx context.Context, id string) (examples.Example, error) {
	list, err := c.List(ctx)
	if err != nil {
		return examples.Example{}, err
	}
	for _, ex := range list {
		if ex.ID == id {
			return ex, nil
		}
	}
	return examples.Example{}, fmt.Errorf("%w: %s", domain.ErrExampleNotFound, id)
}

func toExample(docID string, meta ExampleMetadata, content string) (examples.Example, error) {
	rawID := meta.ID
	if rawID == "" {
		rawID = docID
	}
	ex := examples.Example{
		ID:          trimExtension(rawID),
		Title:       meta.Title,
		Description: meta.Description,
	}
	if ex.Title == "" {
		ex.Title = ex.ID
	}
	if ex.Description == "" {
		ex.Description = strings.TrimSpace(content)
	}

	if meta.Style == nil {
		return ex, fmt.Errorf("example %s has no style", ex.ID)
	}
	raw, err := json.Marshal(normalize(meta.Style))
	if err != nil {
		return ex, fmt.Errorf("failed to encode style of %s: %w", ex.ID, err)
	}
	if err := json.Unmarshal(raw, &ex.Style); err != nil {
		return ex, fmt.Errorf("invalid style in %s: %w", ex.ID, err)
	}
	return ex, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
