package ports

import (
	"context"

	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/examples"
)

// Editor is the surface driven by the HTTP and MCP adapters.
type Editor interface {
	Snapshot() *domain.Snapshot
	Watch(ctx context.Context) <-chan *domain.Snapshot

	SetLanguage(tag string)
	SetCompactMode(compact bool)
	SetRendererKind(kind domain.RendererKind)

	// ReplaceStyle installs an edited document.
	ReplaceStyle(doc domain.StyleDocument)
	LoadStyle(ctx context.Context, in Input) error
	LoadData(ctx context.Context, in Input) error

	Examples(ctx context.Context) ([]examples.Example, error)
	OpenExamples()
	ExamplesState() domain.ExampleDialogState
	// SelectExample installs the example with the given ID; an empty ID cancels.
	SelectExample(ctx context.Context, id string) error

	// Render renders one view of the current snapshot.
	Render(ctx context.Context, view string) (string, error)
}
