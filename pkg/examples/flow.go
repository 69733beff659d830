package examples

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aretw0/cartograph/internal/logging"
	"github.com/aretw0/cartograph/pkg/domain"
)

// StyleReplacer receives the style picked in the dialog.
type StyleReplacer interface {
	ReplaceStyle(doc domain.StyleDocument)
}

// Flow is the example dialog. It starts Closed.
type Flow struct {
	mu     sync.Mutex
	open   bool
	target StyleReplacer
	logger *slog.Logger
}

// FlowOption configures the Flow.
type FlowOption func(*Flow)

// WithLogger configures a logger for the Flow.
func WithLogger(logger *slog.Logger) FlowOption {
	return func(f *Flow) {
		f.logger = logger
	}
}

// NewFlow creates a closed dialog that installs picked styles into target.
func NewFlow(target StyleReplacer, opts ...FlowOption) *Flow {
	f := &Flow{target: target, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Open shows the dialog. Opening an open dialog has no effect.
func (f *Flow) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = true
}

// Toggle flips the dialog visibility without touching the style.
func (f *Flow) Toggle() domain.ExampleDialogState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = !f.open
	return domain.ExampleDialogState{Open: f.open}
}

// State reports whether the dialog is open.
func (f *Flow) State() domain.ExampleDialogState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.ExampleDialogState{Open: f.open}
}

// Select closes the dialog. A non-nil doc becomes the current style; nil
// cancels. Selecting while the dialog is closed returns domain.ErrDialogClosed.
func (f *Flow) Select(doc *domain.StyleDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.open {
		return domain.ErrDialogClosed
	}
	f.open = false
	if doc == nil {
		f.logger.Debug("Example dialog cancelled")
		return nil
	}
	f.target.ReplaceStyle(*doc)
	f.logger.Debug("Example selected", "style", doc.Name)
	return nil
}

// SelectByID looks id up in catalog and selects it. An empty id cancels.
// Lookup failures keep the dialog open.
func (f *Flow) SelectByID(ctx context.Context, catalog Catalog, id string) error {
	if id == "" {
		return f.Select(nil)
	}
	if !f.State().Open {
		return domain.ErrDialogClosed
	}

	ex, err := catalog.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrExampleNotFound) {
			f.logger.Warn("Example lookup failed", "id", id, "err", err)
		}
		return err
	}
	return f.Select(&ex.Style)
}
