package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/cartograph/pkg/domain"
)

// Frame is one rendering of every pane from a single snapshot.
type Frame struct {
	Version  uint64
	Settings string
	// Panes holds the rendered views in display order.
	Panes []Pane
}

// Pane is a rendered view.
type Pane struct {
	Name  string
	Title string
	Body  string
}

// Pane returns the pane with the given view name.
func (f Frame) Pane(name string) (Pane, bool) {
	for _, p := range f.Panes {
		if p.Name == name {
			return p, true
		}
	}
	return Pane{}, false
}

// String lays the frame out vertically.
func (f Frame) String() string {
	var b strings.Builder
	b.WriteString(f.Settings)
	b.WriteString("\n")
	for _, p := range f.Panes {
		fmt.Fprintf(&b, "\n== %s ==\n%s\n", p.Title, strings.TrimRight(p.Body, "\n"))
	}
	return b.String()
}

// Watcher publishes snapshots.
type Watcher interface {
	Watch(ctx context.Context) <-chan *domain.Snapshot
}

// Shell renders the settings bar and the editor panes together.
type Shell struct {
	settings *Settings
	views    []View
}

// NewShell creates a shell showing views in the given order.
func NewShell(views ...View) *Shell {
	return &Shell{settings: NewSettings(), views: views}
}

// Views returns the panes in display order.
func (s *Shell) Views() []View {
	return s.views
}

// Frame renders every pane from snap.
func (s *Shell) Frame(ctx context.Context, snap *domain.Snapshot) (Frame, error) {
	p := PropsFrom(snap)
	bar, err := s.settings.Render(ctx, p)
	if err != nil {
		return Frame{}, err
	}

	f := Frame{Version: snap.Version, Settings: bar, Panes: make([]Pane, 0, len(s.views))}
	for _, v := range s.views {
		body, err := v.Render(ctx, p)
		if err != nil {
			return Frame{}, fmt.Errorf("failed to render %s: %w", v.Name(), err)
		}
		f.Panes = append(f.Panes, Pane{Name: v.Name(), Title: Title(p, v.Name()), Body: body})
	}
	return f, nil
}

// Bind renders a frame for every snapshot w publishes and hands it to fn
// until ctx ends or fn fails.
func (s *Shell) Bind(ctx context.Context, w Watcher, fn func(Frame) error) error {
	for snap := range w.Watch(ctx) {
		f, err := s.Frame(ctx, snap)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// Title returns the localized heading of a view.
func Title(p Props, name string) string {
	switch name {
	case domain.ViewGraphical:
		return p.Locale.App.GraphicalEditor
	case domain.ViewCode:
		return p.Locale.App.CodeEditor
	case domain.ViewPreview:
		return p.Locale.App.PreviewMap
	default:
		return name
	}
}
