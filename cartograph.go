package cartograph

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/cartograph/internal/logging"
	"github.com/aretw0/cartograph/pkg/adapters/geojson"
	"github.com/aretw0/cartograph/pkg/adapters/shapefile"
	"github.com/aretw0/cartograph/pkg/adapters/sld"
	"github.com/aretw0/cartograph/pkg/adapters/stylefile"
	"github.com/aretw0/cartograph/pkg/adapters/wfs"
	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/examples"
	"github.com/aretw0/cartograph/pkg/loader"
	"github.com/aretw0/cartograph/pkg/locale"
	"github.com/aretw0/cartograph/pkg/ports"
	"github.com/aretw0/cartograph/pkg/session"
	"github.com/aretw0/cartograph/pkg/view"
)

// Editor is the high-level entry point: one editing session with its
// loaders, example dialog and views.
type Editor struct {
	ctrl    *session.Controller
	loader  *session.Loader
	flow    *examples.Flow
	catalog examples.Catalog
	shell   *view.Shell
	styles  *loader.StyleRegistry
	data    *loader.DataRegistry
	logger  *slog.Logger

	hooks       domain.LifecycleHooks
	policy      session.LoadPolicy
	httpClient  *http.Client
	styleSrcs   []ports.StyleSource
	dataSrcs    []ports.DataSource
	prefs       *domain.DisplayPreferences
	language    string
	initial     *domain.StyleDocument
	graphOpts   []view.GraphicalOption
	previewOpts []view.PreviewOption
	codeOpts    []view.CodeOption
}

var _ ports.Editor = (*Editor)(nil)

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Editor) {
		e.hooks = hooks
	}
}

// WithStyleSources replaces the default style parsers (SLD, style file).
// Sources are tried in the given order.
func WithStyleSources(sources ...ports.StyleSource) Option {
	return func(e *Editor) {
		e.styleSrcs = sources
	}
}

// WithDataSources replaces the default data parsers (GeoJSON, WFS, Shapefile).
func WithDataSources(sources ...ports.DataSource) Option {
	return func(e *Editor) {
		e.dataSrcs = sources
	}
}

// WithCatalog replaces the built-in example catalog.
func WithCatalog(c examples.Catalog) Option {
	return func(e *Editor) {
		e.catalog = c
	}
}

// WithLoadPolicy selects how overlapping loads are settled.
func WithLoadPolicy(p session.LoadPolicy) Option {
	return func(e *Editor) {
		e.policy = p
	}
}

// WithHTTPClient sets the client used by the WFS data source.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Editor) {
		e.httpClient = c
	}
}

// WithPreferences sets the initial display preferences.
func WithPreferences(p domain.DisplayPreferences) Option {
	return func(e *Editor) {
		e.prefs = &p
	}
}

// WithLanguage sets the initial language.
func WithLanguage(tag string) Option {
	return func(e *Editor) {
		e.language = tag
	}
}

// WithInitialStyle replaces the default style of a new session.
func WithInitialStyle(doc domain.StyleDocument) Option {
	return func(e *Editor) {
		e.initial = &doc
	}
}

// WithGraphicalOptions configures the rule editor pane.
func WithGraphicalOptions(opts ...view.GraphicalOption) Option {
	return func(e *Editor) {
		e.graphOpts = append(e.graphOpts, opts...)
	}
}

// WithPreviewOptions configures the map preview pane.
func WithPreviewOptions(opts ...view.PreviewOption) Option {
	return func(e *Editor) {
		e.previewOpts = append(e.previewOpts, opts...)
	}
}

// WithCodeOptions configures the code editor pane.
func WithCodeOptions(opts ...view.CodeOption) Option {
	return func(e *Editor) {
		e.codeOpts = append(e.codeOpts, opts...)
	}
}

// New wires a session with the default parsers and the built-in examples.
func New(opts ...Option) (*Editor, error) {
	e := &Editor{}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.httpClient == nil {
		e.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if e.styleSrcs == nil {
		e.styleSrcs = []ports.StyleSource{sld.New(), stylefile.New()}
	}
	if e.dataSrcs == nil {
		e.dataSrcs = []ports.DataSource{geojson.New(), wfs.New(wfs.WithHTTPClient(e.httpClient)), shapefile.New()}
	}
	if e.catalog == nil {
		e.catalog = examples.Builtin()
	}
	if len(e.styleSrcs) == 0 {
		return nil, fmt.Errorf("at least one style source is required")
	}

	e.styles = loader.NewRegistry(e.styleSrcs...)
	e.data = loader.NewRegistry(e.dataSrcs...)

	store := locale.NewStore(locale.WithLogger(e.logger))
	if e.language != "" {
		store.SetLanguage(e.language)
	}

	ctrlOpts := []session.Option{
		session.WithLogger(e.logger),
		session.WithLifecycleHooks(e.hooks),
		session.WithLocaleStore(store),
		session.WithLoadPolicy(e.policy),
	}
	if e.prefs != nil {
		ctrlOpts = append(ctrlOpts, session.WithPreferences(*e.prefs))
	}
	if e.initial != nil {
		ctrlOpts = append(ctrlOpts, session.WithInitialStyle(*e.initial))
	}
	e.ctrl = session.NewController(ctrlOpts...)
	e.loader = session.NewLoader(e.ctrl, e.styles, e.data, session.WithLoaderLogger(e.logger))
	e.flow = examples.NewFlow(e.ctrl, examples.WithLogger(e.logger))
	e.shell = view.NewShell(
		view.NewGraphical(e.ctrl, e.graphOpts...),
		view.NewCode(e.ctrl, e.styles, e.codeOpts...),
		view.NewPreview(e.previewOpts...),
	)

	e.logger.Debug("Editor initialized",
		"style_sources", e.styles.Names(),
		"data_sources", e.data.Names(),
		"load_policy", e.policy,
	)
	return e, nil
}

// Controller returns the session controller.
func (e *Editor) Controller() *session.Controller { return e.ctrl }

// Loader returns the loader bound to the session.
func (e *Editor) Loader() *session.Loader { return e.loader }

// Flow returns the example dialog.
func (e *Editor) Flow() *examples.Flow { return e.flow }

// Catalog returns the example catalog.
func (e *Editor) Catalog() examples.Catalog { return e.catalog }

// Shell returns the view shell.
func (e *Editor) Shell() *view.Shell { return e.shell }

// Snapshot returns the current session snapshot.
func (e *Editor) Snapshot() *domain.Snapshot { return e.ctrl.Snapshot() }

// Watch streams snapshots until ctx ends.
func (e *Editor) Watch(ctx context.Context) <-chan *domain.Snapshot { return e.ctrl.Watch(ctx) }

// SetLanguage switches the UI language. Unsupported tags select English.
func (e *Editor) SetLanguage(tag string) { e.ctrl.SetLanguage(tag) }

// SetCompactMode toggles the compact rule list.
func (e *Editor) SetCompactMode(compact bool) { e.ctrl.SetCompactMode(compact) }

// SetRendererKind selects the symbolizer renderer.
func (e *Editor) SetRendererKind(kind domain.RendererKind) { e.ctrl.SetRendererKind(kind) }

// ReplaceStyle installs an edited style document.
func (e *Editor) ReplaceStyle(doc domain.StyleDocument) { e.ctrl.OnStyleChanged(doc) }

// LoadStyle parses a style input and installs it.
func (e *Editor) LoadStyle(ctx context.Context, in ports.Input) error {
	return e.loader.LoadStyle(ctx, in)
}

// LoadData parses a data input and installs it.
func (e *Editor) LoadData(ctx context.Context, in ports.Input) error {
	return e.loader.LoadData(ctx, in)
}

// LoadBoth installs a style and a dataset together, or neither.
func (e *Editor) LoadBoth(ctx context.Context, styleIn, dataIn ports.Input) error {
	return e.loader.LoadBoth(ctx, styleIn, dataIn)
}

// Examples lists the catalog.
func (e *Editor) Examples(ctx context.Context) ([]examples.Example, error) {
	return e.catalog.List(ctx)
}

// OpenExamples shows the example dialog.
func (e *Editor) OpenExamples() { e.flow.Open() }

// ToggleExamples shows or hides the example dialog.
func (e *Editor) ToggleExamples() domain.ExampleDialogState { return e.flow.Toggle() }

// ExamplesState reports whether the example dialog is open.
func (e *Editor) ExamplesState() domain.ExampleDialogState { return e.flow.State() }

// SelectExample installs the example with the given ID and closes the dialog.
// An empty ID cancels.
func (e *Editor) SelectExample(ctx context.Context, id string) error {
	return e.flow.SelectByID(ctx, e.catalog, id)
}

// Render renders the named view of the current snapshot.
func (e *Editor) Render(ctx context.Context, name string) (string, error) {
	p := view.PropsFrom(e.ctrl.Snapshot())
	if name == domain.ViewSettings {
		return view.NewSettings().Render(ctx, p)
	}
	for _, v := range e.shell.Views() {
		if v.Name() == name {
			return v.Render(ctx, p)
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnknownView, name)
}

// Frame renders every pane of the current snapshot.
func (e *Editor) Frame(ctx context.Context) (view.Frame, error) {
	return e.shell.Frame(ctx, e.ctrl.Snapshot())
}

// Graphical returns the rule editor pane.
func (e *Editor) Graphical() *view.Graphical {
	return e.shell.Views()[0].(*view.Graphical)
}

// Code returns the code editor pane.
func (e *Editor) Code() *view.Code {
	return e.shell.Views()[1].(*view.Code)
}
