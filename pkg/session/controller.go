package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/cartograph/internal/logging"
	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/locale"
)

// Controller is the single owner of the session state.
// Transitions are serialised and applied in arrival order.
type Controller struct {
	mu      sync.Mutex // serialises transitions
	current atomic.Pointer[domain.Snapshot]

	watchMu  sync.Mutex
	watchers map[uint64]chan *domain.Snapshot
	nextID   uint64

	locale   *locale.Store
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	policy   LoadPolicy
	style    domain.StyleDocument
	prefs    domain.DisplayPreferences
	hasStyle bool
}

// Option configures the Controller.
type Option func(*Controller)

// WithLogger configures a logger for the Controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithLocaleStore shares a locale store with other components.
func WithLocaleStore(store *locale.Store) Option {
	return func(c *Controller) {
		c.locale = store
	}
}

// WithInitialStyle replaces the default style of the first snapshot.
func WithInitialStyle(doc domain.StyleDocument) Option {
	return func(c *Controller) {
		c.style = doc
		c.hasStyle = true
	}
}

// WithPreferences sets the initial display preferences.
func WithPreferences(prefs domain.DisplayPreferences) Option {
	return func(c *Controller) {
		c.prefs = prefs
	}
}

// WithLoadPolicy selects how concurrent loads of the same kind are settled.
func WithLoadPolicy(policy LoadPolicy) Option {
	return func(c *Controller) {
		c.policy = policy
	}
}

// NewController creates a controller holding the default style, no dataset,
// default preferences and the locale store's active bundle.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		watchers: make(map[uint64]chan *domain.Snapshot),
		logger:   logging.NewNop(),
		policy:   LastCompleted,
		prefs:    domain.DefaultPreferences(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.locale == nil {
		c.locale = locale.NewStore(locale.WithLogger(c.logger))
	}
	if !c.hasStyle {
		c.style = domain.DefaultStyle()
	}

	c.current.Store(&domain.Snapshot{
		Version:     1,
		Style:       c.style,
		Preferences: c.prefs,
		Locale:      c.locale.Active(),
	})
	return c
}

// Snapshot returns the current snapshot. The result must not be modified.
func (c *Controller) Snapshot() *domain.Snapshot {
	return c.current.Load()
}

// Policy returns the configured load policy.
func (c *Controller) Policy() LoadPolicy {
	return c.policy
}

// Locale returns a read-only view of the active locale. Language changes go
// through SetLanguage so every switch publishes a snapshot.
func (c *Controller) Locale() locale.View {
	return c.locale.View()
}

// ReplaceStyle makes doc the current style. The document is stored as given.
func (c *Controller) ReplaceStyle(doc domain.StyleDocument) {
	c.apply(domain.TransitionReplaceStyle, func(s *domain.Snapshot) {
		s.Style = doc
	})
}

// OnStyleChanged receives edits from the views.
func (c *Controller) OnStyleChanged(doc domain.StyleDocument) {
	c.ReplaceStyle(doc)
}

// ReplaceDataset makes data the current dataset.
// The style is not checked against the new schema.
func (c *Controller) ReplaceDataset(data domain.DatasetDescription) {
	c.apply(domain.TransitionReplaceDataset, func(s *domain.Snapshot) {
		s.Dataset = &data
	})
}

// ReplaceStyleAndDataset settles a style and a dataset in one snapshot.
func (c *Controller) ReplaceStyleAndDataset(doc domain.StyleDocument, data domain.DatasetDescription) {
	c.apply(domain.TransitionReplaceBoth, func(s *domain.Snapshot) {
		s.Style = doc
		s.Dataset = &data
	})
}

// SetRendererKind changes the renderer used by the graphical editor.
func (c *Controller) SetRendererKind(kind domain.RendererKind) {
	c.apply(domain.TransitionSetRenderer, func(s *domain.Snapshot) {
		s.Preferences.Renderer = kind
	})
}

// SetCompactMode toggles the compact layout of the graphical editor.
func (c *Controller) SetCompactMode(compact bool) {
	c.apply(domain.TransitionSetCompact, func(s *domain.Snapshot) {
		s.Preferences.Compact = compact
	})
}

// SetLanguage switches the locale bundle. Unsupported tags select English.
func (c *Controller) SetLanguage(tag string) {
	c.apply(domain.TransitionSetLanguage, func(s *domain.Snapshot) {
		s.Locale = c.locale.SetLanguage(tag)
	})
}

// apply publishes the result of mutate on a copy of the current snapshot.
func (c *Controller) apply(kind domain.TransitionKind, mutate func(*domain.Snapshot)) {
	c.mu.Lock()
	next := c.current.Load().Next()
	mutate(next)
	c.current.Store(next)
	c.notify(next)
	c.mu.Unlock()

	c.logger.Debug("Session transition", "kind", kind, "version", next.Version)
	if c.hooks.OnTransition != nil {
		c.hooks.OnTransition(context.Background(), &domain.TransitionEvent{
			EventBase: domain.EventBase{Timestamp: time.Now()},
			Kind:      kind,
			Version:   next.Version,
		})
	}
}

// Watch returns a channel carrying the current snapshot followed by every
// later one. A slow reader skips intermediate snapshots but always receives
// the latest. The channel is closed when ctx is done.
func (c *Controller) Watch(ctx context.Context) <-chan *domain.Snapshot {
	ch := make(chan *domain.Snapshot, 1)

	c.watchMu.Lock()
	id := c.nextID
	c.nextID++
	c.watchers[id] = ch
	ch <- c.current.Load()
	c.watchMu.Unlock()

	go func() {
		<-ctx.Done()
		c.watchMu.Lock()
		delete(c.watchers, id)
		close(ch)
		c.watchMu.Unlock()
	}()
	return ch
}

// notify hands snap to every watcher, replacing any value not yet received.
func (c *Controller) notify(snap *domain.Snapshot) {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	for _, ch := range c.watchers {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
