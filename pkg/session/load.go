package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/cartograph/internal/logging"
	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/loader"
	"github.com/aretw0/cartograph/pkg/ports"
)

// LoadPolicy decides which of two overlapping loads of the same kind wins.
type LoadPolicy int

const (
	// LastCompleted applies every successful load in completion order.
	LastCompleted LoadPolicy = iota
	// LatestRequest cancels older pending loads when a new one of the same
	// kind is requested; their results are discarded with ErrLoadSuperseded.
	LatestRequest
)

func (p LoadPolicy) String() string {
	switch p {
	case LatestRequest:
		return "latest-request"
	default:
		return "last-completed"
	}
}

// ParseLoadPolicy maps a policy name back to its value.
func ParseLoadPolicy(s string) (LoadPolicy, error) {
	switch s {
	case "", "last-completed":
		return LastCompleted, nil
	case "latest-request":
		return LatestRequest, nil
	}
	return LastCompleted, errors.New("unknown load policy: " + s)
}

// Ticket tracks one asynchronous load.
type Ticket struct {
	ID   uint64
	Kind domain.LoadKind

	done   chan struct{}
	err    error
	cancel context.CancelFunc
}

// Done is closed when the load has settled.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Err returns the outcome of a settled load, or nil while it is pending.
func (t *Ticket) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the load settles or ctx ends.
func (t *Ticket) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Loader parses external inputs and applies the results to a Controller.
type Loader struct {
	ctrl   *Controller
	styles *loader.StyleRegistry
	data   *loader.DataRegistry
	logger *slog.Logger

	seq    atomic.Uint64
	mu     sync.Mutex
	latest map[domain.LoadKind]*Ticket
}

// LoaderOption configures the Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger configures a logger for the Loader.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader binds the registries to ctrl.
func NewLoader(ctrl *Controller, styles *loader.StyleRegistry, data *loader.DataRegistry, opts ...LoaderOption) *Loader {
	l := &Loader{
		ctrl:   ctrl,
		styles: styles,
		data:   data,
		logger: logging.NewNop(),
		latest: make(map[domain.LoadKind]*Ticket),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RequestStyle starts parsing a style input. The session is untouched until
// the parse succeeds.
func (l *Loader) RequestStyle(ctx context.Context, in ports.Input) *Ticket {
	return request(l, ctx, domain.LoadStyle, in, l.styles.Parse, l.ctrl.ReplaceStyle)
}

// RequestData starts parsing a data input.
func (l *Loader) RequestData(ctx context.Context, in ports.Input) *Ticket {
	return request(l, ctx, domain.LoadData, in, l.data.Parse, l.ctrl.ReplaceDataset)
}

// LoadStyle parses a style input and applies it before returning.
func (l *Loader) LoadStyle(ctx context.Context, in ports.Input) error {
	return l.RequestStyle(ctx, in).Wait(ctx)
}

// LoadData parses a data input and applies it before returning.
func (l *Loader) LoadData(ctx context.Context, in ports.Input) error {
	return l.RequestData(ctx, in).Wait(ctx)
}

// LoadBoth parses a style and a dataset concurrently and applies them in a
// single transition. If either fails, neither is applied. Under LatestRequest
// it supersedes pending loads of both kinds and is itself superseded by a
// newer request of either kind.
func (l *Loader) LoadBoth(ctx context.Context, styleIn, dataIn ports.Input) error {
	st := l.newTicket(domain.LoadStyle)
	dt := l.newTicket(domain.LoadData)

	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if l.ctrl.policy == LatestRequest {
		st.cancel, dt.cancel = cancel, cancel
		l.track(st, dt)
	}

	var (
		doc                     domain.StyleDocument
		data                    domain.DatasetDescription
		styleFormat, dataFormat string
		styleErr, dataErr       error
	)
	start := time.Now()

	g, gctx := errgroup.WithContext(loadCtx)
	g.Go(func() error {
		doc, styleFormat, styleErr = l.styles.Parse(gctx, styleIn)
		return styleErr
	})
	g.Go(func() error {
		data, dataFormat, dataErr = l.data.Parse(gctx, dataIn)
		return dataErr
	})
	err := g.Wait()
	if err == nil {
		err = l.settle(func() { l.ctrl.ReplaceStyleAndDataset(doc, data) }, st, dt)
	} else if l.superseded(st, dt) {
		err = domain.ErrLoadSuperseded
	}

	// The kind that parsed cleanly still failed to apply when its partner did not.
	if errors.Is(err, domain.ErrLoadSuperseded) {
		styleErr, dataErr = err, err
	} else if err != nil {
		if styleErr == nil || errors.Is(styleErr, context.Canceled) {
			styleErr = err
		}
		if dataErr == nil || errors.Is(dataErr, context.Canceled) {
			dataErr = err
		}
	}
	d := time.Since(start)
	for _, r := range []struct {
		t      *Ticket
		in     ports.Input
		format string
		err    error
	}{
		{st, styleIn, styleFormat, styleErr},
		{dt, dataIn, dataFormat, dataErr},
	} {
		l.report(ctx, r.t, r.in, r.format, d, r.err)
		r.t.err = r.err
		close(r.t.done)
	}
	return err
}

// request runs parse in the background and settles the ticket.
func request[T any](
	l *Loader,
	ctx context.Context,
	kind domain.LoadKind,
	in ports.Input,
	parse func(context.Context, ports.Input) (T, string, error),
	apply func(T),
) *Ticket {
	t := l.newTicket(kind)

	loadCtx := ctx
	if l.ctrl.policy == LatestRequest {
		loadCtx, t.cancel = context.WithCancel(ctx)
		l.track(t)
	}

	go func() {
		start := time.Now()
		v, format, err := parse(loadCtx, in)
		if err == nil {
			err = l.settle(func() { apply(v) }, t)
		} else if l.superseded(t) {
			err = domain.ErrLoadSuperseded
		}
		if t.cancel != nil {
			t.cancel()
		}
		l.report(ctx, t, in, format, time.Since(start), err)
		t.err = err
		close(t.done)
	}()
	return t
}

func (l *Loader) newTicket(kind domain.LoadKind) *Ticket {
	return &Ticket{
		ID:   l.seq.Add(1),
		Kind: kind,
		done: make(chan struct{}),
	}
}

// track makes ts the latest request of their kinds and cancels whatever
// they replace.
func (l *Loader) track(ts ...*Ticket) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range ts {
		if prev := l.latest[t.Kind]; prev != nil && prev.cancel != nil {
			prev.cancel()
		}
		l.latest[t.Kind] = t
	}
}

// settle applies a successful result unless a newer request replaced any of ts.
func (l *Loader) settle(apply func(), ts ...*Ticket) error {
	if l.ctrl.policy != LatestRequest {
		apply()
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	stale := l.release(ts)
	if stale {
		return domain.ErrLoadSuperseded
	}
	apply()
	return nil
}

func (l *Loader) superseded(ts ...*Ticket) bool {
	if l.ctrl.policy != LatestRequest {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.release(ts)
}

// release drops the entries still owned by ts and reports whether any of
// them had been replaced. l.mu must be held.
func (l *Loader) release(ts []*Ticket) bool {
	stale := false
	for _, t := range ts {
		if l.latest[t.Kind] == t {
			delete(l.latest, t.Kind)
		} else {
			stale = true
		}
	}
	return stale
}

func (l *Loader) report(ctx context.Context, t *Ticket, in ports.Input, format string, d time.Duration, err error) {
	ev := &domain.LoadEvent{
		EventBase: domain.EventBase{Timestamp: time.Now()},
		TicketID:  t.ID,
		Kind:      t.Kind,
		Format:    format,
		Input:     in.Label(),
		Duration:  d,
		Err:       err,
	}
	hooks := l.ctrl.hooks

	if err != nil {
		l.logger.Warn("Load failed", "kind", t.Kind, "input", ev.Input, "err", err)
		if hooks.OnLoadFailed != nil {
			hooks.OnLoadFailed(ctx, ev)
		}
		return
	}
	l.logger.Info("Loaded", "kind", t.Kind, "format", format, "input", ev.Input, "duration", d)
	if hooks.OnLoadCompleted != nil {
		hooks.OnLoadCompleted(ctx, ev)
	}
}
