package session_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/loader"
	"github.com/aretw0/cartograph/pkg/ports"
	"github.com/aretw0/cartograph/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedData is a data source whose parses block until released by name.
type gatedData struct {
	mu        sync.Mutex
	gates     map[string]chan struct{}
	ignoreCtx bool
}

func newGatedData(names ...string) *gatedData {
	g := &gatedData{gates: make(map[string]chan struct{})}
	for _, n := range names {
		g.gates[n] = make(chan struct{})
	}
	return g
}

func (g *gatedData) release(name string) { close(g.gates[name]) }

func (g *gatedData) Name() string { return "Gated" }

func (g *gatedData) CanHandle(in ports.Input) bool { return strings.HasSuffix(in.Name, ".gated") }

func (g *gatedData) Parse(ctx context.Context, in ports.Input) (domain.DatasetDescription, error) {
	g.mu.Lock()
	gate, ok := g.gates[in.Name]
	g.mu.Unlock()
	if ok {
		if g.ignoreCtx {
			<-gate
		} else {
			select {
			case <-gate:
			case <-ctx.Done():
				return domain.DatasetDescription{}, ctx.Err()
			}
		}
	}
	if strings.HasPrefix(in.Name, "broken") {
		return domain.DatasetDescription{}, errors.New("unexpected token")
	}
	return domain.DatasetDescription{Format: "Gated", Name: in.Name}, nil
}

// staticStyle parses any ".style" input into a one-rule document named after the input.
type staticStyle struct{}

func (staticStyle) Name() string { return "Static" }

func (staticStyle) CanHandle(in ports.Input) bool { return strings.HasSuffix(in.Name, ".style") }

func (staticStyle) Parse(_ context.Context, in ports.Input) (domain.StyleDocument, error) {
	if strings.HasPrefix(in.Name, "broken") {
		return domain.StyleDocument{}, errors.New("bad style")
	}
	return domain.StyleDocument{Name: in.Name, Rules: []domain.Rule{{Name: "r"}}}, nil
}

func newLoader(ctrl *session.Controller, data ports.DataSource) *session.Loader {
	return session.NewLoader(ctrl,
		loader.NewRegistry[domain.StyleDocument](staticStyle{}),
		loader.NewRegistry[domain.DatasetDescription](data),
	)
}

func waitTicket(t *testing.T, tk *session.Ticket) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := tk.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	return err
}

func TestLoader_LoadStyle(t *testing.T) {
	ctrl := session.NewController()
	l := newLoader(ctrl, newGatedData())

	require.NoError(t, l.LoadStyle(context.Background(), ports.Input{Name: "roads.style"}))
	assert.Equal(t, "roads.style", ctrl.Snapshot().Style.Name)
}

func TestLoader_FailedLoadLeavesSession(t *testing.T) {
	ctrl := session.NewController()
	l := newLoader(ctrl, newGatedData())
	require.NoError(t, l.LoadData(context.Background(), ports.Input{Name: "good.gated"}))
	before := ctrl.Snapshot()

	err := l.LoadStyle(context.Background(), ports.Input{Name: "broken.style"})
	var perr *domain.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Static", perr.Format)

	err = l.LoadData(context.Background(), ports.Input{Name: "broken.gated"})
	require.ErrorAs(t, err, &perr)

	err = l.LoadData(context.Background(), ports.Input{Name: "notes.txt"})
	assert.ErrorIs(t, err, domain.ErrNoCapableSource)

	after := ctrl.Snapshot()
	assert.Same(t, before, after)
	assert.Equal(t, before.Style, after.Style)
	assert.Equal(t, before.Dataset, after.Dataset)
}

func TestLoader_TicketPendingLeavesSession(t *testing.T) {
	ctrl := session.NewController()
	data := newGatedData("slow.gated")
	l := newLoader(ctrl, data)

	tk := l.RequestData(context.Background(), ports.Input{Name: "slow.gated"})
	assert.Nil(t, tk.Err())
	assert.Nil(t, ctrl.Snapshot().Dataset)

	data.release("slow.gated")
	require.NoError(t, waitTicket(t, tk))
	assert.Equal(t, "slow.gated", ctrl.Snapshot().Dataset.Name)
}

func TestLoader_LastCompletedWins(t *testing.T) {
	ctrl := session.NewController()
	data := newGatedData("a.gated", "b.gated")
	l := newLoader(ctrl, data)
	ctx := context.Background()

	a := l.RequestData(ctx, ports.Input{Name: "a.gated"})
	b := l.RequestData(ctx, ports.Input{Name: "b.gated"})

	data.release("b.gated")
	require.NoError(t, waitTicket(t, b))
	assert.Equal(t, "b.gated", ctrl.Snapshot().Dataset.Name)

	data.release("a.gated")
	require.NoError(t, waitTicket(t, a))
	assert.Equal(t, "a.gated", ctrl.Snapshot().Dataset.Name)
}

func TestLoader_LatestRequestWins(t *testing.T) {
	ctrl := session.NewController(session.WithLoadPolicy(session.LatestRequest))
	data := newGatedData("a.gated", "b.gated")
	l := newLoader(ctrl, data)
	ctx := context.Background()

	a := l.RequestData(ctx, ports.Input{Name: "a.gated"})
	b := l.RequestData(ctx, ports.Input{Name: "b.gated"})

	data.release("b.gated")
	require.NoError(t, waitTicket(t, b))

	data.release("a.gated")
	assert.ErrorIs(t, waitTicket(t, a), domain.ErrLoadSuperseded)
	assert.Equal(t, "b.gated", ctrl.Snapshot().Dataset.Name)
}

func TestLoader_LatestRequestDiscardsStaleCompletion(t *testing.T) {
	ctrl := session.NewController(session.WithLoadPolicy(session.LatestRequest))
	data := newGatedData("a.gated", "b.gated")
	data.ignoreCtx = true
	l := newLoader(ctrl, data)
	ctx := context.Background()

	a := l.RequestData(ctx, ports.Input{Name: "a.gated"})
	b := l.RequestData(ctx, ports.Input{Name: "b.gated"})

	data.release("a.gated")
	assert.ErrorIs(t, waitTicket(t, a), domain.ErrLoadSuperseded)
	assert.Nil(t, ctrl.Snapshot().Dataset)

	data.release("b.gated")
	require.NoError(t, waitTicket(t, b))
	assert.Equal(t, "b.gated", ctrl.Snapshot().Dataset.Name)
}

func TestLoader_LoadBothSupersedesPendingRequest(t *testing.T) {
	ctrl := session.NewController(session.WithLoadPolicy(session.LatestRequest))
	data := newGatedData("a.gated")
	data.ignoreCtx = true
	l := newLoader(ctrl, data)
	ctx := context.Background()

	a := l.RequestData(ctx, ports.Input{Name: "a.gated"})
	require.NoError(t, l.LoadBoth(ctx, ports.Input{Name: "s.style"}, ports.Input{Name: "b.gated"}))
	assert.Equal(t, "b.gated", ctrl.Snapshot().Dataset.Name)

	data.release("a.gated")
	assert.ErrorIs(t, waitTicket(t, a), domain.ErrLoadSuperseded)
	assert.Equal(t, "b.gated", ctrl.Snapshot().Dataset.Name)
	assert.Equal(t, "s.style", ctrl.Snapshot().Style.Name)
}

func TestLoader_LoadBothSupersededByNewerRequest(t *testing.T) {
	ctrl := session.NewController(session.WithLoadPolicy(session.LatestRequest))
	data := newGatedData("slow.gated")
	data.ignoreCtx = true
	l := newLoader(ctrl, data)
	ctx := context.Background()

	started := make(chan struct{})
	both := make(chan error, 1)
	go func() {
		close(started)
		both <- l.LoadBoth(ctx, ports.Input{Name: "s.style"}, ports.Input{Name: "slow.gated"})
	}()
	<-started
	// Give LoadBoth time to register before the newer request lands.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, l.LoadStyle(ctx, ports.Input{Name: "newer.style"}))
	data.release("slow.gated")

	select {
	case err := <-both:
		assert.ErrorIs(t, err, domain.ErrLoadSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("LoadBoth did not return")
	}
	assert.Equal(t, "newer.style", ctrl.Snapshot().Style.Name)
	assert.Nil(t, ctrl.Snapshot().Dataset)
}

func TestLoader_LoadBoth(t *testing.T) {
	ctrl := session.NewController()
	l := newLoader(ctrl, newGatedData())

	require.NoError(t, l.LoadBoth(context.Background(), ports.Input{Name: "s.style"}, ports.Input{Name: "d.gated"}))
	snap := ctrl.Snapshot()
	assert.Equal(t, uint64(2), snap.Version)
	assert.Equal(t, "s.style", snap.Style.Name)
	assert.Equal(t, "d.gated", snap.Dataset.Name)

	err := l.LoadBoth(context.Background(), ports.Input{Name: "t.style"}, ports.Input{Name: "broken.gated"})
	require.Error(t, err)
	assert.Same(t, snap, ctrl.Snapshot())
}

func TestLoader_Hooks(t *testing.T) {
	var (
		mu              sync.Mutex
		completed, fail []*domain.LoadEvent
	)
	ctrl := session.NewController(session.WithLifecycleHooks(domain.LifecycleHooks{
		OnLoadCompleted: func(_ context.Context, ev *domain.LoadEvent) {
			mu.Lock()
			completed = append(completed, ev)
			mu.Unlock()
		},
		OnLoadFailed: func(_ context.Context, ev *domain.LoadEvent) {
			mu.Lock()
			fail = append(fail, ev)
			mu.Unlock()
		},
	}))
	l := newLoader(ctrl, newGatedData())

	require.NoError(t, l.LoadStyle(context.Background(), ports.Input{Name: "ok.style"}))
	require.Error(t, l.LoadStyle(context.Background(), ports.Input{Name: "broken.style"}))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, completed, 1)
	require.Len(t, fail, 1)
	assert.Equal(t, domain.LoadStyle, completed[0].Kind)
	assert.Equal(t, "Static", completed[0].Format)
	assert.Equal(t, "broken.style", fail[0].Input)
	assert.Error(t, fail[0].Err)
}

func TestLoader_HooksLoadBoth(t *testing.T) {
	var (
		mu              sync.Mutex
		completed, fail []*domain.LoadEvent
	)
	ctrl := session.NewController(session.WithLifecycleHooks(domain.LifecycleHooks{
		OnLoadCompleted: func(_ context.Context, ev *domain.LoadEvent) {
			mu.Lock()
			completed = append(completed, ev)
			mu.Unlock()
		},
		OnLoadFailed: func(_ context.Context, ev *domain.LoadEvent) {
			mu.Lock()
			fail = append(fail, ev)
			mu.Unlock()
		},
	}))
	l := newLoader(ctrl, newGatedData())

	require.NoError(t, l.LoadBoth(context.Background(), ports.Input{Name: "s.style"}, ports.Input{Name: "d.gated"}))
	require.Error(t, l.LoadBoth(context.Background(), ports.Input{Name: "broken.style"}, ports.Input{Name: "d.gated"}))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, completed, 2)
	assert.ElementsMatch(t, []domain.LoadKind{domain.LoadStyle, domain.LoadData},
		[]domain.LoadKind{completed[0].Kind, completed[1].Kind})

	require.Len(t, fail, 2)
	assert.ElementsMatch(t, []domain.LoadKind{domain.LoadStyle, domain.LoadData},
		[]domain.LoadKind{fail[0].Kind, fail[1].Kind})
	for _, ev := range fail {
		assert.Error(t, ev.Err)
	}
}

func TestParseLoadPolicy(t *testing.T) {
	p, err := session.ParseLoadPolicy("latest-request")
	require.NoError(t, err)
	assert.Equal(t, session.LatestRequest, p)
	assert.Equal(t, "latest-request", p.String())

	p, err = session.ParseLoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, session.LastCompleted, p)

	_, err = session.ParseLoadPolicy("first")
	assert.Error(t, err)
}
