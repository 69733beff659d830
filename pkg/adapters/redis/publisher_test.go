package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cartograph/pkg/adapters/redis"
	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/ports"
	"github.com/aretw0/cartograph/pkg/session"
)

var _ ports.SnapshotPublisher = (*redis.Publisher)(nil)

func setup(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Publisher) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	pub := redis.NewPublisher(client, opts...)
	t.Cleanup(func() { _ = pub.Close() })
	return mr, pub
}

func receive(t *testing.T, ch <-chan domain.SnapshotDiff, match func(domain.SnapshotDiff) bool) domain.SnapshotDiff {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case d, ok := <-ch:
			require.True(t, ok, "follow channel closed")
			if match(d) {
				return d
			}
		case <-timeout:
			t.Fatal("timed out waiting for diff")
		}
	}
}

func TestPublisher_PublishAndFollow(t *testing.T) {
	_, pub := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, pub.Ping(ctx))
	diffs, err := pub.Follow(ctx)
	require.NoError(t, err)

	ctrl := session.NewController()
	first := ctrl.Snapshot()
	ctrl.SetCompactMode(false)
	second := ctrl.Snapshot()

	require.NoError(t, pub.Publish(ctx, first, second))

	d := receive(t, diffs, func(domain.SnapshotDiff) bool { return true })
	assert.Equal(t, second.Version, d.Version)
	require.NotNil(t, d.Preferences)
	assert.False(t, d.Preferences.Compact)
	assert.Nil(t, d.Style)
	assert.Nil(t, d.Language)
}

func TestPublisher_SkipsEmptyDiff(t *testing.T) {
	_, pub := setup(t)
	ctx := context.Background()

	snap := session.NewController().Snapshot()
	require.NoError(t, pub.Publish(ctx, snap, snap))

	_, err := pub.Latest(ctx)
	assert.ErrorIs(t, err, redis.ErrNoSnapshot)
}

func TestPublisher_LatestExpires(t *testing.T) {
	mr, pub := setup(t, redis.WithTTL(time.Second), redis.WithPrefix("test:"))
	ctx := context.Background()

	ctrl := session.NewController()
	ctrl.SetLanguage("es")
	require.NoError(t, pub.Publish(ctx, nil, ctrl.Snapshot()))

	latest, err := pub.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest.Language)
	assert.Equal(t, "es", *latest.Language)
	assert.NotNil(t, latest.Style)
	assert.True(t, mr.Exists("test:latest"))

	mr.FastForward(2 * time.Second)
	_, err = pub.Latest(ctx)
	assert.ErrorIs(t, err, redis.ErrNoSnapshot)
}

func TestPublisher_RunFollowsController(t *testing.T) {
	_, pub := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	diffs, err := pub.Follow(ctx)
	require.NoError(t, err)

	ctrl := session.NewController()
	done := make(chan error, 1)
	go func() { done <- pub.Run(ctx, ctrl) }()

	ctrl.SetLanguage("de")
	d := receive(t, diffs, func(d domain.SnapshotDiff) bool {
		return d.Language != nil && *d.Language == "de"
	})
	assert.GreaterOrEqual(t, d.Version, uint64(2))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
