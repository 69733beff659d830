package http

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cartograph/pkg/session"
)

func TestStreamManager_RelayBroadcastsDiffs(t *testing.T) {
	ctrl := session.NewController()
	sm := NewStreamManager(nil)
	ch, unsubscribe := sm.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	snaps := ctrl.Watch(ctx)
	go sm.Relay(ctx, <-snaps, snaps)

	ctrl.SetLanguage("es")

	select {
	case msg := <-ch:
		assert.Contains(t, msg, `"language":"es"`)
		assert.Contains(t, msg, `"version":2`)
	case <-time.After(time.Second):
		t.Fatal("no diff broadcast")
	}
}

func TestStreamManager_UnsubscribeClosesChannel(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, unsubscribe := sm.Subscribe()
	require.Equal(t, 1, sm.Subscribers())

	unsubscribe()
	unsubscribe()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, sm.Subscribers())
	sm.Broadcast("after close")
}

func TestStreamManager_DropsForSlowClients(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, unsubscribe := sm.Subscribe()
	defer unsubscribe()

	for i := 0; i < 20; i++ {
		sm.Broadcast("msg")
	}
	assert.Len(t, ch, cap(ch))
}

func TestMatchesWatch(t *testing.T) {
	lang := `{"version":3,"language":"de"}`
	assert.True(t, matchesWatch(lang, nil))
	assert.True(t, matchesWatch(lang, []string{"style", "language"}))
	assert.False(t, matchesWatch(lang, []string{"style"}))
	assert.False(t, matchesWatch(`{"version":4,"preferences":{"compact":false,"renderer":"SLD"}}`, []string{"dataset"}))
	assert.True(t, matchesWatch(`{"version":4,"dataset":{"format":"GeoJSON"}}`, []string{"dataset"}))
}
