package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/cartograph/internal/logging"
	"github.com/aretw0/cartograph/pkg/domain"
)

// StreamManager fans snapshot diffs out to SSE and WebSocket clients.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[chan string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a client. The returned func unregisters it and closes
// the channel.
func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Subscribers returns the number of connected clients.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends msg to every client. Slow clients lose the message.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.logger.Debug("StreamManager: Broadcasting", "subscribers", len(sm.subscribers), "payload_size", len(msg))
	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("Stream: Client buffer full, dropping message")
		}
	}
}

// Relay broadcasts the diff between consecutive snapshots, starting from
// prev, until snaps closes or ctx ends.
func (sm *StreamManager) Relay(ctx context.Context, prev *domain.Snapshot, snaps <-chan *domain.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snaps:
			if !ok {
				return
			}
			if prev != nil {
				if diff := domain.Diff(prev, snap); diff != nil {
					if data, err := json.Marshal(diff); err == nil {
						sm.Broadcast(string(data))
					} else {
						sm.logger.Error("Failed to encode diff", "err", err)
					}
				}
			}
			prev = snap
		}
	}
}

// matchesWatch reports whether a diff touches one of the watched fields.
func matchesWatch(msg string, fields []string) bool {
	if len(fields) == 0 {
		return true
	}
	var diff domain.SnapshotDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, f := range fields {
		switch f {
		case "style":
			if diff.Style != nil {
				return true
			}
		case "dataset":
			if diff.Dataset != nil {
				return true
			}
		case "preferences":
			if diff.Preferences != nil {
				return true
			}
		case "language":
			if diff.Language != nil {
				return true
			}
		}
	}
	return false
}
