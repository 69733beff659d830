// Package redis fans snapshot diffs out to other processes over Redis pub/sub.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/cartograph/internal/logging"
	"github.com/aretw0/cartograph/pkg/domain"
)

const (
	// DefaultPrefix namespaces every key and channel the adapter touches.
	DefaultPrefix = "cartograph:"
	// DefaultTTL bounds how long the latest snapshot outlives its session.
	DefaultTTL = 24 * time.Hour
)

// ErrNoSnapshot is returned by Latest when nothing was published yet or the key expired.
var ErrNoSnapshot = errors.New("no snapshot published")

// Watcher is the part of the session controller the publisher follows.
type Watcher interface {
	Watch(ctx context.Context) <-chan *domain.Snapshot
}

// Publisher implements ports.SnapshotPublisher using Redis.
type Publisher struct {
	client backend.UniversalClient
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithPrefix sets the key and channel prefix.
func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// WithTTL sets the expiration of the latest-snapshot key. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(p *Publisher) {
		p.ttl = ttl
	}
}

// WithLogger configures a logger for the Publisher.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher creates a Publisher on an existing client.
func NewPublisher(client backend.UniversalClient, opts ...Option) *Publisher {
	p := &Publisher{
		client: client,
		prefix: DefaultPrefix,
		ttl:    DefaultTTL,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// New connects to addr and returns a Publisher.
func New(addr string, opts ...Option) *Publisher {
	return NewPublisher(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

// Channel returns the pub/sub channel diffs are published on.
func (p *Publisher) Channel() string {
	return p.prefix + "snapshots"
}

func (p *Publisher) latestKey() string {
	return p.prefix + "latest"
}

// Ping checks connectivity.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// Publish sends the diff between prev and next and refreshes the latest
// snapshot key. Version-only changes publish nothing.
func (p *Publisher) Publish(ctx context.Context, prev, next *domain.Snapshot) error {
	diff := domain.Diff(prev, next)
	if diff == nil {
		return nil
	}
	payload, err := json.Marshal(diff)
	if err != nil {
		return fmt.Errorf("failed to marshal diff: %w", err)
	}
	full, err := json.Marshal(domain.Diff(nil, next))
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.Set(ctx, p.latestKey(), full, p.ttl)
	pipe.Publish(ctx, p.Channel(), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis publish failed: %w", err)
	}
	return nil
}

// Run publishes every snapshot w emits until ctx ends.
func (p *Publisher) Run(ctx context.Context, w Watcher) error {
	var prev *domain.Snapshot
	for snap := range w.Watch(ctx) {
		if err := p.Publish(ctx, prev, snap); err != nil {
			if ctx.Err() != nil {
				break
			}
			p.logger.Warn("Snapshot publish failed", "version", snap.Version, "err", err)
			continue
		}
		prev = snap
	}
	return ctx.Err()
}

// Latest returns the full state of the most recently published snapshot.
func (p *Publisher) Latest(ctx context.Context) (*domain.SnapshotDiff, error) {
	val, err := p.client.Get(ctx, p.latestKey()).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var diff domain.SnapshotDiff
	if err := json.Unmarshal(val, &diff); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &diff, nil
}

// Follow subscribes to published diffs. The channel closes when ctx ends.
func (p *Publisher) Follow(ctx context.Context) (<-chan domain.SnapshotDiff, error) {
	pubsub := p.client.Subscribe(ctx, p.Channel())
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis subscribe failed: %w", err)
	}

	out := make(chan domain.SnapshotDiff, 16)
	msgs := pubsub.Channel()
	go func() {
		defer close(out)
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var diff domain.SnapshotDiff
				if err := json.Unmarshal([]byte(msg.Payload), &diff); err != nil {
					p.logger.Warn("Dropping malformed diff", "err", err)
					continue
				}
				select {
				case out <- diff:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
