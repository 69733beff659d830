package ports

import (
	"context"

	"github.com/aretw0/cartograph/pkg/domain"
)

// SnapshotPublisher relays snapshot changes to views outside the process.
type SnapshotPublisher interface {
	// Publish sends the diff between prev and next. prev is nil for the first snapshot.
	Publish(ctx context.Context, prev, next *domain.Snapshot) error
}
