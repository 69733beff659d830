package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/cartograph/pkg/domain"
)

// Compose returns hooks that call each of hooks in order.
func Compose(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, ev *domain.TransitionEvent) {
			for _, h := range hooks {
				if h.OnTransition != nil {
					h.OnTransition(ctx, ev)
				}
			}
		},
		OnLoadCompleted: func(ctx context.Context, ev *domain.LoadEvent) {
			for _, h := range hooks {
				if h.OnLoadCompleted != nil {
					h.OnLoadCompleted(ctx, ev)
				}
			}
		},
		OnLoadFailed: func(ctx context.Context, ev *domain.LoadEvent) {
			for _, h := range hooks {
				if h.OnLoadFailed != nil {
					h.OnLoadFailed(ctx, ev)
				}
			}
		},
	}
}

// LogHooks logs every lifecycle event at debug level (failures at warn).
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, ev *domain.TransitionEvent) {
			logger.DebugContext(ctx, "transition", "kind", ev.Kind, "version", ev.Version)
		},
		OnLoadCompleted: func(ctx context.Context, ev *domain.LoadEvent) {
			logger.DebugContext(ctx, "load_completed",
				"ticket", ev.TicketID,
				"kind", ev.Kind,
				"format", ev.Format,
				"input", ev.Input,
				"duration", ev.Duration,
			)
		},
		OnLoadFailed: func(ctx context.Context, ev *domain.LoadEvent) {
			logger.WarnContext(ctx, "load_failed",
				"ticket", ev.TicketID,
				"kind", ev.Kind,
				"input", ev.Input,
				"err", ev.Err,
			)
		},
	}
}
