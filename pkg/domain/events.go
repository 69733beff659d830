package domain

import (
	"context"
	"time"
)

// TransitionKind names the operation that produced a snapshot.
type TransitionKind string

const (
	TransitionReplaceStyle   TransitionKind = "replace_style"
	TransitionReplaceDataset TransitionKind = "replace_dataset"
	TransitionReplaceBoth    TransitionKind = "replace_style_and_dataset"
	TransitionSetRenderer    TransitionKind = "set_renderer"
	TransitionSetCompact     TransitionKind = "set_compact"
	TransitionSetLanguage    TransitionKind = "set_language"
)

// LoadKind distinguishes style loads from data loads.
type LoadKind string

const (
	LoadStyle LoadKind = "style"
	LoadData  LoadKind = "data"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
}

// TransitionEvent is emitted after a snapshot is published.
type TransitionEvent struct {
	EventBase
	Kind    TransitionKind `json:"kind"`
	Version uint64         `json:"version"`
}

// LoadEvent describes a finished load attempt.
type LoadEvent struct {
	EventBase
	TicketID uint64        `json:"ticket_id"`
	Kind     LoadKind      `json:"kind"`
	Format   string        `json:"format,omitempty"`
	Input    string        `json:"input"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for session observability.
type LifecycleHooks struct {
	OnTransition    func(context.Context, *TransitionEvent)
	OnLoadCompleted func(context.Context, *LoadEvent)
	OnLoadFailed    func(context.Context, *LoadEvent)
}
