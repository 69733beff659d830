package domain

import "github.com/aretw0/cartograph/pkg/locale"

// Snapshot is one consistent view of the session.
// A published snapshot is never modified; every transition publishes a new one.
type Snapshot struct {
	// Version increases by one on every transition.
	Version uint64 `json:"version"`

	Style       StyleDocument       `json:"style"`
	Dataset     *DatasetDescription `json:"dataset,omitempty"`
	Preferences DisplayPreferences  `json:"preferences"`

	// Locale is shared with the locale package and must be treated as read-only.
	Locale *locale.Bundle `json:"locale"`
}

// Language returns the language tag of the snapshot's bundle.
func (s *Snapshot) Language() string {
	if s == nil || s.Locale == nil {
		return ""
	}
	return s.Locale.Language
}

// Next returns a shallow copy with the version incremented.
// Callers replace whole fields on the copy; they never mutate nested values.
func (s *Snapshot) Next() *Snapshot {
	next := *s
	next.Version++
	return &next
}
