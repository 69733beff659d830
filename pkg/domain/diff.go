package domain

import (
	"reflect"
)

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on remote views.
type SnapshotDiff struct {
	// Version is always present so clients can detect gaps.
	Version uint64 `json:"version"`

	Style       *StyleDocument      `json:"style,omitempty"`
	Dataset     *DatasetDescription `json:"dataset,omitempty"`
	Preferences *DisplayPreferences `json:"preferences,omitempty"`

	// Language carries the new tag; clients fetch the bundle themselves.
	Language *string `json:"language,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing but the version changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{Version: newSnap.Version}

	if oldSnap == nil || !reflect.DeepEqual(oldSnap.Style, newSnap.Style) {
		style := newSnap.Style
		diff.Style = &style
	}
	if newSnap.Dataset != nil && (oldSnap == nil || !reflect.DeepEqual(oldSnap.Dataset, newSnap.Dataset)) {
		diff.Dataset = newSnap.Dataset
	}
	if oldSnap == nil || oldSnap.Preferences != newSnap.Preferences {
		prefs := newSnap.Preferences
		diff.Preferences = &prefs
	}
	if lang := newSnap.Language(); oldSnap == nil || oldSnap.Language() != lang {
		diff.Language = &lang
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Style == nil &&
		d.Dataset == nil &&
		d.Preferences == nil &&
		d.Language == nil
}
