// Package session owns the editor state.
//
// A Controller holds the current style document, the optional dataset
// description, the display preferences and the active locale bundle. Every
// mutation publishes a new immutable domain.Snapshot; readers and watchers
// only ever see whole snapshots.
//
// A Loader runs parsers from the loader registries and applies their results
// to a Controller. Failed loads never touch the session.
package session
