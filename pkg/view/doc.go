// Package view renders the editor panes from a session snapshot.
//
// Views are passive: each Render call receives Props built from one
// domain.Snapshot and returns text. Edits are proposed back through a
// StyleSink as whole new documents; a view never mutates the style it was
// given.
package view
