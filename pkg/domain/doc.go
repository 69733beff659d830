/*
Package domain contains the core models of the cartograph editor session.

It defines the style document edited by the user, the dataset bound to it for preview,
the display preferences and the immutable Snapshot that combines them. This package is
kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - StyleDocument: A named, ordered list of Rules, each with ordered Symbolizers.
  - DatasetDescription: An opaque summary of a parsed dataset (schema, geometry, bounds).
  - DisplayPreferences: Compact mode and renderer kind of the graphical editor.
  - Snapshot: One consistent, read-only view of the whole session.
*/
package domain
