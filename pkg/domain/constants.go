package domain

// Names of the views fed by a snapshot.
const (
	ViewGraphical = "graphical"
	ViewCode      = "code"
	ViewPreview   = "preview"
	ViewSettings  = "settings"
)
