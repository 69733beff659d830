// Package examples implements the example picker: a catalog of ready-made
// styles and the dialog flow that either installs one of them as the current
// style or is cancelled without effect.
package examples
