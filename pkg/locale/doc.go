/*
Package locale holds the UI text bundles of the editor shell.

A Bundle is a fully specified record: every label of the shell and of the embedded editor
widgets has a field, and every built-in bundle is validated when the package is loaded.
The Store keeps exactly one active bundle and swaps it with a single atomic store, so the
text labels and the date locale used by date-rendering widgets always change together.
*/
package locale
