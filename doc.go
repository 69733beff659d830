/*
Package cartograph is the session core of a cartographic style editor.

An editing session holds exactly one style document, an optional dataset
description used for previewing symbols, display preferences and the active
UI language. Every change produces a new immutable snapshot from which all
panes (rule editor, code editor, map preview and settings bar) are rendered,
so no pane ever shows a half-applied change.

# Architecture

The module follows a hexagonal layout:

  - pkg/session owns the state. Its Controller applies transitions in
    arrival order and publishes snapshots; its Loader runs parsers and
    installs their results only on success.
  - pkg/loader and pkg/adapters/{sld,stylefile,geojson,wfs,shapefile} turn
    external files and services into style documents and dataset
    descriptions. The first source that accepts an input parses it.
  - pkg/examples is the example dialog and its catalogs (built-in or a Loam
    directory via pkg/adapters/loam).
  - pkg/view renders panes from one snapshot and proposes edits back.
  - pkg/adapters/{http,mcp,redis} expose a session to other processes.

# Usage

	ed, err := cartograph.New(cartograph.WithLanguage("de"))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	in, _ := ports.FileInput("cities.geojson")
	if err := ed.LoadData(ctx, in); err != nil {
		log.Printf("load failed, session unchanged: %v", err)
	}

	ed.OpenExamples()
	_ = ed.SelectExample(ctx, "point-with-label")

	frame, _ := ed.Frame(ctx)
	fmt.Println(frame)
*/
package cartograph
