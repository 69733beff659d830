package main

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cartograph/internal/testutils"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(resetFlags)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

// resetFlags restores defaults so flags do not leak between executions.
func resetFlags() {
	rootCmd.SetArgs(nil)
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
}

func TestPreview_SettingsInGerman(t *testing.T) {
	out := execute(t, "preview", "--view", "settings", "--lang", "de", "--renderer", "OpenLayers")
	assert.Contains(t, out, "[DE]")
	assert.Contains(t, out, "(*) OpenLayers")
}

func TestPreview_LoadsFiles(t *testing.T) {
	dir := testutils.WriteFiles(t, map[string]string{
		"roads.json":    `{"name":"Roads","rules":[{"name":"Highways","symbolizers":[{"kind":"Line","color":"#ff0000"}]}]}`,
		"roads.geojson": `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]},"properties":{"ref":"A1"}}]}`,
	})
	style := filepath.Join(dir, "roads.json")
	data := filepath.Join(dir, "roads.geojson")

	out := execute(t, "preview", "--lang", "en", "--style", style, "--data", data)
	assert.Contains(t, out, "Highways")
	assert.Contains(t, out, "roads (GeoJSON)")
}

func TestExamples_ListsCatalog(t *testing.T) {
	out := execute(t, "examples")
	assert.Contains(t, out, "simple-point")
	assert.Contains(t, out, "Point with Label")
}

func TestLoadConfig_RejectsBadRenderer(t *testing.T) {
	rootCmd.SetArgs([]string{"preview", "--renderer", "Mapnik"})
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	t.Cleanup(resetFlags)
	assert.Error(t, rootCmd.Execute())
}
