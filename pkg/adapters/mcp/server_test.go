package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cartograph"
	"github.com/aretw0/cartograph/pkg/domain"
)

func newTestServer(t *testing.T) (*Server, *cartograph.Editor) {
	t.Helper()
	ed, err := cartograph.New()
	require.NoError(t, err)
	return NewServer(ed, "test"), ed
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestServer_GetSnapshot(t *testing.T) {
	s, ed := newTestServer(t)

	resp, err := s.handleGetSnapshot(context.Background(), callRequest("get_snapshot", nil), nil)
	require.NoError(t, err)
	assert.Equal(t, ed.Snapshot().Version, resp.Version)
	assert.Equal(t, "en", resp.Language)
	assert.Nil(t, resp.Dataset)
}

func TestServer_Preferences(t *testing.T) {
	s, ed := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleSetLanguage(ctx, callRequest("set_language", nil), languageArgs{Language: "de"})
	require.NoError(t, err)
	assert.Equal(t, "de", resp.Language)

	resp, err = s.handleSetCompact(ctx, callRequest("set_compact", nil), compactArgs{Compact: false})
	require.NoError(t, err)
	assert.False(t, resp.Preferences.Compact)

	resp, err = s.handleSetRenderer(ctx, callRequest("set_renderer", nil), rendererArgs{Renderer: "OpenLayers"})
	require.NoError(t, err)
	assert.Equal(t, domain.RendererOpenLayers, resp.Preferences.Renderer)
	assert.Equal(t, domain.RendererOpenLayers, ed.Snapshot().Preferences.Renderer)

	_, err = s.handleSetRenderer(ctx, callRequest("set_renderer", nil), rendererArgs{Renderer: "Mapnik"})
	assert.Error(t, err)
}

func TestServer_LoadStyle(t *testing.T) {
	s, ed := newTestServer(t)
	ctx := context.Background()

	content := `{"name":"Agent Style","rules":[{"name":"r1","symbolizers":[{"kind":"Line","color":"#ff0000"}]}]}`
	resp, err := s.handleLoadStyle(ctx, callRequest("load_style", nil), loadArgs{Name: "agent.json", Content: content})
	require.NoError(t, err)
	assert.Equal(t, "Agent Style", resp.Style.Name)

	before := ed.Snapshot().Version
	_, err = s.handleLoadStyle(ctx, callRequest("load_style", nil), loadArgs{Name: "broken.json", Content: `{"name": `})
	assert.Error(t, err)
	assert.Equal(t, before, ed.Snapshot().Version)

	_, err = s.handleLoadStyle(ctx, callRequest("load_style", nil), loadArgs{})
	assert.Error(t, err)
}

func TestServer_LoadData(t *testing.T) {
	s, _ := newTestServer(t)

	content := `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"name":"A"}}]}`
	resp, err := s.handleLoadData(context.Background(), callRequest("load_data", nil), loadArgs{Name: "cities.geojson", Content: content})
	require.NoError(t, err)
	require.NotNil(t, resp.Dataset)
	assert.Equal(t, 1, resp.Dataset.FeatureCount)
}

func TestServer_Examples(t *testing.T) {
	s, ed := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleListExamples(ctx, callRequest("list_examples", nil))
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var list []map[string]string
	require.NoError(t, json.Unmarshal([]byte(text.Text), &list))
	assert.NotEmpty(t, list)
	assert.Equal(t, "simple-point", list[0]["id"])

	resp, err := s.handleSelectExample(ctx, callRequest("select_example", nil), selectArgs{ID: "point-with-label"})
	require.NoError(t, err)
	assert.Equal(t, "Point with Label", resp.Style.Name)
	assert.False(t, ed.ExamplesState().Open)

	_, err = s.handleSelectExample(ctx, callRequest("select_example", nil), selectArgs{ID: "nope"})
	assert.ErrorIs(t, err, domain.ErrExampleNotFound)
	assert.False(t, ed.ExamplesState().Open)
	assert.Equal(t, "Point with Label", ed.Snapshot().Style.Name)
}

func TestServer_RenderView(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleRenderView(ctx, callRequest("render_view", map[string]any{"name": domain.ViewSettings}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, "Language:")

	res, err = s.handleRenderView(ctx, callRequest("render_view", map[string]any{"name": "timeline"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_DescribeSymbolizer(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleDescribeSymbolizer(ctx, callRequest("describe_symbolizer", map[string]any{"kind": "Line"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var attrs map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &attrs))
	assert.Equal(t, "number", attrs["width"])

	res, err = s.handleDescribeSymbolizer(ctx, callRequest("describe_symbolizer", map[string]any{"kind": "Hatch"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_ListsTools(t *testing.T) {
	s, _ := newTestServer(t)

	msg := s.MCPServer().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`))
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	for _, name := range []string{"get_snapshot", "set_language", "load_style", "select_example", "render_view"} {
		assert.Contains(t, string(raw), `"`+name+`"`)
	}
}
