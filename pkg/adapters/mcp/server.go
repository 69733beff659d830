// Package mcp exposes an editing session to AI agents over the Model Context
// Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/cartograph/internal/logging"
	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/ports"
	"github.com/aretw0/cartograph/pkg/schema"
)

// SnapshotResponse is the structured result of every state-changing tool.
type SnapshotResponse struct {
	Version     uint64                     `json:"version" jsonschema_description:"Snapshot version, increases on every change"`
	Language    string                     `json:"language" jsonschema_description:"Active UI language"`
	Preferences domain.DisplayPreferences  `json:"preferences" jsonschema_description:"Compact mode and symbolizer renderer"`
	Style       domain.StyleDocument       `json:"style" jsonschema_description:"The current style document"`
	Dataset     *domain.DatasetDescription `json:"dataset,omitempty" jsonschema_description:"Summary of the loaded dataset, if any"`
}

func toResponse(s *domain.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		Version:     s.Version,
		Language:    s.Language(),
		Preferences: s.Preferences,
		Style:       s.Style,
		Dataset:     s.Dataset,
	}
}

type languageArgs struct {
	Language string `json:"language"`
}

type compactArgs struct {
	Compact bool `json:"compact"`
}

type rendererArgs struct {
	Renderer string `json:"renderer"`
}

type loadArgs struct {
	Content string `json:"content"`
	Name    string `json:"name"`
	URL     string `json:"url"`
}

type selectArgs struct {
	ID string `json:"id"`
}

// Server wraps an editor and exposes it as an MCP server.
type Server struct {
	editor    ports.Editor
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates an MCP server for editor.
func NewServer(editor ports.Editor, version string, opts ...Option) *Server {
	s := &Server{
		editor:    editor,
		mcpServer: server.NewMCPServer("cartograph-mcp", version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on port until ctx ends.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_snapshot",
		mcp.WithDescription("Get the current style, dataset summary, preferences and language."),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetSnapshot))

	s.mcpServer.AddTool(mcp.NewTool("set_language",
		mcp.WithDescription("Switch the UI language. Unsupported languages fall back to English."),
		mcp.WithString("language", mcp.Required(), mcp.Description("Language tag, e.g. en, de, es")),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetLanguage))

	s.mcpServer.AddTool(mcp.NewTool("set_compact",
		mcp.WithDescription("Toggle the compact rule list of the graphical editor."),
		mcp.WithBoolean("compact", mcp.Required(), mcp.Description("Whether compact mode is on")),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetCompact))

	s.mcpServer.AddTool(mcp.NewTool("set_renderer",
		mcp.WithDescription("Select the symbolizer renderer."),
		mcp.WithString("renderer", mcp.Required(), mcp.Enum("SLD", "OpenLayers"), mcp.Description("Renderer kind")),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetRenderer))

	s.mcpServer.AddTool(mcp.NewTool("load_style",
		mcp.WithDescription("Parse a style (SLD or GeoStyler JSON/YAML) and make it current. On failure the session is unchanged."),
		mcp.WithString("content", mcp.Description("The style document text")),
		mcp.WithString("name", mcp.Description("File name used to pick the parser, e.g. roads.sld")),
		mcp.WithString("url", mcp.Description("Remote resource to load instead of content")),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleLoadStyle))

	s.mcpServer.AddTool(mcp.NewTool("load_data",
		mcp.WithDescription("Parse a dataset (GeoJSON, or a WFS URL) for the preview. On failure the session is unchanged."),
		mcp.WithString("content", mcp.Description("The dataset text")),
		mcp.WithString("name", mcp.Description("File name used to pick the parser, e.g. cities.geojson")),
		mcp.WithString("url", mcp.Description("WFS endpoint with service=WFS and typeName")),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleLoadData))

	s.mcpServer.AddTool(mcp.NewTool("list_examples",
		mcp.WithDescription("List the example styles that select_example accepts."),
	), s.handleListExamples)

	s.mcpServer.AddTool(mcp.NewTool("select_example",
		mcp.WithDescription("Replace the style with an example. An empty id leaves the style unchanged."),
		mcp.WithString("id", mcp.Description("Example ID from list_examples")),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleSelectExample))

	s.mcpServer.AddTool(mcp.NewTool("describe_symbolizer",
		mcp.WithDescription("List the attributes a symbolizer kind understands and their types."),
		mcp.WithString("kind", mcp.Required(), mcp.Enum("Mark", "Icon", "Fill", "Line", "Text", "Raster"), mcp.Description("Symbolizer kind")),
	), s.handleDescribeSymbolizer)

	s.mcpServer.AddTool(mcp.NewTool("render_view",
		mcp.WithDescription("Render one editor pane of the current session as text."),
		mcp.WithString("name", mcp.Required(), mcp.Enum(domain.ViewGraphical, domain.ViewCode, domain.ViewPreview, domain.ViewSettings), mcp.Description("Pane name")),
	), s.handleRenderView)
}

func (s *Server) handleGetSnapshot(ctx context.Context, request mcp.CallToolRequest, _ map[string]any) (SnapshotResponse, error) {
	return toResponse(s.editor.Snapshot()), nil
}

func (s *Server) handleSetLanguage(ctx context.Context, request mcp.CallToolRequest, args languageArgs) (SnapshotResponse, error) {
	s.editor.SetLanguage(args.Language)
	return toResponse(s.editor.Snapshot()), nil
}

func (s *Server) handleSetCompact(ctx context.Context, request mcp.CallToolRequest, args compactArgs) (SnapshotResponse, error) {
	s.editor.SetCompactMode(args.Compact)
	return toResponse(s.editor.Snapshot()), nil
}

func (s *Server) handleSetRenderer(ctx context.Context, request mcp.CallToolRequest, args rendererArgs) (SnapshotResponse, error) {
	kind, err := domain.ParseRendererKind(args.Renderer)
	if err != nil {
		return SnapshotResponse{}, err
	}
	s.editor.SetRendererKind(kind)
	return toResponse(s.editor.Snapshot()), nil
}

func (s *Server) handleLoadStyle(ctx context.Context, request mcp.CallToolRequest, args loadArgs) (SnapshotResponse, error) {
	return s.load(ctx, args, s.editor.LoadStyle)
}

func (s *Server) handleLoadData(ctx context.Context, request mcp.CallToolRequest, args loadArgs) (SnapshotResponse, error) {
	return s.load(ctx, args, s.editor.LoadData)
}

func (s *Server) load(ctx context.Context, args loadArgs, fn func(context.Context, ports.Input) error) (SnapshotResponse, error) {
	if args.Content == "" && args.URL == "" {
		return SnapshotResponse{}, errors.New("content or url is required")
	}
	in := ports.Input{Name: args.Name, URL: args.URL, Data: []byte(args.Content)}
	if err := fn(ctx, in); err != nil {
		s.logger.Warn("MCP load rejected", "input", in.Label(), "err", err)
		return SnapshotResponse{}, err
	}
	return toResponse(s.editor.Snapshot()), nil
}

func (s *Server) handleListExamples(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.editor.Examples(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}

	type entry struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
	}
	out := make([]entry, len(list))
	for i, ex := range list {
		out[i] = entry{ID: ex.ID, Title: ex.Title, Description: ex.Description}
	}
	jsonBytes, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleSelectExample opens the dialog and selects in one step; agents have
// no dialog to open.
func (s *Server) handleSelectExample(ctx context.Context, request mcp.CallToolRequest, args selectArgs) (SnapshotResponse, error) {
	s.editor.OpenExamples()
	if err := s.editor.SelectExample(ctx, args.ID); err != nil {
		// Leave the dialog closed for the next caller.
		_ = s.editor.SelectExample(ctx, "")
		return SnapshotResponse{}, err
	}
	return toResponse(s.editor.Snapshot()), nil
}

func (s *Server) handleDescribeSymbolizer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := request.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	attrs := schema.ForKind(domain.SymbolizerKind(kind))
	if attrs == nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown symbolizer kind %q", kind)), nil
	}
	jsonBytes, err := json.Marshal(attrs)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleRenderView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := s.editor.Render(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("cartograph://snapshot", "Current Session Snapshot",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(toResponse(s.editor.Snapshot()))
		if err != nil {
			return nil, fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "cartograph://snapshot",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
