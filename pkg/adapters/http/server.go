// Package http exposes an editing session over HTTP: settings, loads and
// example selection as REST calls, rendered panes as text, and snapshot
// diffs over Server-Sent Events and WebSockets.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/aretw0/cartograph/internal/logging"
	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/ports"
)

// DefaultMaxUpload bounds request bodies carrying style or data files.
const DefaultMaxUpload = 64 << 20

// Server serves one editor.
type Server struct {
	Editor  ports.Editor
	Streams *StreamManager

	version   string
	metrics   http.Handler
	maxUpload int64
	logger    *slog.Logger
	upgrader  websocket.Upgrader
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithMaxUpload bounds the body of style and data uploads. Larger bodies
// are rejected with 413.
func WithMaxUpload(n int64) Option {
	return func(s *Server) {
		s.maxUpload = n
	}
}

// NewServer creates a server for editor. Call Start to begin relaying
// snapshot diffs to stream clients.
func NewServer(editor ports.Editor, opts ...Option) *Server {
	s := &Server{
		Editor:    editor,
		version:   "dev",
		maxUpload: DefaultMaxUpload,
		logger:    logging.NewNop(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// Start relays snapshot diffs to stream clients until ctx ends.
// Changes made after Start returns are always relayed.
func (s *Server) Start(ctx context.Context) {
	snaps := s.Editor.Watch(ctx)
	first := <-snaps
	go s.Streams.Relay(ctx, first, snaps)
}

// Handler returns the routes wrapped in the CORS middleware.
func (s *Server) Handler() http.Handler {
	return enableCORS(s.Router())
}

// Router returns the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/snapshot", s.GetSnapshot)

	r.Route("/settings", func(r chi.Router) {
		r.Put("/language", s.SetLanguage)
		r.Put("/compact", s.SetCompact)
		r.Put("/renderer", s.SetRenderer)
	})

	r.Post("/style", s.LoadStyle)
	r.Put("/style", s.ReplaceStyle)
	r.Post("/data", s.LoadData)

	r.Get("/examples", s.ListExamples)
	r.Post("/examples/open", s.OpenExamples)
	r.Post("/examples/select", s.SelectExample)

	r.Get("/views/{name}", s.RenderView)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/ws", s.SubscribeWebSocket)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := GetSwagger(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "cartograph-http",
		"version":     s.version,
		"api_version": apiVersion,
	})
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(rawSpec)
}

// GetSnapshot handles GET /snapshot.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Editor.Snapshot())
}

// SetLanguage handles PUT /settings/language.
func (s *Server) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Language string `json:"language"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	s.Editor.SetLanguage(body.Language)
	writeJSON(w, http.StatusOK, s.Editor.Snapshot())
}

// SetCompact handles PUT /settings/compact.
func (s *Server) SetCompact(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Compact *bool `json:"compact"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if body.Compact == nil {
		writeError(w, http.StatusBadRequest, errors.New("compact is required"), "")
		return
	}
	s.Editor.SetCompactMode(*body.Compact)
	writeJSON(w, http.StatusOK, s.Editor.Snapshot())
}

// SetRenderer handles PUT /settings/renderer.
func (s *Server) SetRenderer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Renderer string `json:"renderer"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	kind, err := domain.ParseRendererKind(body.Renderer)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}
	s.Editor.SetRendererKind(kind)
	writeJSON(w, http.StatusOK, s.Editor.Snapshot())
}

// LoadStyle handles POST /style.
func (s *Server) LoadStyle(w http.ResponseWriter, r *http.Request) {
	s.load(w, r, s.Editor.LoadStyle)
}

// LoadData handles POST /data.
func (s *Server) LoadData(w http.ResponseWriter, r *http.Request) {
	s.load(w, r, s.Editor.LoadData)
}

func (s *Server) load(w http.ResponseWriter, r *http.Request, fn func(context.Context, ports.Input) error) {
	in := ports.Input{
		Name: r.URL.Query().Get("name"),
		URL:  r.URL.Query().Get("url"),
	}
	if in.URL == "" {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxUpload))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("body exceeds %d bytes", tooLarge.Limit), "")
				return
			}
			writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err), "")
			return
		}
		in.Data = data
	}

	if err := fn(r.Context(), in); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Editor.Snapshot())
}

// ReplaceStyle handles PUT /style.
func (s *Server) ReplaceStyle(w http.ResponseWriter, r *http.Request) {
	var doc domain.StyleDocument
	if !s.decode(w, r, &doc) {
		return
	}
	s.Editor.ReplaceStyle(doc)
	writeJSON(w, http.StatusOK, s.Editor.Snapshot())
}

// ListExamples handles GET /examples.
func (s *Server) ListExamples(w http.ResponseWriter, r *http.Request) {
	list, err := s.Editor.Examples(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// OpenExamples handles POST /examples/open.
func (s *Server) OpenExamples(w http.ResponseWriter, r *http.Request) {
	s.Editor.OpenExamples()
	writeJSON(w, http.StatusOK, s.Editor.ExamplesState())
}

// SelectExample handles POST /examples/select. An empty body or ID cancels.
func (s *Server) SelectExample(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if r.ContentLength != 0 && !s.decode(w, r, &body) {
		return
	}
	if err := s.Editor.SelectExample(r.Context(), body.ID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Editor.Snapshot())
}

// RenderView handles GET /views/{name}.
func (s *Server) RenderView(w http.ResponseWriter, r *http.Request) {
	out, err := s.Editor.Render(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, out)
}

// SubscribeEvents handles GET /events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	var watch []string
	if v := r.URL.Query().Get("watch"); v != "" {
		for _, f := range strings.Split(v, ",") {
			watch = append(watch, strings.TrimSpace(f))
		}
	}

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: Client connected", "watch", watch)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if !matchesWatch(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// SubscribeWebSocket handles GET /ws. Each text message is a snapshot diff.
func (s *Server) SubscribeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket: Upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	// The read loop only detects the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	snap, err := json.Marshal(domain.Diff(nil, s.Editor.Snapshot()))
	if err == nil {
		err = conn.WriteMessage(websocket.TextMessage, snap)
	}
	if err != nil {
		s.logger.Warn("WebSocket: Write failed", "err", err)
		return
	}

	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				s.logger.Warn("WebSocket: Write failed", "err", err)
				return
			}
		}
	}
}

// -- Helpers --

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err), "")
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		return false
	}
	return true
}

// writeDomainError maps domain errors to status codes. The session is never
// changed by a failing request.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var perr *domain.ParseError
	switch {
	case errors.As(err, &perr):
		writeError(w, http.StatusUnprocessableEntity, err, perr.Format)
	case errors.Is(err, domain.ErrExampleNotFound), errors.Is(err, domain.ErrUnknownView):
		writeError(w, http.StatusNotFound, err, "")
	case errors.Is(err, domain.ErrDialogClosed), errors.Is(err, domain.ErrLoadSuperseded):
		writeError(w, http.StatusConflict, err, "")
	case errors.Is(err, context.Canceled):
		writeError(w, 499, err, "")
	default:
		s.logger.Error("Request failed", "err", err)
		writeError(w, http.StatusInternalServerError, err, "")
	}
}

func writeError(w http.ResponseWriter, status int, err error, format string) {
	body := map[string]string{"error": err.Error()}
	if format != "" {
		body["format"] = format
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
