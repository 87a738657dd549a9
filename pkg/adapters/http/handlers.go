package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/aretw0/surligne/internal/presentation/graph"
	"github.com/aretw0/surligne/pkg/domain"
	"github.com/aretw0/surligne/pkg/highlight"
	"github.com/aretw0/surligne/pkg/workspace"
	"github.com/go-chi/chi/v5"
)

// HighlightRequest is the body of POST /highlight.
type HighlightRequest struct {
	Text  string        `json:"text"`
	Zones []domain.Zone `json:"zones,omitempty"`
}

// RenderResponse is the body returned by POST /highlight.
type RenderResponse struct {
	HTML     string              `json:"html"`
	Matches  int                 `json:"matches"`
	Segments []highlight.Segment `json:"segments"`
}

// WorkspaceView is the body returned by workspace routes.
type WorkspaceView struct {
	ID      string        `json:"id"`
	Text    string        `json:"text"`
	HTML    string        `json:"html"`
	Matches int           `json:"matches"`
	Zones   []domain.Zone `json:"zones"`
}

// Highlight handles the POST /highlight request.
func (s *Server) Highlight(w http.ResponseWriter, r *http.Request) {
	var body HighlightRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Highlight: invalid request body", "error", err)
		return
	}

	cfg := s.Workspaces.Base()
	if body.Zones != nil {
		var err error
		if cfg, err = domain.NewConfiguration(body.Zones...); err != nil {
			writeError(w, err, s.logger)
			return
		}
	}

	start := time.Now()
	segments := s.engine.Segments(body.Text, cfg)
	matches := highlight.Matches(segments)
	s.metrics.ObserveRender(time.Since(start), matches)

	writeJSON(w, http.StatusOK, RenderResponse{
		HTML:     highlight.RenderHTML(segments),
		Matches:  matches,
		Segments: segments,
	}, s.logger)
}

// GetWorkspace handles GET /workspaces/{id}; unknown workspaces are created.
func (s *Server) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.open(w, r)
	if !ok {
		return
	}
	s.writeView(w, http.StatusOK, ws)
}

// DeleteWorkspace handles DELETE /workspaces/{id}.
func (s *Server) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	if err := s.Workspaces.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err, s.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetText handles PUT /workspaces/{id}/text.
func (s *Server) SetText(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	ws, ok := s.open(w, r)
	if !ok {
		return
	}
	ws.SetText(body.Text)
	s.writeView(w, http.StatusOK, ws)
}

// AddZone handles POST /workspaces/{id}/zones.
func (s *Server) AddZone(w http.ResponseWriter, r *http.Request) {
	var zone domain.Zone
	if !s.decode(w, r, &zone) {
		return
	}
	ws, ok := s.open(w, r)
	if !ok {
		return
	}
	if err := ws.Editor().AddZone(r.Context(), zone); err != nil {
		writeError(w, err, s.logger)
		return
	}
	s.writeView(w, http.StatusCreated, ws)
}

// RemoveZone handles DELETE /workspaces/{id}/zones/{zone}.
func (s *Server) RemoveZone(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.open(w, r)
	if !ok {
		return
	}
	if err := ws.Editor().RemoveZone(r.Context(), pathParam(r, "zone")); err != nil {
		writeError(w, err, s.logger)
		return
	}
	s.writeView(w, http.StatusOK, ws)
}

// AddKeyword handles POST /workspaces/{id}/zones/{zone}/keywords.
func (s *Server) AddKeyword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Keyword string `json:"keyword"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	ws, ok := s.open(w, r)
	if !ok {
		return
	}
	if err := ws.Editor().AddKeyword(r.Context(), pathParam(r, "zone"), body.Keyword); err != nil {
		writeError(w, err, s.logger)
		return
	}
	s.writeView(w, http.StatusCreated, ws)
}

// RemoveKeyword handles DELETE /workspaces/{id}/zones/{zone}/keywords/{keyword}.
func (s *Server) RemoveKeyword(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.open(w, r)
	if !ok {
		return
	}
	if err := ws.Editor().RemoveKeyword(r.Context(), pathParam(r, "zone"), pathParam(r, "keyword")); err != nil {
		writeError(w, err, s.logger)
		return
	}
	s.writeView(w, http.StatusOK, ws)
}

// SetZoneColor handles PUT /workspaces/{id}/zones/{zone}/color.
func (s *Server) SetZoneColor(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Color string `json:"color"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	ws, ok := s.open(w, r)
	if !ok {
		return
	}
	if err := ws.Editor().SetZoneColor(r.Context(), pathParam(r, "zone"), body.Color); err != nil {
		writeError(w, err, s.logger)
		return
	}
	s.writeView(w, http.StatusOK, ws)
}

// SetZoneShape handles PUT /workspaces/{id}/zones/{zone}/shape.
func (s *Server) SetZoneShape(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Shape string `json:"shape"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	ws, ok := s.open(w, r)
	if !ok {
		return
	}
	if err := ws.Editor().SetZoneShape(r.Context(), pathParam(r, "zone"), body.Shape); err != nil {
		writeError(w, err, s.logger)
		return
	}
	s.writeView(w, http.StatusOK, ws)
}

// ApplyPalette handles PUT /workspaces/{id}/zones/{zone}/palette.
func (s *Server) ApplyPalette(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Palette string `json:"palette"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	ws, ok := s.open(w, r)
	if !ok {
		return
	}
	if err := ws.Editor().ApplyPalette(r.Context(), pathParam(r, "zone"), domain.Palette(body.Palette)); err != nil {
		writeError(w, err, s.logger)
		return
	}
	s.writeView(w, http.StatusOK, ws)
}

// GetDiagram handles GET /workspaces/{id}/diagram. Keywords present in the
// workspace text are outlined.
func (s *Server) GetDiagram(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.open(w, r)
	if !ok {
		return
	}
	overlay := graph.OverlayFrom(ws.Render().Segments)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(graph.GenerateMermaid(ws.Editor().Configuration(), overlay)))
}

// -- Helpers --

func (s *Server) open(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	ws, err := s.Workspaces.Open(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, s.logger)
		return nil, false
	}
	return ws, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		return false
	}
	return true
}

func (s *Server) writeView(w http.ResponseWriter, status int, ws *workspace.Workspace) {
	start := time.Now()
	render := ws.Render()
	s.metrics.ObserveRender(time.Since(start), render.Matches)

	writeJSON(w, status, WorkspaceView{
		ID:      ws.ID(),
		Text:    render.Text,
		HTML:    render.HTML,
		Matches: render.Matches,
		Zones:   ws.Editor().Configuration().Zones,
	}, s.logger)
}

// pathParam returns a decoded chi URL parameter; keywords may hold escaped '/' or '%'.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
