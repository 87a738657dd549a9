package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/surligne"
	"github.com/aretw0/surligne/internal/logging"
	"github.com/aretw0/surligne/internal/presentation/graph"
	"github.com/aretw0/surligne/pkg/domain"
	"github.com/aretw0/surligne/pkg/editor"
	"github.com/aretw0/surligne/pkg/highlight"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ZonesURI is the resource exposing the current configuration.
const ZonesURI = "surligne://zones"

// RenderResponse aligns with the OpenAPI schema and provides a unified structure across adapters.
type RenderResponse struct {
	HTML     string              `json:"html" jsonschema_description:"Escaped text with keywords wrapped in colored spans"`
	Matches  int                 `json:"matches" jsonschema_description:"Number of highlighted keyword occurrences"`
	Segments []highlight.Segment `json:"segments" jsonschema_description:"The text split into literal and matched segments"`
}

// ZonesResponse lists the zones of the configuration.
type ZonesResponse struct {
	Zones []domain.Zone `json:"zones" jsonschema_description:"Zones in declaration order"`
}

type highlightArgs struct {
	Text string `json:"text"`
}

type keywordArgs struct {
	Zone    string `json:"zone"`
	Keyword string `json:"keyword"`
}

type colorArgs struct {
	Zone  string `json:"zone"`
	Color string `json:"color"`
}

type shapeArgs struct {
	Zone  string `json:"zone"`
	Shape string `json:"shape"`
}

type paletteArgs struct {
	Zone    string `json:"zone"`
	Palette string `json:"palette"`
}

// Server exposes an Editor as an MCP Server.
type Server struct {
	editor    *editor.Editor
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(ed *editor.Editor, opts ...Option) *Server {
	s := &Server{
		editor: ed,
		logger: logging.NewNop(),
		mcpServer: server.NewMCPServer("surligne-mcp", strings.TrimSpace(surligne.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, for in-process transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("SSE sessions did not close cleanly", "error", err)
		}
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: highlight
	s.mcpServer.AddTool(mcp.NewTool("highlight",
		mcp.WithDescription("Highlight keywords of the current configuration in a text. Returns escaped HTML."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Plain text to highlight")),
		mcp.WithOutputSchema[RenderResponse](),
	), mcp.NewStructuredToolHandler(s.handleHighlight))

	// TOOL: list_zones
	s.mcpServer.AddTool(mcp.NewTool("list_zones",
		mcp.WithDescription("List zones with their keywords, color and diagram shape."),
		mcp.WithOutputSchema[ZonesResponse](),
	), mcp.NewStructuredToolHandler(s.handleListZones))

	// TOOL: add_keyword
	s.mcpServer.AddTool(mcp.NewTool("add_keyword",
		mcp.WithDescription("Add a keyword to a zone. Keywords are unique across zones, case-insensitively."),
		mcp.WithString("zone", mcp.Required(), mcp.Description("Zone name")),
		mcp.WithString("keyword", mcp.Required(), mcp.Description("Keyword to add")),
		mcp.WithOutputSchema[ZonesResponse](),
	), mcp.NewStructuredToolHandler(s.handleAddKeyword))

	// TOOL: remove_keyword
	s.mcpServer.AddTool(mcp.NewTool("remove_keyword",
		mcp.WithDescription("Remove a keyword from a zone."),
		mcp.WithString("zone", mcp.Required(), mcp.Description("Zone name")),
		mcp.WithString("keyword", mcp.Required(), mcp.Description("Keyword to remove")),
		mcp.WithOutputSchema[ZonesResponse](),
	), mcp.NewStructuredToolHandler(s.handleRemoveKeyword))

	// TOOL: set_zone_color
	s.mcpServer.AddTool(mcp.NewTool("set_zone_color",
		mcp.WithDescription("Change the display color of a zone."),
		mcp.WithString("zone", mcp.Required(), mcp.Description("Zone name")),
		mcp.WithString("color", mcp.Required(), mcp.Description("Hex color, #rgb or #rrggbb")),
		mcp.WithOutputSchema[ZonesResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetZoneColor))

	// TOOL: set_zone_shape
	s.mcpServer.AddTool(mcp.NewTool("set_zone_shape",
		mcp.WithDescription("Change the diagram shape of a zone."),
		mcp.WithString("zone", mcp.Required(), mcp.Description("Zone name")),
		mcp.WithString("shape", mcp.Required(), mcp.Description("rectangle or diamond")),
		mcp.WithOutputSchema[ZonesResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetZoneShape))

	// TOOL: apply_palette
	s.mcpServer.AddTool(mcp.NewTool("apply_palette",
		mcp.WithDescription("Set a zone color from a named palette (simple, vivid)."),
		mcp.WithString("zone", mcp.Required(), mcp.Description("Zone name")),
		mcp.WithString("palette", mcp.Required(), mcp.Description("Palette name")),
		mcp.WithOutputSchema[ZonesResponse](),
	), mcp.NewStructuredToolHandler(s.handleApplyPalette))

	// TOOL: diagram
	s.mcpServer.AddTool(mcp.NewTool("diagram",
		mcp.WithDescription("Get a Mermaid flowchart of the zones and their keywords."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(graph.GenerateMermaid(s.editor.Configuration(), nil)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleHighlight(ctx context.Context, request mcp.CallToolRequest, args highlightArgs) (RenderResponse, error) {
	segments := s.editor.Segments(args.Text)
	return RenderResponse{
		HTML:     highlight.RenderHTML(segments),
		Matches:  highlight.Matches(segments),
		Segments: segments,
	}, nil
}

func (s *Server) handleListZones(ctx context.Context, request mcp.CallToolRequest, args struct{}) (ZonesResponse, error) {
	return s.zones(), nil
}

func (s *Server) handleAddKeyword(ctx context.Context, request mcp.CallToolRequest, args keywordArgs) (ZonesResponse, error) {
	return s.mutate(s.editor.AddKeyword(ctx, args.Zone, args.Keyword))
}

func (s *Server) handleRemoveKeyword(ctx context.Context, request mcp.CallToolRequest, args keywordArgs) (ZonesResponse, error) {
	return s.mutate(s.editor.RemoveKeyword(ctx, args.Zone, args.Keyword))
}

func (s *Server) handleSetZoneColor(ctx context.Context, request mcp.CallToolRequest, args colorArgs) (ZonesResponse, error) {
	return s.mutate(s.editor.SetZoneColor(ctx, args.Zone, args.Color))
}

func (s *Server) handleSetZoneShape(ctx context.Context, request mcp.CallToolRequest, args shapeArgs) (ZonesResponse, error) {
	return s.mutate(s.editor.SetZoneShape(ctx, args.Zone, args.Shape))
}

func (s *Server) handleApplyPalette(ctx context.Context, request mcp.CallToolRequest, args paletteArgs) (ZonesResponse, error) {
	return s.mutate(s.editor.ApplyPalette(ctx, args.Zone, domain.Palette(args.Palette)))
}

func (s *Server) mutate(err error) (ZonesResponse, error) {
	if err != nil {
		s.logger.Warn("MCP: mutation rejected", "error", err)
		return ZonesResponse{}, err
	}
	return s.zones(), nil
}

func (s *Server) zones() ZonesResponse {
	zones := s.editor.Configuration().Zones
	if zones == nil {
		zones = []domain.Zone{}
	}
	return ZonesResponse{Zones: zones}
}

func (s *Server) registerResources() {
	// EXPOSE: surligne://zones
	s.mcpServer.AddResource(mcp.NewResource(ZonesURI, "Zone Configuration",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.zones())
		if err != nil {
			return nil, fmt.Errorf("failed to encode zones: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ZonesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
