package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"studio/internal/config"
	"studio/internal/service"
)

// Server is the MCP server for the studio app. It exposes the theme and
// canvas services so AI agents can propose palettes and lay out elements.
// Token suggestions flow through ThemeService.ApplySuggestion, the only
// sanctioned path for multi-role commits from outside direct edits.
type Server struct {
	mcp      *server.MCPServer
	emitter  service.EventEmitter
	settings config.Settings

	theme  *service.ThemeService
	canvas *service.CanvasService
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter  service.EventEmitter
	Theme    *service.ThemeService
	Canvas   *service.CanvasService
	Settings config.Settings
}

// New creates and configures a new MCP server with all tools.
func New(deps Deps) *Server {
	s := &Server{
		emitter:  deps.Emitter,
		settings: deps.Settings,
		theme:    deps.Theme,
		canvas:   deps.Canvas,
	}

	s.mcp = server.NewMCPServer(
		"studio-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerThemeTools()
	s.registerCanvasTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// parseJSON unmarshals a JSON string argument into v.
func parseJSON(raw string, v any) error {
	return json.Unmarshal([]byte(raw), v)
}

func getFloat(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

func boolPtr(v bool) *bool { return &v }

// emitCanvasChanged notifies the frontend that the canvas changed under it.
func (s *Server) emitCanvasChanged(ctx context.Context) {
	s.emitter.Emit(ctx, "mcp:canvas-changed", nil)
}
