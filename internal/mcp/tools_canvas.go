package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"studio/internal/placement"
)

func (s *Server) registerCanvasTools() {
	// ── create_element ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_element",
		mcp.WithDescription("Create a canvas element. Position is computed automatically with the chosen placement strategy."),
		mcp.WithString("type",
			mcp.Description("Element type: frame, shape, text, image"),
			mcp.Required(),
		),
		mcp.WithString("strategy", mcp.Description("Placement strategy: spiral (default), proximity, grid")),
		mcp.WithNumber("targetX", mcp.Description("Proximity anchor X (proximity strategy)")),
		mcp.WithNumber("targetY", mcp.Description("Proximity anchor Y (proximity strategy)")),
		mcp.WithNumber("width", mcp.Description("Width (optional, uses configured default)")),
		mcp.WithNumber("height", mcp.Description("Height (optional, uses configured default)")),
		mcp.WithString("label", mcp.Description("Label for the element (optional)")),
	), s.handleCreateElement)

	// ── list_elements ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_elements",
		mcp.WithDescription("List all canvas elements with their geometry"),
	), s.handleListElements)

	// ── move_element ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_element",
		mcp.WithDescription("Move an element to a new position on the canvas"),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y position"), mcp.Required()),
	), s.handleMoveElement)

	// ── delete_elements (destructive) ──────────────────
	s.mcp.AddTool(mcp.NewTool("delete_elements",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete elements. The ids are first surfaced to the user for confirmation."),
		mcp.WithString("elementIds",
			mcp.Description("Comma-separated element IDs to delete"),
			mcp.Required(),
		),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteElements)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleCreateElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	elementType, _ := args["type"].(string)
	if elementType == "" {
		return nil, fmt.Errorf("type is required")
	}

	strategy := placement.StrategySpiral
	switch args["strategy"] {
	case "proximity":
		strategy = placement.StrategyProximity
	case "grid":
		strategy = placement.StrategyGrid
	}

	var target *placement.Point
	if tx, ok := args["targetX"].(float64); ok {
		if ty, ok := args["targetY"].(float64); ok {
			target = &placement.Point{X: tx, Y: ty}
		}
	}

	size := placement.Size{
		W: getFloat(args, "width", s.settings.ElementW),
		H: getFloat(args, "height", s.settings.ElementH),
	}
	label, _ := args["label"].(string)

	e, err := s.canvas.AddElement(ctx, elementType, strategy, s.canvasBounds(), size, target, label)
	if err != nil {
		return nil, fmt.Errorf("create element: %w", err)
	}

	s.emitCanvasChanged(ctx)
	return jsonResult(e)
}

func (s *Server) handleListElements(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	elements, err := s.canvas.ListElements()
	if err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}
	return jsonResult(elements)
}

func (s *Server) handleMoveElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, _ := args["elementId"].(string)
	if id == "" {
		return nil, fmt.Errorf("elementId is required")
	}
	x := getFloat(args, "x", 0)
	y := getFloat(args, "y", 0)

	if err := s.canvas.MoveElement(ctx, id, x, y, 0, 0); err != nil {
		return nil, fmt.Errorf("move element: %w", err)
	}
	s.emitCanvasChanged(ctx)
	return textResult(fmt.Sprintf("Element %s moved to (%g, %g)", id, x, y)), nil
}

// handleDeleteElements only raises the confirmation request; the actual
// mutation happens when the user confirms in the frontend.
func (s *Server) handleDeleteElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, _ := req.GetArguments()["elementIds"].(string)
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("elementIds is required")
	}

	s.emitter.Emit(ctx, "canvas:confirm-delete", ids)
	return textResult(fmt.Sprintf("Requested deletion of %d element(s); awaiting user confirmation", len(ids))), nil
}

// canvasBounds is the placement area offered to agents. Without a live
// viewport report we fall back to a generous fixed canvas.
func (s *Server) canvasBounds() placement.Rect {
	return placement.Rect{X: 0, Y: 0, W: 3840, H: 2160}
}
