package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"studio/internal/domain"
	"studio/internal/service"
)

func (s *Server) registerThemeTools() {
	// ── list_tokens ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_tokens",
		mcp.WithDescription("List the effective design tokens: every color role (HSL) and font role"),
	), s.handleListTokens)

	// ── set_token ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_token",
		mcp.WithDescription("Commit one design token. Color roles: background, surface, primary, secondary, accent, text, muted, border. Font roles: heading, body, mono."),
		mcp.WithString("role", mcp.Description("Token role name"), mcp.Required()),
		mcp.WithNumber("h", mcp.Description("Hue in degrees (color roles)")),
		mcp.WithNumber("s", mcp.Description("Saturation 0..1 (color roles)")),
		mcp.WithNumber("l", mcp.Description("Lightness 0..1 (color roles)")),
		mcp.WithString("font", mcp.Description("Font stack (font roles)")),
		mcp.WithString("description", mcp.Description("History label for this edit")),
	), s.handleSetToken)

	// ── apply_palette ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("apply_palette",
		mcp.WithDescription("Apply a named set of token changes as a single undo step. Pass a JSON object {colors: {role: {h,s,l}}, fonts: {role: stack}}."),
		mcp.WithString("description", mcp.Description("Human-readable palette name, shown in history"), mcp.Required()),
		mcp.WithString("changes", mcp.Description(`JSON changes, e.g. {"colors":{"primary":{"h":250,"s":0.7,"l":0.5}},"fonts":{"body":"Inter, sans-serif"}}`), mcp.Required()),
	), s.handleApplyPalette)

	// ── theme_history ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("theme_history",
		mcp.WithDescription("List the applied commits for a token set (description, touched roles), oldest first"),
		mcp.WithString("set", mcp.Description("Token set: colors or fonts"), mcp.Required()),
	), s.handleThemeHistory)

	// ── undo_theme / redo_theme ────────────────────────
	s.mcp.AddTool(mcp.NewTool("undo_theme",
		mcp.WithDescription("Undo the most recent committed change in a token set"),
		mcp.WithString("set", mcp.Description("Token set: colors or fonts"), mcp.Required()),
	), s.handleUndoTheme)
	s.mcp.AddTool(mcp.NewTool("redo_theme",
		mcp.WithDescription("Redo the most recently undone change in a token set"),
		mcp.WithString("set", mcp.Description("Token set: colors or fonts"), mcp.Required()),
	), s.handleRedoTheme)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListTokens(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"colors": s.theme.EffectiveColors(),
		"fonts":  s.theme.EffectiveFonts(),
	})
}

func (s *Server) handleSetToken(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	role, _ := args["role"].(string)
	if role == "" {
		return nil, fmt.Errorf("role is required")
	}
	description, _ := args["description"].(string)

	if font, ok := args["font"].(string); ok && font != "" {
		if err := s.theme.UpdateFont(ctx, role, font, description); err != nil {
			return nil, err
		}
		return textResult(fmt.Sprintf("Font %s set to %s", role, font)), nil
	}

	value := domain.HSL{
		H: getFloat(args, "h", 0),
		S: getFloat(args, "s", 0),
		L: getFloat(args, "l", 0),
	}
	if err := s.theme.UpdateColor(ctx, role, value, description); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Color %s set to %s", role, value.Normalize().CSS())), nil
}

func (s *Server) handleApplyPalette(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	description, _ := args["description"].(string)
	changes, _ := args["changes"].(string)
	if changes == "" {
		return nil, fmt.Errorf("changes is required")
	}

	var sg service.Suggestion
	if err := parseJSON(changes, &sg); err != nil {
		return nil, fmt.Errorf("parse changes: %w", err)
	}
	sg.Description = description

	if err := s.theme.ApplySuggestion(ctx, sg); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Applied %q (%d colors, %d fonts)", description, len(sg.Colors), len(sg.Fonts))), nil
}

func (s *Server) handleThemeHistory(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	set, _ := req.GetArguments()["set"].(string)
	switch strings.ToLower(set) {
	case "colors":
		return jsonResult(s.theme.ColorHistory())
	case "fonts":
		return jsonResult(s.theme.FontHistory())
	}
	return nil, fmt.Errorf("set must be colors or fonts, got %q", set)
}

func (s *Server) handleUndoTheme(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.historyTool(ctx, req, s.theme.UndoColors, s.theme.UndoFonts, "undo")
}

func (s *Server) handleRedoTheme(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.historyTool(ctx, req, s.theme.RedoColors, s.theme.RedoFonts, "redo")
}

func (s *Server) historyTool(ctx context.Context, req mcp.CallToolRequest, colors, fonts func(context.Context) bool, verb string) (*mcp.CallToolResult, error) {
	set, _ := req.GetArguments()["set"].(string)
	var moved bool
	switch strings.ToLower(set) {
	case "colors":
		moved = colors(ctx)
	case "fonts":
		moved = fonts(ctx)
	default:
		return nil, fmt.Errorf("set must be colors or fonts, got %q", set)
	}
	if !moved {
		return textResult(fmt.Sprintf("Nothing to %s in %s", verb, set)), nil
	}
	return textResult(fmt.Sprintf("Did %s in %s", verb, set)), nil
}
