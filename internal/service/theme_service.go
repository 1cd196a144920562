package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"studio/internal/domain"
	"studio/internal/inject"
	"studio/internal/tokens"
)

// ─────────────────────────────────────────────────────────────
// Theme Service — owns the color and typography token stores
// ─────────────────────────────────────────────────────────────

// Role strings are validated here, at the binding boundary; the stores
// themselves only ever see the closed role enums.

const themeSchemaVersion = 1

// ThemeService fronts the two token stores and the style injector. The
// stores themselves are not goroutine-safe, and the autosave schedule and
// theme-file watcher call in from their own goroutines, so every store
// access goes through mu.
type ThemeService struct {
	mu       sync.Mutex
	colors   *tokens.Store[domain.ColorRole, domain.HSL]
	fonts    *tokens.Store[domain.FontRole, domain.FontStack]
	injector *inject.Injector
	emitter  EventEmitter
}

// NewThemeService builds both stores against one injector and one snapshot
// store. historyLimit caps each store's undo stack.
func NewThemeService(injector *inject.Injector, snaps tokens.SnapshotStore, historyLimit int, emitter EventEmitter) (*ThemeService, error) {
	colors, err := tokens.NewStore(tokens.Config[domain.ColorRole, domain.HSL]{
		Name:          "colors",
		Roles:         domain.ColorRoles(),
		Defaults:      domain.DefaultColors(),
		Normalize:     func(_ domain.ColorRole, v domain.HSL) domain.HSL { return v.Normalize() },
		VarName:       domain.ColorVar,
		Format:        domain.HSL.CSS,
		Parse:         domain.ParseHSL,
		HistoryLimit:  historyLimit,
		SchemaVersion: themeSchemaVersion,
		Injector:      injector,
		Snapshots:     snaps,
	})
	if err != nil {
		return nil, fmt.Errorf("color store: %w", err)
	}

	fonts, err := tokens.NewStore(tokens.Config[domain.FontRole, domain.FontStack]{
		Name:     "fonts",
		Roles:    domain.FontRoles(),
		Defaults: domain.DefaultFonts(),
		Normalize: func(r domain.FontRole, v domain.FontStack) domain.FontStack {
			v = v.Normalize()
			if v == "" {
				return domain.DefaultFonts()[r]
			}
			return v
		},
		VarName:       domain.FontVar,
		Format:        domain.FontStack.CSS,
		Parse:         func(s string) (domain.FontStack, error) { return domain.FontStack(s).Normalize(), nil },
		HistoryLimit:  historyLimit,
		SchemaVersion: themeSchemaVersion,
		Injector:      injector,
		Snapshots:     snaps,
	})
	if err != nil {
		return nil, fmt.Errorf("font store: %w", err)
	}

	return &ThemeService{colors: colors, fonts: fonts, injector: injector, emitter: emitter}, nil
}

// UpdateColor commits one color token.
func (s *ThemeService) UpdateColor(ctx context.Context, role string, value domain.HSL, description string) error {
	r, err := domain.ParseColorRole(role)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.colors.Update(r, value, description) {
		s.emitChanged(ctx)
	}
	return nil
}

// PreviewColor shadows one color token without committing. The previous
// preview, in either store, is superseded: last preview wins.
func (s *ThemeService) PreviewColor(role string, value domain.HSL) error {
	r, err := domain.ParseColorRole(role)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fonts.DropPreview()
	s.colors.Preview(r, value)
	return nil
}

// RevertColor re-commits the most recent historical value for a role.
func (s *ThemeService) RevertColor(ctx context.Context, role string) (bool, error) {
	r, err := domain.ParseColorRole(role)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	reverted := s.colors.Revert(r)
	if reverted {
		s.emitChanged(ctx)
	}
	return reverted, nil
}

// UpdateFont commits one typography token.
func (s *ThemeService) UpdateFont(ctx context.Context, role string, stack string, description string) error {
	r, err := domain.ParseFontRole(role)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fonts.Update(r, domain.FontStack(stack), description) {
		s.emitChanged(ctx)
	}
	return nil
}

// PreviewFont shadows one typography token without committing. The previous
// preview, in either store, is superseded: last preview wins.
func (s *ThemeService) PreviewFont(role string, stack string) error {
	r, err := domain.ParseFontRole(role)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors.DropPreview()
	s.fonts.Preview(r, domain.FontStack(stack))
	return nil
}

// ClearPreview drops any active preview in either store. One overlay exists
// at a time, so at most one of these does real work.
func (s *ThemeService) ClearPreview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors.ClearPreview()
	s.fonts.ClearPreview()
}

func (s *ThemeService) UndoColors(ctx context.Context) bool { return s.historyStep(ctx, s.colors.Undo) }
func (s *ThemeService) RedoColors(ctx context.Context) bool { return s.historyStep(ctx, s.colors.Redo) }
func (s *ThemeService) UndoFonts(ctx context.Context) bool  { return s.historyStep(ctx, s.fonts.Undo) }
func (s *ThemeService) RedoFonts(ctx context.Context) bool  { return s.historyStep(ctx, s.fonts.Redo) }

func (s *ThemeService) historyStep(ctx context.Context, step func() bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !step() {
		return false
	}
	s.emitChanged(ctx)
	return true
}

// Suggestion is a named set of token changes proposed by an external
// collaborator (AI palette, imported theme file).
type Suggestion struct {
	Description string                `json:"description"`
	Colors      map[string]domain.HSL `json:"colors"`
	Fonts       map[string]string     `json:"fonts"`
}

// ApplySuggestion applies a suggestion through BatchUpdate — a single
// history entry per store, so one undo removes the whole palette. This is
// the only sanctioned path for multi-role commits that did not originate
// from direct edits.
func (s *ThemeService) ApplySuggestion(ctx context.Context, sg Suggestion) error {
	if sg.Description == "" {
		return fmt.Errorf("a suggestion needs a human-readable description")
	}

	var colorChanges []tokens.RoleChange[domain.ColorRole, domain.HSL]
	for role, v := range sg.Colors {
		r, err := domain.ParseColorRole(role)
		if err != nil {
			return err
		}
		colorChanges = append(colorChanges, tokens.RoleChange[domain.ColorRole, domain.HSL]{Role: r, Value: v})
	}
	var fontChanges []tokens.RoleChange[domain.FontRole, domain.FontStack]
	for role, v := range sg.Fonts {
		r, err := domain.ParseFontRole(role)
		if err != nil {
			return err
		}
		fontChanges = append(fontChanges, tokens.RoleChange[domain.FontRole, domain.FontStack]{Role: r, Value: domain.FontStack(v)})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.colors.BatchUpdate(colorChanges, sg.Description)
	if s.fonts.BatchUpdate(fontChanges, sg.Description) {
		changed = true
	}
	if changed {
		s.emitChanged(ctx)
	}
	return nil
}

// EffectiveColors returns the consumer view of the color set: previews
// shadow committed values.
func (s *ThemeService) EffectiveColors() map[domain.ColorRole]domain.HSL {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveColors()
}

// EffectiveFonts returns the consumer view of the typography set.
func (s *ThemeService) EffectiveFonts() map[domain.FontRole]domain.FontStack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveFonts()
}

func (s *ThemeService) effectiveColors() map[domain.ColorRole]domain.HSL {
	out := make(map[domain.ColorRole]domain.HSL)
	for _, r := range domain.ColorRoles() {
		out[r] = s.colors.Effective(r)
	}
	return out
}

func (s *ThemeService) effectiveFonts() map[domain.FontRole]domain.FontStack {
	out := make(map[domain.FontRole]domain.FontStack)
	for _, r := range domain.FontRoles() {
		out[r] = s.fonts.Effective(r)
	}
	return out
}

// HistoryEntryView is the user-facing record of one applied commit.
type HistoryEntryView struct {
	At          time.Time `json:"at"`
	Description string    `json:"description"`
	Roles       []string  `json:"roles"`
}

// ColorHistory lists the applied color commits, oldest first.
func (s *ThemeService) ColorHistory() []HistoryEntryView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return historyView(s.colors.History(), func(r domain.ColorRole) string { return string(r) })
}

// FontHistory lists the applied typography commits, oldest first.
func (s *ThemeService) FontHistory() []HistoryEntryView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return historyView(s.fonts.History(), func(r domain.FontRole) string { return string(r) })
}

func historyView[R comparable, V comparable](entries []tokens.Entry[R, V], roleName func(R) string) []HistoryEntryView {
	out := make([]HistoryEntryView, len(entries))
	for i, e := range entries {
		roles := make([]string, 0, len(e.Changes))
		for r := range e.Changes {
			roles = append(roles, roleName(r))
		}
		sort.Strings(roles)
		out[i] = HistoryEntryView{At: e.At, Description: e.Description, Roles: roles}
	}
	return out
}

// ValidateSurface reports which of the theme's custom properties currently
// resolve on the rendering surface.
func (s *ThemeService) ValidateSurface() map[string]bool {
	var names []string
	for _, r := range domain.ColorRoles() {
		names = append(names, domain.ColorVar(r))
	}
	for _, r := range domain.FontRoles() {
		names = append(names, domain.FontVar(r))
	}
	return s.injector.Validate(names)
}

// SaveSnapshots persists both committed sets now (autosave, shutdown).
func (s *ThemeService) SaveSnapshots() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors.Persist()
	s.fonts.Persist()
}

// FlushStyles forces any pending frame write, for shutdown and tests.
func (s *ThemeService) FlushStyles() {
	s.injector.Flush()
}

// themeFile is the on-disk export format.
type themeFile struct {
	Colors map[string]domain.HSL `json:"colors"`
	Fonts  map[string]string     `json:"fonts"`
}

// ExportTheme writes the committed sets as a JSON theme file.
func (s *ThemeService) ExportTheme(path string) error {
	s.mu.Lock()
	tf := themeFile{Colors: map[string]domain.HSL{}, Fonts: map[string]string{}}
	for r, v := range s.colors.Snapshot() {
		tf.Colors[string(r)] = v
	}
	for r, v := range s.fonts.Snapshot() {
		tf.Fonts[string(r)] = string(v)
	}
	s.mu.Unlock()
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write theme file: %w", err)
	}
	return nil
}

// ImportThemeFile reads a theme file and applies it as one suggestion.
// Unknown roles in the file are rejected before anything commits.
func (s *ThemeService) ImportThemeFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read theme file: %w", err)
	}
	var tf themeFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("parse theme file: %w", err)
	}
	return s.ApplySuggestion(ctx, Suggestion{
		Description: "Imported from theme file",
		Colors:      tf.Colors,
		Fonts:       tf.Fonts,
	})
}

func (s *ThemeService) emitChanged(ctx context.Context) {
	if s.emitter == nil {
		return
	}
	// Called with mu held, so read through the unlocked views.
	s.emitter.Emit(ctx, "theme:changed", map[string]any{
		"colors": s.effectiveColors(),
		"fonts":  s.effectiveFonts(),
	})
}
