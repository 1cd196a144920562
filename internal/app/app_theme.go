package app

import (
	"fmt"
	"path/filepath"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"studio/internal/domain"
	"studio/internal/service"
	"studio/internal/storage"
)

// ============================================================
// Theme (design tokens)
// ============================================================

// ThemeView is the frontend view of the effective token sets.
type ThemeView struct {
	Colors map[domain.ColorRole]domain.HSL      `json:"colors"`
	Fonts  map[domain.FontRole]domain.FontStack `json:"fonts"`
}

// InitTheme is called by the frontend on mount with the variables it
// resolved from the pre-rendered stylesheet. It seeds the surface cache and
// builds the token stores, so values already painted survive a restart with
// no snapshot. Calling it again only re-seeds.
func (a *App) InitTheme(resolved map[string]string) (*ThemeView, error) {
	a.surface.Seed(resolved)

	a.themeMu.Lock()
	defer a.themeMu.Unlock()

	if a.theme == nil {
		theme, err := service.NewThemeService(
			a.injector,
			storage.NewSnapshotStore(a.db),
			a.settings.HistoryLimit,
			wailsEmitter{ctx: a.ctx},
		)
		if err != nil {
			wailsRuntime.LogErrorf(a.ctx, "Failed to build theme service: %v", err)
			return nil, err
		}
		a.theme = theme

		a.watcher = service.NewThemeWatcher(theme, a.themeFilePath())
		a.watcher.Start(a.ctx)
		a.autosave = service.StartAutosave(a.settings.AutosaveCron, theme)
	}

	return &ThemeView{
		Colors: a.theme.EffectiveColors(),
		Fonts:  a.theme.EffectiveFonts(),
	}, nil
}

// themeService guards bindings that arrive before InitTheme.
func (a *App) themeService() (*service.ThemeService, error) {
	a.themeMu.Lock()
	defer a.themeMu.Unlock()
	if a.theme == nil {
		return nil, fmt.Errorf("theme not initialized: call InitTheme first")
	}
	return a.theme, nil
}

func (a *App) themeFilePath() string {
	return filepath.Join(a.db.DataDir(), a.settings.ThemeFile)
}

func (a *App) GetTheme() (*ThemeView, error) {
	theme, err := a.themeService()
	if err != nil {
		return nil, err
	}
	return &ThemeView{Colors: theme.EffectiveColors(), Fonts: theme.EffectiveFonts()}, nil
}

func (a *App) UpdateColor(role string, h, s, l float64, description string) error {
	theme, err := a.themeService()
	if err != nil {
		return err
	}
	return theme.UpdateColor(a.ctx, role, domain.HSL{H: h, S: s, L: l}, description)
}

func (a *App) PreviewColor(role string, h, s, l float64) error {
	theme, err := a.themeService()
	if err != nil {
		return err
	}
	return theme.PreviewColor(role, domain.HSL{H: h, S: s, L: l})
}

// RevertColor re-commits the most recent historical value for role as a new
// forward entry. Returns false when no history entry touches that role.
func (a *App) RevertColor(role string) (bool, error) {
	theme, err := a.themeService()
	if err != nil {
		return false, err
	}
	return theme.RevertColor(a.ctx, role)
}

func (a *App) UpdateFont(role, stack, description string) error {
	theme, err := a.themeService()
	if err != nil {
		return err
	}
	return theme.UpdateFont(a.ctx, role, stack, description)
}

func (a *App) PreviewFont(role, stack string) error {
	theme, err := a.themeService()
	if err != nil {
		return err
	}
	return theme.PreviewFont(role, stack)
}

func (a *App) ClearThemePreview() error {
	theme, err := a.themeService()
	if err != nil {
		return err
	}
	theme.ClearPreview()
	return nil
}

func (a *App) UndoColors() (bool, error) {
	theme, err := a.themeService()
	if err != nil {
		return false, err
	}
	return theme.UndoColors(a.ctx), nil
}

func (a *App) RedoColors() (bool, error) {
	theme, err := a.themeService()
	if err != nil {
		return false, err
	}
	return theme.RedoColors(a.ctx), nil
}

func (a *App) UndoFonts() (bool, error) {
	theme, err := a.themeService()
	if err != nil {
		return false, err
	}
	return theme.UndoFonts(a.ctx), nil
}

func (a *App) RedoFonts() (bool, error) {
	theme, err := a.themeService()
	if err != nil {
		return false, err
	}
	return theme.RedoFonts(a.ctx), nil
}

// ThemeHistory lists the applied commits for a token set, oldest first.
func (a *App) ThemeHistory(set string) ([]service.HistoryEntryView, error) {
	theme, err := a.themeService()
	if err != nil {
		return nil, err
	}
	switch set {
	case "colors":
		return theme.ColorHistory(), nil
	case "fonts":
		return theme.FontHistory(), nil
	}
	return nil, fmt.Errorf("unknown token set %q", set)
}

// ApplyPalette commits a multi-role suggestion as one undo step per token
// set. Any unknown role rejects the whole suggestion.
func (a *App) ApplyPalette(sg service.Suggestion) error {
	theme, err := a.themeService()
	if err != nil {
		return err
	}
	return theme.ApplySuggestion(a.ctx, sg)
}

// ExportTheme writes the committed theme to the watched theme file.
func (a *App) ExportTheme() (string, error) {
	theme, err := a.themeService()
	if err != nil {
		return "", err
	}
	path := a.themeFilePath()
	if err := theme.ExportTheme(path); err != nil {
		return "", err
	}
	return path, nil
}

// ImportTheme applies the theme file as one batch commit.
func (a *App) ImportTheme() error {
	theme, err := a.themeService()
	if err != nil {
		return err
	}
	return theme.ImportThemeFile(a.ctx, a.themeFilePath())
}

// ValidateTheme reports, per variable name, whether the surface resolves it.
func (a *App) ValidateTheme() (map[string]bool, error) {
	theme, err := a.themeService()
	if err != nil {
		return nil, err
	}
	return theme.ValidateSurface(), nil
}
