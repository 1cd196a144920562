package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"studio/internal/config"
	"studio/internal/inject"
	"studio/internal/placement"
	"studio/internal/service"
	"studio/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	settings config.Settings
	db       *storage.DB
	surface  *wailsSurface
	injector *inject.Injector
	canvas   *service.CanvasService

	// Built lazily by InitTheme, once the webview has reported the styles
	// it resolved on mount. Theme bindings before that point fail.
	themeMu  sync.Mutex
	theme    *service.ThemeService
	watcher  *service.ThemeWatcher
	autosave *service.Autosave
}

// wailsEmitter forwards service events to the frontend.
type wailsEmitter struct {
	ctx context.Context
}

func (e wailsEmitter) Emit(_ context.Context, event string, data any) {
	wailsRuntime.EventsEmit(e.ctx, event, data)
}

// New creates a new App.
func New() *App {
	return &App{surface: newWailsSurface()}
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "studio")

	settings, err := config.Load(dataDir)
	if err != nil {
		wailsRuntime.LogWarningf(ctx, "config: running on defaults: %v", err)
	}
	a.settings = settings

	db, err := storage.New(filepath.Join(dataDir, "studio.db"), dataDir)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.db = db

	a.surface.Bind(ctx)
	a.injector = inject.New(a.surface,
		inject.WithFrameInterval(time.Duration(settings.FrameMs)*time.Millisecond),
	)

	engine := placement.NewEngine(settings.GridSize, settings.Gutter)
	a.canvas = service.NewCanvasService(storage.NewElementStore(db), engine, wailsEmitter{ctx: ctx})
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	a.themeMu.Lock()
	theme, watcher, autosave := a.theme, a.watcher, a.autosave
	a.themeMu.Unlock()

	if watcher != nil {
		watcher.Stop()
	}
	if theme != nil {
		theme.FlushStyles()
		if autosave != nil {
			autosave.Stop(theme) // saves snapshots once more
		} else {
			theme.SaveSnapshots()
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
