package app

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"studio/internal/config"
	"studio/internal/inject"
	mcpserver "studio/internal/mcp"
	"studio/internal/placement"
	"studio/internal/service"
	"studio/internal/storage"
)

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no
// GUI. Styles land on an in-memory surface; canvas and snapshot state share
// the same database as the desktop app.
func ServeMCP() {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "studio")

	settings, err := config.Load(dataDir)
	if err != nil {
		log.Printf("config: running on defaults: %v", err)
	}

	db, err := storage.New(filepath.Join(dataDir, "studio.db"), dataDir)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	emitter := service.NoopEmitter{}
	injector := inject.New(inject.NewMemorySurface(nil),
		inject.WithFrameInterval(time.Duration(settings.FrameMs)*time.Millisecond),
	)

	theme, err := service.NewThemeService(injector, storage.NewSnapshotStore(db), settings.HistoryLimit, emitter)
	if err != nil {
		log.Fatalf("Failed to build theme service: %v", err)
	}
	defer theme.SaveSnapshots()

	engine := placement.NewEngine(settings.GridSize, settings.Gutter)
	canvas := service.NewCanvasService(storage.NewElementStore(db), engine, emitter)

	srv := mcpserver.New(mcpserver.Deps{
		Emitter:  emitter,
		Theme:    theme,
		Canvas:   canvas,
		Settings: settings,
	})

	if err := srv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
