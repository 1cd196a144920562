package app

import (
	"context"
	"sync"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// wailsSurface backs inject.Surface with the webview. Variable writes are
// forwarded to the frontend as events; the frontend sets them on the
// document root. A local cache mirrors what the webview holds so Resolve
// works without a synchronous round trip into JS.
type wailsSurface struct {
	mu       sync.Mutex
	ctx      context.Context
	resolved map[string]string
	preview  map[string]string
}

func newWailsSurface() *wailsSurface {
	return &wailsSurface{
		resolved: make(map[string]string),
		preview:  make(map[string]string),
	}
}

// Bind attaches the Wails context once the runtime is up. Writes before
// Bind only update the cache; the frontend seeds and re-reads through
// InitTheme on mount anyway.
func (s *wailsSurface) Bind(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
}

// Seed merges the webview's currently resolved variables into the cache
// without emitting, so stores built afterwards can read values that were
// pre-rendered in CSS.
func (s *wailsSurface) Seed(vars map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range vars {
		if _, exists := s.resolved[k]; !exists {
			s.resolved[k] = v
		}
	}
}

func (s *wailsSurface) ApplyVariables(vars map[string]string) {
	s.mu.Lock()
	for k, v := range vars {
		s.resolved[k] = v
	}
	ctx := s.ctx
	s.mu.Unlock()

	if ctx != nil {
		wailsRuntime.EventsEmit(ctx, "theme:apply", vars)
	}
}

func (s *wailsSurface) ApplyPreview(vars map[string]string) {
	s.mu.Lock()
	s.preview = make(map[string]string, len(vars))
	for k, v := range vars {
		s.preview[k] = v
	}
	ctx := s.ctx
	s.mu.Unlock()

	if ctx != nil {
		wailsRuntime.EventsEmit(ctx, "theme:preview", vars)
	}
}

func (s *wailsSurface) ClearPreview() {
	s.mu.Lock()
	s.preview = make(map[string]string)
	ctx := s.ctx
	s.mu.Unlock()

	if ctx != nil {
		wailsRuntime.EventsEmit(ctx, "theme:preview-clear", nil)
	}
}

// Resolve reports the active value: the preview overlay shadows committed
// values while it exists.
func (s *wailsSurface) Resolve(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.preview[name]; ok {
		return v, true
	}
	v, ok := s.resolved[name]
	return v, ok
}
