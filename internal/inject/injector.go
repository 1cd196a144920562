// Package inject translates token values into writes against the live
// rendering surface. Committed writes are coalesced to one surface write
// per frame; preview writes go to a separate overlay that never touches
// committed styles.
package inject

import (
	"log"
	"sync"
	"time"
)

// Surface is the live rendering target: the host UI's root-scoped style
// variable system. The app layer backs it with the webview; tests and the
// headless MCP mode use MemorySurface.
type Surface interface {
	// ApplyVariables merges committed variable values into the surface.
	ApplyVariables(vars map[string]string)
	// ApplyPreview replaces the preview overlay wholesale.
	ApplyPreview(vars map[string]string)
	// ClearPreview removes the overlay entirely.
	ClearPreview()
	// Resolve reports the currently active value for a variable name.
	Resolve(name string) (string, bool)
}

const defaultFrameInterval = 16 * time.Millisecond

// Option configures an Injector.
type Option func(*Injector)

// WithFrameInterval overrides the coalescing window.
func WithFrameInterval(d time.Duration) Option {
	return func(in *Injector) {
		if d > 0 {
			in.frame = d
		}
	}
}

// WithOnFlush registers a completion callback invoked after every surface
// write, so callers and tests can await a deterministic point instead of
// simulating a frame clock.
func WithOnFlush(fn func(vars map[string]string)) Option {
	return func(in *Injector) { in.onFlush = fn }
}

// Injector owns the single pending-update map and the single preview
// overlay. It is constructed by the application root and handed to every
// token store — no package-level state.
type Injector struct {
	mu      sync.Mutex
	surface Surface
	frame   time.Duration
	pending map[string]string
	timer   *time.Timer
	onFlush func(vars map[string]string)
	warned  bool
}

// New builds an Injector for surface. A nil surface is tolerated: every
// operation becomes a logged no-op so calls before mount cannot crash.
func New(surface Surface, opts ...Option) *Injector {
	in := &Injector{surface: surface, frame: defaultFrameInterval}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Inject merges updates into the pending map and (re)schedules one surface
// write on the next frame. Within a frame the last write per variable wins,
// and a later call supersedes an already-scheduled flush so the newest
// batch is what lands.
func (in *Injector) Inject(vars map[string]string) {
	if len(vars) == 0 {
		return
	}
	in.mu.Lock()
	if !in.ensureSurfaceLocked("inject") {
		in.mu.Unlock()
		return
	}
	if in.pending == nil {
		in.pending = make(map[string]string, len(vars))
	}
	for k, v := range vars {
		in.pending[k] = v
	}
	if in.timer != nil {
		in.timer.Stop()
	}
	in.timer = time.AfterFunc(in.frame, in.Flush)
	in.mu.Unlock()
}

// Flush writes any pending updates to the surface immediately, cancelling
// the scheduled frame. Safe to call with nothing pending.
func (in *Injector) Flush() {
	in.mu.Lock()
	if in.timer != nil {
		in.timer.Stop()
		in.timer = nil
	}
	vars := in.pending
	in.pending = nil
	surface := in.surface
	onFlush := in.onFlush
	in.mu.Unlock()

	if len(vars) == 0 || surface == nil {
		return
	}
	surface.ApplyVariables(vars)
	if onFlush != nil {
		onFlush(vars)
	}
}

// PreviewInject replaces the preview overlay with vars. Previews bypass the
// frame queue: they are already rate-limited by the pointer, and a stale
// preview must never outlive the commit that supersedes it.
func (in *Injector) PreviewInject(vars map[string]string) {
	in.mu.Lock()
	if !in.ensureSurfaceLocked("preview") {
		in.mu.Unlock()
		return
	}
	surface := in.surface
	in.mu.Unlock()

	overlay := make(map[string]string, len(vars))
	for k, v := range vars {
		overlay[k] = v
	}
	surface.ApplyPreview(overlay)
}

// RevertPreview removes the overlay. Idempotent when none is active.
func (in *Injector) RevertPreview() {
	in.mu.Lock()
	if !in.ensureSurfaceLocked("revert preview") {
		in.mu.Unlock()
		return
	}
	surface := in.surface
	in.mu.Unlock()

	surface.ClearPreview()
}

// Read resolves the currently active value for a variable name. Used to
// bootstrap stores from values present before any snapshot exists.
func (in *Injector) Read(name string) (string, bool) {
	in.mu.Lock()
	if !in.ensureSurfaceLocked("read") {
		in.mu.Unlock()
		return "", false
	}
	surface := in.surface
	in.mu.Unlock()

	return surface.Resolve(name)
}

// Validate reports, per requested name, whether the surface currently
// resolves it to a defined value. Unresolved names report false; nothing
// panics.
func (in *Injector) Validate(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		_, ok := in.Read(n)
		out[n] = ok
	}
	return out
}

func (in *Injector) ensureSurfaceLocked(op string) bool {
	if in.surface != nil {
		return true
	}
	if !in.warned {
		log.Printf("inject: %s before any surface is attached, ignoring", op)
		in.warned = true
	}
	return false
}
