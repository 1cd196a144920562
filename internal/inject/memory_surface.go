package inject

import "sync"

// MemorySurface is an in-process Surface: committed variables in a base
// map, preview variables in a separate overlay that wins on Resolve. It
// backs the headless MCP mode and test assertions.
type MemorySurface struct {
	mu      sync.Mutex
	base    map[string]string
	overlay map[string]string
}

// NewMemorySurface returns a surface pre-seeded with resolved values, which
// may be nil.
func NewMemorySurface(seed map[string]string) *MemorySurface {
	s := &MemorySurface{base: make(map[string]string, len(seed))}
	for k, v := range seed {
		s.base[k] = v
	}
	return s
}

func (s *MemorySurface) ApplyVariables(vars map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range vars {
		s.base[k] = v
	}
}

func (s *MemorySurface) ApplyPreview(vars map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = vars
}

func (s *MemorySurface) ClearPreview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = nil
}

// Resolve prefers the overlay: it is the higher-specificity layer.
func (s *MemorySurface) Resolve(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.overlay != nil {
		if v, ok := s.overlay[name]; ok {
			return v, true
		}
	}
	v, ok := s.base[name]
	return v, ok
}

// PreviewActive reports whether an overlay is currently applied.
func (s *MemorySurface) PreviewActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay != nil
}
