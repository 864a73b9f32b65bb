package theme

import "sync"

// Registry holds available themes and tracks the active one.
type Registry struct {
	mu      sync.RWMutex
	themes  map[string]*Theme
	current *Theme
}

// NewRegistry creates a registry populated with the built-in themes.
// The default dark theme starts active.
func NewRegistry() *Registry {
	r := &Registry{
		themes: make(map[string]*Theme),
	}

	r.Register(DefaultTheme())
	r.Register(LightTheme())
	r.Register(DraculaTheme())

	r.current = r.themes["Default Dark"]

	return r
}

// Register adds a theme. An existing theme with the same name is
// replaced.
func (r *Registry) Register(t *Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes[t.Name] = t
}

// Get returns a theme by name.
func (r *Registry) Get(name string) (*Theme, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.themes[name]
	return t, ok
}

// Current returns the active theme.
func (r *Registry) Current() *Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// SetCurrent activates the named theme. Returns false if the name is
// not registered.
func (r *Registry) SetCurrent(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.themes[name]; ok {
		r.current = t
		return true
	}
	return false
}

// Names returns all registered theme names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	return names
}
