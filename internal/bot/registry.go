package bot

import (
	"cmp"
	"slices"
	"sync"
)

// Tier groups modules into load passes.
type Tier int

const (
	// TierFeature modules are loaded and offered interactions first.
	TierFeature Tier = iota
	// TierCore modules are loaded after all feature modules.
	TierCore
)

// LoadOrder lists the tiers in the order they are loaded.
var LoadOrder = []Tier{TierFeature, TierCore}

func (t Tier) String() string {
	if t == TierCore {
		return "core"
	}
	return "feature"
}

// Registration is a module known at compile time.
type Registration struct {
	Name    string
	Tier    Tier
	Factory ModuleFactory
}

// Registry holds registered modules.
type Registry struct {
	mu            sync.RWMutex
	registrations map[string]Registration
}

// NewRegistry creates a new module registry.
func NewRegistry() *Registry {
	return &Registry{
		registrations: make(map[string]Registration),
	}
}

// Register adds a module to the registry. It panics if the name is empty,
// the factory is nil or the name is already taken.
func (r *Registry) Register(reg Registration) {
	if reg.Name == "" {
		panic("bot: Register called with empty module name")
	}
	if reg.Factory == nil {
		panic("bot: Register factory is nil for module " + reg.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.registrations[reg.Name]; dup {
		panic("bot: Register called twice for module " + reg.Name)
	}
	r.registrations[reg.Name] = reg
}

// Registrations returns the modules of a tier sorted by name, which is the
// order they are loaded and offered interactions in.
func (r *Registry) Registrations(tier Tier) []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Registration
	for _, reg := range r.registrations {
		if reg.Tier == tier {
			result = append(result, reg)
		}
	}
	slices.SortFunc(result, func(a, b Registration) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return result
}

// Global registry instance for module self-registration via init()
var globalRegistry = NewRegistry()

// Register adds a feature module to the global registry.
// This is typically called from module init() functions.
func Register(name string, factory ModuleFactory) {
	globalRegistry.Register(Registration{Name: name, Tier: TierFeature, Factory: factory})
}

// RegisterCore adds a core module to the global registry.
func RegisterCore(name string, factory ModuleFactory) {
	globalRegistry.Register(Registration{Name: name, Tier: TierCore, Factory: factory})
}

// GlobalRegistry returns the registry modules add themselves to.
func GlobalRegistry() *Registry {
	return globalRegistry
}

// ResetGlobalRegistry resets the global registry.
// This is intended for testing purposes only.
func ResetGlobalRegistry() {
	globalRegistry = NewRegistry()
}
