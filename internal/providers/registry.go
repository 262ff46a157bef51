package providers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/OpenRouterTeam/spawn-sub007/internal/services/auth"
	"github.com/OpenRouterTeam/spawn-sub007/internal/util"
)

// Factory builds a provider instance, resolving credentials through the
// given store.
type Factory func(store auth.Store) (Provider, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds a vendor factory under its id. Registering the same id
// twice is a programming error.
func Register(id string, factory Factory) {
	normalized := util.NormalizeKey(id)
	if normalized == "" {
		panic("providers: empty provider id")
	}
	if factory == nil {
		panic("providers: nil factory")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[normalized]; exists {
		panic(fmt.Sprintf("providers: provider %q already registered", id))
	}

	registry[normalized] = factory
}

// Get constructs the provider registered under id.
func Get(id string, store auth.Store) (Provider, error) {
	normalized := util.NormalizeKey(id)
	mu.RLock()
	factory, ok := registry[normalized]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("providers: unknown provider %q", id)
	}

	return factory(store)
}

// List returns the registered vendor ids in sorted order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reset clears the provider registry. Intended for use in tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = map[string]Factory{}
}

// RegisterAll registers every built-in vendor.
func RegisterAll() {
	RegisterHetzner()
	RegisterDigitalOcean()
}
