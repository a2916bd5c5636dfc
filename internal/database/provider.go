package database

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kozaktomas/face-match/internal/config"
)

// Backend is an opened record store together with its cleanup function.
type Backend struct {
	Records RecordWriter
	Close   func() error
}

// Factory opens a backend from configuration.
type Factory func(cfg *config.Config) (*Backend, error)

var (
	factories   = make(map[string]Factory)
	factoriesMu sync.RWMutex
)

// RegisterBackend registers a backend constructor under a name (e.g. "postgres").
// Backend packages are registered by the caller to avoid import cycles.
func RegisterBackend(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = factory
}

// Open opens the backend registered under name.
func Open(name string, cfg *config.Config) (*Backend, error) {
	factoriesMu.RLock()
	factory, ok := factories[name]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown storage backend %q (available: %v)", name, RegisteredBackends())
	}
	return factory(cfg)
}

// RegisteredBackends returns the sorted names of all registered backends.
func RegisteredBackends() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
