package adapters

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Constructor opens a Provider for cfg.
type Constructor func(ctx context.Context, cfg Config) (Provider, error)

// Factory - реестр конструкторов провайдеров по типу БД
type Factory struct {
	registry map[string]Constructor
	mu       sync.RWMutex
}

// NewFactory creates an empty Factory.
func NewFactory() *Factory {
	return &Factory{registry: make(map[string]Constructor)}
}

// Register adds the constructor for dbType, replacing any previous one.
func (f *Factory) Register(dbType string, constructor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registry[dbType] = constructor
}

// Unregister removes dbType.
func (f *Factory) Unregister(dbType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.registry, dbType)
}

// IsRegistered reports whether dbType has a constructor.
func (f *Factory) IsRegistered(dbType string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.registry[dbType]
	return ok
}

// GetRegisteredTypes returns the registered types, sorted.
func (f *Factory) GetRegisteredTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]string, 0, len(f.registry))
	for dbType := range f.registry {
		types = append(types, dbType)
	}
	sort.Strings(types)
	return types
}

// Create opens a connected Provider for cfg.
func (f *Factory) Create(ctx context.Context, cfg Config) (Provider, error) {
	f.mu.RLock()
	constructor, ok := f.registry[cfg.Type]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown database type: %s (available types: %v)",
			cfg.Type, f.GetRegisteredTypes())
	}

	p, err := constructor(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Type, err)
	}
	return p, nil
}

// ========== Global Factory ==========

var globalFactory = NewFactory()

// Register registers a driver in the global factory. Driver packages call
// it from init():
//
//	func init() {
//	    adapters.Register("sqlite", Open)
//	}
func Register(dbType string, constructor Constructor) {
	globalFactory.Register(dbType, constructor)
}

// Unregister removes a driver from the global factory.
func Unregister(dbType string) {
	globalFactory.Unregister(dbType)
}

// IsRegistered checks the global factory.
func IsRegistered(dbType string) bool {
	return globalFactory.IsRegistered(dbType)
}

// GetRegisteredTypes lists the global factory.
func GetRegisteredTypes() []string {
	return globalFactory.GetRegisteredTypes()
}

// New opens a Provider through the global factory. The driver package must
// be imported for its side effect:
//
//	import _ "github.com/ruslano69/cgm-backoffice/pkg/adapters/mssql"
//
//	p, err := adapters.New(ctx, adapters.DefaultConfig("mssql", dsn))
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
func New(ctx context.Context, cfg Config) (Provider, error) {
	return globalFactory.Create(ctx, cfg)
}
