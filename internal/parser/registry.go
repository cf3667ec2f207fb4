package parser

import (
	"fmt"
	"sort"
	"sync"
)

// ReaderFactory opens a reader for a document file.
type ReaderFactory func(path string, opts Options) (Reader, error)

// Engine describes one registered format engine.
type Engine struct {
	Format   Format
	Open     ReaderFactory
	CanWrite bool // whether the writer side supports this format
}

// Registry manages format engines.
type Registry struct {
	mu      sync.RWMutex
	engines map[Format]Engine
}

// NewRegistry creates an empty engine registry.
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[Format]Engine),
	}
}

// Register adds an engine to the registry.
func (r *Registry) Register(e Engine) error {
	if e.Open == nil {
		return fmt.Errorf("cannot register engine without a reader factory")
	}
	if e.Format == FormatUnknown {
		return fmt.Errorf("cannot register engine for unknown format")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[e.Format]; exists {
		return fmt.Errorf("engine already registered: %s", e.Format)
	}

	r.engines[e.Format] = e
	return nil
}

// Get returns the engine for a format.
func (r *Registry) Get(format Format) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.engines[format]
	if !ok {
		return Engine{}, fmt.Errorf("no engine registered for format: %s", format)
	}
	return e, nil
}

// Has checks if an engine is registered for a format.
func (r *Registry) Has(format Format) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.engines[format]
	return ok
}

// List returns the registered engines sorted by format name.
func (r *Registry) List() []Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engines := make([]Engine, 0, len(r.engines))
	for _, e := range r.engines {
		engines = append(engines, e)
	}
	sort.Slice(engines, func(i, j int) bool {
		return engines[i].Format.String() < engines[j].Format.String()
	})
	return engines
}

// Open probes the file and opens a reader with the matching engine.
func (r *Registry) Open(path string, opts Options) (Reader, Format, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, FormatUnknown, fmt.Errorf("cannot detect format of %s", path)
	}
	e, err := r.Get(format)
	if err != nil {
		return nil, format, err
	}
	reader, err := e.Open(path, opts)
	if err != nil {
		return nil, format, err
	}
	return reader, format, nil
}

// DefaultRegistry is the global engine registry. Format packages register
// themselves into it on import, the way database/sql drivers do.
var DefaultRegistry = NewRegistry()

// Register adds an engine to the default registry.
func Register(e Engine) error {
	return DefaultRegistry.Register(e)
}

// Get returns an engine from the default registry.
func Get(format Format) (Engine, error) {
	return DefaultRegistry.Get(format)
}
