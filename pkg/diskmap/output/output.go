// Package output provides formatters for rendering a finalized scan tree
// as a visualization artifact or terminal output (html, json, pretty, plain).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("html")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, result); err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(path, buf.Bytes(), 0o644)
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rfowler/diskmap/pkg/diskmap/types"
)

// Result contains the complete output data for formatting: the finalized
// tree plus metadata about the scan that produced it.
type Result struct {
	// Root is the finalized entry tree, sizes aggregated and children
	// sorted.
	Root *types.Entry `json:"tree"`

	// Stats contains the final scan counters.
	Stats types.ScanStats `json:"stats"`

	// Source is the root path that was scanned.
	Source string `json:"source"`

	// RunID uniquely identifies the scan invocation.
	RunID string `json:"run_id"`

	// GeneratedAt is when the artifact was produced.
	GeneratedAt time.Time `json:"generated_at"`

	// Interrupted indicates the scan was stopped before completion.
	Interrupted bool `json:"interrupted"`
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	// It returns an error if formatting fails.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
