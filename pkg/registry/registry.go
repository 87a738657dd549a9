// Package registry holds the named output formats a host can render highlight results in.
package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/surligne/pkg/highlight"
)

// Formatter renders highlight segments in one output format.
type Formatter func(segments []highlight.Segment) (string, error)

// Registry manages the available formats.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Formatter
}

// NewRegistry creates a registry holding the html and text formats.
func NewRegistry() *Registry {
	r := &Registry{
		formats: make(map[string]Formatter),
	}
	r.Register("html", func(segments []highlight.Segment) (string, error) {
		return highlight.RenderHTML(segments), nil
	})
	r.Register("text", func(segments []highlight.Segment) (string, error) {
		var out []byte
		for _, seg := range segments {
			out = append(out, seg.Text...)
		}
		return string(out), nil
	})
	return r
}

// Register adds a format to the registry.
// If a format with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formats[name] = fn
}

// Render looks up a format by name and renders segments with it.
// Returns an error if the format is not found.
func (r *Registry) Render(name string, segments []highlight.Segment) (string, error) {
	r.mu.RLock()
	fn, ok := r.formats[name]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("format not found: %s", name)
	}

	return fn(segments)
}

// Names returns the registered format names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
