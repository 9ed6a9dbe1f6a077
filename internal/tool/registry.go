package tool

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned when no tool has the requested identifier
var ErrNotFound = errors.New("tool not found")

// Registry is the immutable tool catalog. It is built once at startup and
// read without locking.
type Registry struct {
	tools map[string]*Definition
	ids   []string
}

// NewRegistry builds a registry from definitions, rejecting duplicates and
// incomplete entries
func NewRegistry(defs ...*Definition) (*Registry, error) {
	r := &Registry{tools: make(map[string]*Definition, len(defs))}

	for _, d := range defs {
		if d.ID == "" {
			return nil, errors.New("tool definition without id")
		}
		if _, exists := r.tools[d.ID]; exists {
			return nil, fmt.Errorf("duplicate tool id: %s", d.ID)
		}
		if d.Kind == KindCompletion && d.Template == nil {
			return nil, fmt.Errorf("tool %s has no template", d.ID)
		}
		r.tools[d.ID] = d
		r.ids = append(r.ids, d.ID)
	}

	sort.Strings(r.ids)
	return r, nil
}

// NewDefaultRegistry returns the registry of every built-in tool
func NewDefaultRegistry() *Registry {
	var defs []*Definition
	defs = append(defs, businessTools()...)
	defs = append(defs, socialTools()...)
	defs = append(defs, agentTools()...)
	defs = append(defs, studentTools()...)
	defs = append(defs, languageTools()...)
	defs = append(defs, voiceTools()...)
	defs = append(defs, chatTools()...)

	r, err := NewRegistry(defs...)
	if err != nil {
		// Built-in catalog is static; a failure here is a programming error
		panic(err)
	}
	return r
}

// Resolve returns the definition registered under id
func (r *Registry) Resolve(id string) (*Definition, error) {
	d, ok := r.tools[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d, nil
}

// List returns all tool identifiers sorted
func (r *Registry) List() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Definitions returns all definitions sorted by id
func (r *Registry) Definitions() []*Definition {
	out := make([]*Definition, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.tools[id])
	}
	return out
}
