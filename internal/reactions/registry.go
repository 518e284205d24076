// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package reactions

import (
	"fmt"
	"slices"
	"sync"
)

// Registry holds templates by name.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Default returns a registry holding every built-in template.
func Default() *Registry {
	r := NewRegistry()
	for _, t := range []*Template{
		Creation, AutoCreation, Destruction, Conversion, Synthesis, Dissociation,
		ReversibleSynthesis, Equilibration, CatalyzeConvert,
		MichaelisMenten, MichaelisMentenEqApprox, MichaelisMentenQSSApprox,
	} {
		r.Register(t)
	}
	return r
}

// Register adds a template. Registering a name twice is a programmer error
// and panics.
func (r *Registry) Register(t *Template) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[t.Name]; exists {
		panic(fmt.Sprintf("reaction template with name '%s' already registered", t.Name))
	}
	r.templates[t.Name] = t
}

// Lookup returns the template registered under name.
func (r *Registry) Lookup(name string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown reaction template %q", name)
	}
	return t, nil
}

// Names returns the registered template names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
