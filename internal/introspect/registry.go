// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package introspect turns entity and contract descriptors into the
// canonical schema graph. All state is scoped to a single Builder; a
// generation call owns its Registry and Stack exclusively and concurrent
// generations must each create their own.
package introspect

import (
	"fmt"
	"sort"

	"github.com/api2spec/desc2spec/pkg/types"
)

// Registry caches built (and in-progress) schemas by canonical name and
// records which names exporters actually reference during rendering.
//
// Once a non-placeholder schema is registered for a name, its identity
// never changes: later lookups return the same object. This is what breaks
// infinite recursion on cyclic graphs and deduplicates diamond references.
type Registry struct {
	schemas map[string]*types.Schema
	order   []string
	used    map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas: map[string]*types.Schema{},
		used:    map[string]bool{},
	}
}

// Get returns the schema registered under name.
func (r *Registry) Get(name string) (*types.Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Put registers a schema under name. A registered non-placeholder schema is
// never replaced; placeholders may be upgraded to the real build.
func (r *Registry) Put(name string, s *types.Schema) {
	existing, ok := r.schemas[name]
	if ok && !existing.IsPlaceholder() {
		return
	}
	if !ok {
		r.order = append(r.order, name)
	}
	r.schemas[name] = s
}

// Ref marks a canonical name as referenced during rendering and returns
// the registered schema, if any. Exporters call this for every $ref they
// emit; the components section is pruned to the referenced set.
func (r *Registry) Ref(name string) (*types.Schema, bool) {
	r.used[name] = true
	s, ok := r.schemas[name]
	return s, ok
}

// Used reports whether name was referenced during rendering.
func (r *Registry) Used(name string) bool {
	return r.used[name]
}

// UsedNames returns all referenced names in sorted order.
func (r *Registry) UsedNames() []string {
	names := make([]string, 0, len(r.used))
	for name := range r.used {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Names returns all registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Stack is the ordered set of canonical names currently being built. It is
// the visitation guard for cycle detection.
type Stack struct {
	names []string
	on    map[string]bool
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{on: map[string]bool{}}
}

// Push adds name to the stack.
func (s *Stack) Push(name string) {
	s.names = append(s.names, name)
	s.on[name] = true
}

// Pop removes the most recently pushed name.
func (s *Stack) Pop() {
	if len(s.names) == 0 {
		return
	}
	name := s.names[len(s.names)-1]
	s.names = s.names[:len(s.names)-1]
	delete(s.on, name)
}

// Contains reports whether name is currently being built.
func (s *Stack) Contains(name string) bool {
	return s.on[name]
}

// Depth returns the number of frames on the stack.
func (s *Stack) Depth() int {
	return len(s.names)
}

// Warning is a non-fatal issue raised during introspection or export.
// Generation never aborts because one field could not be resolved; it
// degrades and reports.
type Warning struct {
	// Code identifies the warning class (e.g. "unresolved-type").
	Code string

	// Message is a human-readable description.
	Message string

	// Path locates the warning in the descriptor graph, when known.
	Path string
}

func (w Warning) String() string {
	if w.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", w.Code, w.Path, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}
