// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package introspect

import (
	"fmt"

	"github.com/api2spec/desc2spec/pkg/descriptor"
	"github.com/api2spec/desc2spec/pkg/types"
)

// Builder drives one generation call's introspection. It owns a fresh
// Registry and Stack; it must not be shared across concurrent generations.
type Builder struct {
	doc       *descriptor.Document
	registry  *Registry
	stack     *Stack
	resolvers *ResolverSet
	warnings  []Warning
}

// NewBuilder creates a builder over the given manifest using the globally
// registered resolver set.
func NewBuilder(doc *descriptor.Document) *Builder {
	return NewBuilderWith(doc, Resolvers)
}

// NewBuilderWith creates a builder with an explicit resolver set.
func NewBuilderWith(doc *descriptor.Document, resolvers *ResolverSet) *Builder {
	return &Builder{
		doc:       doc,
		registry:  NewRegistry(),
		stack:     NewStack(),
		resolvers: resolvers,
	}
}

// Document returns the manifest this builder introspects.
func (b *Builder) Document() *descriptor.Document {
	return b.doc
}

// Registry returns the builder's schema registry.
func (b *Builder) Registry() *Registry {
	return b.registry
}

// Warnings returns every warning raised so far.
func (b *Builder) Warnings() []Warning {
	return b.warnings
}

// Warn records a warning.
func (b *Builder) Warn(code, path, format string, args ...any) {
	b.warnings = append(b.warnings, Warning{
		Code:    code,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

// Resolve maps a type reference to a schema through the resolver chain.
// It never fails: an unresolvable reference degrades to a string schema
// with a format guess and a warning.
func (b *Builder) Resolve(ref descriptor.TypeRef) *types.Schema {
	return b.resolveAt(ref, 0)
}

// maxUnwrapDepth bounds wrapper-chain unwrapping so malformed or cyclic
// wrapper declarations terminate.
const maxUnwrapDepth = 5

func (b *Builder) resolveAt(ref descriptor.TypeRef, depth int) *types.Schema {
	if depth > maxUnwrapDepth {
		b.Warn("unwrap-depth", ref.Name,
			"wrapper chain deeper than %d levels, degrading to string", maxUnwrapDepth)
		return &types.Schema{Kind: types.KindString}
	}

	for _, r := range b.resolvers.list() {
		if r.Matches(ref, b.doc) {
			return r.Resolve(b, ref, depth)
		}
	}

	// The built-in set ends with a catch-all, so this is only reachable
	// with a custom resolver set that removed it.
	b.Warn("unresolved-type", ref.Name, "no resolver matched, degrading to string")
	return &types.Schema{Kind: types.KindString}
}

// BuildAll introspects every entity or contract referenced by the
// manifest's routes, one schema graph per distinct canonical name.
func (b *Builder) BuildAll() {
	for _, route := range b.doc.Routes {
		if route.Body != nil {
			b.Resolve(*route.Body)
		}
		for _, resp := range route.Responses {
			if resp.Type != nil {
				b.Resolve(*resp.Type)
			}
		}
	}
}

// annotate attaches a description and nullability to a resolved schema.
// Named schemas are shared by identity and must never be mutated at a use
// site, so annotations on them produce a single-element allOf wrapper; the
// exporter gives the flag somewhere to live without corrupting the
// reference. Anonymous schemas are annotated in place.
func annotate(s *types.Schema, description string, nullable *bool) *types.Schema {
	if description == "" && nullable == nil {
		return s
	}
	if s.CanonicalName != "" {
		wrapped := &types.Schema{AllOf: []*types.Schema{s}}
		wrapped.Description = description
		wrapped.Nullable = nullable
		return wrapped
	}
	if description != "" && s.Description == "" {
		s.Description = description
	}
	if nullable != nil && s.Nullable == nil {
		s.Nullable = nullable
	}
	return s
}

// docDescription extracts a description from a documentation map.
func docDescription(docs map[string]any) string {
	for _, key := range []string{"description", "desc"} {
		if v, ok := docs[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// copyDocExtensions copies extension-prefixed documentation keys onto a
// schema verbatim.
func copyDocExtensions(s *types.Schema, docs map[string]any) {
	for key, value := range docs {
		if len(key) > 2 && key[:2] == "x-" {
			s.SetExtension(key, value)
		}
	}
}
