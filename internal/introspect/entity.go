// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package introspect

import (
	"fmt"

	"github.com/api2spec/desc2spec/pkg/descriptor"
	"github.com/api2spec/desc2spec/pkg/types"
)

// BuildEntity introspects a structural entity descriptor into an
// object-kind schema, caching by canonical name.
//
// Cyclic references terminate here: a name already on the stack returns
// the in-progress schema (marked as cyclic) instead of recursing.
func (b *Builder) BuildEntity(e *descriptor.Entity) *types.Schema {
	if s, ok := b.registry.Get(e.Name); ok && !s.IsPlaceholder() && !b.stack.Contains(e.Name) {
		return s
	}

	if e.Parent != "" {
		if parent := b.doc.Entity(e.Parent); parent != nil && parent.Discriminator != "" {
			return b.buildEntityChild(e, parent)
		}
	}

	if b.stack.Contains(e.Name) {
		return b.cyclicSchema(e.Name)
	}

	s := b.claim(e.Name)
	b.stack.Push(e.Name)

	// A parent without a discriminator contributes its fields flat; only
	// discriminated hierarchies become allOf compositions.
	if e.Parent != "" {
		if parent := b.doc.Entity(e.Parent); parent != nil {
			mergeObjectInto(s, b.BuildEntity(parent))
		}
	}

	for _, exposure := range e.Exposures() {
		b.buildEntityField(s, exposure)
	}

	b.applyEntityMetadata(s, e)
	b.stack.Pop()
	return s
}

// claim registers (or upgrades a placeholder to) the in-progress object
// schema for name. Recursive references hit this same object so later
// mutation stays visible to them.
func (b *Builder) claim(name string) *types.Schema {
	s, ok := b.registry.Get(name)
	if !ok {
		s = types.NewObject()
		s.CanonicalName = name
	} else {
		s.Kind = types.KindObject
		if s.Properties == nil {
			s.Properties = map[string]*types.Schema{}
		}
	}
	b.registry.Put(name, s)
	return s
}

// cyclicSchema resolves a reference to a name currently being built. The
// in-progress object is returned when one exists; otherwise a placeholder
// carrying only the canonical name stands in until emission resolves it
// by reference.
func (b *Builder) cyclicSchema(name string) *types.Schema {
	if s, ok := b.registry.Get(name); ok {
		if s.Description == "" {
			s.Description = fmt.Sprintf("cyclic reference to %s", name)
		}
		return s
	}
	return types.Placeholder(name)
}

func (b *Builder) buildEntityField(parent *types.Schema, f descriptor.FieldExposure) {
	if f.Hidden() {
		return
	}

	ref := f.DeclaredType()

	if f.MergeIntoParent() {
		nested := b.doc.Entity(ref.Name)
		if nested == nil {
			b.Warn("merge-target", f.Name(),
				"merge field's type %q is not an entity descriptor", ref.Name)
			return
		}
		mergeObjectInto(parent, b.BuildEntity(nested))
		return
	}

	s := b.Resolve(ref)
	if f.AsArray() {
		s = types.NewArray(s)
	}

	docs := f.Documentation()
	s = annotate(s, docDescription(docs), nil)
	if s.CanonicalName == "" {
		copyDocExtensions(s, docs)
	}

	parent.Properties[f.Name()] = s

	// Conditional exposure affects only the required set. The value is
	// never null, it is simply absent from some responses, so the field
	// is not nullable on account of conditionality.
	if !f.Conditional() && !ref.Optional {
		parent.AddRequired(f.Name())
	}
}

func (b *Builder) applyEntityMetadata(s *types.Schema, e *descriptor.Entity) {
	if e.Description != "" {
		s.Description = e.Description
	}
	if e.Nullable != nil && s.Nullable == nil {
		s.Nullable = e.Nullable
	}
	if e.AdditionalProperties != nil {
		s.AdditionalProperties = *e.AdditionalProperties
	}
	if e.UnevaluatedProperties != nil {
		s.UnevaluatedProperties = *e.UnevaluatedProperties
	}
	if len(e.Defs) > 0 {
		s.Defs = map[string]*types.Schema{}
		for name, ref := range e.Defs {
			s.Defs[name] = b.Resolve(ref)
		}
	}
	for key, value := range e.Extensions {
		s.SetExtension(key, value)
	}
	if e.Discriminator != "" {
		s.Discriminator = &types.Discriminator{
			PropertyName: e.Discriminator,
			Mapping:      e.DiscriminatorMapping,
		}
	}
}

// buildEntityChild handles a subtype whose parent declares the
// discriminator: the parent builds first (through the same cache), then a
// child-only schema of just the fields the parent does not declare, and
// the two compose as allOf. This is the general shape for is-a
// relationships in an object model without native inheritance.
func (b *Builder) buildEntityChild(e *descriptor.Entity, parent *descriptor.Entity) *types.Schema {
	if b.stack.Contains(e.Name) {
		return b.cyclicSchema(e.Name)
	}

	parentSchema := b.BuildEntity(parent)

	b.stack.Push(e.Name)
	childOnly := types.NewObject()
	parentFields := parent.FieldNames()
	for _, exposure := range e.Exposures() {
		if parentFields[exposure.Name()] {
			continue
		}
		b.buildEntityField(childOnly, exposure)
	}

	wrapper := &types.Schema{
		CanonicalName: e.Name,
		AllOf:         []*types.Schema{parentSchema, childOnly},
	}
	if e.Description != "" {
		wrapper.Description = e.Description
	}
	for key, value := range e.Extensions {
		wrapper.SetExtension(key, value)
	}

	b.registry.Put(e.Name, wrapper)
	b.stack.Pop()
	return wrapper
}

// mergeObjectInto flattens src's own fields into dst's properties and
// required set. Composition sources contribute each of their members.
func mergeObjectInto(dst, src *types.Schema) {
	if src == nil {
		return
	}
	for _, member := range src.AllOf {
		mergeObjectInto(dst, member)
	}
	for name, prop := range src.Properties {
		if _, exists := dst.Properties[name]; !exists {
			dst.Properties[name] = prop
		}
	}
	for _, name := range src.Required {
		if _, exists := dst.Properties[name]; exists {
			dst.AddRequired(name)
		}
	}
}
