// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package introspect

import (
	"github.com/api2spec/desc2spec/pkg/descriptor"
	"github.com/api2spec/desc2spec/pkg/types"
)

// BuildContract introspects a validation-contract descriptor into an
// object-kind schema. Each field's constraints come from two independent
// sources, the rule-predicate tree and the type-level metadata, merged
// with the rule-derived set taking precedence except for requiredness.
func (b *Builder) BuildContract(c *descriptor.Contract) *types.Schema {
	if s, ok := b.registry.Get(c.Name); ok && !s.IsPlaceholder() && !b.stack.Contains(c.Name) {
		return s
	}

	if c.Parent != "" {
		if parent := b.doc.Contract(c.Parent); parent != nil {
			return b.buildContractChild(c, parent)
		}
	}

	if b.stack.Contains(c.Name) {
		return b.cyclicSchema(c.Name)
	}

	s := b.claim(c.Name)
	b.stack.Push(c.Name)

	for i := range c.Fields {
		b.buildContractField(s, &c.Fields[i], c.Name)
	}

	if c.Description != "" {
		s.Description = c.Description
	}
	for key, value := range c.Extensions {
		s.SetExtension(key, value)
	}

	b.stack.Pop()
	return s
}

// buildContractChild mirrors entity inheritance: the parent contract
// builds first through the same registry, the child contributes only the
// fields the parent does not declare, and both compose as allOf.
func (b *Builder) buildContractChild(c *descriptor.Contract, parent *descriptor.Contract) *types.Schema {
	if b.stack.Contains(c.Name) {
		return b.cyclicSchema(c.Name)
	}

	parentSchema := b.BuildContract(parent)

	b.stack.Push(c.Name)
	childOnly := types.NewObject()
	parentFields := parent.FieldNames()
	for i := range c.Fields {
		if parentFields[c.Fields[i].Name] {
			continue
		}
		b.buildContractField(childOnly, &c.Fields[i], c.Name)
	}

	wrapper := &types.Schema{
		CanonicalName: c.Name,
		AllOf:         []*types.Schema{parentSchema, childOnly},
	}
	if c.Description != "" {
		wrapper.Description = c.Description
	}
	for key, value := range c.Extensions {
		wrapper.SetExtension(key, value)
	}

	b.registry.Put(c.Name, wrapper)
	b.stack.Pop()
	return wrapper
}

func (b *Builder) buildContractField(obj *types.Schema, f *descriptor.ContractField, owner string) {
	path := owner + "." + f.Name

	s := b.Resolve(f.Type)

	set := &ConstraintSet{}
	if f.Rule != nil && f.Rule.Predicate != nil {
		WalkRule(f.Rule.Predicate, set, func(code, format string, args ...any) {
			b.Warn(code, path, format, args...)
		})
	}
	set.Merge(FromMetadata(f.Type.Metadata))

	if !set.IsZero() {
		// Constraints cannot live on a shared named schema; they attach
		// to a single-element allOf wrapper instead.
		if s.CanonicalName != "" {
			s = &types.Schema{AllOf: []*types.Schema{s}}
		}
		set.Apply(s)
	}

	if f.Type.Nullable {
		s = annotate(s, "", types.Bool(true))
	}
	if md := f.Type.Metadata; md != nil && md.Description != "" {
		s = annotate(s, md.Description, nil)
	}
	s = annotate(s, docDescription(f.Documentation), nil)
	if s.CanonicalName == "" {
		copyDocExtensions(s, f.Documentation)
	}

	obj.Properties[f.Name] = s

	if b.contractFieldRequired(f, set) {
		obj.AddRequired(f.Name)
	}
}

// contractFieldRequired resolves the requiredness of a contract field.
// The default is true; a structurally optional type or omittable metadata
// defeats it, and that structural signal wins over anything inferred from
// rule-combinator shape. An explicit merged override applies last only
// when the structure left the default standing.
func (b *Builder) contractFieldRequired(f *descriptor.ContractField, set *ConstraintSet) bool {
	if f.Type.Optional {
		return false
	}
	if md := f.Type.Metadata; md != nil && md.Omittable {
		return false
	}
	if set.Required != nil {
		return *set.Required
	}
	return true
}
