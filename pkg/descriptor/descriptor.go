// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package descriptor defines the declarative input model: entity
// descriptors, validation-contract descriptors, and route descriptors, as
// loaded from a manifest file. The manifest loader is the file-based
// stand-in for a framework adapter walking a live route table.
package descriptor

// Entity is a structural entity descriptor: an ordered list of named,
// possibly nested field exposures with attached documentation metadata.
type Entity struct {
	// Name is the canonical name of the entity.
	Name string `yaml:"name" json:"name"`

	// Description documents the entity as a whole.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Parent names the entity this one inherits from, if any.
	Parent string `yaml:"parent,omitempty" json:"parent,omitempty"`

	// Discriminator is the field whose value selects a subtype variant.
	// Only meaningful on the root of a polymorphic hierarchy.
	Discriminator string `yaml:"discriminator,omitempty" json:"discriminator,omitempty"`

	// DiscriminatorMapping optionally maps discriminator values to entity names.
	DiscriminatorMapping map[string]string `yaml:"discriminatorMapping,omitempty" json:"discriminatorMapping,omitempty"`

	// Nullable sets the entity-level nullable default (tri-state).
	Nullable *bool `yaml:"nullable,omitempty" json:"nullable,omitempty"`

	// AdditionalProperties controls the additionalProperties policy.
	AdditionalProperties *bool `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"`

	// UnevaluatedProperties controls the unevaluatedProperties policy.
	UnevaluatedProperties *bool `yaml:"unevaluatedProperties,omitempty" json:"unevaluatedProperties,omitempty"`

	// Defs holds locally-scoped named sub-schemas, by type reference.
	Defs map[string]TypeRef `yaml:"defs,omitempty" json:"defs,omitempty"`

	// Extensions holds namespaced passthrough keys (x-...).
	Extensions map[string]any `yaml:"extensions,omitempty" json:"extensions,omitempty"`

	// Fields is the ordered list of field exposures.
	Fields []Field `yaml:"fields" json:"fields"`
}

// FieldNames returns the names of all fields, hidden ones included.
func (e *Entity) FieldNames() map[string]bool {
	names := make(map[string]bool, len(e.Fields))
	for _, f := range e.Fields {
		names[f.Name] = true
	}
	return names
}

// Field is one exposure of an entity descriptor.
type Field struct {
	// Name is the exposed field name.
	Name string `yaml:"name" json:"name"`

	// Type is the declared type of the field.
	Type TypeRef `yaml:"type" json:"type"`

	// Documentation is a free-form metadata map. Keys beginning with the
	// extension prefix pass through verbatim into the output.
	Documentation map[string]any `yaml:"docs,omitempty" json:"docs,omitempty"`

	// Hidden marks a field that is never shown.
	Hidden bool `yaml:"hidden,omitempty" json:"hidden,omitempty"`

	// Conditional marks a present-if-true exposure. Conditional fields are
	// included but never required; conditionality does not make the value
	// nullable, the value is simply absent from some responses.
	Conditional bool `yaml:"conditional,omitempty" json:"conditional,omitempty"`

	// Merge flattens a nested entity's fields into the parent object.
	Merge bool `yaml:"merge,omitempty" json:"merge,omitempty"`

	// Array exposes the field as an array of its declared type.
	Array bool `yaml:"array,omitempty" json:"array,omitempty"`
}

// FieldExposure is the fixed accessor contract the introspector walks.
// Adapter layers for real frameworks supply their own implementations;
// the manifest loader supplies one backed by Field values.
type FieldExposure interface {
	// Name is the exposed field name.
	Name() string

	// DeclaredType is the declared type reference of the field.
	DeclaredType() TypeRef

	// Documentation is the free-form metadata map attached to the field.
	Documentation() map[string]any

	// Hidden reports whether the field is never shown.
	Hidden() bool

	// Conditional reports present-if-true exposure semantics.
	Conditional() bool

	// MergeIntoParent reports whether nested fields flatten into the parent.
	MergeIntoParent() bool

	// AsArray reports whether the field is exposed as an array.
	AsArray() bool
}

// Exposures returns the entity's fields behind the FieldExposure contract.
func (e *Entity) Exposures() []FieldExposure {
	out := make([]FieldExposure, len(e.Fields))
	for i := range e.Fields {
		out[i] = fieldExposure{e.Fields[i]}
	}
	return out
}

// fieldExposure adapts a manifest Field to the FieldExposure contract.
type fieldExposure struct {
	f Field
}

func (a fieldExposure) Name() string                  { return a.f.Name }
func (a fieldExposure) DeclaredType() TypeRef         { return a.f.Type }
func (a fieldExposure) Documentation() map[string]any { return a.f.Documentation }
func (a fieldExposure) Hidden() bool                  { return a.f.Hidden }
func (a fieldExposure) Conditional() bool             { return a.f.Conditional }
func (a fieldExposure) MergeIntoParent() bool         { return a.f.Merge }
func (a fieldExposure) AsArray() bool                 { return a.f.Array }

// Contract is a validation-contract descriptor: a mapping of field name to
// a typed-and-constrained rule.
type Contract struct {
	// Name is the canonical name of the contract.
	Name string `yaml:"name" json:"name"`

	// Description documents the contract as a whole.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Parent names the contract this one extends, if any.
	Parent string `yaml:"parent,omitempty" json:"parent,omitempty"`

	// Extensions holds namespaced passthrough keys (x-...).
	Extensions map[string]any `yaml:"extensions,omitempty" json:"extensions,omitempty"`

	// Fields is the ordered list of constrained fields.
	Fields []ContractField `yaml:"fields" json:"fields"`
}

// FieldNames returns the names of all contract fields.
func (c *Contract) FieldNames() map[string]bool {
	names := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		names[f.Name] = true
	}
	return names
}

// ContractField is one typed, constrained field of a contract.
type ContractField struct {
	// Name is the field name.
	Name string `yaml:"name" json:"name"`

	// Type is the declared type of the field.
	Type TypeRef `yaml:"type" json:"type"`

	// Rule is the predicate tree attached to standalone validation rules.
	Rule *Rule `yaml:"rule,omitempty" json:"rule,omitempty"`

	// Documentation is a free-form metadata map.
	Documentation map[string]any `yaml:"docs,omitempty" json:"docs,omitempty"`
}
