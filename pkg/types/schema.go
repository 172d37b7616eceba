// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

// Schema is the canonical intermediate representation node.
//
// It is version-agnostic: nullability is a tri-state that exporters render
// per dialect, composition is carried natively even for dialects that lack
// it, and references are by canonical name rather than by $ref string.
type Schema struct {
	// Kind is the primitive kind, or KindNone for pure-composition nodes.
	Kind Kind

	// Format is the data format (date-time, email, uuid, etc.).
	Format string

	// Description is a detailed description of the schema.
	// An absent description stays empty and is omitted on export.
	Description string

	// CanonicalName is non-empty only for nodes emitted as shared,
	// referenceable definitions. A schema with a canonical name is *the*
	// representative for that name; every other mention must resolve to the
	// same object identity through the registry.
	CanonicalName string

	// Properties maps property names to their schemas (order-irrelevant).
	Properties map[string]*Schema

	// Required is the set of required property names.
	Required []string

	// Items is the element schema for KindArray.
	Items *Schema

	// Nullable is tri-state: nil means unset. The rendering strategy is
	// deferred to export time.
	Nullable *bool

	// Enum lists allowed values; exporters coerce them to Kind.
	Enum []any

	// --- Bound constraints ---

	// Minimum is the minimum numeric value.
	Minimum *float64

	// Maximum is the maximum numeric value.
	Maximum *float64

	// ExclusiveMinimum marks Minimum as exclusive.
	ExclusiveMinimum bool

	// ExclusiveMaximum marks Maximum as exclusive.
	ExclusiveMaximum bool

	// MinLength is the minimum string length.
	MinLength *int

	// MaxLength is the maximum string length.
	MaxLength *int

	// Pattern is a regex pattern (source text) for string validation.
	Pattern string

	// MinItems is the minimum number of array items.
	MinItems *int

	// MaxItems is the maximum number of array items.
	MaxItems *int

	// --- Polymorphism and composition ---

	// Discriminator names the property that selects a subtype variant.
	Discriminator *Discriminator

	// AllOf is an ordered conjunction of schemas.
	AllOf []*Schema

	// OneOf is an ordered exclusive disjunction of schemas.
	OneOf []*Schema

	// AnyOf is an ordered inclusive disjunction of schemas.
	AnyOf []*Schema

	// --- Object policies ---

	// AdditionalProperties is nil (unset), a bool, or a *Schema.
	AdditionalProperties any

	// UnevaluatedProperties is nil (unset), a bool, or a *Schema.
	// Only the newest dialect renders it natively.
	UnevaluatedProperties any

	// Defs holds locally-scoped named sub-schemas.
	Defs map[string]*Schema

	// Extensions is a namespaced passthrough key/value map. Keys carry the
	// extension prefix already ("x-...") and are emitted verbatim.
	Extensions map[string]any
}

// Discriminator identifies the property used for subtype selection.
type Discriminator struct {
	// PropertyName is the discriminating property.
	PropertyName string

	// Mapping optionally maps discriminator values to canonical names.
	Mapping map[string]string
}

// NewObject returns an object-kind schema with allocated property storage.
func NewObject() *Schema {
	return &Schema{
		Kind:       KindObject,
		Properties: map[string]*Schema{},
	}
}

// NewArray returns an array-kind schema over the given item schema.
func NewArray(items *Schema) *Schema {
	return &Schema{Kind: KindArray, Items: items}
}

// Placeholder returns a schema carrying only a canonical name. It stands in
// for an in-progress build until emission resolves it by reference.
func Placeholder(name string) *Schema {
	return &Schema{CanonicalName: name}
}

// IsPlaceholder reports whether s carries nothing but a canonical name.
func (s *Schema) IsPlaceholder() bool {
	return s != nil && s.CanonicalName != "" && s.Kind == KindNone &&
		len(s.Properties) == 0 && s.Items == nil &&
		len(s.AllOf) == 0 && len(s.OneOf) == 0 && len(s.AnyOf) == 0
}

// IsComposition reports whether s is a pure-composition node.
func (s *Schema) IsComposition() bool {
	return len(s.AllOf) > 0 || len(s.OneOf) > 0 || len(s.AnyOf) > 0
}

// HasRequired reports whether name is in the required set.
func (s *Schema) HasRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// AddRequired adds name to the required set if not already present.
func (s *Schema) AddRequired(name string) {
	if !s.HasRequired(name) {
		s.Required = append(s.Required, name)
	}
}

// SetExtension stores an extension key, allocating the map on first use.
func (s *Schema) SetExtension(key string, value any) {
	if s.Extensions == nil {
		s.Extensions = map[string]any{}
	}
	s.Extensions[key] = value
}

// Bool returns a pointer to b, for the tri-state Nullable field.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n, for optional bound fields.
func Int(n int) *int { return &n }

// Float returns a pointer to f, for optional bound fields.
func Float(f float64) *float64 { return &f }
