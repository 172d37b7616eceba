// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package descriptor

import "gopkg.in/yaml.v3"

// TypeRef is a deferred reference to a declared type. The name may be a
// primitive ("string", "integer"), the name of an entity or contract
// descriptor, or a stringified custom type whose trailing name segment
// hints a format (for example "CustomerEmail").
//
// In manifests a TypeRef may be written as a bare string, so it carries a
// custom YAML decoder.
type TypeRef struct {
	// Name is the referenced type name.
	Name string `yaml:"name" json:"name"`

	// Elem is the element type for array references.
	Elem *TypeRef `yaml:"elem,omitempty" json:"elem,omitempty"`

	// Optional marks an optional/omittable wrapper around the type.
	Optional bool `yaml:"optional,omitempty" json:"optional,omitempty"`

	// Nullable marks a nullable wrapper around the type.
	Nullable bool `yaml:"nullable,omitempty" json:"nullable,omitempty"`

	// Wraps is the underlying type of a wrapped/constrained type. Wrapper
	// chains are unwrapped to a bounded depth during resolution.
	Wraps *TypeRef `yaml:"wraps,omitempty" json:"wraps,omitempty"`

	// Metadata is type-level metadata attached to the declared type,
	// merged with rule-derived constraints during contract introspection.
	Metadata *TypeMetadata `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// IsArray reports whether the reference is an array-of-element type.
func (r TypeRef) IsArray() bool {
	return r.Name == "array" && r.Elem != nil
}

// IsZero reports whether the reference is entirely unset.
func (r TypeRef) IsZero() bool {
	return r.Name == "" && r.Elem == nil && r.Wraps == nil
}

// UnmarshalYAML accepts either a bare string ("string", "Customer") or the
// full mapping form.
func (r *TypeRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&r.Name)
	}

	// Alias type avoids recursing into this decoder.
	type plain TypeRef
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = TypeRef(p)
	return nil
}

// TypeMetadata is validation metadata declared on a type rather than on a
// standalone rule. It is the second constraint source merged by the
// contract introspector.
type TypeMetadata struct {
	// Description documents the type.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Format is a declared data format.
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	// Enum lists allowed values.
	Enum []any `yaml:"enum,omitempty" json:"enum,omitempty"`

	// Pattern is a regex pattern source.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// Minimum is the minimum numeric value.
	Minimum *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`

	// Maximum is the maximum numeric value.
	Maximum *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`

	// MinSize is the minimum size (string length or item count).
	MinSize *int `yaml:"minSize,omitempty" json:"minSize,omitempty"`

	// MaxSize is the maximum size (string length or item count).
	MaxSize *int `yaml:"maxSize,omitempty" json:"maxSize,omitempty"`

	// Omittable marks the field as not required despite its type.
	Omittable bool `yaml:"omittable,omitempty" json:"omittable,omitempty"`

	// Nullable marks the value as allowed to be null (tri-state).
	Nullable *bool `yaml:"nullable,omitempty" json:"nullable,omitempty"`

	// Extensions holds namespaced passthrough keys (x-...).
	Extensions map[string]any `yaml:"extensions,omitempty" json:"extensions,omitempty"`
}
