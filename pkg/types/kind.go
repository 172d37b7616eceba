// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package types provides the canonical, dialect-agnostic schema model.
package types

// Kind is the closed enumeration of primitive schema kinds.
// Anything outside this enumeration is handled by a resolver-registry
// extension point, never by a dynamic fallback.
type Kind string

const (
	// KindString is the string primitive kind.
	KindString Kind = "string"

	// KindInteger is the integer primitive kind.
	KindInteger Kind = "integer"

	// KindNumber is the floating-point number primitive kind.
	KindNumber Kind = "number"

	// KindBoolean is the boolean primitive kind.
	KindBoolean Kind = "boolean"

	// KindArray is the array kind; a schema of this kind carries Items.
	KindArray Kind = "array"

	// KindObject is the object kind; a schema of this kind carries Properties.
	KindObject Kind = "object"

	// KindNone marks a pure-composition schema that carries no type of its own.
	KindNone Kind = ""
)

// Kinds returns all concrete primitive kinds.
func Kinds() []Kind {
	return []Kind{KindString, KindInteger, KindNumber, KindBoolean, KindArray, KindObject}
}

// Valid reports whether k is a member of the closed enumeration.
func (k Kind) Valid() bool {
	switch k {
	case KindString, KindInteger, KindNumber, KindBoolean, KindArray, KindObject, KindNone:
		return true
	}
	return false
}

// Scalar reports whether k is a non-container kind.
func (k Kind) Scalar() bool {
	switch k {
	case KindString, KindInteger, KindNumber, KindBoolean:
		return true
	}
	return false
}

// JSONType returns the JSON Schema type string for k.
// The mapping is total over the enumeration; KindNone maps to the empty
// string, which renderers treat as "omit the type key".
func (k Kind) JSONType() string {
	return string(k)
}

// KindForValue maps a decoded manifest value to the kind its JSON
// representation would carry. Unrecognized Go types map to KindNone.
func KindForValue(v any) Kind {
	switch v.(type) {
	case string:
		return KindString
	case bool:
		return KindBoolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInteger
	case float32, float64:
		return KindNumber
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	}
	return KindNone
}
