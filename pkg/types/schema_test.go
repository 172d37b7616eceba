// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Valid(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, k.Valid(), "kind %q", k)
	}
	assert.True(t, KindNone.Valid())
	assert.False(t, Kind("tuple").Valid())
}

func TestKind_Scalar(t *testing.T) {
	assert.True(t, KindString.Scalar())
	assert.True(t, KindInteger.Scalar())
	assert.True(t, KindNumber.Scalar())
	assert.True(t, KindBoolean.Scalar())
	assert.False(t, KindArray.Scalar())
	assert.False(t, KindObject.Scalar())
	assert.False(t, KindNone.Scalar())
}

func TestKindForValue(t *testing.T) {
	tests := []struct {
		value    any
		expected Kind
	}{
		{"abc", KindString},
		{true, KindBoolean},
		{42, KindInteger},
		{int64(42), KindInteger},
		{4.2, KindNumber},
		{[]any{1}, KindArray},
		{map[string]any{}, KindObject},
		{nil, KindNone},
		{struct{}{}, KindNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, KindForValue(tt.value), "value %v", tt.value)
	}
}

func TestNewObject(t *testing.T) {
	s := NewObject()
	assert.Equal(t, KindObject, s.Kind)
	assert.NotNil(t, s.Properties)
}

func TestNewArray(t *testing.T) {
	items := &Schema{Kind: KindString}
	s := NewArray(items)
	assert.Equal(t, KindArray, s.Kind)
	assert.Same(t, items, s.Items)
}

func TestPlaceholder(t *testing.T) {
	s := Placeholder("Customer")
	assert.True(t, s.IsPlaceholder())

	// An in-progress object is no longer a placeholder.
	s.Kind = KindObject
	assert.False(t, s.IsPlaceholder())

	// Anonymous schemas are never placeholders.
	assert.False(t, (&Schema{}).IsPlaceholder())
}

func TestIsComposition(t *testing.T) {
	assert.False(t, (&Schema{Kind: KindObject}).IsComposition())
	assert.True(t, (&Schema{AllOf: []*Schema{{}}}).IsComposition())
	assert.True(t, (&Schema{OneOf: []*Schema{{}}}).IsComposition())
	assert.True(t, (&Schema{AnyOf: []*Schema{{}}}).IsComposition())
}

func TestAddRequired_Deduplicates(t *testing.T) {
	s := NewObject()
	s.AddRequired("id")
	s.AddRequired("name")
	s.AddRequired("id")

	assert.Equal(t, []string{"id", "name"}, s.Required)
	assert.True(t, s.HasRequired("id"))
	assert.False(t, s.HasRequired("email"))
}

func TestSetExtension(t *testing.T) {
	s := &Schema{}
	s.SetExtension("x-internal", true)
	assert.Equal(t, true, s.Extensions["x-internal"])
}
