// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package introspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/desc2spec/pkg/descriptor"
	"github.com/api2spec/desc2spec/pkg/types"
)

func TestWalkRule_PresenceAndSize(t *testing.T) {
	rule := descriptor.Combinator{
		Kind: descriptor.CombinatorAnd,
		Children: []descriptor.Predicate{
			descriptor.Leaf{Op: "presence"},
			descriptor.Leaf{Op: "size", Args: []any{5, 50}},
		},
	}

	set := &ConstraintSet{}
	WalkRule(rule, set, nil)

	require.NotNil(t, set.Required)
	assert.True(t, *set.Required)
	require.NotNil(t, set.MinSize)
	assert.Equal(t, 5, *set.MinSize)
	require.NotNil(t, set.MaxSize)
	assert.Equal(t, 50, *set.MaxSize)
}

func TestWalkRule_ConditionalSuppressesRequired(t *testing.T) {
	// presence under an or-combinator only holds on some branches, so it
	// must not imply requiredness.
	rule := descriptor.Combinator{
		Kind: descriptor.CombinatorOr,
		Children: []descriptor.Predicate{
			descriptor.Leaf{Op: "presence"},
			descriptor.Leaf{Op: "allow_nil"},
		},
	}

	set := &ConstraintSet{}
	WalkRule(rule, set, nil)

	assert.Nil(t, set.Required)
	require.NotNil(t, set.Nullable)
	assert.True(t, *set.Nullable)
}

func TestWalkRule_ImpliesConsequentsConditional(t *testing.T) {
	rule := descriptor.Combinator{
		Kind: descriptor.CombinatorImplies,
		Children: []descriptor.Predicate{
			descriptor.Leaf{Op: "type", Args: []any{"string"}},
			descriptor.Leaf{Op: "presence"},
		},
	}

	set := &ConstraintSet{}
	WalkRule(rule, set, nil)

	// The antecedent only guards; it contributes nothing.
	assert.Equal(t, types.KindNone, set.TypePredicate)
	assert.Nil(t, set.Required)
}

func TestWalkRule_ImpliesWithoutConsequent(t *testing.T) {
	rule := descriptor.Combinator{
		Kind:     descriptor.CombinatorImplies,
		Children: []descriptor.Predicate{descriptor.Leaf{Op: "presence"}},
	}

	set := &ConstraintSet{}
	WalkRule(rule, set, nil)
	assert.True(t, set.IsZero())
}

func TestWalkRule_Bounds(t *testing.T) {
	rule := descriptor.Combinator{
		Kind: descriptor.CombinatorAnd,
		Children: []descriptor.Predicate{
			descriptor.Leaf{Op: "greater_than", Args: []any{0}},
			descriptor.Leaf{Op: "less_than_or_equal", Args: []any{100}},
		},
	}

	set := &ConstraintSet{}
	WalkRule(rule, set, nil)

	require.NotNil(t, set.Minimum)
	assert.Equal(t, 0.0, *set.Minimum)
	assert.True(t, set.ExclusiveMinimum)
	require.NotNil(t, set.Maximum)
	assert.Equal(t, 100.0, *set.Maximum)
	assert.False(t, set.ExclusiveMaximum)
}

func TestWalkRule_FormatOps(t *testing.T) {
	tests := []struct {
		op     string
		format string
	}{
		{"email", "email"},
		{"uri", "uri"},
		{"uuid", "uuid"},
		{"date", "date"},
		{"date_time", "date-time"},
	}

	for _, tt := range tests {
		set := &ConstraintSet{}
		WalkRule(descriptor.Leaf{Op: tt.op}, set, nil)
		assert.Equal(t, tt.format, set.Format, "op %s", tt.op)
	}
}

func TestWalkRule_ParityAndMultipleOf(t *testing.T) {
	rule := descriptor.Combinator{
		Kind: descriptor.CombinatorAnd,
		Children: []descriptor.Predicate{
			descriptor.Leaf{Op: "odd"},
			descriptor.Leaf{Op: "multiple_of", Args: []any{3}},
		},
	}

	set := &ConstraintSet{}
	WalkRule(rule, set, nil)

	assert.Equal(t, "odd", set.Parity)
	assert.Equal(t, 3.0, set.Extensions[ExtMultipleOf])
}

func TestWalkRule_UnknownOpSurfaced(t *testing.T) {
	set := &ConstraintSet{}
	WalkRule(descriptor.Leaf{Op: "frobnicate", Args: []any{1, "a"}}, set, nil)

	require.Len(t, set.Unhandled, 1)
	assert.Equal(t, "frobnicate(1, a)", set.Unhandled[0])
}

func TestHandleRange_Numeric(t *testing.T) {
	set := &ConstraintSet{}
	WalkRule(descriptor.Leaf{Op: "in_range", Args: []any{1, 10}}, set, nil)

	require.NotNil(t, set.Minimum)
	assert.Equal(t, 1.0, *set.Minimum)
	require.NotNil(t, set.Maximum)
	assert.Equal(t, 10.0, *set.Maximum)
	assert.Empty(t, set.Enum)
}

func TestHandleRange_StringExpansion(t *testing.T) {
	set := &ConstraintSet{}
	WalkRule(descriptor.Leaf{Op: "in_range", Args: []any{"a", "e"}}, set, nil)

	assert.Equal(t, []any{"a", "b", "c", "d", "e"}, set.Enum)
}

func TestHandleRange_ExpansionBounded(t *testing.T) {
	var warned bool
	set := &ConstraintSet{}
	WalkRule(descriptor.Leaf{Op: "in_range", Args: []any{"aaa", "zzz"}}, set,
		func(code, format string, args ...any) {
			if code == "range-expansion" {
				warned = true
			}
		})

	assert.True(t, warned)
	assert.Empty(t, set.Enum)
	require.Len(t, set.Unhandled, 1)
}

func TestSucc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a", "b"},
		{"az", "ba"},
		{"z", "aa"},
		{"zz", "aaa"},
		{"Az", "Ba"},
		{"Z", "AA"},
		{"a9", "b0"},
		{"19", "20"},
		{"9", "10"},
	}

	for _, tt := range tests {
		got, ok := succ(tt.in)
		require.True(t, ok, "succ(%q)", tt.in)
		assert.Equal(t, tt.want, got, "succ(%q)", tt.in)
	}
}

func TestExpandStringRange(t *testing.T) {
	values, ok := expandStringRange("aa", "ac", 100)
	require.True(t, ok)
	assert.Equal(t, []any{"aa", "ab", "ac"}, values)

	_, ok = expandStringRange("a", "{", 100)
	assert.False(t, ok)

	_, ok = expandStringRange("zzz", "a", 100)
	assert.False(t, ok)
}

func TestConstraintSet_MergeFirstWins(t *testing.T) {
	a := &ConstraintSet{
		MinSize: types.Int(5),
		Pattern: "^a",
	}
	b := &ConstraintSet{
		MinSize: types.Int(10),
		MaxSize: types.Int(50),
		Pattern: "^b",
		Format:  "email",
	}

	a.Merge(b)

	assert.Equal(t, 5, *a.MinSize)
	assert.Equal(t, 50, *a.MaxSize)
	assert.Equal(t, "^a", a.Pattern)
	assert.Equal(t, "email", a.Format)
}

func TestConstraintSet_MergeRequiredOverwrites(t *testing.T) {
	// Required is the exception: an explicit later value always wins,
	// because structural requiredness is more authoritative.
	a := &ConstraintSet{Required: types.Bool(true)}
	b := &ConstraintSet{Required: types.Bool(false)}

	a.Merge(b)

	require.NotNil(t, a.Required)
	assert.False(t, *a.Required)
}

func TestConstraintSet_MergeEnumUnion(t *testing.T) {
	a := &ConstraintSet{Enum: []any{"a", "b"}}
	b := &ConstraintSet{Enum: []any{"b", "c"}}

	a.Merge(b)

	assert.Equal(t, []any{"a", "b", "c"}, a.Enum)
}

func TestConstraintSet_ApplySizeBoundsByKind(t *testing.T) {
	set := &ConstraintSet{MinSize: types.Int(1), MaxSize: types.Int(5)}

	str := &types.Schema{Kind: types.KindString}
	set.Apply(str)
	assert.Equal(t, 1, *str.MinLength)
	assert.Equal(t, 5, *str.MaxLength)
	assert.Nil(t, str.MinItems)

	arr := types.NewArray(&types.Schema{Kind: types.KindString})
	set.Apply(arr)
	assert.Equal(t, 1, *arr.MinItems)
	assert.Equal(t, 5, *arr.MaxItems)
	assert.Nil(t, arr.MinLength)
}

func TestConstraintSet_ApplyRespectsExisting(t *testing.T) {
	set := &ConstraintSet{Pattern: "^x", Format: "email"}

	s := &types.Schema{Kind: types.KindString, Pattern: "^y", Format: "uri"}
	set.Apply(s)

	assert.Equal(t, "^y", s.Pattern)
	assert.Equal(t, "uri", s.Format)
}

func TestConstraintSet_ApplyExtensions(t *testing.T) {
	set := &ConstraintSet{
		Parity:         "even",
		ExcludedValues: []any{"admin"},
		Unhandled:      []string{"frobnicate"},
	}

	s := &types.Schema{Kind: types.KindString}
	set.Apply(s)

	assert.Equal(t, "even", s.Extensions[ExtParity])
	assert.Equal(t, []any{"admin"}, s.Extensions[ExtExcludedValues])
	assert.Equal(t, []string{"frobnicate"}, s.Extensions[ExtUnhandledRules])
}

func TestFromMetadata(t *testing.T) {
	md := &descriptor.TypeMetadata{
		Format:    "email",
		Enum:      []any{"a"},
		MinSize:   types.Int(2),
		Omittable: true,
		Extensions: map[string]any{
			"x-custom": 1,
		},
	}

	set := FromMetadata(md)

	assert.Equal(t, "email", set.Format)
	assert.Equal(t, []any{"a"}, set.Enum)
	assert.Equal(t, 2, *set.MinSize)
	require.NotNil(t, set.Required)
	assert.False(t, *set.Required)
	assert.Equal(t, 1, set.Extensions["x-custom"])
}

func TestFromMetadata_Nil(t *testing.T) {
	set := FromMetadata(nil)
	assert.True(t, set.IsZero())
}
