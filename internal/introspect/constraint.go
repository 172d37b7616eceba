// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package introspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/api2spec/desc2spec/pkg/descriptor"
	"github.com/api2spec/desc2spec/pkg/types"
)

// Extension keys the tool synthesizes for constraints the target dialects
// cannot model natively.
const (
	// ExtMultipleOf carries a multiple-of/divisible-by constraint.
	ExtMultipleOf = "x-desc2spec-multiple-of"

	// ExtParity carries an odd/even parity constraint.
	ExtParity = "x-desc2spec-parity"

	// ExtExcludedValues carries a value-exclusion list.
	ExtExcludedValues = "x-desc2spec-excluded-values"

	// ExtUnhandledRules lists rule predicates the core could not model.
	// They are surfaced rather than dropped so consumers are not lied to.
	ExtUnhandledRules = "x-desc2spec-unhandled-rules"
)

// maxEnumExpansion bounds the expansion of non-numeric ranges into
// enumerated lists.
const maxEnumExpansion = 100

// ConstraintSet is the flat value object a predicate tree collapses into.
// One set is derived from rule predicates and one from type-level
// metadata; Merge combines them.
type ConstraintSet struct {
	Enum             []any
	Nullable         *bool
	MinSize          *int
	MaxSize          *int
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	Pattern          string
	ExcludedValues   []any
	Required         *bool
	TypePredicate    types.Kind
	Parity           string
	Format           string
	Extensions       map[string]any
	Unhandled        []string
}

// IsZero reports whether the set carries no constraints.
func (c *ConstraintSet) IsZero() bool {
	return c == nil || (len(c.Enum) == 0 && c.Nullable == nil &&
		c.MinSize == nil && c.MaxSize == nil &&
		c.Minimum == nil && c.Maximum == nil &&
		c.Pattern == "" && len(c.ExcludedValues) == 0 &&
		c.Required == nil && c.TypePredicate == types.KindNone &&
		c.Parity == "" && c.Format == "" &&
		len(c.Extensions) == 0 && len(c.Unhandled) == 0)
}

func (c *ConstraintSet) setExtension(key string, value any) {
	if c.Extensions == nil {
		c.Extensions = map[string]any{}
	}
	c.Extensions[key] = value
}

// Merge folds other into c, preferring existing values: scalar fields keep
// the first non-null value, list fields union. Required is the exception:
// a later explicit value always overwrites, because requiredness declared
// structurally on the type is more authoritative than one inferred from
// rule-combinator shape.
func (c *ConstraintSet) Merge(other *ConstraintSet) {
	if other == nil {
		return
	}
	c.Enum = unionValues(c.Enum, other.Enum)
	c.ExcludedValues = unionValues(c.ExcludedValues, other.ExcludedValues)
	c.Unhandled = append(c.Unhandled, other.Unhandled...)
	for key, value := range other.Extensions {
		if c.Extensions == nil || c.Extensions[key] == nil {
			c.setExtension(key, value)
		}
	}

	if c.Nullable == nil {
		c.Nullable = other.Nullable
	}
	if c.MinSize == nil {
		c.MinSize = other.MinSize
	}
	if c.MaxSize == nil {
		c.MaxSize = other.MaxSize
	}
	if c.Minimum == nil {
		c.Minimum = other.Minimum
		c.ExclusiveMinimum = other.ExclusiveMinimum
	}
	if c.Maximum == nil {
		c.Maximum = other.Maximum
		c.ExclusiveMaximum = other.ExclusiveMaximum
	}
	if c.Pattern == "" {
		c.Pattern = other.Pattern
	}
	if c.TypePredicate == types.KindNone {
		c.TypePredicate = other.TypePredicate
	}
	if c.Parity == "" {
		c.Parity = other.Parity
	}
	if c.Format == "" {
		c.Format = other.Format
	}

	if other.Required != nil {
		c.Required = other.Required
	}
}

// Apply writes the constraints into a schema, respecting values already
// present. Size bounds land on length or item-count fields depending on
// the schema's kind.
func (c *ConstraintSet) Apply(s *types.Schema) {
	if c == nil || s == nil {
		return
	}

	if len(c.Enum) > 0 && len(s.Enum) == 0 {
		s.Enum = c.Enum
	}
	if c.Nullable != nil && s.Nullable == nil {
		s.Nullable = c.Nullable
	}
	if c.TypePredicate != types.KindNone && s.Kind == types.KindNone && !s.IsComposition() {
		s.Kind = c.TypePredicate
	}

	switch s.Kind {
	case types.KindArray:
		if c.MinSize != nil && s.MinItems == nil {
			s.MinItems = c.MinSize
		}
		if c.MaxSize != nil && s.MaxItems == nil {
			s.MaxItems = c.MaxSize
		}
	default:
		if c.MinSize != nil && s.MinLength == nil {
			s.MinLength = c.MinSize
		}
		if c.MaxSize != nil && s.MaxLength == nil {
			s.MaxLength = c.MaxSize
		}
	}

	if c.Minimum != nil && s.Minimum == nil {
		s.Minimum = c.Minimum
		s.ExclusiveMinimum = c.ExclusiveMinimum
	}
	if c.Maximum != nil && s.Maximum == nil {
		s.Maximum = c.Maximum
		s.ExclusiveMaximum = c.ExclusiveMaximum
	}
	if c.Pattern != "" && s.Pattern == "" {
		s.Pattern = c.Pattern
	}
	if c.Format != "" && s.Format == "" {
		s.Format = c.Format
	}

	if c.Parity != "" {
		s.SetExtension(ExtParity, c.Parity)
	}
	if len(c.ExcludedValues) > 0 {
		s.SetExtension(ExtExcludedValues, c.ExcludedValues)
	}
	if len(c.Unhandled) > 0 {
		s.SetExtension(ExtUnhandledRules, c.Unhandled)
	}
	for key, value := range c.Extensions {
		if s.Extensions == nil || s.Extensions[key] == nil {
			s.SetExtension(key, value)
		}
	}
}

// FromMetadata derives a constraint set from type-level metadata.
func FromMetadata(md *descriptor.TypeMetadata) *ConstraintSet {
	if md == nil {
		return &ConstraintSet{}
	}
	set := &ConstraintSet{
		Enum:     md.Enum,
		Nullable: md.Nullable,
		MinSize:  md.MinSize,
		MaxSize:  md.MaxSize,
		Minimum:  md.Minimum,
		Maximum:  md.Maximum,
		Pattern:  md.Pattern,
		Format:   md.Format,
	}
	for key, value := range md.Extensions {
		set.setExtension(key, value)
	}
	if md.Omittable {
		set.Required = types.Bool(false)
	}
	return set
}

// WalkRule collapses a predicate tree into a constraint set. The walk is
// depth-first; descending through an or/implies combinator enters a
// conditional context in which presence predicates stop implying
// requiredness (the field only has to be present on some branches).
func WalkRule(p descriptor.Predicate, set *ConstraintSet, warn func(code, format string, args ...any)) {
	if warn == nil {
		warn = func(string, string, ...any) {}
	}
	walkPredicate(p, set, false, warn)
}

func walkPredicate(p descriptor.Predicate, set *ConstraintSet, conditional bool, warn func(code, format string, args ...any)) {
	switch node := p.(type) {
	case descriptor.Leaf:
		handleLeaf(node, set, conditional, warn)
	case descriptor.Combinator:
		switch node.Kind {
		case descriptor.CombinatorAnd:
			for _, child := range node.Children {
				walkPredicate(child, set, conditional, warn)
			}
		case descriptor.CombinatorOr:
			for _, child := range node.Children {
				walkPredicate(child, set, true, warn)
			}
		case descriptor.CombinatorImplies:
			// The antecedent guards, the consequents apply conditionally.
			if len(node.Children) > 1 {
				for _, child := range node.Children[1:] {
					walkPredicate(child, set, true, warn)
				}
			}
		default:
			set.Unhandled = append(set.Unhandled, fmt.Sprintf("combinator(%s)", node.Kind))
		}
	}
}

// handleLeaf interprets one known leaf operator. Unrecognized operators
// are appended to Unhandled, never silently dropped.
func handleLeaf(leaf descriptor.Leaf, set *ConstraintSet, conditional bool, warn func(code, format string, args ...any)) {
	switch leaf.Op {
	case "presence", "required":
		if !conditional {
			set.Required = types.Bool(true)
		}

	case "allow_nil", "nullable":
		set.Nullable = types.Bool(true)

	case "size", "length":
		if len(leaf.Args) > 0 {
			if n, ok := toInt(leaf.Args[0]); ok {
				set.MinSize = types.Int(n)
			}
		}
		if len(leaf.Args) > 1 {
			if n, ok := toInt(leaf.Args[1]); ok {
				set.MaxSize = types.Int(n)
			}
		}

	case "min_size", "min_length":
		if n, ok := argInt(leaf.Args); ok {
			set.MinSize = types.Int(n)
		}

	case "max_size", "max_length":
		if n, ok := argInt(leaf.Args); ok {
			set.MaxSize = types.Int(n)
		}

	case "greater_than":
		if f, ok := argFloat(leaf.Args); ok {
			set.Minimum = types.Float(f)
			set.ExclusiveMinimum = true
		}

	case "greater_than_or_equal", "at_least", "min":
		if f, ok := argFloat(leaf.Args); ok {
			set.Minimum = types.Float(f)
		}

	case "less_than":
		if f, ok := argFloat(leaf.Args); ok {
			set.Maximum = types.Float(f)
			set.ExclusiveMaximum = true
		}

	case "less_than_or_equal", "at_most", "max":
		if f, ok := argFloat(leaf.Args); ok {
			set.Maximum = types.Float(f)
		}

	case "included", "one_of":
		set.Enum = unionValues(set.Enum, leaf.Args)

	case "excluded", "none_of":
		set.ExcludedValues = unionValues(set.ExcludedValues, leaf.Args)

	case "in_range":
		handleRange(leaf, set, warn)

	case "email", "uri", "uuid", "date", "date_time":
		set.Format = strings.ReplaceAll(leaf.Op, "_", "-")

	case "format":
		if s, ok := argString(leaf.Args); ok {
			set.Format = s
		}

	case "matches", "pattern":
		if s, ok := argString(leaf.Args); ok {
			set.Pattern = s
		}

	case "odd", "even":
		set.Parity = leaf.Op

	case "multiple_of", "divisible_by":
		if f, ok := argFloat(leaf.Args); ok {
			set.setExtension(ExtMultipleOf, f)
		}

	case "type":
		if s, ok := argString(leaf.Args); ok {
			if kind := types.Kind(s); kind.Valid() {
				set.TypePredicate = kind
			}
		}

	default:
		set.Unhandled = append(set.Unhandled, formatLeaf(leaf))
	}
}

// handleRange turns an in_range predicate into numeric bounds, or, for
// non-numeric bounds, an explicit enumerated list bounded to
// maxEnumExpansion elements.
func handleRange(leaf descriptor.Leaf, set *ConstraintSet, warn func(code, format string, args ...any)) {
	if len(leaf.Args) < 2 {
		set.Unhandled = append(set.Unhandled, formatLeaf(leaf))
		return
	}

	lo, loNum := toFloat(leaf.Args[0])
	hi, hiNum := toFloat(leaf.Args[1])
	if loNum && hiNum {
		set.Minimum = types.Float(lo)
		set.Maximum = types.Float(hi)
		return
	}

	loStr, loOK := leaf.Args[0].(string)
	hiStr, hiOK := leaf.Args[1].(string)
	if loOK && hiOK {
		values, ok := expandStringRange(loStr, hiStr, maxEnumExpansion)
		if ok {
			set.Enum = unionValues(set.Enum, values)
			return
		}
		warn("range-expansion", "range %q..%q exceeds %d elements or is not expandable",
			loStr, hiStr, maxEnumExpansion)
	}
	set.Unhandled = append(set.Unhandled, formatLeaf(leaf))
}

// expandStringRange enumerates lo..hi inclusive by successor, like a
// string range in the source rule language. It bails out past limit
// elements or when the strings are not plain ASCII alphanumerics.
func expandStringRange(lo, hi string, limit int) ([]any, bool) {
	if lo == "" || hi == "" || len(lo) > len(hi) {
		return nil, false
	}
	if !asciiAlnum(lo) || !asciiAlnum(hi) {
		return nil, false
	}

	values := []any{}
	current := lo
	for i := 0; i <= limit; i++ {
		values = append(values, current)
		if current == hi {
			return values, true
		}
		next, ok := succ(current)
		if !ok || len(next) > len(hi) {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// succ computes the alphanumeric successor of a string: the rightmost
// character increments, carrying leftward ('z'→'a', '9'→'0', 'Z'→'A').
func succ(s string) (string, bool) {
	b := []byte(s)
	for i := len(b) - 1; i >= 0; i-- {
		switch {
		case b[i] == 'z':
			b[i] = 'a'
		case b[i] == 'Z':
			b[i] = 'A'
		case b[i] == '9':
			b[i] = '0'
		default:
			b[i]++
			return string(b), true
		}
	}
	// Full carry grows the string, e.g. "zz" → "aaa".
	switch b[0] {
	case 'a':
		return "a" + string(b), true
	case 'A':
		return "A" + string(b), true
	default:
		return "1" + string(b), true
	}
}

func asciiAlnum(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return len(s) > 0
}

func formatLeaf(leaf descriptor.Leaf) string {
	if len(leaf.Args) == 0 {
		return leaf.Op
	}
	parts := make([]string, len(leaf.Args))
	for i, a := range leaf.Args {
		parts[i] = fmt.Sprintf("%v", a)
	}
	return fmt.Sprintf("%s(%s)", leaf.Op, strings.Join(parts, ", "))
}

// unionValues appends items of b not already present in a.
func unionValues(a, b []any) []any {
	if len(b) == 0 {
		return a
	}
	out := a
	for _, v := range b {
		found := false
		for _, existing := range out {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			out = append(out, v)
		}
	}
	return out
}

func argInt(args []any) (int, bool) {
	if len(args) == 0 {
		return 0, false
	}
	return toInt(args[0])
}

func argFloat(args []any) (float64, bool) {
	if len(args) == 0 {
		return 0, false
	}
	return toFloat(args[0])
}

func argString(args []any) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	s, ok := args[0].(string)
	return s, ok
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(n)
		return parsed, err == nil
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		return parsed, err == nil
	}
	return 0, false
}
