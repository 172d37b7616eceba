// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package introspect

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/api2spec/desc2spec/pkg/descriptor"
	"github.com/api2spec/desc2spec/pkg/types"
)

// Resolver maps a matching type reference to a schema fragment. Resolvers
// are consulted in registration order, first match wins.
type Resolver interface {
	// Name identifies the resolver for Before/After insertion.
	Name() string

	// Matches reports whether this resolver handles the reference.
	Matches(ref descriptor.TypeRef, doc *descriptor.Document) bool

	// Resolve produces the schema for the reference. depth counts wrapper
	// unwrap levels and is threaded through recursive resolution.
	Resolve(b *Builder, ref descriptor.TypeRef, depth int) *types.Schema
}

// ResolverSet is an ordered, named resolver registry supporting insertion
// before or after an existing entry. Third parties extend type resolution
// here without touching the core traversal.
type ResolverSet struct {
	mu        sync.RWMutex
	resolvers []Resolver
}

// Resolvers is the global resolver set, pre-populated with the built-ins.
var Resolvers = NewResolverSet()

// NewResolverSet returns a set containing the built-in resolvers, ordered
// from most to least specific with the catch-all last.
func NewResolverSet() *ResolverSet {
	return &ResolverSet{
		resolvers: []Resolver{
			arrayResolver{},
			wrapperResolver{},
			primitiveResolver{},
			entityResolver{},
			contractResolver{},
			fallbackResolver{},
		},
	}
}

// Register appends a resolver just before the catch-all.
func (s *ResolverSet) Register(r Resolver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.resolvers)
	if n > 0 && s.resolvers[n-1].Name() == "fallback" {
		s.resolvers = append(s.resolvers[:n-1], r, s.resolvers[n-1])
		return
	}
	s.resolvers = append(s.resolvers, r)
}

// RegisterBefore inserts a resolver before the named entry.
func (s *ResolverSet) RegisterBefore(name string, r Resolver) error {
	return s.insert(name, r, 0)
}

// RegisterAfter inserts a resolver after the named entry.
func (s *ResolverSet) RegisterAfter(name string, r Resolver) error {
	return s.insert(name, r, 1)
}

func (s *ResolverSet) insert(name string, r Resolver, offset int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.resolvers {
		if existing.Name() == name {
			at := i + offset
			s.resolvers = append(s.resolvers[:at],
				append([]Resolver{r}, s.resolvers[at:]...)...)
			return nil
		}
	}
	return fmt.Errorf("no resolver named %q", name)
}

func (s *ResolverSet) list() []Resolver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Resolver, len(s.resolvers))
	copy(out, s.resolvers)
	return out
}

// primitiveKinds maps primitive type names to their kind and format.
var primitiveKinds = map[string]struct {
	kind   types.Kind
	format string
}{
	"string":    {types.KindString, ""},
	"symbol":    {types.KindString, ""},
	"text":      {types.KindString, ""},
	"integer":   {types.KindInteger, ""},
	"int":       {types.KindInteger, ""},
	"long":      {types.KindInteger, "int64"},
	"number":    {types.KindNumber, ""},
	"float":     {types.KindNumber, "float"},
	"double":    {types.KindNumber, "double"},
	"boolean":   {types.KindBoolean, ""},
	"bool":      {types.KindBoolean, ""},
	"object":    {types.KindObject, ""},
	"date":      {types.KindString, "date"},
	"datetime":  {types.KindString, "date-time"},
	"date-time": {types.KindString, "date-time"},
	"time":      {types.KindString, "date-time"},
	"uuid":      {types.KindString, "uuid"},
	"email":     {types.KindString, "email"},
	"uri":       {types.KindString, "uri"},
	"url":       {types.KindString, "uri"},
	"binary":    {types.KindString, "binary"},
}

type primitiveResolver struct{}

func (primitiveResolver) Name() string { return "primitive" }

func (primitiveResolver) Matches(ref descriptor.TypeRef, _ *descriptor.Document) bool {
	_, ok := primitiveKinds[strings.ToLower(ref.Name)]
	return ok
}

func (primitiveResolver) Resolve(_ *Builder, ref descriptor.TypeRef, _ int) *types.Schema {
	p := primitiveKinds[strings.ToLower(ref.Name)]
	s := &types.Schema{Kind: p.kind, Format: p.format}
	if ref.Nullable {
		s.Nullable = types.Bool(true)
	}
	return s
}

type arrayResolver struct{}

func (arrayResolver) Name() string { return "array" }

func (arrayResolver) Matches(ref descriptor.TypeRef, _ *descriptor.Document) bool {
	return ref.IsArray()
}

func (arrayResolver) Resolve(b *Builder, ref descriptor.TypeRef, depth int) *types.Schema {
	items := b.resolveAt(*ref.Elem, depth)
	s := types.NewArray(items)
	if ref.Nullable {
		s.Nullable = types.Bool(true)
	}
	return s
}

type wrapperResolver struct{}

func (wrapperResolver) Name() string { return "wrapper" }

func (wrapperResolver) Matches(ref descriptor.TypeRef, _ *descriptor.Document) bool {
	return ref.Wraps != nil
}

func (wrapperResolver) Resolve(b *Builder, ref descriptor.TypeRef, depth int) *types.Schema {
	inner := b.resolveAt(*ref.Wraps, depth+1)

	// A nullable wrapper sets nullability without affecting the type.
	var nullable *bool
	if ref.Nullable {
		nullable = types.Bool(true)
	}
	s := annotate(inner, "", nullable)

	if s.CanonicalName == "" && s.Format == "" {
		s.Format = InferFormat(ref.Name)
	}
	return s
}

type entityResolver struct{}

func (entityResolver) Name() string { return "entity" }

func (entityResolver) Matches(ref descriptor.TypeRef, doc *descriptor.Document) bool {
	return doc != nil && doc.Entity(ref.Name) != nil
}

func (entityResolver) Resolve(b *Builder, ref descriptor.TypeRef, _ int) *types.Schema {
	s := b.BuildEntity(b.doc.Entity(ref.Name))
	var nullable *bool
	if ref.Nullable {
		nullable = types.Bool(true)
	}
	return annotate(s, "", nullable)
}

type contractResolver struct{}

func (contractResolver) Name() string { return "contract" }

func (contractResolver) Matches(ref descriptor.TypeRef, doc *descriptor.Document) bool {
	return doc != nil && doc.Contract(ref.Name) != nil
}

func (contractResolver) Resolve(b *Builder, ref descriptor.TypeRef, _ int) *types.Schema {
	s := b.BuildContract(b.doc.Contract(ref.Name))
	var nullable *bool
	if ref.Nullable {
		nullable = types.Bool(true)
	}
	return annotate(s, "", nullable)
}

// fallbackResolver degrades an unresolvable reference to a string schema
// with a format guessed from the type name. Generation never aborts over
// one unresolvable field.
type fallbackResolver struct{}

func (fallbackResolver) Name() string { return "fallback" }

func (fallbackResolver) Matches(descriptor.TypeRef, *descriptor.Document) bool { return true }

func (fallbackResolver) Resolve(b *Builder, ref descriptor.TypeRef, _ int) *types.Schema {
	format := InferFormat(ref.Name)
	if ref.Name != "" {
		b.Warn("unresolved-type", ref.Name,
			"type could not be resolved, degrading to string (format %q)", format)
	}
	s := &types.Schema{Kind: types.KindString, Format: format}
	if ref.Nullable {
		s.Nullable = types.Bool(true)
	}
	return s
}

// formatSuffixes maps a trailing camel-case name segment to an inferred
// format (e.g. "CustomerEmail" infers "email").
var formatSuffixes = map[string]string{
	"email":    "email",
	"uri":      "uri",
	"url":      "uri",
	"uuid":     "uuid",
	"guid":     "uuid",
	"date":     "date",
	"datetime": "date-time",
	"time":     "date-time",
}

// InferFormat guesses a data format from the trailing name segment of a
// type name. It returns "" when nothing is inferred.
func InferFormat(name string) string {
	segment := lastSegment(name)
	if segment == "" {
		return ""
	}
	return formatSuffixes[strings.ToLower(segment)]
}

// lastSegment returns the final camel-case (or underscore-separated)
// segment of a name.
func lastSegment(name string) string {
	if idx := strings.LastIndexAny(name, "_-."); idx >= 0 {
		return name[idx+1:]
	}
	last := 0
	runes := []rune(name)
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && !unicode.IsUpper(runes[i-1]) {
			last = i
		}
	}
	return string(runes[last:])
}
