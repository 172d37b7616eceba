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

func TestResolve_Primitives(t *testing.T) {
	tests := []struct {
		name   string
		kind   types.Kind
		format string
	}{
		{"string", types.KindString, ""},
		{"symbol", types.KindString, ""},
		{"integer", types.KindInteger, ""},
		{"long", types.KindInteger, "int64"},
		{"float", types.KindNumber, "float"},
		{"double", types.KindNumber, "double"},
		{"boolean", types.KindBoolean, ""},
		{"datetime", types.KindString, "date-time"},
		{"uuid", types.KindString, "uuid"},
		{"Binary", types.KindString, "binary"},
	}

	b := NewBuilder(&descriptor.Document{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := b.Resolve(descriptor.TypeRef{Name: tt.name})
			assert.Equal(t, tt.kind, s.Kind)
			assert.Equal(t, tt.format, s.Format)
			assert.Nil(t, s.Nullable)
		})
	}
}

func TestResolve_NullablePrimitive(t *testing.T) {
	b := NewBuilder(&descriptor.Document{})
	s := b.Resolve(descriptor.TypeRef{Name: "string", Nullable: true})

	require.NotNil(t, s.Nullable)
	assert.True(t, *s.Nullable)
}

func TestResolve_Array(t *testing.T) {
	b := NewBuilder(&descriptor.Document{})
	s := b.Resolve(descriptor.TypeRef{
		Name: "array",
		Elem: &descriptor.TypeRef{Name: "integer"},
	})

	assert.Equal(t, types.KindArray, s.Kind)
	require.NotNil(t, s.Items)
	assert.Equal(t, types.KindInteger, s.Items.Kind)
}

func TestResolve_WrapperInfersFormat(t *testing.T) {
	b := NewBuilder(&descriptor.Document{})
	s := b.Resolve(descriptor.TypeRef{
		Name:  "CustomerEmail",
		Wraps: &descriptor.TypeRef{Name: "string"},
	})

	assert.Equal(t, types.KindString, s.Kind)
	assert.Equal(t, "email", s.Format)
	assert.Empty(t, b.Warnings())
}

func TestResolve_WrapperKeepsInnerFormat(t *testing.T) {
	b := NewBuilder(&descriptor.Document{})
	s := b.Resolve(descriptor.TypeRef{
		Name:  "CreatedEmail",
		Wraps: &descriptor.TypeRef{Name: "datetime"},
	})

	assert.Equal(t, "date-time", s.Format)
}

func TestResolve_WrapperDepthBounded(t *testing.T) {
	ref := descriptor.TypeRef{Name: "W0", Wraps: &descriptor.TypeRef{Name: "string"}}
	for i := 0; i < 10; i++ {
		inner := ref
		ref = descriptor.TypeRef{Name: "W", Wraps: &inner}
	}

	b := NewBuilder(&descriptor.Document{})
	s := b.Resolve(ref)

	assert.Equal(t, types.KindString, s.Kind)
	require.NotEmpty(t, b.Warnings())
	assert.Equal(t, "unwrap-depth", b.Warnings()[0].Code)
}

func TestResolve_FallbackGuessesFormat(t *testing.T) {
	b := NewBuilder(&descriptor.Document{})
	s := b.Resolve(descriptor.TypeRef{Name: "AccountUuid"})

	assert.Equal(t, types.KindString, s.Kind)
	assert.Equal(t, "uuid", s.Format)
	require.Len(t, b.Warnings(), 1)
	assert.Equal(t, "unresolved-type", b.Warnings()[0].Code)
	assert.Equal(t, "AccountUuid", b.Warnings()[0].Path)
}

func TestResolve_EntityByIdentity(t *testing.T) {
	doc := &descriptor.Document{
		Entities: []*descriptor.Entity{{
			Name: "Customer",
			Fields: []descriptor.Field{
				{Name: "id", Type: descriptor.TypeRef{Name: "uuid"}},
			},
		}},
	}

	b := NewBuilder(doc)
	first := b.Resolve(descriptor.TypeRef{Name: "Customer"})
	second := b.Resolve(descriptor.TypeRef{Name: "Customer"})

	assert.Same(t, first, second)
	assert.Equal(t, "Customer", first.CanonicalName)
	assert.Equal(t, types.KindObject, first.Kind)
}

func TestBuildEntity_Fields(t *testing.T) {
	doc := &descriptor.Document{
		Entities: []*descriptor.Entity{{
			Name:        "Customer",
			Description: "A customer record",
			Fields: []descriptor.Field{
				{Name: "id", Type: descriptor.TypeRef{Name: "uuid"}},
				{Name: "name", Type: descriptor.TypeRef{Name: "string"},
					Documentation: map[string]any{"description": "Display name"}},
				{Name: "tags", Type: descriptor.TypeRef{Name: "string"}, Array: true},
				{Name: "secret", Type: descriptor.TypeRef{Name: "string"}, Hidden: true},
				{Name: "debug", Type: descriptor.TypeRef{Name: "string"}, Conditional: true},
				{Name: "nickname", Type: descriptor.TypeRef{Name: "string", Optional: true}},
			},
		}},
	}

	b := NewBuilder(doc)
	s := b.BuildEntity(doc.Entity("Customer"))

	assert.Equal(t, "A customer record", s.Description)
	assert.NotContains(t, s.Properties, "secret")

	assert.Equal(t, "uuid", s.Properties["id"].Format)
	assert.Equal(t, "Display name", s.Properties["name"].Description)
	assert.Equal(t, types.KindArray, s.Properties["tags"].Kind)

	assert.ElementsMatch(t, []string{"id", "name", "tags"}, s.Required)
	assert.False(t, s.HasRequired("debug"))
	assert.False(t, s.HasRequired("nickname"))
}

func TestBuildEntity_DocExtensions(t *testing.T) {
	doc := &descriptor.Document{
		Entities: []*descriptor.Entity{{
			Name: "Thing",
			Fields: []descriptor.Field{
				{Name: "id", Type: descriptor.TypeRef{Name: "string"},
					Documentation: map[string]any{"x-internal": true, "note": "dropped"}},
			},
		}},
	}

	b := NewBuilder(doc)
	s := b.BuildEntity(doc.Entity("Thing"))

	prop := s.Properties["id"]
	assert.Equal(t, true, prop.Extensions["x-internal"])
	assert.NotContains(t, prop.Extensions, "note")
}

func TestBuildEntity_MergeFlattensNested(t *testing.T) {
	doc := &descriptor.Document{
		Entities: []*descriptor.Entity{
			{
				Name: "Address",
				Fields: []descriptor.Field{
					{Name: "street", Type: descriptor.TypeRef{Name: "string"}},
					{Name: "city", Type: descriptor.TypeRef{Name: "string"}},
				},
			},
			{
				Name: "Customer",
				Fields: []descriptor.Field{
					{Name: "id", Type: descriptor.TypeRef{Name: "uuid"}},
					{Name: "home", Type: descriptor.TypeRef{Name: "Address"}, Merge: true},
				},
			},
		},
	}

	b := NewBuilder(doc)
	s := b.BuildEntity(doc.Entity("Customer"))

	assert.NotContains(t, s.Properties, "home")
	assert.Contains(t, s.Properties, "street")
	assert.Contains(t, s.Properties, "city")
	assert.True(t, s.HasRequired("street"))
}

func TestBuildEntity_MergeNonEntityWarns(t *testing.T) {
	doc := &descriptor.Document{
		Entities: []*descriptor.Entity{{
			Name: "Customer",
			Fields: []descriptor.Field{
				{Name: "extra", Type: descriptor.TypeRef{Name: "string"}, Merge: true},
			},
		}},
	}

	b := NewBuilder(doc)
	s := b.BuildEntity(doc.Entity("Customer"))

	assert.Empty(t, s.Properties)
	require.Len(t, b.Warnings(), 1)
	assert.Equal(t, "merge-target", b.Warnings()[0].Code)
}

func TestBuildEntity_FlattenedInheritance(t *testing.T) {
	// A parent without a discriminator contributes its fields flat.
	doc := &descriptor.Document{
		Entities: []*descriptor.Entity{
			{
				Name: "Base",
				Fields: []descriptor.Field{
					{Name: "id", Type: descriptor.TypeRef{Name: "uuid"}},
				},
			},
			{
				Name:   "Customer",
				Parent: "Base",
				Fields: []descriptor.Field{
					{Name: "name", Type: descriptor.TypeRef{Name: "string"}},
				},
			},
		},
	}

	b := NewBuilder(doc)
	s := b.BuildEntity(doc.Entity("Customer"))

	assert.Empty(t, s.AllOf)
	assert.Contains(t, s.Properties, "id")
	assert.Contains(t, s.Properties, "name")
	assert.True(t, s.HasRequired("id"))
}

func TestBuildEntity_DiscriminatedInheritance(t *testing.T) {
	doc := &descriptor.Document{
		Entities: []*descriptor.Entity{
			{
				Name:          "Pet",
				Discriminator: "petType",
				Fields: []descriptor.Field{
					{Name: "petType", Type: descriptor.TypeRef{Name: "string"}},
					{Name: "name", Type: descriptor.TypeRef{Name: "string"}},
				},
			},
			{
				Name:   "Dog",
				Parent: "Pet",
				Fields: []descriptor.Field{
					{Name: "name", Type: descriptor.TypeRef{Name: "string"}},
					{Name: "bark", Type: descriptor.TypeRef{Name: "boolean"}},
				},
			},
		},
	}

	b := NewBuilder(doc)
	dog := b.BuildEntity(doc.Entity("Dog"))

	require.Len(t, dog.AllOf, 2)
	assert.Equal(t, "Dog", dog.CanonicalName)

	parent := b.BuildEntity(doc.Entity("Pet"))
	assert.Same(t, parent, dog.AllOf[0])
	require.NotNil(t, parent.Discriminator)
	assert.Equal(t, "petType", parent.Discriminator.PropertyName)

	// The child part carries only the fields the parent does not declare.
	childOnly := dog.AllOf[1]
	assert.Contains(t, childOnly.Properties, "bark")
	assert.NotContains(t, childOnly.Properties, "name")
}

func TestBuildEntity_CycleTerminates(t *testing.T) {
	doc := &descriptor.Document{
		Entities: []*descriptor.Entity{{
			Name: "Node",
			Fields: []descriptor.Field{
				{Name: "value", Type: descriptor.TypeRef{Name: "string"}},
				{Name: "next", Type: descriptor.TypeRef{Name: "Node", Optional: true}},
			},
		}},
	}

	b := NewBuilder(doc)
	s := b.BuildEntity(doc.Entity("Node"))

	// The self reference resolves to the very same in-progress object.
	assert.Same(t, s, s.Properties["next"])
	assert.Contains(t, s.Properties["next"].Description, "cyclic reference")
	assert.False(t, s.HasRequired("next"))
}

func TestBuildEntity_MutualCycleTerminates(t *testing.T) {
	doc := &descriptor.Document{
		Entities: []*descriptor.Entity{
			{
				Name: "Author",
				Fields: []descriptor.Field{
					{Name: "books", Type: descriptor.TypeRef{Name: "Book"}, Array: true},
				},
			},
			{
				Name: "Book",
				Fields: []descriptor.Field{
					{Name: "author", Type: descriptor.TypeRef{Name: "Author"}},
				},
			},
		},
	}

	b := NewBuilder(doc)
	author := b.BuildEntity(doc.Entity("Author"))
	book, ok := b.Registry().Get("Book")

	require.True(t, ok)
	assert.Same(t, book, author.Properties["books"].Items)
	assert.Same(t, author, book.Properties["author"])
}

func TestBuildContract_RulesAndMetadata(t *testing.T) {
	doc := &descriptor.Document{
		Contracts: []*descriptor.Contract{{
			Name: "CreateArticle",
			Fields: []descriptor.ContractField{
				{
					Name: "title",
					Type: descriptor.TypeRef{Name: "string"},
					Rule: &descriptor.Rule{Predicate: descriptor.Combinator{
						Kind: descriptor.CombinatorAnd,
						Children: []descriptor.Predicate{
							descriptor.Leaf{Op: "presence"},
							descriptor.Leaf{Op: "size", Args: []any{5, 50}},
						},
					}},
				},
				{
					Name: "status",
					Type: descriptor.TypeRef{
						Name:     "string",
						Metadata: &descriptor.TypeMetadata{Enum: []any{"draft", "published"}},
					},
				},
			},
		}},
	}

	b := NewBuilder(doc)
	s := b.BuildContract(doc.Contract("CreateArticle"))

	title := s.Properties["title"]
	assert.Equal(t, types.KindString, title.Kind)
	assert.Equal(t, 5, *title.MinLength)
	assert.Equal(t, 50, *title.MaxLength)

	status := s.Properties["status"]
	assert.Equal(t, []any{"draft", "published"}, status.Enum)

	assert.ElementsMatch(t, []string{"title", "status"}, s.Required)
	assert.Empty(t, b.Warnings())
}

func TestBuildContract_StructuralOptionalWins(t *testing.T) {
	// An optional type defeats requiredness even when a rule demands
	// presence: the structural declaration is authoritative.
	doc := &descriptor.Document{
		Contracts: []*descriptor.Contract{{
			Name: "Update",
			Fields: []descriptor.ContractField{
				{
					Name: "note",
					Type: descriptor.TypeRef{Name: "string", Optional: true},
					Rule: &descriptor.Rule{Predicate: descriptor.Leaf{Op: "presence"}},
				},
				{
					Name: "label",
					Type: descriptor.TypeRef{
						Name:     "string",
						Metadata: &descriptor.TypeMetadata{Omittable: true},
					},
				},
			},
		}},
	}

	b := NewBuilder(doc)
	s := b.BuildContract(doc.Contract("Update"))

	assert.False(t, s.HasRequired("note"))
	assert.False(t, s.HasRequired("label"))
}

func TestBuildContract_ConditionalPresenceNotRequired(t *testing.T) {
	doc := &descriptor.Document{
		Contracts: []*descriptor.Contract{{
			Name: "Publish",
			Fields: []descriptor.ContractField{{
				Name: "reviewer",
				Type: descriptor.TypeRef{Name: "string"},
				Rule: &descriptor.Rule{Predicate: descriptor.Combinator{
					Kind: descriptor.CombinatorImplies,
					Children: []descriptor.Predicate{
						descriptor.Leaf{Op: "type", Args: []any{"string"}},
						descriptor.Leaf{Op: "presence"},
					},
				}},
			}},
		}},
	}

	b := NewBuilder(doc)
	s := b.BuildContract(doc.Contract("Publish"))

	// No unconditional presence signal, so the default of required stands.
	assert.True(t, s.HasRequired("reviewer"))
}

func TestBuildContract_ConstraintsOnNamedTypeWrap(t *testing.T) {
	doc := &descriptor.Document{
		Entities: []*descriptor.Entity{{
			Name: "Tag",
			Fields: []descriptor.Field{
				{Name: "label", Type: descriptor.TypeRef{Name: "string"}},
			},
		}},
		Contracts: []*descriptor.Contract{{
			Name: "CreatePost",
			Fields: []descriptor.ContractField{{
				Name: "tag",
				Type: descriptor.TypeRef{Name: "Tag"},
				Rule: &descriptor.Rule{Predicate: descriptor.Leaf{Op: "nullable"}},
			}},
		}},
	}

	b := NewBuilder(doc)
	s := b.BuildContract(doc.Contract("CreatePost"))

	// The shared Tag schema must not be mutated; the constraint lands on a
	// single-element allOf wrapper around it.
	tag := s.Properties["tag"]
	assert.Empty(t, tag.CanonicalName)
	require.Len(t, tag.AllOf, 1)
	assert.Equal(t, "Tag", tag.AllOf[0].CanonicalName)
	require.NotNil(t, tag.Nullable)
	assert.True(t, *tag.Nullable)
	assert.Nil(t, tag.AllOf[0].Nullable)
}

func TestBuildContract_Inheritance(t *testing.T) {
	doc := &descriptor.Document{
		Contracts: []*descriptor.Contract{
			{
				Name: "Create",
				Fields: []descriptor.ContractField{
					{Name: "name", Type: descriptor.TypeRef{Name: "string"}},
				},
			},
			{
				Name:   "CreateAdmin",
				Parent: "Create",
				Fields: []descriptor.ContractField{
					{Name: "name", Type: descriptor.TypeRef{Name: "string"}},
					{Name: "role", Type: descriptor.TypeRef{Name: "string"}},
				},
			},
		},
	}

	b := NewBuilder(doc)
	child := b.BuildContract(doc.Contract("CreateAdmin"))

	require.Len(t, child.AllOf, 2)
	parent := b.BuildContract(doc.Contract("Create"))
	assert.Same(t, parent, child.AllOf[0])
	assert.Contains(t, child.AllOf[1].Properties, "role")
	assert.NotContains(t, child.AllOf[1].Properties, "name")
}

func TestBuildContract_WarningsCarryFieldPath(t *testing.T) {
	doc := &descriptor.Document{
		Contracts: []*descriptor.Contract{{
			Name: "Create",
			Fields: []descriptor.ContractField{{
				Name: "code",
				Type: descriptor.TypeRef{Name: "string"},
				Rule: &descriptor.Rule{Predicate: descriptor.Leaf{
					Op: "in_range", Args: []any{"aaa", "zzz"},
				}},
			}},
		}},
	}

	b := NewBuilder(doc)
	b.BuildContract(doc.Contract("Create"))

	require.Len(t, b.Warnings(), 1)
	assert.Equal(t, "range-expansion", b.Warnings()[0].Code)
	assert.Equal(t, "Create.code", b.Warnings()[0].Path)
}

func TestBuildAll_ResolvesRouteTypes(t *testing.T) {
	doc := &descriptor.Document{
		Entities: []*descriptor.Entity{{
			Name: "Customer",
			Fields: []descriptor.Field{
				{Name: "id", Type: descriptor.TypeRef{Name: "uuid"}},
			},
		}},
		Contracts: []*descriptor.Contract{{
			Name: "CreateCustomer",
			Fields: []descriptor.ContractField{
				{Name: "name", Type: descriptor.TypeRef{Name: "string"}},
			},
		}},
		Routes: []*descriptor.Route{{
			Method: "POST",
			Path:   "/customers",
			Body:   &descriptor.TypeRef{Name: "CreateCustomer"},
			Responses: map[string]descriptor.ResponseSpec{
				"201": {Type: &descriptor.TypeRef{Name: "Customer"}},
			},
		}},
	}

	b := NewBuilder(doc)
	b.BuildAll()

	names := b.Registry().Names()
	assert.Contains(t, names, "Customer")
	assert.Contains(t, names, "CreateCustomer")
}
