// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package export

import (
	"sort"

	"github.com/api2spec/desc2spec/internal/introspect"
	"github.com/api2spec/desc2spec/pkg/types"
)

// conventions captures where the dialects structurally diverge. Exporters
// configure one and share the traversal in renderer.
type conventions struct {
	// refPrefix is the reference syntax prefix, e.g. "#/definitions/".
	refPrefix string

	// compositions reports native oneOf/anyOf support.
	compositions bool

	// objectDiscriminator selects the object discriminator shape over the
	// bare field-name string.
	objectDiscriminator bool

	// numericExclusive renders exclusiveMinimum/Maximum as numbers that
	// replace minimum/maximum, instead of booleans beside them.
	numericExclusive bool

	// nativeDefs renders locally-scoped sub-schemas as $defs.
	nativeDefs bool

	// nativeUnevaluated renders unevaluatedProperties natively.
	nativeUnevaluated bool

	// strategy is the nullability rendering strategy.
	strategy NullableStrategy
}

// renderer walks the canonical schema graph depth-first and produces
// dialect JSON structures. Every canonical name it touches is marked on
// the registry for components pruning.
type renderer struct {
	conv conventions
	b    *introspect.Builder
}

// ref produces a reference node for a canonical name and marks it used.
func (r *renderer) ref(name string) map[string]any {
	r.b.Registry().Ref(name)
	return map[string]any{"$ref": r.conv.refPrefix + name}
}

// schema renders a schema at a use site: named schemas become references,
// everything else renders in place.
func (r *renderer) schema(s *types.Schema) map[string]any {
	if s == nil {
		return map[string]any{}
	}
	if s.CanonicalName != "" {
		return r.ref(s.CanonicalName)
	}
	return r.body(s)
}

// definition renders the body of a named schema for the shared section.
func (r *renderer) definition(s *types.Schema) map[string]any {
	return r.body(s)
}

func (r *renderer) body(s *types.Schema) map[string]any {
	node := map[string]any{}

	if len(s.AllOf) > 0 {
		members := make([]any, 0, len(s.AllOf))
		for _, member := range s.AllOf {
			members = append(members, r.schema(member))
		}
		node["allOf"] = members
	}
	r.renderVariants(node, "oneOf", ExtOneOf, s.OneOf)
	r.renderVariants(node, "anyOf", ExtAnyOf, s.AnyOf)

	if s.Kind != types.KindNone {
		node["type"] = s.Kind.JSONType()
	}
	if s.Format != "" {
		node["format"] = s.Format
	}
	if s.Description != "" {
		node["description"] = s.Description
	}
	if s.Pattern != "" {
		node["pattern"] = s.Pattern
	}

	if enum := coerceEnum(s.Enum, s.Kind); len(enum) > 0 {
		node["enum"] = enum
	}

	r.renderBounds(node, s)
	r.renderObject(node, s)
	r.renderItems(node, s)
	r.renderDiscriminator(node, s)
	r.renderDefs(node, s)

	r.applyNullable(node, s)

	for key, value := range s.Extensions {
		node[key] = value
	}
	return node
}

// renderVariants renders a oneOf/anyOf list natively. The dialect without
// native composition falls back to the first listed variant and attaches
// the full composition as an extension so capable
// consumers can recover it losslessly.
func (r *renderer) renderVariants(node map[string]any, key, extKey string, variants []*types.Schema) {
	if len(variants) == 0 {
		return
	}
	rendered := make([]any, 0, len(variants))
	for _, v := range variants {
		rendered = append(rendered, r.schema(v))
	}
	if r.conv.compositions {
		node[key] = rendered
		return
	}
	for k, v := range r.schema(variants[0]) {
		if _, exists := node[k]; !exists {
			node[k] = v
		}
	}
	node[extKey] = rendered
}

func (r *renderer) renderBounds(node map[string]any, s *types.Schema) {
	if s.Minimum != nil {
		if s.ExclusiveMinimum && r.conv.numericExclusive {
			node["exclusiveMinimum"] = *s.Minimum
		} else {
			node["minimum"] = *s.Minimum
			if s.ExclusiveMinimum {
				node["exclusiveMinimum"] = true
			}
		}
	}
	if s.Maximum != nil {
		if s.ExclusiveMaximum && r.conv.numericExclusive {
			node["exclusiveMaximum"] = *s.Maximum
		} else {
			node["maximum"] = *s.Maximum
			if s.ExclusiveMaximum {
				node["exclusiveMaximum"] = true
			}
		}
	}
	if s.MinLength != nil {
		node["minLength"] = *s.MinLength
	}
	if s.MaxLength != nil {
		node["maxLength"] = *s.MaxLength
	}
	if s.MinItems != nil {
		node["minItems"] = *s.MinItems
	}
	if s.MaxItems != nil {
		node["maxItems"] = *s.MaxItems
	}
}

func (r *renderer) renderObject(node map[string]any, s *types.Schema) {
	if len(s.Properties) > 0 {
		props := map[string]any{}
		for name, prop := range s.Properties {
			props[name] = r.schema(prop)
		}
		node["properties"] = props
	}
	if len(s.Required) > 0 {
		required := make([]string, len(s.Required))
		copy(required, s.Required)
		sort.Strings(required)
		node["required"] = required
	}

	switch ap := s.AdditionalProperties.(type) {
	case bool:
		node["additionalProperties"] = ap
	case *types.Schema:
		node["additionalProperties"] = r.schema(ap)
	}

	if s.UnevaluatedProperties != nil {
		var rendered any
		switch up := s.UnevaluatedProperties.(type) {
		case bool:
			rendered = up
		case *types.Schema:
			rendered = r.schema(up)
		}
		if rendered != nil {
			if r.conv.nativeUnevaluated {
				node["unevaluatedProperties"] = rendered
			} else {
				node[ExtUnevaluated] = rendered
			}
		}
	}
}

// renderItems renders an array's element schema. When the item is a named
// reference wrapped only to carry a description or nullable flag, the
// annotation hoists to the outer array node and the item stays a bare
// reference, avoiding a redundant nested composition wrapper.
func (r *renderer) renderItems(node map[string]any, s *types.Schema) {
	if s.Kind != types.KindArray {
		return
	}
	item := s.Items
	if item == nil {
		node["items"] = map[string]any{}
		return
	}

	if target, desc, nullable := annotatedRef(item); target != nil {
		if desc != "" {
			if _, exists := node["description"]; !exists {
				node["description"] = desc
			}
		}
		node["items"] = r.schema(target)
		if nullable != nil && *nullable {
			hoisted := &types.Schema{Kind: s.Kind, Nullable: nullable}
			r.applyNullable(node, hoisted)
		}
		return
	}
	node["items"] = r.schema(item)
}

// annotatedRef recognizes a single-element allOf wrapper around a named
// schema that exists only to carry a description or nullable flag.
func annotatedRef(s *types.Schema) (*types.Schema, string, *bool) {
	if s == nil || len(s.AllOf) != 1 || s.AllOf[0].CanonicalName == "" {
		return nil, "", nil
	}
	if s.Kind != types.KindNone || len(s.Properties) > 0 || s.Items != nil ||
		len(s.OneOf) > 0 || len(s.AnyOf) > 0 || len(s.Enum) > 0 ||
		s.Pattern != "" || s.Format != "" || s.Minimum != nil || s.Maximum != nil ||
		s.MinLength != nil || s.MaxLength != nil || len(s.Extensions) > 0 {
		return nil, "", nil
	}
	return s.AllOf[0], s.Description, s.Nullable
}

func (r *renderer) renderDiscriminator(node map[string]any, s *types.Schema) {
	d := s.Discriminator
	if d == nil {
		return
	}
	if !r.conv.objectDiscriminator {
		node["discriminator"] = d.PropertyName
		if len(d.Mapping) > 0 {
			node[ExtDiscriminatorMapping] = refMapping(r, d.Mapping)
		}
		return
	}
	disc := map[string]any{"propertyName": d.PropertyName}
	if len(d.Mapping) > 0 {
		disc["mapping"] = refMapping(r, d.Mapping)
	}
	node["discriminator"] = disc
}

func refMapping(r *renderer, mapping map[string]string) map[string]any {
	out := map[string]any{}
	for value, name := range mapping {
		r.b.Registry().Ref(name)
		out[value] = r.conv.refPrefix + name
	}
	return out
}

func (r *renderer) renderDefs(node map[string]any, s *types.Schema) {
	if len(s.Defs) == 0 {
		return
	}
	defs := map[string]any{}
	for name, def := range s.Defs {
		defs[name] = r.schema(def)
	}
	if r.conv.nativeDefs {
		node["$defs"] = defs
	} else {
		node[ExtDefs] = defs
	}
}

// applyNullable renders the tri-state nullable flag per the selected
// strategy. Unset and explicit-false both render nothing: not-null is
// every dialect's default.
func (r *renderer) applyNullable(node map[string]any, s *types.Schema) {
	if s.Nullable == nil || !*s.Nullable {
		return
	}
	switch r.conv.strategy {
	case NullableTypeArray:
		if t, ok := node["type"].(string); ok {
			node["type"] = []any{t, "null"}
			return
		}
		// A bare reference cannot carry a type array; recompose so the
		// null variant has somewhere to live.
		if members, ok := node["allOf"].([]any); ok && len(members) == 1 {
			delete(node, "allOf")
			node["anyOf"] = []any{members[0], map[string]any{"type": "null"}}
			return
		}
		if members, ok := node["anyOf"].([]any); ok {
			node["anyOf"] = append(members, map[string]any{"type": "null"})
			return
		}
		if members, ok := node["oneOf"].([]any); ok {
			node["oneOf"] = append(members, map[string]any{"type": "null"})
			return
		}
		node["nullable"] = true

	case NullableExtension:
		node[ExtNullable] = true

	default:
		node["nullable"] = true
	}
}

// definitions renders the shared-definitions section, pruned to the names
// actually referenced while rendering. Rendering a definition can itself
// reference further names, so this iterates to a fixpoint.
func (r *renderer) definitions() map[string]any {
	reg := r.b.Registry()
	defs := map[string]any{}
	for {
		progress := false
		for _, name := range reg.UsedNames() {
			if _, done := defs[name]; done {
				continue
			}
			s, ok := reg.Get(name)
			if !ok {
				r.b.Warn("dangling-ref", name, "referenced schema was never built")
				defs[name] = map[string]any{}
				continue
			}
			defs[name] = r.definition(s)
			progress = true
		}
		if !progress {
			break
		}
	}
	return defs
}
