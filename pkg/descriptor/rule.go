// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package descriptor

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Predicate is a node of the rule-predicate tree: either a Leaf carrying an
// operator and its arguments, or a Combinator over child predicates. The
// variant set is closed; unrecognized leaf operators are carried as-is and
// surfaced by the constraint walker as unhandled.
type Predicate interface {
	isPredicate()
}

// Leaf is a single predicate application, e.g. {op: size, args: [5, 50]}.
type Leaf struct {
	// Op is the operator name.
	Op string `yaml:"op" json:"op"`

	// Args is the operator's argument list.
	Args []any `yaml:"args,omitempty" json:"args,omitempty"`
}

func (Leaf) isPredicate() {}

// CombinatorKind is the closed set of predicate combinators.
type CombinatorKind string

const (
	// CombinatorAnd requires all children to hold.
	CombinatorAnd CombinatorKind = "and"

	// CombinatorOr requires at least one child to hold.
	CombinatorOr CombinatorKind = "or"

	// CombinatorImplies makes the tail children conditional on the first.
	CombinatorImplies CombinatorKind = "implies"
)

// Combinator combines child predicates.
type Combinator struct {
	// Kind is the combinator kind.
	Kind CombinatorKind `yaml:"kind" json:"kind"`

	// Children are the combined predicates. For CombinatorImplies the
	// first child is the antecedent and the rest are consequents.
	Children []Predicate `yaml:"children" json:"children"`
}

func (Combinator) isPredicate() {}

// Rule wraps a Predicate for manifest decoding.
//
// The manifest forms are:
//
//	rule: {op: presence}
//	rule: {op: size, args: [5, 50]}
//	rule: {all: [<rule>, ...]}
//	rule: {any: [<rule>, ...]}
//	rule: {when: <rule>, then: <rule>}
type Rule struct {
	Predicate Predicate
}

// UnmarshalYAML decodes a rule node into the tagged predicate tree.
func (r *Rule) UnmarshalYAML(node *yaml.Node) error {
	p, err := decodePredicate(node)
	if err != nil {
		return err
	}
	r.Predicate = p
	return nil
}

func decodePredicate(node *yaml.Node) (Predicate, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("rule must be a mapping, got %s", node.Tag)
	}

	keys := map[string]*yaml.Node{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys[node.Content[i].Value] = node.Content[i+1]
	}

	switch {
	case keys["all"] != nil:
		children, err := decodePredicateList(keys["all"])
		if err != nil {
			return nil, err
		}
		return Combinator{Kind: CombinatorAnd, Children: children}, nil

	case keys["any"] != nil:
		children, err := decodePredicateList(keys["any"])
		if err != nil {
			return nil, err
		}
		return Combinator{Kind: CombinatorOr, Children: children}, nil

	case keys["when"] != nil:
		antecedent, err := decodePredicate(keys["when"])
		if err != nil {
			return nil, err
		}
		if keys["then"] == nil {
			return nil, fmt.Errorf("rule with 'when' requires 'then'")
		}
		consequent, err := decodePredicate(keys["then"])
		if err != nil {
			return nil, err
		}
		return Combinator{
			Kind:     CombinatorImplies,
			Children: []Predicate{antecedent, consequent},
		}, nil

	case keys["op"] != nil:
		var leaf Leaf
		if err := node.Decode(&leaf); err != nil {
			return nil, err
		}
		return leaf, nil
	}

	return nil, fmt.Errorf("rule mapping must carry one of: op, all, any, when")
}

func decodePredicateList(node *yaml.Node) ([]Predicate, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("combinator children must be a sequence")
	}
	out := make([]Predicate, 0, len(node.Content))
	for _, child := range node.Content {
		p, err := decodePredicate(child)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
