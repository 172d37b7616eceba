// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package descriptor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is a loaded manifest: every entity, contract and route the
// generator will consider. Lookups are by canonical name.
type Document struct {
	// Entities are the structural entity descriptors.
	Entities []*Entity `yaml:"entities,omitempty" json:"entities,omitempty"`

	// Contracts are the validation-contract descriptors.
	Contracts []*Contract `yaml:"contracts,omitempty" json:"contracts,omitempty"`

	// Routes are the per-operation route descriptors.
	Routes []*Route `yaml:"routes,omitempty" json:"routes,omitempty"`
}

// Entity returns the entity descriptor with the given name, or nil.
func (d *Document) Entity(name string) *Entity {
	for _, e := range d.Entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Contract returns the contract descriptor with the given name, or nil.
func (d *Document) Contract(name string) *Contract {
	for _, c := range d.Contracts {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Validate checks structural well-formedness of the manifest: non-empty
// names, unique canonical names across entities and contracts, and parent
// references that resolve.
func (d *Document) Validate() error {
	seen := map[string]bool{}
	for _, e := range d.Entities {
		if e.Name == "" {
			return fmt.Errorf("entity with empty name")
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate canonical name: %s", e.Name)
		}
		seen[e.Name] = true
	}
	for _, c := range d.Contracts {
		if c.Name == "" {
			return fmt.Errorf("contract with empty name")
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate canonical name: %s", c.Name)
		}
		seen[c.Name] = true
	}
	for _, e := range d.Entities {
		if e.Parent != "" && d.Entity(e.Parent) == nil {
			return fmt.Errorf("entity %s: unknown parent %s", e.Name, e.Parent)
		}
	}
	for _, c := range d.Contracts {
		if c.Parent != "" && d.Contract(c.Parent) == nil {
			return fmt.Errorf("contract %s: unknown parent %s", c.Name, c.Parent)
		}
	}
	for _, r := range d.Routes {
		if r.Method == "" || r.Path == "" {
			return fmt.Errorf("route missing method or path")
		}
	}
	return nil
}

// Parse decodes a manifest from YAML or JSON bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &doc, nil
}

// Load reads and parses a manifest file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
