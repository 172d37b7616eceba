// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package export

import (
	"fmt"

	"github.com/api2spec/desc2spec/internal/introspect"
	"github.com/api2spec/desc2spec/pkg/descriptor"
)

// Generator turns a manifest into a rendered document. Every Generate
// call creates a fresh introspection builder whose registry and stack are
// owned by the call, so concurrent generations never share state.
type Generator struct {
	opts Options
}

// NewGenerator creates a generator for the given options.
func NewGenerator(opts Options) (*Generator, error) {
	if err := opts.Normalize(); err != nil {
		return nil, err
	}
	return &Generator{opts: opts}, nil
}

// Options returns the normalized generation options.
func (g *Generator) Options() Options {
	return g.opts
}

// Generate builds one schema graph per distinct canonical name referenced
// across the manifest's operations, renders the selected dialect, and
// returns the document plus every warning raised along the way.
func (g *Generator) Generate(doc *descriptor.Document) (map[string]any, []introspect.Warning, error) {
	exporter, err := New(g.opts.SchemaType)
	if err != nil {
		return nil, nil, err
	}

	scoped := namespaceFilter(doc, g.opts.Namespace)

	b := introspect.NewBuilder(scoped)
	b.BuildAll()

	rendered, err := exporter.Export(b, g.opts)
	if err != nil {
		return nil, b.Warnings(), fmt.Errorf("failed to render %s document: %w", g.opts.SchemaType, err)
	}
	return rendered, b.Warnings(), nil
}

// namespaceFilter restricts a manifest to routes whose path is or is
// under the given prefix. Descriptor lists pass through untouched; pruning
// of unreferenced schemas happens at render time.
func namespaceFilter(doc *descriptor.Document, prefix string) *descriptor.Document {
	if prefix == "" || prefix == "/" {
		return doc
	}
	scoped := &descriptor.Document{
		Entities:  doc.Entities,
		Contracts: doc.Contracts,
	}
	for _, route := range doc.Routes {
		if route.InNamespace(prefix) {
			scoped.Routes = append(scoped.Routes, route)
		}
	}
	return scoped
}
