// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package export

import (
	"fmt"
	"sync"

	"github.com/api2spec/desc2spec/internal/introspect"
)

// Exporter renders one dialect. Implementations consume the builder's
// schema registry and mark every canonical name they reference, so the
// shared-definitions section can be pruned to the reachable set.
type Exporter interface {
	// SchemaType returns the dialect symbol the exporter renders.
	SchemaType() string

	// Export renders the whole document.
	Export(b *introspect.Builder, opts Options) (map[string]any, error)
}

var (
	exportersMu sync.RWMutex
	exporters   = map[string]func() Exporter{}
)

// Register maps a dialect symbol to an exporter factory. Third parties add
// output dialects here without modifying the core traversal.
func Register(schemaType string, factory func() Exporter) {
	exportersMu.Lock()
	defer exportersMu.Unlock()
	exporters[schemaType] = factory
}

// New returns a fresh exporter for the dialect symbol.
func New(schemaType string) (Exporter, error) {
	exportersMu.RLock()
	factory, ok := exporters[schemaType]
	exportersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown schema type: %s", schemaType)
	}
	return factory(), nil
}

// SchemaTypes returns the registered dialect symbols.
func SchemaTypes() []string {
	exportersMu.RLock()
	defer exportersMu.RUnlock()
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	return names
}

func init() {
	Register(SchemaTypeSwagger, func() Exporter { return &SwaggerExporter{} })
	Register(SchemaTypeOpenAPI3, func() Exporter { return &OpenAPI3Exporter{} })
	Register(SchemaTypeOpenAPI31, func() Exporter { return &OpenAPI31Exporter{} })
}
