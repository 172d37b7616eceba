// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package export

import (
	"sort"
	"strings"

	"github.com/api2spec/desc2spec/internal/introspect"
	"github.com/api2spec/desc2spec/pkg/descriptor"
)

// OpenAPI3Exporter renders the OpenAPI 3.0.x dialect.
type OpenAPI3Exporter struct{}

// SchemaType returns the dialect symbol.
func (e *OpenAPI3Exporter) SchemaType() string { return SchemaTypeOpenAPI3 }

// Export renders the whole document.
func (e *OpenAPI3Exporter) Export(b *introspect.Builder, opts Options) (map[string]any, error) {
	conv := conventions{
		refPrefix:           "#/components/" + componentsBucket("schema") + "/",
		compositions:        true,
		objectDiscriminator: true,
		strategy:            opts.NullableStrategy,
	}
	version := opts.Version
	if version == "" {
		version = "3.0.3"
	}
	return openAPIDocument(b, opts, conv, version)
}

// OpenAPI31Exporter renders the OpenAPI 3.1.x dialect. It shares the 3.x
// document shape but always uses type-array nullability, numeric exclusive
// bounds, and native $defs/unevaluatedProperties.
type OpenAPI31Exporter struct{}

// SchemaType returns the dialect symbol.
func (e *OpenAPI31Exporter) SchemaType() string { return SchemaTypeOpenAPI31 }

// Export renders the whole document.
func (e *OpenAPI31Exporter) Export(b *introspect.Builder, opts Options) (map[string]any, error) {
	conv := conventions{
		refPrefix:           "#/components/" + componentsBucket("schema") + "/",
		compositions:        true,
		objectDiscriminator: true,
		numericExclusive:    true,
		nativeDefs:          true,
		nativeUnevaluated:   true,
		strategy:            NullableTypeArray,
	}
	version := opts.Version
	if version == "" {
		version = "3.1.0"
	}
	return openAPIDocument(b, opts, conv, version)
}

// openAPIDocument assembles a 3.x document: info, paths, then components
// pruned to the canonical names the rendering pass referenced.
func openAPIDocument(b *introspect.Builder, opts Options, conv conventions, version string) (map[string]any, error) {
	r := &renderer{conv: conv, b: b}

	doc := map[string]any{
		"openapi": version,
		"info":    opts.Info,
		"paths":   renderPaths(b, opts, r, renderOpenAPIOperation),
	}

	components := map[string]any{}
	if defs := r.definitions(); len(defs) > 0 {
		components[componentsBucket("schema")] = defs
	}
	if len(opts.SecuritySchemes) > 0 {
		schemes := map[string]any{}
		for name, scheme := range opts.SecuritySchemes {
			schemes[name] = scheme
		}
		components[componentsBucket("securityScheme")] = schemes
	}
	if len(components) > 0 {
		doc["components"] = components
	}
	if len(opts.Security) > 0 {
		doc["security"] = opts.Security
	}
	return doc, nil
}

// operationRenderer renders one route into an operation node.
type operationRenderer func(b *introspect.Builder, opts Options, r *renderer, route *descriptor.Route) map[string]any

// renderPaths groups operations under their path templates. Operations
// render in a stable order so reference marking is deterministic.
func renderPaths(b *introspect.Builder, opts Options, r *renderer, renderOp operationRenderer) map[string]any {
	routes := make([]*descriptor.Route, len(b.Document().Routes))
	copy(routes, b.Document().Routes)
	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	paths := map[string]any{}
	for _, route := range routes {
		item, _ := paths[route.Path].(map[string]any)
		if item == nil {
			item = map[string]any{}
		}
		item[strings.ToLower(route.Method)] = renderOp(b, opts, r, route)
		paths[route.Path] = item
	}
	return paths
}

func renderOpenAPIOperation(b *introspect.Builder, opts Options, r *renderer, route *descriptor.Route) map[string]any {
	op := operationShell(route)

	if params := renderOpenAPIParams(b, r, route); len(params) > 0 {
		op["parameters"] = params
	}

	if route.Body != nil {
		op["requestBody"] = map[string]any{
			"required": true,
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": r.schema(b.Resolve(*route.Body)),
				},
			},
		}
	}

	op["responses"] = renderResponses(b, opts, route, func(spec descriptor.ResponseSpec) map[string]any {
		node := map[string]any{}
		node["description"] = spec.Description
		if spec.Type != nil {
			node["content"] = map[string]any{
				"application/json": map[string]any{
					"schema": responseSchema(b, r, spec),
				},
			}
		}
		return node
	})

	copyOperationExtensions(op, route.Documentation)
	return op
}

// operationShell builds the dialect-independent top of an operation node.
func operationShell(route *descriptor.Route) map[string]any {
	op := map[string]any{
		"operationId": routeOperationID(route),
	}
	if route.Summary != "" {
		op["summary"] = route.Summary
	}
	if route.Description != "" {
		op["description"] = route.Description
	}
	if len(route.Tags) > 0 {
		op["tags"] = route.Tags
	}
	if route.Deprecated {
		op["deprecated"] = true
	}
	return op
}

func routeOperationID(route *descriptor.Route) string {
	if route.OperationID != "" {
		return route.OperationID
	}
	return operationID(route.Method, route.Path)
}

func renderOpenAPIParams(b *introspect.Builder, r *renderer, route *descriptor.Route) []any {
	inPath := pathParamNames(route.Path)
	params := make([]any, 0, len(route.Params))
	for _, p := range route.Params {
		node := map[string]any{
			"name": p.Name,
			"in":   paramLocation(p, inPath),
		}
		if node["in"] == "path" || (p.Required != nil && *p.Required) {
			node["required"] = true
		}
		if p.Description != "" {
			node["description"] = p.Description
		}
		node["schema"] = r.schema(b.Resolve(p.Type))
		copyOperationExtensions(node, p.Documentation)
		params = append(params, node)
	}
	return params
}

// paramLocation resolves a parameter's location hint: path placeholders
// default to "path", everything else to "query".
func paramLocation(p descriptor.Param, inPath map[string]bool) string {
	if p.In != "" {
		return p.In
	}
	if inPath[p.Name] {
		return "path"
	}
	return "query"
}

// renderResponses renders declared responses in status order, or the
// configured default set when a route declares none.
func renderResponses(b *introspect.Builder, opts Options, route *descriptor.Route, renderOne func(descriptor.ResponseSpec) map[string]any) map[string]any {
	responses := map[string]any{}

	if len(route.Responses) == 0 {
		for _, code := range opts.DefaultResponses {
			responses[code] = map[string]any{
				"description": defaultResponseDescription(code),
			}
		}
		return responses
	}

	codes := make([]string, 0, len(route.Responses))
	for code := range route.Responses {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		spec := route.Responses[code]
		if spec.Description == "" {
			spec.Description = defaultResponseDescription(code)
		}
		responses[code] = renderOne(spec)
	}
	return responses
}

// responseSchema resolves a response spec's payload schema, wrapping it in
// an array when requested.
func responseSchema(b *introspect.Builder, r *renderer, spec descriptor.ResponseSpec) map[string]any {
	s := b.Resolve(*spec.Type)
	if spec.Array {
		return map[string]any{"type": "array", "items": r.schema(s)}
	}
	return r.schema(s)
}
