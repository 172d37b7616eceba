// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package export

import (
	"github.com/api2spec/desc2spec/internal/introspect"
	"github.com/api2spec/desc2spec/pkg/descriptor"
)

// SwaggerExporter renders the Swagger 2.0 dialect: #/definitions/...
// references, a bare field-name discriminator, no native oneOf/anyOf, and
// no native nullable concept.
type SwaggerExporter struct{}

// SchemaType returns the dialect symbol.
func (e *SwaggerExporter) SchemaType() string { return SchemaTypeSwagger }

// Export renders the whole document.
func (e *SwaggerExporter) Export(b *introspect.Builder, opts Options) (map[string]any, error) {
	conv := conventions{
		refPrefix: "#/definitions/",
		strategy:  opts.NullableStrategy,
	}
	r := &renderer{conv: conv, b: b}

	doc := map[string]any{
		"swagger": "2.0",
		"info":    opts.Info,
		"paths":   renderPaths(b, opts, r, renderSwaggerOperation),
	}
	if opts.Host != "" {
		doc["host"] = opts.Host
	}
	if opts.BasePath != "" {
		doc["basePath"] = opts.BasePath
	}

	if defs := r.definitions(); len(defs) > 0 {
		doc["definitions"] = defs
	}
	if len(opts.SecuritySchemes) > 0 {
		schemes := map[string]any{}
		for name, scheme := range opts.SecuritySchemes {
			schemes[name] = scheme
		}
		doc["securityDefinitions"] = schemes
	}
	if len(opts.Security) > 0 {
		doc["security"] = opts.Security
	}
	return doc, nil
}

func renderSwaggerOperation(b *introspect.Builder, opts Options, r *renderer, route *descriptor.Route) map[string]any {
	op := operationShell(route)

	params := renderSwaggerParams(b, r, route)
	if route.Body != nil {
		params = append(params, map[string]any{
			"name":     "body",
			"in":       "body",
			"required": true,
			"schema":   r.schema(b.Resolve(*route.Body)),
		})
	}
	if len(params) > 0 {
		op["parameters"] = params
	}

	op["responses"] = renderResponses(b, opts, route, func(spec descriptor.ResponseSpec) map[string]any {
		node := map[string]any{}
		node["description"] = spec.Description
		if spec.Type != nil {
			node["schema"] = responseSchema(b, r, spec)
		}
		return node
	})

	copyOperationExtensions(op, route.Documentation)
	return op
}

// swaggerParamKeys are the schema keys a non-body Swagger 2.0 parameter
// carries inline, the dialect having no schema object for them.
var swaggerParamKeys = []string{
	"type", "format", "enum", "pattern",
	"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum",
	"minLength", "maxLength", "minItems", "maxItems", "items",
	ExtNullable,
}

func renderSwaggerParams(b *introspect.Builder, r *renderer, route *descriptor.Route) []any {
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

		rendered := r.schema(b.Resolve(p.Type))
		if _, isRef := rendered["$ref"]; isRef {
			// Non-body parameters cannot reference shared definitions in
			// this dialect; degrade to a string parameter.
			b.Warn("param-ref", route.Path+"?"+p.Name,
				"referenced type flattened to string for a non-body parameter")
			node["type"] = "string"
		} else {
			for _, key := range swaggerParamKeys {
				if value, ok := rendered[key]; ok {
					node[key] = value
				}
			}
			if _, ok := node["type"]; !ok {
				node["type"] = "string"
			}
		}

		copyOperationExtensions(node, p.Documentation)
		params = append(params, node)
	}
	return params
}
