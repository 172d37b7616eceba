// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package descriptor

import "strings"

// Route is the per-operation descriptor supplied by the route-collection
// collaborator: method, path template with named placeholders, parameter
// specs, and optional entity/contract attachments for body and responses.
type Route struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, PATCH, etc.).
	Method string `yaml:"method" json:"method"`

	// Path is the path template (e.g. "/customers/{id}").
	Path string `yaml:"path" json:"path"`

	// Summary is a brief description of the operation.
	Summary string `yaml:"summary,omitempty" json:"summary,omitempty"`

	// Description is a detailed description of the operation.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Tags group operations in the output document.
	Tags []string `yaml:"tags,omitempty" json:"tags,omitempty"`

	// OperationID overrides the derived operation identifier.
	OperationID string `yaml:"operationId,omitempty" json:"operationId,omitempty"`

	// Deprecated marks the operation as deprecated.
	Deprecated bool `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`

	// Params are the operation's parameter specs.
	Params []Param `yaml:"params,omitempty" json:"params,omitempty"`

	// Body optionally attaches an entity or contract type for the request
	// body of POST/PUT/PATCH operations.
	Body *TypeRef `yaml:"body,omitempty" json:"body,omitempty"`

	// Responses maps status codes to response specs.
	Responses map[string]ResponseSpec `yaml:"responses,omitempty" json:"responses,omitempty"`

	// Documentation is a free-form metadata map; keys beginning with the
	// extension prefix pass through verbatim at the operation node.
	Documentation map[string]any `yaml:"docs,omitempty" json:"docs,omitempty"`
}

// InNamespace reports whether the route's path is or is under prefix.
func (r *Route) InNamespace(prefix string) bool {
	if prefix == "" || prefix == "/" {
		return true
	}
	prefix = strings.TrimSuffix(prefix, "/")
	return r.Path == prefix || strings.HasPrefix(r.Path, prefix+"/")
}

// Param is a single operation parameter spec.
type Param struct {
	// Name is the parameter name.
	Name string `yaml:"name" json:"name"`

	// Type is the declared type of the parameter.
	Type TypeRef `yaml:"type" json:"type"`

	// In is the location hint (path, query, header). Path placeholders
	// default to "path"; everything else defaults to "query".
	In string `yaml:"in,omitempty" json:"in,omitempty"`

	// Required marks the parameter as required (tri-state; path parameters
	// are always required).
	Required *bool `yaml:"required,omitempty" json:"required,omitempty"`

	// Description is a brief description of the parameter.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Documentation is a free-form metadata map.
	Documentation map[string]any `yaml:"docs,omitempty" json:"docs,omitempty"`
}

// ResponseSpec describes one response of an operation.
type ResponseSpec struct {
	// Description is the response description.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Type optionally attaches an entity or contract type for the payload.
	Type *TypeRef `yaml:"type,omitempty" json:"type,omitempty"`

	// Array wraps the attached type in an array.
	Array bool `yaml:"array,omitempty" json:"array,omitempty"`
}
