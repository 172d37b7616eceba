// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package export renders the canonical schema graph into the supported
// API-description dialects.
package export

import (
	"fmt"

	"github.com/api2spec/desc2spec/internal/config"
)

// Schema types selectable at the top level.
const (
	// SchemaTypeSwagger is the Swagger 2.0 dialect.
	SchemaTypeSwagger = "swagger"

	// SchemaTypeOpenAPI3 is the OpenAPI 3.0.x dialect.
	SchemaTypeOpenAPI3 = "openapi3"

	// SchemaTypeOpenAPI31 is the OpenAPI 3.1.x dialect.
	SchemaTypeOpenAPI31 = "openapi31"
)

// NullableStrategy selects how nullability renders.
type NullableStrategy string

const (
	// NullableKeyword renders a boolean flag alongside the type.
	NullableKeyword NullableStrategy = "keyword"

	// NullableTypeArray appends a null member to the type value. The
	// newest dialect always uses this, regardless of the option.
	NullableTypeArray NullableStrategy = "type-array"

	// NullableExtension renders a namespaced boolean flag. Only meaningful
	// for the oldest dialect, which has no native nullable concept.
	NullableExtension NullableStrategy = "extension"
)

// ExtNullable is the extension key used by NullableExtension.
const ExtNullable = "x-nullable"

// Options configures one generation call.
type Options struct {
	// SchemaType selects the output dialect.
	SchemaType string

	// NullableStrategy selects nullability rendering for the dialects
	// that support more than one strategy.
	NullableStrategy NullableStrategy

	// XNullable is the deprecated boolean alias for NullableStrategy; when
	// set it maps onto NullableExtension.
	XNullable bool

	// Namespace restricts output to paths at or under this prefix.
	Namespace string

	// Version overrides the dialect's default version string.
	Version string

	// Info is the document info block.
	Info map[string]any

	// Host is the API host (oldest dialect only).
	Host string

	// BasePath is the API base path (oldest dialect only).
	BasePath string

	// SecuritySchemes maps scheme names to their definitions.
	SecuritySchemes map[string]map[string]any

	// Security is the document-level security requirement list.
	Security []map[string][]string

	// DefaultResponses lists status codes synthesized for operations that
	// declare none.
	DefaultResponses []string
}

// Normalize resolves deprecated aliases and per-dialect strategy rules.
func (o *Options) Normalize() error {
	if o.SchemaType == "" {
		o.SchemaType = SchemaTypeOpenAPI3
	}
	if o.XNullable && o.NullableStrategy == "" {
		o.NullableStrategy = NullableExtension
	}
	if o.NullableStrategy == "" {
		o.NullableStrategy = NullableKeyword
	}
	switch o.NullableStrategy {
	case NullableKeyword, NullableTypeArray, NullableExtension:
	default:
		return fmt.Errorf("unknown nullable strategy: %s", o.NullableStrategy)
	}

	// The newest dialect has exactly one way to say null.
	if o.SchemaType == SchemaTypeOpenAPI31 {
		o.NullableStrategy = NullableTypeArray
	}

	if len(o.DefaultResponses) == 0 {
		o.DefaultResponses = []string{"200"}
	}
	return nil
}

// OptionsFromConfig maps the loaded configuration onto generation options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		SchemaType:       cfg.Dialect,
		NullableStrategy: NullableStrategy(cfg.NullableStrategy),
		XNullable:        cfg.XNullable,
		Namespace:        cfg.Namespace,
		Version:          cfg.Version,
		Host:             cfg.Host,
		BasePath:         cfg.BasePath,
		Info:             infoBlock(cfg),
		DefaultResponses: cfg.Generation.DefaultResponses,
	}

	if len(cfg.Security.Schemes) > 0 {
		opts.SecuritySchemes = map[string]map[string]any{}
		for name, scheme := range cfg.Security.Schemes {
			opts.SecuritySchemes[name] = securityScheme(scheme)
		}
	}
	for _, name := range cfg.Security.Default {
		opts.Security = append(opts.Security, map[string][]string{name: {}})
	}

	return opts
}

func infoBlock(cfg *config.Config) map[string]any {
	info := map[string]any{
		"title":   cfg.Info.Title,
		"version": cfg.Info.Version,
	}
	if cfg.Info.Description != "" {
		info["description"] = cfg.Info.Description
	}
	if cfg.Info.TermsOfService != "" {
		info["termsOfService"] = cfg.Info.TermsOfService
	}
	if c := cfg.Info.Contact; c.Name != "" || c.Email != "" || c.URL != "" {
		contact := map[string]any{}
		if c.Name != "" {
			contact["name"] = c.Name
		}
		if c.URL != "" {
			contact["url"] = c.URL
		}
		if c.Email != "" {
			contact["email"] = c.Email
		}
		info["contact"] = contact
	}
	if cfg.Info.License.Name != "" {
		license := map[string]any{"name": cfg.Info.License.Name}
		if cfg.Info.License.URL != "" {
			license["url"] = cfg.Info.License.URL
		}
		info["license"] = license
	}
	return info
}

func securityScheme(s config.SecuritySchemeConfig) map[string]any {
	scheme := map[string]any{"type": s.Type}
	if s.Description != "" {
		scheme["description"] = s.Description
	}
	if s.Name != "" {
		scheme["name"] = s.Name
	}
	if s.In != "" {
		scheme["in"] = s.In
	}
	if s.Scheme != "" {
		scheme["scheme"] = s.Scheme
	}
	if s.BearerFormat != "" {
		scheme["bearerFormat"] = s.BearerFormat
	}
	return scheme
}
