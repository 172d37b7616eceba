// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package config provides configuration loading and validation for desc2spec.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the desc2spec configuration.
type Config struct {
	// Manifest is the path to the descriptor manifest
	Manifest string `mapstructure:"manifest" yaml:"manifest" json:"manifest"`

	// Output is the output file path for the generated document
	Output string `mapstructure:"output" yaml:"output" json:"output"`

	// Format is the output format (yaml, json)
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// Dialect is the output dialect (swagger, openapi3, openapi31)
	Dialect string `mapstructure:"dialect" yaml:"dialect" json:"dialect"`

	// NullableStrategy selects nullability rendering (keyword, type-array, extension)
	NullableStrategy string `mapstructure:"nullableStrategy" yaml:"nullableStrategy" json:"nullableStrategy"`

	// XNullable is the deprecated boolean alias for the extension strategy
	XNullable bool `mapstructure:"xNullable" yaml:"xNullable" json:"xNullable"`

	// Namespace restricts output to routes at or under this path prefix
	Namespace string `mapstructure:"namespace" yaml:"namespace" json:"namespace"`

	// Version overrides the dialect's default version string
	Version string `mapstructure:"version" yaml:"version" json:"version"`

	// Host is the API host (swagger only)
	Host string `mapstructure:"host" yaml:"host" json:"host"`

	// BasePath is the API base path (swagger only)
	BasePath string `mapstructure:"basePath" yaml:"basePath" json:"basePath"`

	// Info contains API metadata
	Info InfoConfig `mapstructure:"info" yaml:"info" json:"info"`

	// Security contains security scheme configurations
	Security SecurityConfig `mapstructure:"security" yaml:"security" json:"security"`

	// Generation contains generation behavior configuration
	Generation GenerationConfig `mapstructure:"generation" yaml:"generation" json:"generation"`

	// Watch contains file watching configuration
	Watch WatchConfig `mapstructure:"watch" yaml:"watch" json:"watch"`
}

// InfoConfig contains API metadata.
type InfoConfig struct {
	// Title is the API title
	Title string `mapstructure:"title" yaml:"title" json:"title"`

	// Description is the API description
	Description string `mapstructure:"description" yaml:"description" json:"description"`

	// Version is the API version
	Version string `mapstructure:"version" yaml:"version" json:"version"`

	// TermsOfService is the URL to terms of service
	TermsOfService string `mapstructure:"termsOfService" yaml:"termsOfService" json:"termsOfService"`

	// Contact contains contact information
	Contact ContactConfig `mapstructure:"contact" yaml:"contact" json:"contact"`

	// License contains license information
	License LicenseConfig `mapstructure:"license" yaml:"license" json:"license"`
}

// ContactConfig contains contact information.
type ContactConfig struct {
	// Name is the contact name
	Name string `mapstructure:"name" yaml:"name" json:"name"`

	// URL is the contact URL
	URL string `mapstructure:"url" yaml:"url" json:"url"`

	// Email is the contact email
	Email string `mapstructure:"email" yaml:"email" json:"email"`
}

// LicenseConfig contains license information.
type LicenseConfig struct {
	// Name is the license name
	Name string `mapstructure:"name" yaml:"name" json:"name"`

	// URL is the license URL
	URL string `mapstructure:"url" yaml:"url" json:"url"`
}

// SecurityConfig contains security configuration.
type SecurityConfig struct {
	// Schemes is a map of security scheme configurations
	Schemes map[string]SecuritySchemeConfig `mapstructure:"schemes" yaml:"schemes" json:"schemes"`

	// Default is a list of default security requirements
	Default []string `mapstructure:"default" yaml:"default" json:"default"`
}

// SecuritySchemeConfig contains security scheme configuration.
type SecuritySchemeConfig struct {
	// Type is the security scheme type (apiKey, http, oauth2, openIdConnect)
	Type string `mapstructure:"type" yaml:"type" json:"type"`

	// Name is the name of the header, query, or cookie parameter
	Name string `mapstructure:"name" yaml:"name" json:"name"`

	// In is the location (header, query, cookie)
	In string `mapstructure:"in" yaml:"in" json:"in"`

	// Scheme is the HTTP authorization scheme (bearer, basic)
	Scheme string `mapstructure:"scheme" yaml:"scheme" json:"scheme"`

	// BearerFormat is the format of the bearer token
	BearerFormat string `mapstructure:"bearerFormat" yaml:"bearerFormat" json:"bearerFormat"`

	// Description is a description of the security scheme
	Description string `mapstructure:"description" yaml:"description" json:"description"`
}

// GenerationConfig contains generation behavior configuration.
type GenerationConfig struct {
	// Merge determines whether to merge with an existing document
	Merge bool `mapstructure:"merge" yaml:"merge" json:"merge"`

	// Strict treats generation warnings as errors
	Strict bool `mapstructure:"strict" yaml:"strict" json:"strict"`

	// DefaultResponses is a list of default response codes to include
	DefaultResponses []string `mapstructure:"defaultResponses" yaml:"defaultResponses" json:"defaultResponses"`
}

// WatchConfig contains file watching configuration.
type WatchConfig struct {
	// Debounce is the debounce duration in milliseconds
	Debounce int `mapstructure:"debounce" yaml:"debounce" json:"debounce"`

	// Include is a list of glob patterns to watch
	Include []string `mapstructure:"include" yaml:"include" json:"include"`

	// Exclude is a list of glob patterns to ignore
	Exclude []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`

	// OnChange is the command to run after each regeneration
	OnChange string `mapstructure:"onChange" yaml:"onChange" json:"onChange"`
}

// configFileNames is the list of config file names to search for (in order).
var configFileNames = []string{
	"desc2spec.yaml",
	"desc2spec.json",
	".desc2spec.yaml",
	".desc2spec.json",
}

// supportedDialects is the list of supported output dialects.
var supportedDialects = []string{
	"swagger",
	"openapi3",
	"openapi31",
}

// supportedFormats is the list of supported output formats.
var supportedFormats = []string{
	"yaml",
	"json",
}

// supportedNullableStrategies is the list of supported nullable strategies.
var supportedNullableStrategies = []string{
	"keyword",
	"type-array",
	"extension",
}

// ErrConfigNotFound is returned when no config file is found.
var ErrConfigNotFound = errors.New("config file not found")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Manifest: "descriptors.yaml",
		Output:   "openapi.yaml",
		Format:   "yaml",
		Dialect:  "openapi3",
		Info: InfoConfig{
			Title:   "API",
			Version: "1.0.0",
		},
		Generation: GenerationConfig{
			Merge:            false,
			Strict:           false,
			DefaultResponses: []string{"200"},
		},
		Watch: WatchConfig{
			Debounce: 500,
			Include:  []string{"**/*.yaml", "**/*.yml", "**/*.json"},
			Exclude: []string{
				".git/**",
				"node_modules/**",
				"vendor/**",
			},
		},
	}
}

// Load loads the configuration from a file.
// It searches for config files in the following order:
// 1. desc2spec.yaml
// 2. desc2spec.json
// 3. .desc2spec.yaml
// 4. .desc2spec.json
//
// If configPath is provided, it will use that path instead.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		found := false
		for _, name := range configFileNames {
			if _, err := os.Stat(name); err == nil {
				v.SetConfigFile(name)
				found = true
				break
			}
		}
		if !found {
			return Default(), nil
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadFromPath loads the configuration from a specific directory.
func LoadFromPath(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// setDefaults sets the default values for viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("manifest", "descriptors.yaml")
	v.SetDefault("output", "openapi.yaml")
	v.SetDefault("format", "yaml")
	v.SetDefault("dialect", "openapi3")
	v.SetDefault("info.title", "API")
	v.SetDefault("info.version", "1.0.0")
	v.SetDefault("generation.merge", false)
	v.SetDefault("generation.strict", false)
	v.SetDefault("generation.defaultResponses", []string{"200"})
	v.SetDefault("watch.debounce", 500)
	v.SetDefault("watch.include", []string{"**/*.yaml", "**/*.yml", "**/*.json"})
	v.SetDefault("watch.exclude", []string{
		".git/**",
		"node_modules/**",
		"vendor/**",
	})
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Dialect != "" && !contains(supportedDialects, c.Dialect) {
		errs = append(errs, ValidationError{
			Field:   "dialect",
			Message: fmt.Sprintf("unsupported dialect %q, must be one of: %s", c.Dialect, strings.Join(supportedDialects, ", ")),
		})
	}

	if c.Format != "" && !contains(supportedFormats, c.Format) {
		errs = append(errs, ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("unsupported format %q, must be one of: %s", c.Format, strings.Join(supportedFormats, ", ")),
		})
	}

	if c.NullableStrategy != "" && !contains(supportedNullableStrategies, c.NullableStrategy) {
		errs = append(errs, ValidationError{
			Field:   "nullableStrategy",
			Message: fmt.Sprintf("unsupported nullable strategy %q, must be one of: %s", c.NullableStrategy, strings.Join(supportedNullableStrategies, ", ")),
		})
	}

	if c.Manifest == "" {
		errs = append(errs, ValidationError{
			Field:   "manifest",
			Message: "manifest path is required",
		})
	}

	if c.Watch.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}

	if c.Info.Title == "" {
		errs = append(errs, ValidationError{
			Field:   "info.title",
			Message: "title is required",
		})
	}

	if c.Info.Version == "" {
		errs = append(errs, ValidationError{
			Field:   "info.version",
			Message: "version is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ConfigFilePath returns the path of the loaded config file, if any.
func ConfigFilePath() string {
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
