// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "descriptors.yaml", cfg.Manifest)
	assert.Equal(t, "openapi.yaml", cfg.Output)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "openapi3", cfg.Dialect)
	assert.Equal(t, "API", cfg.Info.Title)
	assert.Equal(t, "1.0.0", cfg.Info.Version)
	assert.False(t, cfg.Generation.Merge)
	assert.Equal(t, []string{"200"}, cfg.Generation.DefaultResponses)
	assert.Equal(t, 500, cfg.Watch.Debounce)
}

func TestLoad_NoConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(originalDir)

	err = os.Chdir(tmpDir)
	require.NoError(t, err)

	cfg, err := Load("")
	require.NoError(t, err)

	// Should return default config
	assert.Equal(t, "openapi3", cfg.Dialect)
	assert.Equal(t, "openapi.yaml", cfg.Output)
}

func TestLoad_YAMLConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(originalDir)

	configContent := `
manifest: api/descriptors.yaml
output: api.yaml
format: yaml
dialect: openapi31
nullableStrategy: type-array
info:
  title: "My API"
  version: "2.0.0"
  description: "A test API"
generation:
  merge: true
`
	configPath := filepath.Join(tmpDir, "desc2spec.yaml")
	err = os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	err = os.Chdir(tmpDir)
	require.NoError(t, err)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "api/descriptors.yaml", cfg.Manifest)
	assert.Equal(t, "api.yaml", cfg.Output)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "openapi31", cfg.Dialect)
	assert.Equal(t, "type-array", cfg.NullableStrategy)
	assert.Equal(t, "My API", cfg.Info.Title)
	assert.Equal(t, "2.0.0", cfg.Info.Version)
	assert.Equal(t, "A test API", cfg.Info.Description)
	assert.True(t, cfg.Generation.Merge)
}

func TestLoad_JSONConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(originalDir)

	configContent := `{
  "dialect": "swagger",
  "output": "openapi.json",
  "format": "json",
  "info": {
    "title": "Swagger API",
    "version": "1.0.0"
  }
}`
	configPath := filepath.Join(tmpDir, "desc2spec.json")
	err = os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	err = os.Chdir(tmpDir)
	require.NoError(t, err)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "swagger", cfg.Dialect)
	assert.Equal(t, "openapi.json", cfg.Output)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoad_DotPrefixedConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(originalDir)

	configContent := `
dialect: openapi3
output: spec.yaml
`
	configPath := filepath.Join(tmpDir, ".desc2spec.yaml")
	err = os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	err = os.Chdir(tmpDir)
	require.NoError(t, err)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "openapi3", cfg.Dialect)
	assert.Equal(t, "spec.yaml", cfg.Output)
}

func TestLoad_ExplicitConfigPath(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
dialect: swagger
output: custom.yaml
`
	configPath := filepath.Join(tmpDir, "custom-config.yaml")
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "swagger", cfg.Dialect)
	assert.Equal(t, "custom.yaml", cfg.Output)
}

func TestLoad_ConfigFilePriority(t *testing.T) {
	tmpDir := t.TempDir()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(originalDir)

	// Create both desc2spec.yaml and .desc2spec.yaml
	// desc2spec.yaml should take priority
	err = os.WriteFile(filepath.Join(tmpDir, "desc2spec.yaml"), []byte("dialect: openapi3\n"), 0644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(tmpDir, ".desc2spec.yaml"), []byte("dialect: swagger\n"), 0644)
	require.NoError(t, err)

	err = os.Chdir(tmpDir)
	require.NoError(t, err)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "openapi3", cfg.Dialect)
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_InvalidDialect(t *testing.T) {
	cfg := Default()
	cfg.Dialect = "raml"

	err := cfg.Validate()
	require.Error(t, err)

	var valErrs ValidationErrors
	require.ErrorAs(t, err, &valErrs)
	assert.Len(t, valErrs, 1)
	assert.Equal(t, "dialect", valErrs[0].Field)
}

func TestValidate_InvalidFormat(t *testing.T) {
	cfg := Default()
	cfg.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)

	var valErrs ValidationErrors
	require.ErrorAs(t, err, &valErrs)
	assert.Len(t, valErrs, 1)
	assert.Equal(t, "format", valErrs[0].Field)
}

func TestValidate_InvalidNullableStrategy(t *testing.T) {
	cfg := Default()
	cfg.NullableStrategy = "maybe"

	err := cfg.Validate()
	require.Error(t, err)

	var valErrs ValidationErrors
	require.ErrorAs(t, err, &valErrs)
	assert.Len(t, valErrs, 1)
	assert.Equal(t, "nullableStrategy", valErrs[0].Field)
}

func TestValidate_MissingManifest(t *testing.T) {
	cfg := Default()
	cfg.Manifest = ""

	err := cfg.Validate()
	require.Error(t, err)

	var valErrs ValidationErrors
	require.ErrorAs(t, err, &valErrs)
	assert.Len(t, valErrs, 1)
	assert.Equal(t, "manifest", valErrs[0].Field)
}

func TestValidate_NegativeDebounce(t *testing.T) {
	cfg := Default()
	cfg.Watch.Debounce = -1

	err := cfg.Validate()
	require.Error(t, err)

	var valErrs ValidationErrors
	require.ErrorAs(t, err, &valErrs)
	assert.Len(t, valErrs, 1)
	assert.Equal(t, "watch.debounce", valErrs[0].Field)
}

func TestValidate_MissingTitle(t *testing.T) {
	cfg := Default()
	cfg.Info.Title = ""

	err := cfg.Validate()
	require.Error(t, err)

	var valErrs ValidationErrors
	require.ErrorAs(t, err, &valErrs)
	assert.Len(t, valErrs, 1)
	assert.Equal(t, "info.title", valErrs[0].Field)
}

func TestValidate_MissingVersion(t *testing.T) {
	cfg := Default()
	cfg.Info.Version = ""

	err := cfg.Validate()
	require.Error(t, err)

	var valErrs ValidationErrors
	require.ErrorAs(t, err, &valErrs)
	assert.Len(t, valErrs, 1)
	assert.Equal(t, "info.version", valErrs[0].Field)
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Dialect = "invalid"
	cfg.Format = "xml"
	cfg.NullableStrategy = "bad"

	err := cfg.Validate()
	require.Error(t, err)

	var valErrs ValidationErrors
	require.ErrorAs(t, err, &valErrs)
	assert.Len(t, valErrs, 3)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Field:   "dialect",
		Message: "unsupported dialect",
	}
	assert.Contains(t, err.Error(), "dialect")
	assert.Contains(t, err.Error(), "unsupported dialect")
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "field1", Message: "error1"},
		{Field: "field2", Message: "error2"},
	}
	errStr := errs.Error()
	assert.Contains(t, errStr, "field1")
	assert.Contains(t, errStr, "error1")
	assert.Contains(t, errStr, "field2")
	assert.Contains(t, errStr, "error2")
}

func TestValidationErrors_ErrorEmpty(t *testing.T) {
	errs := ValidationErrors{}
	assert.Equal(t, "no validation errors", errs.Error())
}

func TestValidationErrors_ErrorSingle(t *testing.T) {
	errs := ValidationErrors{
		{Field: "field1", Message: "error1"},
	}
	// Single error should use the ValidationError format
	assert.Contains(t, errs.Error(), "config validation error")
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
dialect: openapi31
output: spec31.yaml
`
	err := os.WriteFile(filepath.Join(tmpDir, "desc2spec.yaml"), []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := LoadFromPath(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "openapi31", cfg.Dialect)
	assert.Equal(t, "spec31.yaml", cfg.Output)
}

func TestLoadFromPath_NoConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadFromPath(tmpDir)
	require.NoError(t, err)

	// Should return default config
	assert.Equal(t, "openapi3", cfg.Dialect)
}
