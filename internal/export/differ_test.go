// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swaggerFixture(paths, definitions map[string]any) map[string]any {
	doc := map[string]any{
		"swagger": "2.0",
		"info":    map[string]any{"title": "Test", "version": "1.0.0"},
		"paths":   paths,
	}
	if definitions != nil {
		doc["definitions"] = definitions
	}
	return doc
}

func openapiFixture(paths, schemas map[string]any) map[string]any {
	doc := map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": "Test", "version": "1.0.0"},
		"paths":   paths,
	}
	if schemas != nil {
		doc["components"] = map[string]any{"schemas": schemas}
	}
	return doc
}

func TestDiff_Identical(t *testing.T) {
	doc := swaggerFixture(
		map[string]any{"/users": map[string]any{"get": map[string]any{"operationId": "getUsers"}}},
		map[string]any{"User": map[string]any{"type": "object"}},
	)

	result, err := NewDiffer().Diff(doc, doc)
	require.NoError(t, err)

	assert.True(t, result.IsEmpty())
	assert.False(t, result.HasBreakingChanges)
	assert.Equal(t, "No changes detected", result.Summary)
	assert.Equal(t, "No differences found.", FormatDiff(result))
}

func TestDiff_AddedPath(t *testing.T) {
	a := openapiFixture(map[string]any{}, nil)
	b := openapiFixture(map[string]any{
		"/users": map[string]any{
			"get":  map[string]any{"operationId": "getUsers"},
			"post": map[string]any{"operationId": "postUsers"},
		},
	}, nil)

	result, err := NewDiffer().Diff(a, b)
	require.NoError(t, err)

	require.Len(t, result.PathChanges, 2)
	for _, c := range result.PathChanges {
		assert.Equal(t, DiffTypeAdded, c.Type)
		assert.Equal(t, "/users", c.Path)
	}
	assert.False(t, result.HasBreakingChanges)
	assert.Contains(t, result.Summary, "2 path(s) added")
}

func TestDiff_RemovedMethodIsBreaking(t *testing.T) {
	a := openapiFixture(map[string]any{
		"/users": map[string]any{
			"get":    map[string]any{"operationId": "getUsers"},
			"delete": map[string]any{"operationId": "deleteUsers"},
		},
	}, nil)
	b := openapiFixture(map[string]any{
		"/users": map[string]any{
			"get": map[string]any{"operationId": "getUsers"},
		},
	}, nil)

	result, err := NewDiffer().Diff(a, b)
	require.NoError(t, err)

	require.Len(t, result.PathChanges, 1)
	assert.Equal(t, DiffTypeRemoved, result.PathChanges[0].Type)
	assert.Equal(t, "DELETE", result.PathChanges[0].Method)
	assert.True(t, result.HasBreakingChanges)
	assert.Contains(t, result.Summary, "[BREAKING CHANGES DETECTED]")
}

func TestDiff_ModifiedOperation(t *testing.T) {
	a := openapiFixture(map[string]any{
		"/users": map[string]any{"get": map[string]any{"operationId": "getUsers"}},
	}, nil)
	b := openapiFixture(map[string]any{
		"/users": map[string]any{"get": map[string]any{"operationId": "getUsers", "deprecated": true}},
	}, nil)

	result, err := NewDiffer().Diff(a, b)
	require.NoError(t, err)

	require.Len(t, result.PathChanges, 1)
	assert.Equal(t, DiffTypeModified, result.PathChanges[0].Type)
	assert.False(t, result.HasBreakingChanges)
}

func TestDiff_SchemaChanges(t *testing.T) {
	a := swaggerFixture(map[string]any{}, map[string]any{
		"User":    map[string]any{"type": "object"},
		"Order":   map[string]any{"type": "object"},
		"Session": map[string]any{"type": "object"},
	})
	b := swaggerFixture(map[string]any{}, map[string]any{
		"User":    map[string]any{"type": "object", "description": "changed"},
		"Order":   map[string]any{"type": "object"},
		"Invoice": map[string]any{"type": "object"},
	})

	result, err := NewDiffer().Diff(a, b)
	require.NoError(t, err)

	byName := map[string]DiffType{}
	for _, c := range result.SchemaChanges {
		byName[c.Name] = c.Type
	}
	assert.Equal(t, map[string]DiffType{
		"User":    DiffTypeModified,
		"Session": DiffTypeRemoved,
		"Invoice": DiffTypeAdded,
	}, byName)
	assert.True(t, result.HasBreakingChanges)
}

func TestDiff_AcrossDialectBuckets(t *testing.T) {
	// Shared definitions are found in whichever bucket the dialect uses.
	a := swaggerFixture(map[string]any{}, map[string]any{
		"User": map[string]any{"type": "object"},
	})
	b := openapiFixture(map[string]any{}, map[string]any{
		"User": map[string]any{"type": "object"},
	})

	result, err := NewDiffer().Diff(a, b)
	require.NoError(t, err)
	assert.Empty(t, result.SchemaChanges)
}

func TestFormatDiff(t *testing.T) {
	a := openapiFixture(map[string]any{
		"/users": map[string]any{"get": map[string]any{"operationId": "getUsers"}},
	}, map[string]any{
		"User": map[string]any{"type": "object"},
	})
	b := openapiFixture(map[string]any{
		"/accounts": map[string]any{"get": map[string]any{"operationId": "getAccounts"}},
	}, map[string]any{
		"User":    map[string]any{"type": "object", "required": []any{"id"}},
		"Account": map[string]any{"type": "object"},
	})

	result, err := NewDiffer().Diff(a, b)
	require.NoError(t, err)

	out := FormatDiff(result)
	assert.Contains(t, out, "=== Spec Diff ===")
	assert.Contains(t, out, "--- Path Changes ---")
	assert.Contains(t, out, "+ GET /accounts")
	assert.Contains(t, out, "- GET /users")
	assert.Contains(t, out, "--- Schema Changes ---")
	assert.Contains(t, out, "+ Account")
	assert.Contains(t, out, "~ User")
}

func TestDocumentSchemas(t *testing.T) {
	assert.Nil(t, documentSchemas(map[string]any{}))

	swagger := map[string]any{"definitions": map[string]any{"A": map[string]any{}}}
	assert.Contains(t, documentSchemas(swagger), "A")

	openapi := map[string]any{"components": map[string]any{
		"schemas": map[string]any{"B": map[string]any{}},
	}}
	assert.Contains(t, documentSchemas(openapi), "B")
}
