// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package export

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// DiffType represents the type of change detected.
type DiffType string

const (
	// DiffTypeAdded indicates a new item was added.
	DiffTypeAdded DiffType = "added"

	// DiffTypeRemoved indicates an item was removed.
	DiffTypeRemoved DiffType = "removed"

	// DiffTypeModified indicates an item was modified.
	DiffTypeModified DiffType = "modified"
)

// PathChange represents a change to a path/operation.
type PathChange struct {
	Type        DiffType
	Path        string
	Method      string
	Description string
}

// SchemaChange represents a change to a shared schema definition.
type SchemaChange struct {
	Type        DiffType
	Name        string
	Description string
}

// DiffResult contains the differences between two rendered documents.
type DiffResult struct {
	// PathChanges contains all path/operation changes.
	PathChanges []PathChange

	// SchemaChanges contains all shared-definition changes.
	SchemaChanges []SchemaChange

	// HasBreakingChanges indicates if any breaking changes were detected.
	HasBreakingChanges bool

	// Summary provides a human-readable summary of changes.
	Summary string
}

// IsEmpty returns true if there are no differences.
func (d *DiffResult) IsEmpty() bool {
	return len(d.PathChanges) == 0 && len(d.SchemaChanges) == 0
}

// Differ compares two rendered documents. It works on either dialect
// family: shared definitions are read from "definitions" or
// "components.schemas", whichever the document carries.
type Differ struct{}

// NewDiffer creates a new Differ.
func NewDiffer() *Differ {
	return &Differ{}
}

// Diff compares two documents and returns the differences.
func (d *Differ) Diff(a, b map[string]any) (*DiffResult, error) {
	result := &DiffResult{
		PathChanges:   []PathChange{},
		SchemaChanges: []SchemaChange{},
	}

	d.diffPaths(documentPaths(a), documentPaths(b), result)
	d.diffSchemas(documentSchemas(a), documentSchemas(b), result)

	result.HasBreakingChanges = d.detectBreakingChanges(result)
	result.Summary = d.generateSummary(result)
	return result, nil
}

// documentPaths extracts the paths tree of a rendered document.
func documentPaths(doc map[string]any) map[string]any {
	paths, _ := doc["paths"].(map[string]any)
	return paths
}

// documentSchemas extracts the shared-definitions section of a rendered
// document, whichever dialect bucket it lives in.
func documentSchemas(doc map[string]any) map[string]any {
	if defs, ok := doc["definitions"].(map[string]any); ok {
		return defs
	}
	if components, ok := doc["components"].(map[string]any); ok {
		schemas, _ := components[componentsBucket("schema")].(map[string]any)
		return schemas
	}
	return nil
}

func (d *Differ) diffPaths(aPaths, bPaths map[string]any, result *DiffResult) {
	for path, aValue := range aPaths {
		aItem, _ := aValue.(map[string]any)
		bValue, exists := bPaths[path]
		if !exists {
			for _, method := range itemMethods(aItem) {
				result.PathChanges = append(result.PathChanges, PathChange{
					Type:        DiffTypeRemoved,
					Path:        path,
					Method:      method,
					Description: fmt.Sprintf("Removed %s %s", method, path),
				})
			}
			continue
		}
		bItem, _ := bValue.(map[string]any)
		d.diffPathItem(path, aItem, bItem, result)
	}

	for path, bValue := range bPaths {
		if _, exists := aPaths[path]; exists {
			continue
		}
		bItem, _ := bValue.(map[string]any)
		for _, method := range itemMethods(bItem) {
			result.PathChanges = append(result.PathChanges, PathChange{
				Type:        DiffTypeAdded,
				Path:        path,
				Method:      method,
				Description: fmt.Sprintf("Added %s %s", method, path),
			})
		}
	}
}

func (d *Differ) diffPathItem(path string, a, b map[string]any, result *DiffResult) {
	for _, method := range itemMethods(a) {
		key := strings.ToLower(method)
		if _, exists := b[key]; !exists {
			result.PathChanges = append(result.PathChanges, PathChange{
				Type:        DiffTypeRemoved,
				Path:        path,
				Method:      method,
				Description: fmt.Sprintf("Removed %s %s", method, path),
			})
			continue
		}
		if !reflect.DeepEqual(a[key], b[key]) {
			result.PathChanges = append(result.PathChanges, PathChange{
				Type:        DiffTypeModified,
				Path:        path,
				Method:      method,
				Description: fmt.Sprintf("Modified %s %s", method, path),
			})
		}
	}
	for _, method := range itemMethods(b) {
		if _, exists := a[strings.ToLower(method)]; !exists {
			result.PathChanges = append(result.PathChanges, PathChange{
				Type:        DiffTypeAdded,
				Path:        path,
				Method:      method,
				Description: fmt.Sprintf("Added %s %s", method, path),
			})
		}
	}
}

// httpMethods is the set of operation keys a path item may carry.
var httpMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "HEAD", "TRACE"}

// itemMethods returns the HTTP methods present on a path item.
func itemMethods(item map[string]any) []string {
	var methods []string
	for _, method := range httpMethods {
		if _, ok := item[strings.ToLower(method)]; ok {
			methods = append(methods, method)
		}
	}
	return methods
}

func (d *Differ) diffSchemas(aSchemas, bSchemas map[string]any, result *DiffResult) {
	for name, aSchema := range aSchemas {
		bSchema, exists := bSchemas[name]
		if !exists {
			result.SchemaChanges = append(result.SchemaChanges, SchemaChange{
				Type:        DiffTypeRemoved,
				Name:        name,
				Description: fmt.Sprintf("Removed schema: %s", name),
			})
		} else if !reflect.DeepEqual(aSchema, bSchema) {
			result.SchemaChanges = append(result.SchemaChanges, SchemaChange{
				Type:        DiffTypeModified,
				Name:        name,
				Description: fmt.Sprintf("Modified schema: %s", name),
			})
		}
	}
	for name := range bSchemas {
		if _, exists := aSchemas[name]; !exists {
			result.SchemaChanges = append(result.SchemaChanges, SchemaChange{
				Type:        DiffTypeAdded,
				Name:        name,
				Description: fmt.Sprintf("Added schema: %s", name),
			})
		}
	}
}

// detectBreakingChanges checks if any changes are breaking.
func (d *Differ) detectBreakingChanges(result *DiffResult) bool {
	for _, change := range result.PathChanges {
		if change.Type == DiffTypeRemoved {
			return true
		}
	}
	for _, change := range result.SchemaChanges {
		if change.Type == DiffTypeRemoved {
			return true
		}
	}
	return false
}

// generateSummary creates a human-readable summary of changes.
func (d *Differ) generateSummary(result *DiffResult) string {
	if result.IsEmpty() {
		return "No changes detected"
	}

	pathCounts := map[DiffType]int{}
	for _, c := range result.PathChanges {
		pathCounts[c.Type]++
	}
	schemaCounts := map[DiffType]int{}
	for _, c := range result.SchemaChanges {
		schemaCounts[c.Type]++
	}

	var parts []string
	for _, t := range []DiffType{DiffTypeAdded, DiffTypeRemoved, DiffTypeModified} {
		if n := pathCounts[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d path(s) %s", n, t))
		}
	}
	for _, t := range []DiffType{DiffTypeAdded, DiffTypeRemoved, DiffTypeModified} {
		if n := schemaCounts[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d schema(s) %s", n, t))
		}
	}

	summary := strings.Join(parts, ", ")
	if result.HasBreakingChanges {
		summary += " [BREAKING CHANGES DETECTED]"
	}
	return summary
}

// FormatDiff returns a formatted string representation of the diff.
func FormatDiff(result *DiffResult) string {
	if result.IsEmpty() {
		return "No differences found."
	}

	var sb strings.Builder
	sb.WriteString("=== Spec Diff ===\n\n")
	sb.WriteString(result.Summary)
	sb.WriteString("\n\n")

	if len(result.PathChanges) > 0 {
		sb.WriteString("--- Path Changes ---\n")

		changes := make([]PathChange, len(result.PathChanges))
		copy(changes, result.PathChanges)
		sort.Slice(changes, func(i, j int) bool {
			if changes[i].Path != changes[j].Path {
				return changes[i].Path < changes[j].Path
			}
			return changes[i].Method < changes[j].Method
		})

		for _, c := range changes {
			sb.WriteString(fmt.Sprintf("%s%s %s\n", diffSymbol(c.Type), c.Method, c.Path))
		}
		sb.WriteString("\n")
	}

	if len(result.SchemaChanges) > 0 {
		sb.WriteString("--- Schema Changes ---\n")

		changes := make([]SchemaChange, len(result.SchemaChanges))
		copy(changes, result.SchemaChanges)
		sort.Slice(changes, func(i, j int) bool {
			return changes[i].Name < changes[j].Name
		})

		for _, c := range changes {
			sb.WriteString(fmt.Sprintf("%s%s\n", diffSymbol(c.Type), c.Name))
		}
	}

	return sb.String()
}

func diffSymbol(t DiffType) string {
	switch t {
	case DiffTypeAdded:
		return "+ "
	case DiffTypeRemoved:
		return "- "
	case DiffTypeModified:
		return "~ "
	}
	return "  "
}
