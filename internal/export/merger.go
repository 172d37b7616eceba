// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package export

// MergeStrategy defines how to handle conflicts during merge.
type MergeStrategy string

const (
	// MergeStrategyKeepExisting keeps the existing value on conflict.
	MergeStrategyKeepExisting MergeStrategy = "keep-existing"

	// MergeStrategyOverwrite overwrites with the generated value on conflict.
	MergeStrategyOverwrite MergeStrategy = "overwrite"
)

// MergeOptions configures the merge behavior.
type MergeOptions struct {
	// Strategy defines the default merge strategy for conflicting
	// paths and shared definitions.
	Strategy MergeStrategy

	// PreserveInfo preserves the info block from the existing document.
	PreserveInfo bool

	// PreserveServers preserves servers from the existing document.
	PreserveServers bool

	// PreserveTags preserves the tag list from the existing document.
	PreserveTags bool

	// PreserveSecurity preserves security from the existing document.
	PreserveSecurity bool
}

// DefaultMergeOptions returns the default merge options.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		Strategy:         MergeStrategyOverwrite,
		PreserveInfo:     true,
		PreserveServers:  true,
		PreserveTags:     true,
		PreserveSecurity: true,
	}
}

// Merger combines an existing rendered document with a freshly
// generated one, so that hand-maintained sections survive
// regeneration. Both documents must belong to the same dialect family.
type Merger struct {
	options MergeOptions
}

// NewMerger creates a new Merger with the given options.
func NewMerger(options MergeOptions) *Merger {
	return &Merger{
		options: options,
	}
}

// Merge combines an existing document with a generated one. The
// generated document wins on conflicts unless the strategy says
// otherwise; entries present only in the existing document are kept.
func (m *Merger) Merge(existing, generated map[string]any) (map[string]any, error) {
	if existing == nil {
		return generated, nil
	}

	result := make(map[string]any, len(generated))
	for k, v := range generated {
		result[k] = v
	}

	if m.options.PreserveInfo {
		if info, ok := existing["info"].(map[string]any); ok && info["title"] != "" {
			result["info"] = info
		}
	}

	if m.options.PreserveServers {
		if servers, ok := existing["servers"].([]any); ok && len(servers) > 0 {
			result["servers"] = servers
		}
	}

	if m.options.PreserveTags {
		if tags, ok := existing["tags"].([]any); ok && len(tags) > 0 {
			result["tags"] = tags
		}
	}

	if m.options.PreserveSecurity {
		if security, ok := existing["security"].([]any); ok && len(security) > 0 {
			result["security"] = security
		}
	}

	m.mergePaths(existing, result)
	m.mergeSchemas(existing, result)

	return result, nil
}

// mergePaths folds existing paths into the result. Paths only present
// in the existing document are kept; conflicting paths follow the
// strategy.
func (m *Merger) mergePaths(existing, result map[string]any) {
	existingPaths := documentPaths(existing)
	if len(existingPaths) == 0 {
		return
	}

	paths, ok := result["paths"].(map[string]any)
	if !ok {
		paths = map[string]any{}
		result["paths"] = paths
	}

	for path, item := range existingPaths {
		if _, conflict := paths[path]; !conflict || m.options.Strategy == MergeStrategyKeepExisting {
			paths[path] = item
		}
	}
}

// mergeSchemas folds existing shared definitions into the result,
// writing into whichever bucket the generated dialect uses.
func (m *Merger) mergeSchemas(existing, result map[string]any) {
	existingSchemas := documentSchemas(existing)
	if len(existingSchemas) == 0 {
		return
	}

	schemas := documentSchemas(result)
	if schemas == nil {
		if components, ok := result["components"].(map[string]any); ok {
			schemas = map[string]any{}
			components[componentsBucket("schema")] = schemas
		} else {
			schemas = map[string]any{}
			result["definitions"] = schemas
		}
	}

	for name, schema := range existingSchemas {
		if _, conflict := schemas[name]; !conflict || m.options.Strategy == MergeStrategyKeepExisting {
			schemas[name] = schema
		}
	}
}

// MergeDefault merges two documents using default options.
func MergeDefault(existing, generated map[string]any) (map[string]any, error) {
	merger := NewMerger(DefaultMergeOptions())
	return merger.Merge(existing, generated)
}
