// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/api2spec/desc2spec/internal/export"
)

// Exit codes for check command
const (
	ExitCodeMatch      = 0 // Spec matches descriptors
	ExitCodeDifference = 1 // Spec differs from descriptors
	ExitCodeCheckError = 2 // Error during analysis
)

var (
	checkStrict bool
	checkIgnore []string
	checkCI     bool
)

var checkCmd = &cobra.Command{
	Use:   "check [manifest]",
	Short: "Check if spec matches current descriptors",
	Long: `Check validates that your API specification matches your descriptors.

This command generates a spec from the descriptor manifest and compares it
with the existing spec file. It's useful for CI pipelines to ensure the
spec is always in sync with the descriptors.

Exit codes:
  0  Spec matches descriptors
  1  Spec differs from descriptors
  2  Error during analysis

Example:
  desc2spec check                     # Basic validation
  desc2spec check --strict            # Treat generation warnings as errors
  desc2spec check --ci                # CI mode with appropriate exit codes
  desc2spec check --ignore '/debug*'  # Ignore path differences`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "treat generation warnings as errors")
	checkCmd.Flags().StringSliceVar(&checkIgnore, "ignore", nil, "patterns to ignore in comparison (paths, schemas)")
	checkCmd.Flags().BoolVar(&checkCI, "ci", false, "CI mode: use exit codes for status")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		if checkCI {
			os.Exit(ExitCodeCheckError)
		}
		return err
	}

	if len(args) > 0 {
		cfg.Manifest = args[0]
	}
	if checkStrict {
		cfg.Generation.Strict = true
	}

	if err := cfg.Validate(); err != nil {
		if checkCI {
			os.Exit(ExitCodeCheckError)
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	printVerbose("Check configuration:")
	printVerbose("  Strict mode: %t", cfg.Generation.Strict)
	printVerbose("  CI mode: %t", checkCI)
	if len(checkIgnore) > 0 {
		printVerbose("  Ignored patterns: %s", strings.Join(checkIgnore, ", "))
	}
	printVerbose("  Manifest: %s", cfg.Manifest)
	printVerbose("  Spec file: %s", cfg.Output)

	// Check if spec file exists
	if _, err := os.Stat(cfg.Output); os.IsNotExist(err) {
		printError("Spec file not found: %s", cfg.Output)
		printInfo("Run 'desc2spec generate' first to create the spec file")
		if checkCI {
			os.Exit(ExitCodeDifference)
		}
		return fmt.Errorf("spec file not found: %s", cfg.Output)
	}

	existingSpec, err := export.ReadFile(cfg.Output)
	if err != nil {
		if checkCI {
			os.Exit(ExitCodeCheckError)
		}
		return fmt.Errorf("failed to read existing spec: %w", err)
	}

	generatedSpec, warnings, err := generateDocument(cfg)
	if err != nil {
		if checkCI {
			os.Exit(ExitCodeCheckError)
		}
		return err
	}
	reportWarnings(warnings)

	if cfg.Generation.Strict && len(warnings) > 0 {
		printError("%d generation warning(s) in strict mode", len(warnings))
		if checkCI {
			os.Exit(ExitCodeCheckError)
		}
		return fmt.Errorf("strict mode: %d generation warning(s)", len(warnings))
	}

	differ := export.NewDiffer()
	diffResult, err := differ.Diff(existingSpec, generatedSpec)
	if err != nil {
		if checkCI {
			os.Exit(ExitCodeCheckError)
		}
		return fmt.Errorf("failed to compare specs: %w", err)
	}

	diffResult = applyIgnorePatterns(diffResult, checkIgnore)

	if diffResult.IsEmpty() {
		printInfo("Spec is in sync with descriptors")
		if checkCI {
			os.Exit(ExitCodeMatch)
		}
		return nil
	}

	printInfo("Spec differs from descriptors:\n")
	printInfo(diffResult.Summary)
	printInfo("")

	if len(diffResult.PathChanges) > 0 {
		printInfo("Path changes:")
		for _, change := range diffResult.PathChanges {
			symbol := getChangeSymbol(change.Type)
			printInfo("  %s %s %s", symbol, change.Method, change.Path)
		}
		printInfo("")
	}

	if len(diffResult.SchemaChanges) > 0 {
		printInfo("Schema changes:")
		for _, change := range diffResult.SchemaChanges {
			symbol := getChangeSymbol(change.Type)
			printInfo("  %s %s", symbol, change.Name)
		}
		printInfo("")
	}

	if diffResult.HasBreakingChanges {
		printError("Breaking changes detected!")
	}

	printInfo("Run 'desc2spec generate' to update the spec file")

	if checkCI {
		os.Exit(ExitCodeDifference)
	}
	return fmt.Errorf("spec differs from descriptors")
}

// applyIgnorePatterns filters out changes that match ignore patterns.
func applyIgnorePatterns(result *export.DiffResult, patterns []string) *export.DiffResult {
	if len(patterns) == 0 {
		return result
	}

	filtered := &export.DiffResult{
		PathChanges:   make([]export.PathChange, 0),
		SchemaChanges: make([]export.SchemaChange, 0),
	}

	for _, change := range result.PathChanges {
		if !matchesAnyPattern(change.Path, patterns) {
			filtered.PathChanges = append(filtered.PathChanges, change)
		}
	}

	for _, change := range result.SchemaChanges {
		if !matchesAnyPattern(change.Name, patterns) {
			filtered.SchemaChanges = append(filtered.SchemaChanges, change)
		}
	}

	// Recalculate breaking changes
	for _, change := range filtered.PathChanges {
		if change.Type == export.DiffTypeRemoved {
			filtered.HasBreakingChanges = true
			break
		}
	}
	if !filtered.HasBreakingChanges {
		for _, change := range filtered.SchemaChanges {
			if change.Type == export.DiffTypeRemoved {
				filtered.HasBreakingChanges = true
				break
			}
		}
	}

	filtered.Summary = generateFilteredSummary(filtered)

	return filtered
}

// matchesAnyPattern checks if a string matches any of the given patterns.
func matchesAnyPattern(s string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.ContainsAny(pattern, "*?[{") {
			if matched, _ := doublestar.Match(pattern, s); matched {
				return true
			}
		} else if s == pattern {
			return true
		}
	}
	return false
}

// generateFilteredSummary generates a summary for filtered results.
func generateFilteredSummary(result *export.DiffResult) string {
	if result.IsEmpty() {
		return "No changes detected (after applying filters)"
	}

	var parts []string
	pathAdded, pathRemoved, pathModified := 0, 0, 0
	for _, c := range result.PathChanges {
		switch c.Type {
		case export.DiffTypeAdded:
			pathAdded++
		case export.DiffTypeRemoved:
			pathRemoved++
		case export.DiffTypeModified:
			pathModified++
		}
	}

	schemaAdded, schemaRemoved, schemaModified := 0, 0, 0
	for _, c := range result.SchemaChanges {
		switch c.Type {
		case export.DiffTypeAdded:
			schemaAdded++
		case export.DiffTypeRemoved:
			schemaRemoved++
		case export.DiffTypeModified:
			schemaModified++
		}
	}

	if pathAdded > 0 {
		parts = append(parts, fmt.Sprintf("%d path(s) added", pathAdded))
	}
	if pathRemoved > 0 {
		parts = append(parts, fmt.Sprintf("%d path(s) removed", pathRemoved))
	}
	if pathModified > 0 {
		parts = append(parts, fmt.Sprintf("%d path(s) modified", pathModified))
	}
	if schemaAdded > 0 {
		parts = append(parts, fmt.Sprintf("%d schema(s) added", schemaAdded))
	}
	if schemaRemoved > 0 {
		parts = append(parts, fmt.Sprintf("%d schema(s) removed", schemaRemoved))
	}
	if schemaModified > 0 {
		parts = append(parts, fmt.Sprintf("%d schema(s) modified", schemaModified))
	}

	summary := strings.Join(parts, ", ")
	if result.HasBreakingChanges {
		summary += " [BREAKING CHANGES DETECTED]"
	}

	return summary
}

// getChangeSymbol returns a symbol for the change type.
func getChangeSymbol(t export.DiffType) string {
	switch t {
	case export.DiffTypeAdded:
		return "+"
	case export.DiffTypeRemoved:
		return "-"
	case export.DiffTypeModified:
		return "~"
	default:
		return " "
	}
}
