// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/api2spec/desc2spec/internal/config"
	"github.com/api2spec/desc2spec/internal/export"
)

var diffBreaking bool

var diffCmd = &cobra.Command{
	Use:   "diff [file1] [file2]",
	Short: "Compare two API specifications",
	Long: `Compare two API specifications and show the differences.

If only one file is provided, it will be compared against the specification
generated from the current descriptor manifest.

If no files are provided, the existing spec file will be compared against
what would be generated from the current descriptors.

Example:
  desc2spec diff                          # Compare current vs generated
  desc2spec diff openapi.yaml             # Compare file vs generated
  desc2spec diff old.yaml new.yaml        # Compare two files
  desc2spec diff --breaking               # Fail only on breaking changes`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().BoolVar(&diffBreaking, "breaking", false, "exit non-zero only when breaking changes are found")
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var before, after map[string]any

	switch len(args) {
	case 0:
		printVerbose("Comparing %s against generated...", cfg.Output)
		before, err = export.ReadFile(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", cfg.Output, err)
		}
		after, err = diffGenerated(cfg)
		if err != nil {
			return err
		}
	case 1:
		printVerbose("Comparing %s against generated...", args[0])
		before, err = export.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		after, err = diffGenerated(cfg)
		if err != nil {
			return err
		}
	case 2:
		printVerbose("Comparing %s against %s...", args[0], args[1])
		before, err = export.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		after, err = export.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[1], err)
		}
	default:
		return fmt.Errorf("too many arguments: expected at most 2 files")
	}

	differ := export.NewDiffer()
	result, err := differ.Diff(before, after)
	if err != nil {
		return fmt.Errorf("failed to compare specs: %w", err)
	}

	printInfo("%s", export.FormatDiff(result))

	if diffBreaking {
		if result.HasBreakingChanges {
			return fmt.Errorf("breaking changes detected")
		}
		return nil
	}
	if !result.IsEmpty() {
		return fmt.Errorf("specs differ")
	}
	return nil
}

// diffGenerated renders a document from the configured manifest for use
// as the right-hand side of a comparison.
func diffGenerated(cfg *config.Config) (map[string]any, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	doc, warnings, err := generateDocument(cfg)
	if err != nil {
		return nil, err
	}
	reportWarnings(warnings)
	return doc, nil
}
