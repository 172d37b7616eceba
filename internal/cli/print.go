// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/api2spec/desc2spec/internal/export"
)

var printCmd = &cobra.Command{
	Use:   "print [file]",
	Short: "Print the API specification to stdout",
	Long: `Print the API specification to standard output.

If a file is provided, it will print that file. Otherwise, it will
generate and print the specification from the descriptor manifest.

This is useful for piping the output to other tools or for quick inspection.

Example:
  desc2spec print                     # Generate and print
  desc2spec print openapi.yaml        # Print existing file
  desc2spec print -f json             # Print in JSON format
  desc2spec print | jq '.paths'       # Pipe to jq for processing`,
	RunE: runPrint,
}

func runPrint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	printVerbose("Print configuration:")
	printVerbose("  Format: %s", cfg.Format)

	writer := export.NewWriter()

	if len(args) > 0 {
		doc, err := export.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return writer.Write(doc, os.Stdout, cfg.Format)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	doc, warnings, err := generateDocument(cfg)
	if err != nil {
		return err
	}
	reportWarnings(warnings)

	return writer.Write(doc, os.Stdout, cfg.Format)
}
