// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/api2spec/desc2spec/internal/config"
	"github.com/api2spec/desc2spec/internal/export"
	"github.com/api2spec/desc2spec/internal/introspect"
	"github.com/api2spec/desc2spec/pkg/descriptor"
)

var (
	generateNamespace string
	generateNullable  string
	generateXNullable bool
	generateMerge     bool
	generateDryRun    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [manifest]",
	Short: "Generate an API specification from descriptors",
	Long: `Generate an API specification document from a descriptor manifest.

The generate command loads the manifest, resolves every declared type into
the schema graph, and renders the graph in the selected dialect.

Dialects:
  swagger    Swagger 2.0
  openapi3   OpenAPI 3.0 (default)
  openapi31  OpenAPI 3.1

Example:
  desc2spec generate                            # Generate from descriptors.yaml
  desc2spec generate api/descriptors.yaml       # Generate from a specific manifest
  desc2spec generate --dialect swagger          # Emit Swagger 2.0
  desc2spec generate --namespace /admin         # Only routes under /admin
  desc2spec generate --merge                    # Merge with existing spec
  desc2spec generate --dry-run                  # Preview without writing`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateNamespace, "namespace", "n", "", "restrict output to routes under this path prefix")
	generateCmd.Flags().StringVar(&generateNullable, "nullable-strategy", "", "nullable rendering: keyword, type-array, extension")
	generateCmd.Flags().BoolVar(&generateXNullable, "x-nullable", false, "deprecated alias for --nullable-strategy extension")
	generateCmd.Flags().BoolVar(&generateMerge, "merge", false, "merge with existing spec file")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "preview output without writing to file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(args) > 0 {
		cfg.Manifest = args[0]
	}
	if generateNamespace != "" {
		cfg.Namespace = generateNamespace
	}
	if generateNullable != "" {
		cfg.NullableStrategy = generateNullable
	}
	if generateXNullable {
		cfg.XNullable = true
	}
	if generateMerge {
		cfg.Generation.Merge = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	printVerbose("Configuration:")
	printVerbose("  Manifest: %s", cfg.Manifest)
	printVerbose("  Dialect: %s", cfg.Dialect)
	printVerbose("  Output: %s", cfg.Output)
	printVerbose("  Format: %s", cfg.Format)
	if cfg.Namespace != "" {
		printVerbose("  Namespace: %s", cfg.Namespace)
	}

	doc, warnings, err := generateDocument(cfg)
	if err != nil {
		return err
	}
	reportWarnings(warnings)

	if cfg.Generation.Merge {
		existing, err := export.ReadFile(cfg.Output)
		if err == nil {
			merger := export.NewMerger(export.DefaultMergeOptions())
			doc, err = merger.Merge(existing, doc)
			if err != nil {
				return fmt.Errorf("failed to merge with existing spec: %w", err)
			}
			printVerbose("Merged with existing %s", cfg.Output)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read existing spec: %w", err)
		}
	}

	writer := export.NewWriter()
	if generateDryRun {
		printInfo("Dry run mode - no files will be written")
		return writer.Write(doc, os.Stdout, cfg.Format)
	}

	if err := writer.WriteFile(doc, cfg.Output, cfg.Format); err != nil {
		return fmt.Errorf("failed to write spec: %w", err)
	}

	printInfo("Wrote %s", cfg.Output)
	return nil
}

// loadConfig loads the configuration and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if manifest != "" {
		cfg.Manifest = manifest
	}
	if output != "" {
		cfg.Output = output
	}
	if format != "" {
		cfg.Format = format
	}
	if dialect != "" {
		cfg.Dialect = dialect
	}
	return cfg, nil
}

// generateDocument loads the manifest and renders it with the configured
// dialect and options.
func generateDocument(cfg *config.Config) (map[string]any, []introspect.Warning, error) {
	doc, err := descriptor.Load(cfg.Manifest)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid manifest: %w", err)
	}

	printVerbose("Loaded %d entities, %d contracts, %d routes",
		len(doc.Entities), len(doc.Contracts), len(doc.Routes))

	gen, err := export.NewGenerator(export.OptionsFromConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	rendered, warnings, err := gen.Generate(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("generation failed: %w", err)
	}
	return rendered, warnings, nil
}

// reportWarnings prints generation warnings to stderr.
func reportWarnings(warnings []introspect.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w.String())
	}
}
