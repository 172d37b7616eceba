// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package cli provides the command-line interface for desc2spec.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile  string
	manifest string
	output   string
	format   string
	dialect  string
	verbose  bool
	quiet    bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "desc2spec",
	Short: "Descriptor-first API specification generator",
	Long: `desc2spec turns declarative entity, contract, and route descriptors
into API specification documents.

A single descriptor manifest produces Swagger 2.0, OpenAPI 3.0, or
OpenAPI 3.1 output, selectable per invocation.

Example:
  desc2spec generate                   # Generate a spec from descriptors.yaml
  desc2spec generate --dialect swagger # Emit Swagger 2.0 instead
  desc2spec check --strict             # Validate descriptors and spec
  desc2spec watch                      # Watch descriptors and regenerate`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: desc2spec.yaml)")
	rootCmd.PersistentFlags().StringVarP(&manifest, "manifest", "m", "", "descriptor manifest path (default: descriptors.yaml)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output file path (default: openapi.yaml)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format: yaml, json (default: yaml)")
	rootCmd.PersistentFlags().StringVarP(&dialect, "dialect", "d", "", "output dialect: swagger, openapi3, openapi31")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(printCmd)
}

// GetConfigFile returns the config file path from the flag.
func GetConfigFile() string {
	return cfgFile
}

// GetManifest returns the manifest path from the flag.
func GetManifest() string {
	return manifest
}

// GetOutput returns the output file path from the flag.
func GetOutput() string {
	return output
}

// GetFormat returns the output format from the flag.
func GetFormat() string {
	return format
}

// GetDialect returns the dialect from the flag.
func GetDialect() string {
	return dialect
}

// IsVerbose returns whether verbose output is enabled.
func IsVerbose() bool {
	return verbose
}

// IsQuiet returns whether quiet mode is enabled.
func IsQuiet() bool {
	return quiet
}

// printInfo prints a message if not in quiet mode.
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format+"\n", args...)
	}
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format+"\n", args...)
	}
}

// printError prints an error message.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
