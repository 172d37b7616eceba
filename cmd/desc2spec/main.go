// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package main is the entry point for the desc2spec CLI.
package main

import (
	"fmt"
	"os"

	"github.com/api2spec/desc2spec/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
