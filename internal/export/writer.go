// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Writer handles writing rendered documents to various outputs.
type Writer struct {
	// Indent specifies the indentation for JSON output (default: 2 spaces).
	Indent int
}

// NewWriter creates a new Writer with default settings.
func NewWriter() *Writer {
	return &Writer{Indent: 2}
}

// WriteYAML writes a document as YAML to the given writer.
func (w *Writer) WriteYAML(doc map[string]any, out io.Writer) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}

// WriteJSON writes a document as JSON to the given writer.
func (w *Writer) WriteJSON(doc map[string]any, out io.Writer) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", strings.Repeat(" ", w.Indent))

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// Write writes a document in the named format ("yaml" or "json").
func (w *Writer) Write(doc map[string]any, out io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return w.WriteJSON(doc, out)
	case "yaml", "yml", "":
		return w.WriteYAML(doc, out)
	}
	return fmt.Errorf("unsupported format: %s", format)
}

// WriteFile writes a document to a file. If format is empty it is
// inferred from the file extension, defaulting to YAML.
func (w *Writer) WriteFile(doc map[string]any, path string, format string) error {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			format = "json"
		default:
			format = "yaml"
		}
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := w.Write(doc, f, format); err != nil {
		return err
	}
	return f.Sync()
}

// ReadFile loads a previously written document, inferring the format from
// the extension. YAML parses both encodings.
func ReadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", path, err)
	}
	return doc, nil
}
