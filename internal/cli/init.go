// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/api2spec/desc2spec/internal/config"
)

var (
	initForce       bool
	initInteractive bool
	initTitle       string
	initVersion     string
	initDescription string
	initManifest    bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new desc2spec configuration file",
	Long: `Initialize a new desc2spec configuration file in the current directory.

This command creates a desc2spec.yaml file with sensible defaults
that you can customize for your project. With --manifest it also writes
a starter descriptor manifest.

Example:
  desc2spec init                        # Create config with defaults
  desc2spec init --manifest             # Also create a starter manifest
  desc2spec init --force                # Overwrite existing config
  desc2spec init --interactive          # Interactive mode with prompts
  desc2spec init --title "My API"       # Set custom API title`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "interactive mode with prompts")
	initCmd.Flags().StringVar(&initTitle, "title", "", "API title for the info block")
	initCmd.Flags().StringVar(&initVersion, "version", "", "API version for the info block")
	initCmd.Flags().StringVar(&initDescription, "description", "", "API description for the info block")
	initCmd.Flags().BoolVar(&initManifest, "manifest", false, "also create a starter descriptor manifest")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := "desc2spec.yaml"

	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", configFile)
	}

	projectRoot, err := filepath.Abs(".")
	if err != nil {
		return fmt.Errorf("failed to determine project root: %w", err)
	}

	cfg := config.Default()

	info := detectProjectInfo(projectRoot)

	if initTitle != "" {
		cfg.Info.Title = initTitle
	} else if info.Title != "" {
		cfg.Info.Title = info.Title
	}

	if initVersion != "" {
		cfg.Info.Version = initVersion
	}

	if initDescription != "" {
		cfg.Info.Description = initDescription
	}

	if dialect != "" {
		cfg.Dialect = dialect
	}
	if manifest != "" {
		cfg.Manifest = manifest
	}

	if initInteractive && isTerminal() {
		cfg, err = interactiveInit(cfg)
		if err != nil {
			return fmt.Errorf("interactive init failed: %w", err)
		}
	}

	if err := os.WriteFile(configFile, []byte(buildConfigYAML(cfg)), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	printInfo("Created %s", configFile)

	if initManifest {
		if _, err := os.Stat(cfg.Manifest); err == nil && !initForce {
			return fmt.Errorf("manifest %s already exists, use --force to overwrite", cfg.Manifest)
		}
		if err := os.WriteFile(cfg.Manifest, []byte(starterManifest), 0644); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		printInfo("Created %s", cfg.Manifest)
	}

	printVerbose("Dialect: %s", cfg.Dialect)
	printVerbose("Manifest: %s", cfg.Manifest)
	printVerbose("Output: %s", cfg.Output)

	return nil
}

// projectInfo holds information detected from the project.
type projectInfo struct {
	Title  string
	Module string
}

// detectProjectInfo detects project information from go.mod.
func detectProjectInfo(projectRoot string) projectInfo {
	info := projectInfo{}

	goModPath := filepath.Join(projectRoot, "go.mod")
	file, err := os.Open(goModPath)
	if err != nil {
		return info
	}
	defer file.Close()

	titler := cases.Title(language.English)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "module ") {
			info.Module = strings.TrimSpace(strings.TrimPrefix(line, "module "))

			// e.g. "github.com/user/my-api" -> "My Api API"
			parts := strings.Split(info.Module, "/")
			if len(parts) > 0 {
				name := parts[len(parts)-1]
				name = strings.ReplaceAll(name, "-", " ")
				name = strings.ReplaceAll(name, "_", " ")
				info.Title = titler.String(name) + " API"
			}
			break
		}
	}

	return info
}

// isTerminal checks if stdin is a terminal.
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// interactiveInit prompts the user for configuration options.
func interactiveInit(cfg *config.Config) (*config.Config, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("API Title [%s]: ", cfg.Info.Title)
	title, _ := reader.ReadString('\n')
	title = strings.TrimSpace(title)
	if title != "" {
		cfg.Info.Title = title
	}

	fmt.Printf("API Version [%s]: ", cfg.Info.Version)
	version, _ := reader.ReadString('\n')
	version = strings.TrimSpace(version)
	if version != "" {
		cfg.Info.Version = version
	}

	fmt.Printf("API Description [%s]: ", cfg.Info.Description)
	description, _ := reader.ReadString('\n')
	description = strings.TrimSpace(description)
	if description != "" {
		cfg.Info.Description = description
	}

	fmt.Printf("Dialect (swagger/openapi3/openapi31) [%s]: ", cfg.Dialect)
	d, _ := reader.ReadString('\n')
	d = strings.TrimSpace(d)
	if d != "" {
		cfg.Dialect = d
	}

	fmt.Printf("Manifest file [%s]: ", cfg.Manifest)
	m, _ := reader.ReadString('\n')
	m = strings.TrimSpace(m)
	if m != "" {
		cfg.Manifest = m
	}

	fmt.Printf("Output file [%s]: ", cfg.Output)
	o, _ := reader.ReadString('\n')
	o = strings.TrimSpace(o)
	if o != "" {
		cfg.Output = o
	}

	fmt.Printf("Output format (yaml/json) [%s]: ", cfg.Format)
	f, _ := reader.ReadString('\n')
	f = strings.TrimSpace(f)
	if f != "" {
		cfg.Format = f
	}

	return cfg, nil
}

// buildConfigYAML builds a YAML config with a header comment.
func buildConfigYAML(cfg *config.Config) string {
	data, _ := yaml.Marshal(cfg)

	header := `# desc2spec configuration file
# https://github.com/api2spec/desc2spec

`
	return header + string(data)
}

// starterManifest is the descriptor manifest written by init --manifest.
const starterManifest = `# desc2spec descriptor manifest

entities:
  - name: Status
    description: Service status report.
    fields:
      - name: status
        type:
          name: string
          metadata:
            enum: [ok, degraded]
      - name: checkedAt
        type: datetime

routes:
  - method: GET
    path: /status
    summary: Report service status
    responses:
      "200":
        description: Current status
        type: Status
`
