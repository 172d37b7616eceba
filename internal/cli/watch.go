// SPDX-FileCopyrightText: 2026 desc2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/api2spec/desc2spec/internal/config"
	"github.com/api2spec/desc2spec/internal/export"
)

var (
	watchDebounce int
	watchOnChange string
	watchInclude  []string
	watchExclude  []string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch descriptors and regenerate the specification",
	Long: `Watch the descriptor manifest for changes and automatically regenerate
the API specification.

This command monitors the manifest directory and triggers a regeneration
when descriptor files are modified. It's useful during development to keep
the spec in sync with the descriptors.

Example:
  desc2spec watch                          # Watch the manifest directory
  desc2spec watch --debounce 1000          # Wait 1s before regenerating
  desc2spec watch --on-change "make lint"  # Run command after regeneration`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", 0, "debounce duration in milliseconds")
	watchCmd.Flags().StringVar(&watchOnChange, "on-change", "", "command to run after regeneration")
	watchCmd.Flags().StringSliceVarP(&watchInclude, "include", "i", nil, "glob patterns to watch")
	watchCmd.Flags().StringSliceVarP(&watchExclude, "exclude", "e", nil, "glob patterns to ignore")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}
	if watchOnChange != "" {
		cfg.Watch.OnChange = watchOnChange
	}
	if len(watchInclude) > 0 {
		cfg.Watch.Include = watchInclude
	}
	if len(watchExclude) > 0 {
		cfg.Watch.Exclude = watchExclude
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	root := filepath.Dir(cfg.Manifest)
	if root == "" {
		root = "."
	}

	printVerbose("Watch configuration:")
	printVerbose("  Root: %s", root)
	printVerbose("  Debounce: %dms", cfg.Watch.Debounce)
	if cfg.Watch.OnChange != "" {
		printVerbose("  On change: %s", cfg.Watch.OnChange)
	}

	// Generate once up front so the watcher starts from a known state.
	if err := regenerate(cfg); err != nil {
		printError("%v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root, cfg.Watch.Exclude); err != nil {
		return err
	}

	printInfo("Watching for changes in: %s", root)
	printInfo("Press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	debounce := time.Duration(cfg.Watch.Debounce) * time.Millisecond
	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watchRelevant(event, root, cfg.Watch) {
				continue
			}
			printVerbose("Change detected: %s", event.Name)

			// New directories need to be added to the watch set.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addWatchDirs(watcher, event.Name, cfg.Watch.Exclude)
				}
			}

			if timer == nil {
				timer = time.NewTimer(debounce)
				timerCh = timer.C
			} else {
				timer.Reset(debounce)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			if err := regenerate(cfg); err != nil {
				printError("%v", err)
				continue
			}
			if cfg.Watch.OnChange != "" {
				runOnChange(cfg.Watch.OnChange)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError("watch error: %v", err)

		case <-sigCh:
			printInfo("Stopping watch")
			return nil
		}
	}
}

// addWatchDirs registers root and all its non-excluded subdirectories.
func addWatchDirs(watcher *fsnotify.Watcher, root string, exclude []string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel != "." && matchesGlobs(rel, exclude) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// watchRelevant reports whether an event should trigger regeneration.
func watchRelevant(event fsnotify.Event, root string, wc config.WatchConfig) bool {
	if event.Op.Has(fsnotify.Chmod) {
		return false
	}

	rel, err := filepath.Rel(root, event.Name)
	if err != nil {
		rel = event.Name
	}
	rel = filepath.ToSlash(rel)

	if matchesGlobs(rel, wc.Exclude) {
		return false
	}

	// Directory events pass through so new subtrees get watched.
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		return true
	}

	return matchesGlobs(rel, wc.Include)
}

// matchesGlobs reports whether path matches any of the patterns.
func matchesGlobs(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

// regenerate runs one generation cycle and writes the output file.
func regenerate(cfg *config.Config) error {
	doc, warnings, err := generateDocument(cfg)
	if err != nil {
		return err
	}
	reportWarnings(warnings)

	writer := export.NewWriter()
	if err := writer.WriteFile(doc, cfg.Output, cfg.Format); err != nil {
		return fmt.Errorf("failed to write spec: %w", err)
	}
	printInfo("Regenerated %s at %s", cfg.Output, time.Now().Format("15:04:05"))
	return nil
}

// runOnChange runs the configured post-regeneration command.
func runOnChange(command string) {
	printVerbose("Running: %s", command)
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		printError("on-change command failed: %v", err)
	}
}
