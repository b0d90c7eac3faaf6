package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// errSelectionAborted is returned when the user leaves the picker without choosing.
var errSelectionAborted = errors.New("interactive selection aborted")

// runInteractiveFinder lets the user pick the directory to scan from the
// directories below the current one.
func runInteractiveFinder() (string, error) {
	candidates, err := listDirectories(".")
	if err != nil {
		return "", err
	}

	idx, err := fuzzyfinder.Find(
		candidates,
		func(i int) string {
			return candidates[i]
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 { // No selection yet
				return "Select the directory to count lines in. Press Enter to confirm."
			}
			entries, readErr := os.ReadDir(candidates[i])
			if readErr != nil {
				return fmt.Sprintf("Path: %s\nError reading directory: %v", candidates[i], readErr)
			}
			return fmt.Sprintf("Path: %s\nEntries: %d", candidates[i], len(entries))
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) { // User pressed Esc or Ctrl+C
			return "", errSelectionAborted
		}
		return "", fmt.Errorf("fuzzy finder error: %w", err)
	}

	return candidates[idx], nil
}

// listDirectories returns root and every non-hidden directory below it.
func listDirectories(root string) ([]string, error) {
	candidates := []string{root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Unreadable directories are simply not offered
		}
		if path == root || !d.IsDir() {
			return nil
		}
		if isHidden(d.Name()) {
			return fs.SkipDir
		}
		candidates = append(candidates, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning for directories: %w", err)
	}
	return candidates, nil
}

// isHidden checks if a base name is hidden (starts with '.').
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return len(name) > 0 && name[0] == '.'
}
