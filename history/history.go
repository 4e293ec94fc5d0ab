package history

// This file contains shared history utilities for recording, loading and
// parsing tmbridge run history.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tmbridge/tmbridge/model"
)

// DirName is the history directory created under the working directory.
const DirName = ".tmbridge"

type Entry struct {
	Run      model.Run
	FullPath string
}

// Root returns the tmbridge history directory under the current working
// directory.
func Root() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}
	return filepath.Join(cwd, DirName), nil
}

// Record writes a run entry to its own directory under root and returns the
// run directory path.
func Record(root string, run model.Run) (string, error) {
	runDir := filepath.Join(root, run.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode history: %w", err)
	}

	historyPath := filepath.Join(runDir, "history.json")
	if err := os.WriteFile(historyPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write history.json: %w", err)
	}

	return runDir, nil
}

// LoadEntries loads all history entries from the history directory, newest
// first.
func LoadEntries(logger zerolog.Logger, root string) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			historyPath := filepath.Join(path, "history.json")
			if _, err := os.Stat(historyPath); err == nil {
				run, err := parseRunJSON(historyPath)
				if err != nil {
					logger.Warn().Err(err).Str("path", historyPath).Msg("Failed to parse history.json")
					return nil
				}

				entries = append(entries, Entry{
					Run:      run,
					FullPath: path,
				})
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk history directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Run.Timestamp.After(entries[j].Run.Timestamp)
	})

	return entries, nil
}

// parseRunJSON parses a history.json file.
func parseRunJSON(historyPath string) (model.Run, error) {
	data, err := os.ReadFile(historyPath)
	if err != nil {
		return model.Run{}, err
	}

	var run model.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return model.Run{}, err
	}

	return run, nil
}
