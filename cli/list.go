package cli

// This file contains the list command for displaying previous reporting runs.

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tmbridge/tmbridge/history"
)

func (a *App) list(ctx *cli.Context) error {
	filterBackend := ctx.String("backend")
	limit := ctx.Int("limit")

	root, err := history.Root()
	if err != nil {
		return err
	}

	if _, err := os.Stat(root); os.IsNotExist(err) {
		fmt.Println("No reporting runs found")
		fmt.Printf("Runs are saved to %s/<id>/history.json\n", root)
		return nil
	}

	entries, err := history.LoadEntries(a.logger, root)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	// Apply backend filter if specified
	var filtered []history.Entry
	for _, entry := range entries {
		if filterBackend == "" || entry.Run.Backend == filterBackend {
			filtered = append(filtered, entry)
		}
	}

	if len(filtered) == 0 {
		if filterBackend != "" {
			fmt.Printf("No reporting runs found for backend: %s\n", filterBackend)
		} else {
			fmt.Println("No reporting runs found")
		}
		return nil
	}

	// Apply limit (entries are already newest first)
	displayRuns := filtered
	if limit > 0 && limit < len(displayRuns) {
		displayRuns = displayRuns[:limit]
	}

	fmt.Printf("\n=== Reporting Runs (%d total) ===\n\n", len(filtered))

	for _, entry := range displayRuns {
		run := entry.Run
		timestamp := run.Timestamp.Format("2006-01-02 15:04:05")

		// Format duration
		duration := run.Duration.Round(time.Millisecond)

		// Determine status indicator
		status := "✓"
		if run.ExitCode != 0 {
			status = "✗"
		}

		// Format args (skip the program name)
		args := ""
		if len(run.Args) > 1 {
			args = strings.Join(run.Args[1:], " ")
		}

		// Show short ID (first 8 chars)
		shortID := run.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		fmt.Printf("%s  %s  [%s]  exit=%d  id=%s\n", status, timestamp, duration, run.ExitCode, shortID)
		if args != "" {
			fmt.Printf("   Args: %s\n", args)
		}
		fmt.Printf("   Backend: %s  results=%d  requests=%d\n", run.Backend, run.Results, run.Requests)
		if run.RunID != 0 {
			fmt.Printf("   Run: %d\n", run.RunID)
		}
		if run.PlanID != 0 || run.BuildID != 0 {
			fmt.Printf("   Plan: %d  Build: %d\n", run.PlanID, run.BuildID)
		}
		fmt.Printf("   %s\n", entry.FullPath)
		fmt.Println()
	}

	return nil
}
