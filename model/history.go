package model

import "time"

// RunType represents the type of history entry
type RunType string

const (
	RunTypeReport RunType = "report"
	RunTypeBatch  RunType = "batch"
)

// Run represents a single tmbridge reporting invocation.
type Run struct {
	// Unique ID for this run (16 random bytes, hex encoded)
	ID string `json:"id"`
	// Type of run (report or batch)
	Type RunType `json:"type"`
	// Timestamp when the run started
	Timestamp time.Time `json:"timestamp"`
	// Command-line arguments (including command name)
	Args []string `json:"args"`
	// Working directory where the command was run
	WorkDir string `json:"workdir"`
	// Exit code of the run
	ExitCode int `json:"exit_code"`
	// Duration of the run
	Duration time.Duration `json:"duration"`
	// Backend the results were sent to (testrail or testlink)
	Backend string `json:"backend"`
	// Number of results reported
	Results int `json:"results"`
	// Number of transport round trips issued
	Requests int `json:"requests"`
	// Test run ID (TestRail)
	RunID int `json:"run_id,omitempty"`
	// Test plan ID (TestLink)
	PlanID int `json:"plan_id,omitempty"`
	// Build ID (TestLink)
	BuildID int `json:"build_id,omitempty"`
}
