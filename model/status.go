package model

import (
	"fmt"
	"strings"
)

// Status is a protocol-independent test outcome.
type Status string

const (
	StatusPassed   Status = "passed"
	StatusFailed   Status = "failed"
	StatusBlocked  Status = "blocked"
	StatusUntested Status = "untested"
	StatusRetest   Status = "retest"
)

// ParseStatus converts a status name into a Status. Matching is
// case-insensitive; unknown names are an error.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(s)) {
	case StatusPassed:
		return StatusPassed, nil
	case StatusFailed:
		return StatusFailed, nil
	case StatusBlocked:
		return StatusBlocked, nil
	case StatusUntested:
		return StatusUntested, nil
	case StatusRetest:
		return StatusRetest, nil
	}
	return "", fmt.Errorf("unknown status %q (expected passed, failed, blocked, untested or retest)", s)
}

// RestCode returns the TestRail status_id for the status.
func (s Status) RestCode() (int, error) {
	switch s {
	case StatusPassed:
		return 1, nil
	case StatusBlocked:
		return 2, nil
	case StatusUntested:
		return 3, nil
	case StatusRetest:
		return 4, nil
	case StatusFailed:
		return 5, nil
	}
	return 0, fmt.Errorf("no TestRail status code for %q", string(s))
}

// RPCCode returns the single-character TestLink status code for the status.
func (s Status) RPCCode() (string, error) {
	switch s {
	case StatusPassed:
		return "p", nil
	case StatusFailed:
		return "f", nil
	case StatusBlocked:
		return "b", nil
	case StatusUntested:
		return "u", nil
	case StatusRetest:
		return "r", nil
	}
	return "", fmt.Errorf("no TestLink status code for %q", string(s))
}
