package model

// Result is a single test outcome to report to a backend. Values are
// constructed by the caller and never mutated by a client.
type Result struct {
	// ID of the test (TestRail) or test case (TestLink)
	TestID int `json:"test_id"`
	// Outcome of the test
	Status Status `json:"status"`
	// Free-text comment or notes attached to the result
	Comment string `json:"comment,omitempty"`
	// Elapsed time as a duration string (e.g. "1m 30s"), TestRail only
	Elapsed string `json:"elapsed,omitempty"`
}

// Response is a decoded backend response. Clients return it opaquely and do
// not interpret its contents.
type Response map[string]any
