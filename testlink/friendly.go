package testlink

import (
	"strings"

	"github.com/tmbridge/tmbridge/model"
)

// statusCodes maps human-readable status names to TestLink codes.
var statusCodes = map[string]string{
	"passed":  "p",
	"failed":  "f",
	"blocked": "b",
}

// StatusCode translates a human-readable status name into the TestLink
// single-character code. Unrecognized names fall back to "p". This default
// mirrors the original wrapper's behavior: a typo in a status name silently
// reports the case as passed instead of failing.
func StatusCode(name string) string {
	if code, ok := statusCodes[strings.ToLower(name)]; ok {
		return code
	}
	return "p"
}

// FriendlyClient wraps a Client to accept human-readable status names
// ("passed", "failed", "blocked") instead of protocol codes. It is a pure
// translation layer over the wrapped client.
type FriendlyClient struct {
	client *Client
}

// NewFriendlyClient wraps an existing client.
func NewFriendlyClient(client *Client) *FriendlyClient {
	return &FriendlyClient{client: client}
}

// ReportResult reports a single result using a status name such as "passed".
func (f *FriendlyClient) ReportResult(testCaseID, testPlanID, buildID int, status, notes string) (model.Response, error) {
	return f.client.reportCode(testCaseID, testPlanID, buildID, StatusCode(status), notes)
}
