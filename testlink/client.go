package testlink

// Package testlink provides a client for the TestLink XML-RPC API. The
// protocol has no batch primitive: reporting N results costs N round trips,
// issued strictly one after another. That seriality is part of the protocol
// being modeled and is deliberately not parallelized.

import (
	"errors"
	"fmt"

	"github.com/kolo/xmlrpc"
	"github.com/rs/zerolog"

	"github.com/tmbridge/tmbridge/model"
)

// Caller invokes a named remote method with a single structured argument and
// decodes the result into reply. *xmlrpc.Client satisfies it.
type Caller interface {
	Call(method string, args any, reply any) error
}

// Fault is a protocol-level error returned by the TestLink API, distinct
// from a transport failure.
type Fault struct {
	Code    int
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("testlink: fault %d: %s", f.Code, f.Message)
}

// Client talks to a TestLink instance over its XML-RPC API. The developer
// key travels inside every parameter struct rather than in a transport
// header. Configuration is fixed at construction.
type Client struct {
	logger          zerolog.Logger
	endpoint        string
	devKey          string
	caller          Caller
	continueOnFault bool
}

// Option is a function that configures a Client.
type Option func(*Client)

// WithCaller injects the transport used for remote calls.
func WithCaller(caller Caller) Option {
	return func(c *Client) {
		c.caller = caller
	}
}

// WithContinueOnFault makes ReportResults keep going past individual faults
// instead of aborting on the first one. Collected responses are returned
// alongside a joined error.
func WithContinueOnFault() Option {
	return func(c *Client) {
		c.continueOnFault = true
	}
}

// New creates a TestLink client for the given XML-RPC endpoint and developer
// key. Unless a transport is injected with WithCaller, requests go through
// an XML-RPC client connected to the endpoint.
func New(logger zerolog.Logger, endpoint, devKey string, opts ...Option) (*Client, error) {
	c := &Client{
		logger:   logger,
		endpoint: endpoint,
		devKey:   devKey,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.caller == nil {
		rpc, err := xmlrpc.NewClient(endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create XML-RPC client: %w", err)
		}
		c.caller = rpc
	}

	return c, nil
}

// ReportResult reports a single test case result via tl.reportTCResult.
func (c *Client) ReportResult(testCaseID, testPlanID, buildID int, status model.Status, notes string) (model.Response, error) {
	code, err := status.RPCCode()
	if err != nil {
		return nil, err
	}

	return c.reportCode(testCaseID, testPlanID, buildID, code, notes)
}

// reportCode issues tl.reportTCResult with an already-encoded status code.
func (c *Client) reportCode(testCaseID, testPlanID, buildID int, code, notes string) (model.Response, error) {
	args := map[string]any{
		"devKey":     c.devKey,
		"testcaseid": testCaseID,
		"testplanid": testPlanID,
		"status":     code,
		"buildid":    buildID,
		"notes":      notes,
		"overwrite":  true,
	}

	c.logger.Debug().
		Int("testcase", testCaseID).
		Str("status", code).
		Msg("Invoking tl.reportTCResult")

	return c.call("tl.reportTCResult", args)
}

// ReportResults reports multiple results, one remote call per result, in
// input order. By default the first fault aborts the remaining sequence and
// no partial list is returned; WithContinueOnFault collects what succeeded
// and returns a joined error at the end.
func (c *Client) ReportResults(testPlanID, buildID int, results []model.Result) ([]model.Response, error) {
	responses := make([]model.Response, 0, len(results))
	var faults []error

	for _, r := range results {
		resp, err := c.ReportResult(r.TestID, testPlanID, buildID, r.Status, r.Comment)
		if err != nil {
			if !c.continueOnFault {
				return nil, err
			}
			faults = append(faults, fmt.Errorf("test case %d: %w", r.TestID, err))
			continue
		}
		responses = append(responses, resp)
	}

	if len(faults) > 0 {
		return responses, errors.Join(faults...)
	}

	return responses, nil
}

// GetTestCase fetches a test case via tl.getTestCase.
func (c *Client) GetTestCase(testCaseID int) (model.Response, error) {
	args := map[string]any{
		"devKey":     c.devKey,
		"testcaseid": testCaseID,
	}

	return c.call("tl.getTestCase", args)
}

// GetTestPlan fetches a test plan via tl.getTestPlanByID.
func (c *Client) GetTestPlan(testPlanID int) (model.Response, error) {
	args := map[string]any{
		"devKey":     c.devKey,
		"testplanid": testPlanID,
	}

	return c.call("tl.getTestPlanByID", args)
}

func (c *Client) call(method string, args map[string]any) (model.Response, error) {
	var reply any
	if err := c.caller.Call(method, args, &reply); err != nil {
		var fault xmlrpc.FaultError
		if errors.As(err, &fault) {
			return nil, &Fault{Code: fault.Code, Message: fault.String}
		}
		return nil, fmt.Errorf("%s failed: %w", method, err)
	}

	return asResponse(reply), nil
}

// asResponse normalizes a decoded XML-RPC value. TestLink wraps most struct
// responses in a single-element array.
func asResponse(v any) model.Response {
	switch r := v.(type) {
	case map[string]any:
		return model.Response(r)
	case []any:
		if len(r) == 1 {
			if m, ok := r[0].(map[string]any); ok {
				return model.Response(m)
			}
		}
	}
	return model.Response{"result": v}
}
