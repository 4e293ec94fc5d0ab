package testrail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tmbridge/tmbridge/model"
)

// recordingServer captures every request the client issues.
type recordingServer struct {
	*httptest.Server

	requests []recordedRequest
}

type recordedRequest struct {
	method string
	path   string
	query  string
	auth   string
	body   []byte
}

func newRecordingServer(t *testing.T, status int, response string) *recordingServer {
	t.Helper()

	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		rs.requests = append(rs.requests, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			body:   body,
		})

		w.WriteHeader(status)
		fmt.Fprint(w, response)
	}))
	t.Cleanup(rs.Close)

	return rs
}

func newTestClient(srv *recordingServer) *Client {
	return New(zerolog.Nop(), srv.URL, "tester@example.com", "secret")
}

func TestClient_AddResult(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `{"id": 9, "status_id": 1}`)
	client := newTestClient(srv)

	resp, err := client.AddResult(context.Background(), 1, model.StatusPassed, "ok", "1m 30s")
	require.NoError(t, err)
	require.Equal(t, model.Response{"id": float64(9), "status_id": float64(1)}, resp)

	require.Len(t, srv.requests, 1)
	req := srv.requests[0]
	require.Equal(t, http.MethodPost, req.method)
	require.Equal(t, "/index.php", req.path)
	require.Equal(t, "/api/v2/add_result/1", req.query)
	require.NotEmpty(t, req.auth)
	require.JSONEq(t, `{"status_id": 1, "comment": "ok", "elapsed": "1m 30s"}`, string(req.body))
}

func TestClient_AddResult_EncodingError(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `{}`)
	client := newTestClient(srv)

	_, err := client.AddResult(context.Background(), 1, model.Status("bogus"), "", "")
	require.Error(t, err)
	require.Empty(t, srv.requests, "no request may be issued for an unmappable status")
}

func TestClient_AddResults_SingleRoundTrip(t *testing.T) {
	for _, count := range []int{0, 1, 100} {
		t.Run(fmt.Sprintf("%d results", count), func(t *testing.T) {
			srv := newRecordingServer(t, http.StatusOK, `{}`)
			client := newTestClient(srv)

			records := make([]model.Result, 0, count)
			for i := 0; i < count; i++ {
				records = append(records, model.Result{TestID: i + 1, Status: model.StatusPassed})
			}

			_, err := client.AddResults(context.Background(), 42, records)
			require.NoError(t, err)
			require.Len(t, srv.requests, 1, "batch must issue exactly one request")

			var body struct {
				Results []struct {
					TestID   int `json:"test_id"`
					StatusID int `json:"status_id"`
				} `json:"results"`
			}
			require.NoError(t, json.Unmarshal(srv.requests[0].body, &body))
			require.Len(t, body.Results, count)
			for i, r := range body.Results {
				require.Equal(t, i+1, r.TestID, "input order must be preserved")
			}
		})
	}
}

func TestClient_AddResults_MixedStatuses(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `{}`)
	client := newTestClient(srv)

	records := []model.Result{
		{TestID: 101, Status: model.StatusPassed, Comment: "Login test passed"},
		{TestID: 102, Status: model.StatusPassed, Comment: "Registration test passed"},
		{TestID: 103, Status: model.StatusFailed, Comment: "Payment test failed: timeout"},
		{TestID: 104, Status: model.StatusPassed, Comment: "Logout test passed"},
	}

	_, err := client.AddResults(context.Background(), 42, records)
	require.NoError(t, err)
	require.Len(t, srv.requests, 1)
	require.Equal(t, "/api/v2/add_results/42", srv.requests[0].query)

	var body struct {
		Results []struct {
			StatusID int `json:"status_id"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(srv.requests[0].body, &body))

	var statuses []int
	for _, r := range body.Results {
		statuses = append(statuses, r.StatusID)
	}
	require.Equal(t, []int{1, 1, 5, 1}, statuses)
}

func TestClient_AddResults_EncodingError(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `{}`)
	client := newTestClient(srv)

	records := []model.Result{
		{TestID: 1, Status: model.StatusPassed},
		{TestID: 2, Status: model.Status("bogus")},
	}

	_, err := client.AddResults(context.Background(), 42, records)
	require.Error(t, err)
	require.Empty(t, srv.requests, "no request may be issued for an unmappable status")
}

func TestClient_StatusError(t *testing.T) {
	srv := newRecordingServer(t, http.StatusBadRequest, `{"error": "Field :status_id is not a valid status."}`)
	client := newTestClient(srv)

	_, err := client.AddResult(context.Background(), 1, model.StatusPassed, "", "")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	require.Contains(t, statusErr.Body, "not a valid status")
}

func TestClient_GetTest(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `{"id": 7, "title": "Login test"}`)
	client := newTestClient(srv)

	resp, err := client.GetTest(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "Login test", resp["title"])

	require.Len(t, srv.requests, 1)
	require.Equal(t, http.MethodGet, srv.requests[0].method)
	require.Equal(t, "/api/v2/get_test/7", srv.requests[0].query)
	require.Empty(t, srv.requests[0].body)
}

func TestClient_GetRun(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `{"id": 42, "is_completed": false}`)
	client := newTestClient(srv)

	resp, err := client.GetRun(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, false, resp["is_completed"])

	require.Len(t, srv.requests, 1)
	require.Equal(t, http.MethodGet, srv.requests[0].method)
	require.Equal(t, "/api/v2/get_run/42", srv.requests[0].query)
}

func TestClient_TransportError(t *testing.T) {
	client := New(zerolog.Nop(), "http://127.0.0.1:1", "tester@example.com", "secret",
		WithHTTPClient(&http.Client{}))

	_, err := client.GetRun(context.Background(), 1)
	require.Error(t, err)

	var statusErr *StatusError
	require.False(t, errors.As(err, &statusErr), "connection failures are not StatusErrors")
}

func TestClient_CurlCommandRedactsKey(t *testing.T) {
	client := New(zerolog.Nop(), "https://example.testrail.io", "tester@example.com", "secret")

	req, err := http.NewRequest(http.MethodPost, client.endpoint("add_result/1"), nil)
	require.NoError(t, err)

	curl := client.curlCommand(req, []byte(`{"status_id":1}`))
	require.Contains(t, curl, "tester@example.com")
	require.NotContains(t, curl, "secret")
	require.True(t, strings.HasPrefix(curl, "curl -X POST"))
}
