package testlink

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "passed",
			in:   "passed",
			want: "p",
		},
		{
			name: "failed",
			in:   "failed",
			want: "f",
		},
		{
			name: "blocked",
			in:   "blocked",
			want: "b",
		},
		{
			name: "mixed case",
			in:   "Failed",
			want: "f",
		},
		{
			name: "unknown defaults to passed",
			in:   "bogus",
			want: "p",
		},
		{
			name: "empty defaults to passed",
			in:   "",
			want: "p",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.in); got != tt.want {
				t.Errorf("StatusCode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFriendlyClient_ReportResult(t *testing.T) {
	caller := &fakeCaller{reply: map[string]any{"status": true}}
	client, err := New(zerolog.Nop(), "http://example.com/xmlrpc.php", "K", WithCaller(caller))
	require.NoError(t, err)

	friendly := NewFriendlyClient(client)

	_, err = friendly.ReportResult(100, 10, 5, "failed", "Payment test failed")
	require.NoError(t, err)
	require.Len(t, caller.calls, 1)
	require.Equal(t, "f", caller.calls[0].args["status"])

	// The documented default: a typo reports the case as passed.
	_, err = friendly.ReportResult(100, 10, 5, "bogus", "")
	require.NoError(t, err)
	require.Len(t, caller.calls, 2)
	require.Equal(t, "p", caller.calls[1].args["status"])
}
