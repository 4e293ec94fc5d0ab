package results

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tmbridge/tmbridge/model"
)

func TestParse(t *testing.T) {
	data := []byte(`[
		{"test_id": 101, "status": "passed", "comment": "Login test passed", "elapsed": "2s"},
		{"test_id": 102, "status": "passed", "comment": "Registration test passed"},
		{"test_id": 103, "status": "failed", "comment": "Payment test failed: timeout", "elapsed": "30s"},
		{"test_id": 104, "status": "passed", "comment": "Logout test passed"}
	]`)

	records, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, records, 4)

	require.Equal(t, model.Result{
		TestID:  101,
		Status:  model.StatusPassed,
		Comment: "Login test passed",
		Elapsed: "2s",
	}, records[0])
	require.Equal(t, model.StatusFailed, records[2].Status)

	// Input order is preserved
	require.Equal(t, []int{101, 102, 103, 104}, []int{
		records[0].TestID, records[1].TestID, records[2].TestID, records[3].TestID,
	})
}

func TestParse_EmptyList(t *testing.T) {
	records, err := Parse([]byte(`[]`))
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "not JSON",
			data: `{not json`,
		},
		{
			name: "not an array",
			data: `{"test_id": 1, "status": "passed"}`,
		},
		{
			name: "unknown status",
			data: `[{"test_id": 1, "status": "maybe"}]`,
		},
		{
			name: "missing test_id",
			data: `[{"status": "passed"}]`,
		},
		{
			name: "missing status",
			data: `[{"test_id": 1}]`,
		},
		{
			name: "unknown field",
			data: `[{"test_id": 1, "status": "passed", "severity": "high"}]`,
		},
		{
			name: "test_id below minimum",
			data: `[{"test_id": 0, "status": "passed"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"test_id": 1, "status": "retest"}]`), 0o644))

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, model.StatusRetest, records[0].Status)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
