package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herbcheck/internal/domain"
	"herbcheck/internal/regulatory"
	fixtures "herbcheck/pkg/testutil"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LLM_API_KEY", "")
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeEvent(t *testing.T, event domain.CollectionEvent) string {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestValidate(t *testing.T) {
	path := writeEvent(t, fixtures.NewEvent())

	out, err := execute(t, "", "validate", "-f", path, "--types", "regulatory", "--as-of", "2024-10-15")

	require.NoError(t, err)
	var result domain.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "evt-0001", result.EventID)
	assert.Equal(t, []string{"basic", "regulatory"}, result.DataSources)
	assert.Equal(t, domain.StateCompleted, result.State)
}

func TestValidate_Stdin(t *testing.T) {
	data, err := json.Marshal(fixtures.NewEvent())
	require.NoError(t, err)

	out, err := execute(t, string(data), "validate", "-f", "-", "--types", "quality", "--as-of", "2024-10-15")

	require.NoError(t, err)
	assert.Contains(t, out, `"event_id": "evt-0001"`)
}

func TestValidate_Errors(t *testing.T) {
	path := writeEvent(t, fixtures.NewEvent())

	_, err := execute(t, "", "validate")
	assert.Error(t, err, "file flag is required")

	_, err = execute(t, "", "validate", "-f", path, "--types", "astrology")
	assert.ErrorContains(t, err, "unknown validation type")

	_, err = execute(t, "", "validate", "-f", path, "--ai")
	assert.ErrorContains(t, err, "LLM_API_KEY")

	_, err = execute(t, "{", "validate", "-f", "-")
	assert.ErrorContains(t, err, "decode event")
}

func TestRequirements(t *testing.T) {
	out, err := execute(t, "", "requirements", "brahmi", "--region", "kerala")

	require.NoError(t, err)
	var req regulatory.Requirements
	require.NoError(t, json.Unmarshal([]byte(out), &req))
	assert.Equal(t, "brahmi", req.Species)
	assert.Equal(t, "kerala", req.Region)
	require.NotNil(t, req.RegionalRestrictions)

	_, err = execute(t, "", "requirements")
	assert.Error(t, err)
}

func TestSeason(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"season", "2024-10-15"}, want: "post_monsoon\n"},
		{args: []string{"season", "2024-01-03T08:00:00Z"}, want: "winter\n"},
		{args: []string{"season", "2024-07-01", "--species", "brahmi"}, want: "monsoon\nbrahmi: in season\n"},
		{args: []string{"season", "2024-04-01", "--species", "Tulsi"}, want: "spring\ntulsi: out of season\n"},
	}
	for _, tc := range tests {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			out, err := execute(t, "", tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}

	_, err := execute(t, "", "season", "yesterday")
	assert.ErrorContains(t, err, "invalid date")

	_, err = execute(t, "", "season", "2024-10-15", "--species", "mandrake")
	assert.ErrorContains(t, err, "not in the catalog")
}
