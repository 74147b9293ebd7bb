package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pario-ai/reqlens/pkg/models"
)

const exportCSV = `date,username,model,quantity,exceeds_quota,total_monthly_quota
2025-06-01T10:00:00Z,alice,gpt-4o-2024-11-20,10,false,300
2025-06-01T11:00:00Z,alice,claude-opus-4,5,true,300
2025-06-01T12:00:00Z,bob,gpt-4.1-2025-04-14,20,false,300
2025-06-02T09:00:00Z,carol,o3-mini,3.5,true,300
2025-06-02T10:00:00Z,alice,claude-opus-4,7,true,300
2025-06-03T08:00:00Z,bob,claude-sonnet-4,1,false,300
`

type env struct {
	config string
	export string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	e := env{
		config: filepath.Join(dir, "reqlens.yaml"),
		export: filepath.Join(dir, "export.csv"),
	}
	cfg := "db_path: " + filepath.Join(dir, "reqlens.db") + "\nplan: Business\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(e.config, []byte(cfg), 0o600))
	require.NoError(t, os.WriteFile(e.export, []byte(exportCSV), 0o600))
	return e
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestImportThenAnalyse(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "import", e.export, "--name", "june")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 6 records")
	assert.Contains(t, out, "2025-06-01 to 2025-06-03")

	out, err = e.run(t, "datasets")
	require.NoError(t, err)
	assert.Contains(t, out, "june")

	out, err = e.run(t, "datasets", "list", "--json")
	require.NoError(t, err)
	var list []models.Dataset
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, 6, list[0].RecordCount)

	out, err = e.run(t, "models")
	require.NoError(t, err)
	assert.Contains(t, out, "Default (gpt-4.1-2025-04-14, gpt-4o-2024-11-20)")
	assert.Contains(t, out, "BUSINESS LIMIT")

	out, err = e.run(t, "models", "--json")
	require.NoError(t, err)
	var rows []models.ModelSummary
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.NotEmpty(t, rows)
	assert.Equal(t, "Default (gpt-4.1-2025-04-14, gpt-4o-2024-11-20)", rows[0].Model)
	assert.InDelta(t, 30, rows[0].TotalRequests, 1e-9)
}

func TestAnalyseFileDirectly(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "quota", "--file", e.export, "--plan", "individual", "--json")
	require.NoError(t, err)
	var q quotaOutput
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	assert.Equal(t, models.PlanIndividual, q.Plan)
	assert.InDelta(t, 15.5, q.FlaggedExceedingRequests, 1e-9)

	out, err = e.run(t, "exceeded", "--file", e.export, "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-06-02")

	out, err = e.run(t, "user", "alice", "--file", e.export)
	require.NoError(t, err)
	assert.Contains(t, out, "2025-06-01 to 2025-06-02")

	out, err = e.run(t, "power-users", "--file", e.export)
	require.NoError(t, err)
	assert.Contains(t, out, "Power users: 1")

	out, err = e.run(t, "months", "--file", e.export, "--month", "2025-06")
	require.NoError(t, err)
	assert.Contains(t, out, "3 of 30 days with data")
}

func TestCommandErrors(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "daily")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no datasets imported yet")

	_, err = e.run(t, "models", "--file", e.export, "--plan", "platinum")
	assert.Error(t, err)

	_, err = e.run(t, "daily", "--file", e.export, "--month", "2025-13")
	assert.Error(t, err)

	_, err = e.run(t, "exceeded", "--file", e.export, "--date", "June 1")
	assert.Error(t, err)

	_, err = e.run(t, "user", "nobody", "--file", e.export)
	assert.Error(t, err)

	_, err = e.run(t, "datasets", "delete", "missing")
	assert.Error(t, err)
}

func TestMissingNamedConfigIsAnError(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "datasets"})
	assert.Error(t, root.Execute())
}
