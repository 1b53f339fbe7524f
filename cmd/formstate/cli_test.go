package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/internal/config"
)

const alarmScript = `
nodes:
  - type: time_input
    label: Wake up
    key: wake
    value: "%s"
`

func writeScript(t *testing.T, dir, value string) string {
	t.Helper()
	path := filepath.Join(dir, "alarms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(alarmScript, value)), 0o644))
	return path
}

func setup(t *testing.T) *bytes.Buffer {
	t.Helper()
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	t.Cleanup(func() {
		cfg = nil
		operationID = ""
	})
	return &bytes.Buffer{}
}

func newCmd(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	return cmd
}

func TestRunScript_Text(t *testing.T) {
	out := setup(t)
	path := writeScript(t, t.TempDir(), "07:30")

	require.NoError(t, runScript(newCmd(out), []string{path}))
	assert.Contains(t, out.String(), "0.0 time_input")
	assert.Contains(t, out.String(), "value=07:30")
}

func TestRunScript_JSON(t *testing.T) {
	out := setup(t)
	cfg.Renderer = "json"
	path := writeScript(t, t.TempDir(), "07:30")

	require.NoError(t, runScript(newCmd(out), []string{path}))
	assert.Contains(t, out.String(), `"value": "07:30"`)
}

func TestRunScript_SQLiteSessionResumes(t *testing.T) {
	out := setup(t)
	dir := t.TempDir()
	cfg.Session = config.SessionConfig{
		Store: config.StoreSQLite,
		Path:  filepath.Join(dir, "state", "formstate.db"),
		ID:    "resume-me",
	}

	require.NoError(t, runScript(newCmd(out), []string{writeScript(t, dir, "07:30")}))
	assert.Contains(t, out.String(), "value=07:30")

	// stored state wins over the changed default
	out.Reset()
	require.NoError(t, runScript(newCmd(out), []string{writeScript(t, dir, "09:00")}))
	assert.Contains(t, out.String(), "value=07:30")

	// a new session starts from the declared default
	out.Reset()
	cfg.Session.ID = "fresh"
	require.NoError(t, runScript(newCmd(out), []string{writeScript(t, dir, "09:00")}))
	assert.Contains(t, out.String(), "value=09:00")
}

func TestRunScript_ScriptErrorStillPrintsRecords(t *testing.T) {
	out := setup(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nodes:\n  - type: time_input\n    label: x\n    step: 30\n"), 0o644))

	err := runScript(newCmd(out), []string{path})
	assert.ErrorContains(t, err, "script failed")
	assert.Contains(t, out.String(), "exception type=StepOutOfRange")
}

func TestRunScript_MissingFile(t *testing.T) {
	out := setup(t)
	assert.Error(t, runScript(newCmd(out), []string{filepath.Join(t.TempDir(), "none.yaml")}))
}

func TestRunOpenAPI(t *testing.T) {
	out := setup(t)
	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
openapi: 3.0.3
info: {title: Alarms, version: "1"}
paths:
  /alarms:
    post:
      operationId: createAlarm
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                wake: {type: string, format: time, default: "06:15"}
      responses:
        "201": {description: created}
`), 0o644))

	operationID = "createAlarm"
	require.NoError(t, runOpenAPI(newCmd(out), []string{path}))
	assert.Contains(t, out.String(), `label="wake" value=06:15`)

	operationID = "missing"
	assert.Error(t, runOpenAPI(newCmd(out), []string{path}))
}
