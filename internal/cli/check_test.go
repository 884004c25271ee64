package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePrefixTable(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefixes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	return path
}

func TestCheckReportsVariables(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-e", `and(triple($S, "rdf:type", "ex:Person"), triple($S, "ex:name", $Name))`})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Variables: S, Name")
	assert.Contains(t, buf.String(), "Node references: 3")
}

func TestCheckJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-e", `triple($X, "p", $X)`})

	require.NoError(t, cmd.Execute())

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"X"}, data["variables"])
}

func TestCheckKnownPrefixes(t *testing.T) {
	path := writePrefixTable(t, "prefixes:\n  rdf: \"http://www.w3.org/1999/02/22-rdf-syntax-ns#\"\n  ex: \"http://example.org/\"\n")

	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-e", `triple($S, "rdf:type", "ex:Person")`, "--prefixes", path})

	require.NoError(t, cmd.Execute())
	assert.NotContains(t, buf.String(), "Unknown prefixes")
}

func TestCheckUnknownPrefixFails(t *testing.T) {
	path := writePrefixTable(t, "prefixes:\n  rdf: \"http://www.w3.org/1999/02/22-rdf-syntax-ns#\"\n")

	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-e", `triple($S, "rdf:type", "ex:Person")`, "--prefixes", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "ex:Person")
}

func TestCheckMissingPrefixTable(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-e", `triple($S, $P, $O)`, "--prefixes", filepath.Join(t.TempDir(), "missing.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheckSchema(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-e", `limit(10, triple($X, "p", $Y))`, "--schema"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Schema: ok")
}

func TestCheckParseErrorOffset(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-e", `foo($X, $Y)`})

	err := cmd.Execute()
	require.Error(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeUnknownOp, resp.Error.Code)
}
