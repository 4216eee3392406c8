package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trunk-io/analytics-cli/internal/adapters/inbound/cli"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := cli.NewRootCmdForTest()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validReportXML = `<testsuites name="nightly">
  <testsuite name="pkg/server" time="1.5">
    <testcase name="TestOk" classname="server" file="server_test.go"/>
  </testsuite>
</testsuites>`

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "trunk-analytics")
}

func TestValidateCommand_JSON(t *testing.T) {
	path := writeReport(t, validReportXML)

	out, err := runCommand(t, "validate", path, "--json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "reports")
}

func TestValidateCommand_InvalidReportFails(t *testing.T) {
	path := writeReport(t, `<testsuites name="run"><testsuite name="s"><testcase name=""/></testsuite></testsuites>`)

	_, err := runCommand(t, "validate", path, "--json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateCommand_MalformedReport(t *testing.T) {
	path := writeReport(t, "<testsuites")

	_, err := runCommand(t, "validate", path)
	assert.Error(t, err)
}

func TestValidateCommand_PartialRunWindowRejected(t *testing.T) {
	path := writeReport(t, validReportXML)

	_, err := runCommand(t, "validate", path, "--run-result", "passed")
	assert.Error(t, err)
}

func TestParseCommand_JSON(t *testing.T) {
	path := writeReport(t, validReportXML)

	out, err := runCommand(t, "parse", path)
	require.NoError(t, err)

	var decoded struct {
		Reports []struct {
			Name string `json:"name"`
		} `json:"reports"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Reports, 1)
	assert.Equal(t, "nightly", decoded.Reports[0].Name)
}

func TestParseCommand_BinaryRoundTrip(t *testing.T) {
	path := writeReport(t, validReportXML)
	binPath := filepath.Join(t.TempDir(), "report.bin")

	out, err := runCommand(t, "parse", path, "--bin", binPath)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	jsonOut, err := runCommand(t, "parse", binPath)
	require.NoError(t, err)
	assert.Contains(t, jsonOut, "nightly")
}

func TestGenerateIDCommand(t *testing.T) {
	out, err := runCommand(t, "generate-id",
		"--org", "trunk-staging-org",
		"--repo", "github.com/trunk-io/trunk",
		"--classname", "modules/settings/repoName/__tests__/ticketing-integration.vitest.tsx",
		"--parent-path", "modules/settings/repoName/__tests__/ticketing-integration.vitest.tsx",
		"--name", "Ticketing Integration > should allow you to select a ticketing system",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "3f507aef-e834-523b-a8ad-edaba6b137be")
}

func TestGenerateIDCommand_RequiresName(t *testing.T) {
	_, err := runCommand(t, "generate-id", "--org", "o", "--repo", "r")
	assert.Error(t, err)
}

func TestContextCommandExists(t *testing.T) {
	out, err := runCommand(t, "context", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "CI platform")
}

func TestMCPCommandExists(t *testing.T) {
	_, err := runCommand(t, "mcp", "--help")
	assert.NoError(t, err)
}

func TestMCPServeCommandExists(t *testing.T) {
	_, err := runCommand(t, "mcp", "serve", "--help")
	assert.NoError(t, err)
}
