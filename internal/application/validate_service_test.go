package application_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trunk-io/analytics-cli/internal/adapters/outbound/binreport"
	"github.com/trunk-io/analytics-cli/internal/application"
	"github.com/trunk-io/analytics-cli/internal/domain/junit"
	"github.com/trunk-io/analytics-cli/internal/domain/validation"
)

var testNow = time.Date(2023, 1, 2, 15, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func freshXML() string {
	return fmt.Sprintf(`<testsuites name="run" timestamp=%q>
  <testsuite name="pkg/server" time="1.5">
    <testcase name="TestOk" classname="server" file="server_test.go"/>
  </testsuite>
</testsuites>`, testNow.Add(-time.Hour).Format(time.RFC3339))
}

func TestValidateXML_FreshReportIsValid(t *testing.T) {
	svc := application.NewValidateService(fixedClock)

	outcome, err := svc.ValidateXML([]byte(freshXML()), nil)
	require.NoError(t, err)

	require.Len(t, outcome.Reports, 1)
	assert.Empty(t, outcome.ParseIssues)
	assert.Equal(t, validation.Valid, outcome.MaxLevel())
}

func TestValidateXML_MissingTimestampIsSubOptimal(t *testing.T) {
	input := `<testsuites name="run">
  <testsuite name="s" time="1">
    <testcase name="TestOk" classname="s" file="a_test.go"/>
  </testsuite>
</testsuites>`
	svc := application.NewValidateService(fixedClock)

	outcome, err := svc.ValidateXML([]byte(input), nil)
	require.NoError(t, err)

	assert.Equal(t, validation.SubOptimal, outcome.MaxLevel())
	rv := outcome.Reports[0].Validation
	assert.Equal(t, 1, rv.NumIssuesAt(validation.SubOptimal))
}

func TestValidateXML_MalformedInputFails(t *testing.T) {
	svc := application.NewValidateService(fixedClock)

	_, err := svc.ValidateXML([]byte("<testsuites"), nil)
	assert.Error(t, err)
}

func TestValidateXML_NoReportsIsInvalid(t *testing.T) {
	svc := application.NewValidateService(fixedClock)

	outcome, err := svc.ValidateXML([]byte("   "), nil)
	require.NoError(t, err)

	assert.Empty(t, outcome.Reports)
	assert.Contains(t, outcome.ParseIssues, "no reports found")
	assert.Equal(t, validation.Invalid, outcome.MaxLevel())
}

func TestValidateXML_RunWindowSuppressesStaleness(t *testing.T) {
	stale := testNow.Add(-30 * time.Hour)
	input := fmt.Sprintf(`<testsuites name="run" timestamp=%q>
  <testsuite name="s" time="1">
    <testcase name="TestOk" classname="s" file="a_test.go"/>
  </testsuite>
</testsuites>`, stale.Format(time.RFC3339))
	window := &junit.RunWindow{
		Result:     junit.RunPassed,
		StartedAt:  stale.Add(-time.Minute),
		FinishedAt: stale.Add(time.Minute),
	}
	svc := application.NewValidateService(fixedClock)

	outcome, err := svc.ValidateXML([]byte(input), window)
	require.NoError(t, err)
	assert.Equal(t, validation.Valid, outcome.MaxLevel())
}

func TestValidateBinary_RoundTrip(t *testing.T) {
	ts := junit.NewTimestamp(testNow.Add(-time.Hour))
	duration := 1.5
	report := &junit.Report{
		Name:      "run",
		Timestamp: &ts,
		TestSuites: []junit.TestSuite{
			{
				Name: "pkg/server",
				Time: &duration,
				TestCases: []junit.TestCase{
					{Name: "TestOk", File: "server_test.go", Classname: "server", Status: junit.SuccessStatus()},
				},
			},
		},
	}
	data, err := binreport.Encode(report, binreport.CurrentVersion)
	require.NoError(t, err)

	svc := application.NewValidateService(fixedClock)
	outcome, err := svc.ValidateBinary(data, nil)
	require.NoError(t, err)

	require.Len(t, outcome.Reports, 1)
	assert.Equal(t, "run", outcome.Reports[0].Report.Name)
	assert.Equal(t, validation.Valid, outcome.MaxLevel())
}

func TestValidateFile_DispatchesOnContent(t *testing.T) {
	dir := t.TempDir()
	svc := application.NewValidateService(fixedClock)

	xmlPath := filepath.Join(dir, "report.xml")
	require.NoError(t, os.WriteFile(xmlPath, []byte(freshXML()), 0644))

	outcome, err := svc.ValidateFile(xmlPath, nil)
	require.NoError(t, err)
	assert.Equal(t, validation.Valid, outcome.MaxLevel())

	report := &outcome.Reports[0].Report
	data, err := binreport.Encode(report, binreport.CurrentVersion)
	require.NoError(t, err)
	binPath := filepath.Join(dir, "report.bin")
	require.NoError(t, os.WriteFile(binPath, data, 0644))

	binOutcome, err := svc.ValidateFile(binPath, nil)
	require.NoError(t, err)
	require.Len(t, binOutcome.Reports, 1)
	assert.Equal(t, "run", binOutcome.Reports[0].Report.Name)
}

func TestValidateFile_MissingFile(t *testing.T) {
	svc := application.NewValidateService(fixedClock)

	_, err := svc.ValidateFile(filepath.Join(t.TempDir(), "nope.xml"), nil)
	assert.Error(t, err)
}
