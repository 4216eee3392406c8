package binreport_test

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trunk-io/analytics-cli/internal/adapters/outbound/binreport"
	"github.com/trunk-io/analytics-cli/internal/domain/junit"
)

func sampleReport() *junit.Report {
	duration := 1.25
	line := 12
	ts := junit.NewTimestamp(time.Date(2023, 5, 6, 7, 8, 9, 123456000, time.UTC))
	return &junit.Report{
		Name:      "ci-run",
		Tests:     2,
		Failures:  1,
		Time:      &duration,
		Timestamp: &ts,
		Variant:   "linux-x86",
		Build:     &junit.BuildInfo{Label: "//pkg:server_test", Result: junit.BuildResultFailed},
		TestSuites: []junit.TestSuite{
			{
				Name:     "pkg/server",
				ID:       "a6e84936-3ee9-57d5-b041-ae124896f654",
				Tests:    2,
				Failures: 1,
				TestCases: []junit.TestCase{
					{
						Name:      "TestOk",
						Classname: "server",
						File:      "server_test.go",
						Line:      &line,
						Status:    junit.SuccessStatus(),
					},
					{
						Name:   "TestBoom",
						Status: junit.FailureStatus("assertion failed", "expected 200, got 500"),
					},
				},
			},
		},
	}
}

func TestRoundTrip_CurrentVersion(t *testing.T) {
	original := sampleReport()

	data, err := binreport.Encode(original, binreport.CurrentVersion)
	require.NoError(t, err)

	decoded, err := binreport.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestRoundTrip_CoreVersionDropsVariantAndBuild(t *testing.T) {
	original := sampleReport()

	data, err := binreport.Encode(original, binreport.VersionCore)
	require.NoError(t, err)

	decoded, err := binreport.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "", decoded.Variant)
	assert.Nil(t, decoded.Build)
	assert.Equal(t, original.Name, decoded.Name)
	assert.Equal(t, original.TestSuites, decoded.TestSuites)
}

func TestDecode_EmptyVariantStaysEmpty(t *testing.T) {
	report := sampleReport()
	report.Variant = ""
	report.Build = nil

	data, err := binreport.Encode(report, binreport.VersionVariant)
	require.NoError(t, err)

	decoded, err := binreport.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "", decoded.Variant)
	assert.Nil(t, decoded.Build)
}

func TestDecode_UnknownVersionFails(t *testing.T) {
	_, err := binreport.Decode([]byte{99})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported payload version 99")
}

func TestDecode_TruncatedPayloadFails(t *testing.T) {
	data, err := binreport.Encode(sampleReport(), binreport.CurrentVersion)
	require.NoError(t, err)

	for _, cut := range []int{0, 1, len(data) / 2, len(data) - 1} {
		_, err := binreport.Decode(data[:cut])
		assert.Error(t, err, "payload cut to %d bytes should fail", cut)
	}
}

func TestDecodeAll_MultipleRecords(t *testing.T) {
	first := sampleReport()
	second := sampleReport()
	second.Name = "ci-run-retry"
	second.Variant = "linux-arm64"

	data, err := binreport.Encode(first, binreport.CurrentVersion)
	require.NoError(t, err)
	more, err := binreport.Encode(second, binreport.CurrentVersion)
	require.NoError(t, err)
	data = append(data, more...)

	decoded, err := binreport.DecodeAll(data)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, *first, decoded[0])
	assert.Equal(t, *second, decoded[1])
}

func TestDecodeAll_EmptyPayloadYieldsNoReports(t *testing.T) {
	decoded, err := binreport.DecodeAll(nil)

	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeAll_TruncatedSecondRecordFailsWholeCall(t *testing.T) {
	data, err := binreport.Encode(sampleReport(), binreport.CurrentVersion)
	require.NoError(t, err)

	payload := append(append([]byte{}, data...), data[:len(data)-1]...)

	_, err = binreport.DecodeAll(payload)
	assert.Error(t, err)
}

func TestDecode_TrailingRecordFails(t *testing.T) {
	data, err := binreport.Encode(sampleReport(), binreport.CurrentVersion)
	require.NoError(t, err)

	_, err = binreport.Decode(append(append([]byte{}, data...), data...))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a single report, got 2")
}

func TestDecode_MicrosOutOfRangeFails(t *testing.T) {
	payload := binary.AppendUvarint(nil, binreport.VersionCore)
	payload = binary.AppendUvarint(payload, 0) // name
	payload = binary.AppendUvarint(payload, 0) // tests
	payload = binary.AppendUvarint(payload, 0) // failures
	payload = binary.AppendUvarint(payload, 0) // errors
	payload = binary.AppendUvarint(payload, 0) // skipped
	payload = binary.AppendUvarint(payload, 0) // no time
	payload = binary.AppendUvarint(payload, 1) // timestamp present
	payload = binary.AppendVarint(payload, 1683356889)
	payload = binary.AppendUvarint(payload, 1_000_000)
	payload = binary.AppendUvarint(payload, 0) // suites

	_, err := binreport.Decode(payload)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp micros out of range")
}

func TestEncode_UnknownVersionFails(t *testing.T) {
	_, err := binreport.Encode(sampleReport(), 3)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported payload version 3")
}
