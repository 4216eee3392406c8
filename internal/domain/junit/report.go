// Package junit defines the canonical in-memory model for ingested test
// reports and the validation engine that grades them.
package junit

import "time"

// Timestamp keeps whole seconds and sub-second microseconds separately so
// that sub-second precision survives serialization. Both components come
// from the same source instant.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Micros  int32 `json:"micros"`
}

// NewTimestamp splits t into epoch seconds and sub-second microseconds.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{
		Seconds: t.Unix(),
		Micros:  int32(t.Nanosecond() / 1000),
	}
}

func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Micros)*1000).UTC()
}

// StatusKind discriminates Status. Skipped tests are tracked only through
// the suite and report counters, never as a per-case status.
type StatusKind int

const (
	StatusSuccess StatusKind = iota
	StatusNonSuccess
)

// NonSuccessKind discriminates the two non-success outcomes.
type NonSuccessKind int

const (
	NonSuccessFailure NonSuccessKind = iota
	NonSuccessError
)

// Status is the outcome of a single test case.
type Status struct {
	Kind       StatusKind  `json:"kind"`
	NonSuccess *NonSuccess `json:"non_success,omitempty"`
}

// NonSuccess carries the detail of a failed or errored case.
type NonSuccess struct {
	Kind        NonSuccessKind `json:"kind"`
	Message     string         `json:"message,omitempty"`
	Description string         `json:"description,omitempty"`
}

func SuccessStatus() Status {
	return Status{Kind: StatusSuccess}
}

func FailureStatus(message, description string) Status {
	return Status{
		Kind:       StatusNonSuccess,
		NonSuccess: &NonSuccess{Kind: NonSuccessFailure, Message: message, Description: description},
	}
}

func ErrorStatus(message, description string) Status {
	return Status{
		Kind:       StatusNonSuccess,
		NonSuccess: &NonSuccess{Kind: NonSuccessError, Message: message, Description: description},
	}
}

// BuildResult is the outcome reported by an external build system for the
// target that produced a report.
type BuildResult int

const (
	BuildResultUnknown BuildResult = iota
	BuildResultPassed
	BuildResultFailed
)

// BuildInfo describes the build-system target a report came from, e.g. a
// Bazel test label and its result.
type BuildInfo struct {
	Label  string      `json:"label"`
	Result BuildResult `json:"result"`
}

// TestCase is a single executed test. Counters on the enclosing suite and
// report are advisory; the case list is authoritative.
type TestCase struct {
	Name       string     `json:"name"`
	Classname  string     `json:"classname,omitempty"`
	File       string     `json:"file,omitempty"`
	ID         string     `json:"id,omitempty"`
	Line       *int       `json:"line,omitempty"`
	Assertions *int       `json:"assertions,omitempty"`
	Time       *float64   `json:"time,omitempty"`
	Timestamp  *Timestamp `json:"timestamp,omitempty"`
	Status     Status     `json:"status"`
}

type TestSuite struct {
	Name      string     `json:"name"`
	ID        string     `json:"id,omitempty"`
	Tests     int        `json:"tests"`
	Failures  int        `json:"failures"`
	Errors    int        `json:"errors"`
	Skipped   int        `json:"skipped"`
	Time      *float64   `json:"time,omitempty"`
	Timestamp *Timestamp `json:"timestamp,omitempty"`
	TestCases []TestCase `json:"test_cases"`
}

// Report is one ingested test report. Variant is empty when the report has
// no variant label.
type Report struct {
	Name       string      `json:"name"`
	Tests      int         `json:"tests"`
	Failures   int         `json:"failures"`
	Errors     int         `json:"errors"`
	Skipped    int         `json:"skipped"`
	Time       *float64    `json:"time,omitempty"`
	Timestamp  *Timestamp  `json:"timestamp,omitempty"`
	Variant    string      `json:"variant,omitempty"`
	Build      *BuildInfo  `json:"build,omitempty"`
	TestSuites []TestSuite `json:"test_suites"`
}
