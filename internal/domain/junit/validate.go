package junit

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trunk-io/analytics-cli/internal/domain/fields"
	"github.com/trunk-io/analytics-cli/internal/domain/validation"
)

const timestampOldHours = 24

const (
	msgSuiteNameTooShort = "test suite name too short"
	msgSuiteNameTooLong  = "test suite name too long, truncated to 1000"
	msgSuiteInvalidID    = "test suite id is not a valid uuidv5"

	msgCaseNameTooShort   = "test case name too short"
	msgCaseNameTooLong    = "test case name too long, truncated to 1000"
	msgCaseFileTooShort   = "test case file or filepath too short"
	msgCaseFileTooLong    = "test case file or filepath too long"
	msgCaseClassTooShort  = "test case classname too short"
	msgCaseClassTooLong   = "test case classname too long, truncated to 1000"
	msgCaseNoTimeDuration = "test case or parent has no time duration"
	msgCaseNoTimestamp    = "test case or parent has no timestamp"
	msgCaseFutureTime     = "test case or parent has future timestamp"
	msgCaseOldTime        = "test case or parent has old (> 24 hour(s)) timestamp"
	msgCaseInvalidID      = "test case id is not a valid uuidv5"

	msgReportFileMissing      = "report has test cases with missing file or filepath"
	msgReportMissingTimestamp = "report has test cases with missing timestamp"
	msgReportFutureTimestamp  = "report has test cases with future timestamp"
	msgReportOldTimestamp     = "report has old (> 24 hour(s)) timestamps"
)

// Scope identifies the node of the report tree an issue belongs to.
type Scope int

const (
	ScopeReport Scope = iota
	ScopeTestSuite
	ScopeTestCase
)

func (s Scope) String() string {
	switch s {
	case ScopeTestSuite:
		return "test_suite"
	case ScopeTestCase:
		return "test_case"
	default:
		return "report"
	}
}

// Issue is one validation finding anchored to a report, suite or case.
type Issue struct {
	Level   validation.Level `json:"level"`
	Scope   Scope            `json:"scope"`
	Message string           `json:"message"`
}

// CaseValidation holds the issues found on one test case.
type CaseValidation struct {
	Level  validation.Level `json:"level"`
	Issues []Issue          `json:"issues"`
}

func (v *CaseValidation) add(level validation.Level, message string) {
	if level > v.Level {
		v.Level = level
	}
	v.Issues = append(v.Issues, Issue{Level: level, Scope: ScopeTestCase, Message: message})
}

// SuiteValidation holds the issues found on one suite and its cases.
type SuiteValidation struct {
	Level     validation.Level `json:"level"`
	Issues    []Issue          `json:"issues"`
	TestCases []CaseValidation `json:"test_cases"`
}

func (v *SuiteValidation) add(level validation.Level, message string) {
	if level > v.Level {
		v.Level = level
	}
	v.Issues = append(v.Issues, Issue{Level: level, Scope: ScopeTestSuite, Message: message})
}

// MaxLevel is the worst level across the suite and its cases.
func (v *SuiteValidation) MaxLevel() validation.Level {
	level := v.Level
	for _, tc := range v.TestCases {
		if tc.Level > level {
			level = tc.Level
		}
	}
	return level
}

// ReportValidation is the issue tree for one report. AllIssues is the
// flattened view: suite and case issues in document order, timestamp and
// missing-file findings lifted to a single report-scoped issue per rule,
// sorted Invalid first and then by message.
type ReportValidation struct {
	Level      validation.Level  `json:"level"`
	TestSuites []SuiteValidation `json:"test_suites"`
	AllIssues  []Issue           `json:"all_issues"`
}

// MaxLevel is the worst level across the whole tree.
func (v *ReportValidation) MaxLevel() validation.Level {
	level := v.Level
	for _, ts := range v.TestSuites {
		if l := ts.MaxLevel(); l > level {
			level = l
		}
	}
	return level
}

// NumIssuesAt counts flattened issues at exactly the given level.
func (v *ReportValidation) NumIssuesAt(level validation.Level) int {
	count := 0
	for _, issue := range v.AllIssues {
		if issue.Level == level {
			count++
		}
	}
	return count
}

// RunResult is the outcome of an externally tracked test run.
type RunResult int

const (
	RunPassed RunResult = iota
	RunFailed
)

// RunWindow is the authoritative start/finish window of the run that
// produced a report. A passed window bracketing a report's timestamps
// vouches for them, suppressing the staleness rule.
type RunWindow struct {
	Result     RunResult
	StartedAt  time.Time
	FinishedAt time.Time
}

func (w *RunWindow) covers(t time.Time) bool {
	return w != nil && w.Result == RunPassed && !t.Before(w.StartedAt) && !t.After(w.FinishedAt)
}

// Validate grades report against the ingestion rules. The window may be
// nil. Timestamps are judged relative to now.
func Validate(report *Report, window *RunWindow, now time.Time) *ReportValidation {
	rv := &ReportValidation{}

	for i := range report.TestSuites {
		suite := &report.TestSuites[i]
		sv := SuiteValidation{}

		switch check, _ := fields.CheckLen(suite.Name, fields.MaxFieldLen); check {
		case fields.LenTooShort:
			sv.add(validation.Invalid, msgSuiteNameTooShort)
		case fields.LenTooLong:
			sv.add(validation.SubOptimal, msgSuiteNameTooLong)
		}

		if suite.ID != "" && !isUUIDv5(suite.ID) {
			sv.add(validation.SubOptimal, msgSuiteInvalidID)
		}

		for j := range suite.TestCases {
			tc := &suite.TestCases[j]
			cv := CaseValidation{}

			switch check, _ := fields.CheckLen(tc.Name, fields.MaxFieldLen); check {
			case fields.LenTooShort:
				cv.add(validation.Invalid, msgCaseNameTooShort)
			case fields.LenTooLong:
				cv.add(validation.SubOptimal, msgCaseNameTooLong)
			}

			if tc.ID != "" && !isUUIDv5(tc.ID) {
				cv.add(validation.SubOptimal, msgCaseInvalidID)
			}

			switch check, _ := fields.CheckLen(tc.File, fields.MaxFieldLen); check {
			case fields.LenTooShort:
				cv.add(validation.SubOptimal, msgCaseFileTooShort)
			case fields.LenTooLong:
				cv.add(validation.SubOptimal, msgCaseFileTooLong)
			}

			switch check, _ := fields.CheckLen(tc.Classname, fields.MaxFieldLen); check {
			case fields.LenTooShort:
				cv.add(validation.SubOptimal, msgCaseClassTooShort)
			case fields.LenTooLong:
				cv.add(validation.SubOptimal, msgCaseClassTooLong)
			}

			if tc.Time == nil && suite.Time == nil && report.Time == nil {
				cv.add(validation.SubOptimal, msgCaseNoTimeDuration)
			}

			if ts := resolveTimestamp(tc, suite, report); ts != nil {
				t := ts.Time()
				switch {
				case t.After(now):
					cv.add(validation.SubOptimal, msgCaseFutureTime)
				case now.Sub(t) > timestampOldHours*time.Hour && !window.covers(t):
					cv.add(validation.SubOptimal, msgCaseOldTime)
				}
			} else {
				cv.add(validation.SubOptimal, msgCaseNoTimestamp)
			}

			sv.TestCases = append(sv.TestCases, cv)
		}

		rv.TestSuites = append(rv.TestSuites, sv)
	}

	rv.deriveAllIssues()

	return rv
}

// liftedToReport maps case-scoped findings that always come in bulk onto a
// single report-scoped issue per rule.
var liftedToReport = map[string]string{
	msgCaseFileTooShort: msgReportFileMissing,
	msgCaseNoTimestamp:  msgReportMissingTimestamp,
	msgCaseFutureTime:   msgReportFutureTimestamp,
	msgCaseOldTime:      msgReportOldTimestamp,
}

func (v *ReportValidation) deriveAllIssues() {
	var flat []Issue
	reportLevel := map[string]validation.Level{}

	for _, sv := range v.TestSuites {
		flat = append(flat, sv.Issues...)
		for _, cv := range sv.TestCases {
			for _, issue := range cv.Issues {
				if msg, ok := liftedToReport[issue.Message]; ok {
					if issue.Level > reportLevel[msg] {
						reportLevel[msg] = issue.Level
					}
					continue
				}
				flat = append(flat, issue)
			}
		}
	}

	for msg, level := range reportLevel {
		if level > v.Level {
			v.Level = level
		}
		flat = append(flat, Issue{Level: level, Scope: ScopeReport, Message: msg})
	}

	sort.SliceStable(flat, func(i, j int) bool {
		a, b := flat[i], flat[j]
		if (a.Level == validation.Invalid) != (b.Level == validation.Invalid) {
			return a.Level == validation.Invalid
		}
		return a.Message < b.Message
	})

	v.AllIssues = flat
}

func resolveTimestamp(tc *TestCase, suite *TestSuite, report *Report) *Timestamp {
	if tc.Timestamp != nil {
		return tc.Timestamp
	}
	if suite.Timestamp != nil {
		return suite.Timestamp
	}
	return report.Timestamp
}

func isUUIDv5(s string) bool {
	id, err := uuid.Parse(s)
	return err == nil && id.Version() == 5
}
