// Package junitxml decodes JUnit-style XML documents into report values.
// It accepts the dialects seen in the wild: aggregated <testsuites> roots,
// bare <testsuite> roots, nested suites and multiple root elements.
package junitxml

import (
	"strconv"

	"github.com/trunk-io/analytics-cli/internal/domain/fields"
	"github.com/trunk-io/analytics-cli/internal/domain/junit"
)

const maxTextFieldSize = 8000

const (
	tagReport     = "testsuites"
	tagSuite      = "testsuite"
	tagCase       = "testcase"
	tagFailure    = "failure"
	tagError      = "error"
	tagSkipped    = "skipped"
	tagSystemOut  = "system-out"
	tagSystemErr  = "system-err"
	tagStackTrace = "stackTrace"
)

// rerun elements carry their own text payloads that must not bleed into a
// test case description.
var suppressedTags = map[string]bool{
	tagSystemOut:   true,
	tagSystemErr:   true,
	tagStackTrace:  true,
	"rerunFailure": true,
	"rerunError":   true,
	"flakyFailure": true,
	"flakyError":   true,
}

const issueNoReports = "no reports found"

// Parser decodes one XML document into zero or more reports. Non-fatal
// findings (missing names, misplaced tags, empty input) accumulate as
// issues; only malformed XML aborts the parse.
type Parser struct {
	dates   dateParser
	reports []junit.Report
	issues  []string

	report        *junit.Report
	suites        []junit.TestSuite
	testCase      *junit.TestCase
	inStatus      bool
	suppressDepth int
}

func New() *Parser {
	return &Parser{}
}

// Decode is a convenience wrapper around Parser for one-shot use.
func Decode(data []byte) ([]junit.Report, []string, error) {
	p := New()
	if err := p.Parse(data); err != nil {
		return nil, nil, err
	}
	return p.Reports(), p.Issues(), nil
}

func (p *Parser) Reports() []junit.Report {
	return p.reports
}

func (p *Parser) Issues() []string {
	return p.issues
}

func (p *Parser) Parse(data []byte) error {
	tok := newTokenizer(data)
	for {
		event, err := tok.next()
		if err != nil {
			return err
		}
		if event.kind == eventEOF {
			break
		}
		p.handle(&event)
	}

	if len(p.reports) == 0 {
		p.issues = append(p.issues, issueNoReports)
	}

	return nil
}

func (p *Parser) handle(e *xmlEvent) {
	switch e.kind {
	case eventStart, eventEmpty:
		p.handleOpen(e)
		if e.kind == eventEmpty {
			p.handleClose(e.name)
		}
	case eventEnd:
		p.handleClose(e.name)
	case eventText:
		p.handleText(unescape(e.text))
	case eventCData:
		p.handleText(e.text)
	}
}

func (p *Parser) handleOpen(e *xmlEvent) {
	switch e.name {
	case tagReport:
		p.openReport(e)
	case tagSuite:
		p.openSuite(e)
	case tagCase:
		p.openCase(e)
	case tagFailure, tagError:
		p.setStatus(e)
		if e.kind == eventStart {
			p.inStatus = true
		}
	case tagSkipped:
		// Skipped cases keep a success status; only counters track them.
	default:
		if suppressedTags[e.name] && e.kind == eventStart {
			p.suppressDepth++
		}
	}
}

func (p *Parser) handleClose(name string) {
	switch name {
	case tagReport:
		p.closeReport()
	case tagSuite:
		p.closeSuite()
	case tagCase:
		p.closeCase()
	case tagFailure, tagError:
		p.inStatus = false
	case tagSkipped:
	default:
		if suppressedTags[name] && p.suppressDepth > 0 {
			p.suppressDepth--
		}
	}
}

func (p *Parser) handleText(text string) {
	if p.suppressDepth > 0 {
		return
	}
	if p.testCase != nil && p.inStatus && p.testCase.Status.NonSuccess != nil {
		p.testCase.Status.NonSuccess.Description = fields.Truncate(text, maxTextFieldSize)
	}
}

func (p *Parser) openReport(e *xmlEvent) {
	name, _ := p.stringAttr(e, "name")
	if name == "" {
		p.issues = append(p.issues, "could not parse report name")
	}

	report := junit.Report{Name: name}
	report.Timestamp = p.timestampAttr(e)
	report.Time = floatAttr(e, "time")
	report.Tests = intAttr(e, "tests")
	report.Failures = intAttr(e, "failures")
	report.Errors = intAttr(e, "errors")
	report.Skipped = intAttr(e, "skipped")

	p.report = &report
}

func (p *Parser) closeReport() {
	if p.report == nil {
		p.issues = append(p.issues, "report end tag found without start tag")
		return
	}
	p.reports = append(p.reports, *p.report)
	p.report = nil
}

func (p *Parser) openSuite(e *xmlEvent) {
	name, _ := p.stringAttr(e, "name")
	if name == "" {
		p.issues = append(p.issues, "could not parse test suite name")
	}

	suite := junit.TestSuite{Name: name}
	suite.Timestamp = p.timestampAttr(e)
	suite.Time = floatAttr(e, "time")
	suite.Tests = intAttr(e, "tests")
	suite.Failures = intAttr(e, "failures")
	suite.Errors = intAttr(e, "errors")
	suite.Skipped = intAttr(e, "skipped")
	suite.ID, _ = p.stringAttr(e, "id")

	p.suites = append(p.suites, suite)
}

// closeSuite pops the innermost suite. Nested suites collapse into their
// parent: the outermost non-empty name wins and test cases concatenate in
// document order. A suite closing outside a <testsuites> root becomes its
// own report.
func (p *Parser) closeSuite() {
	if len(p.suites) == 0 {
		p.issues = append(p.issues, "test suite end tag found without start tag")
		return
	}

	suite := p.suites[len(p.suites)-1]
	p.suites = p.suites[:len(p.suites)-1]

	if len(p.suites) > 0 {
		parent := &p.suites[len(p.suites)-1]
		if parent.Name == "" {
			parent.Name = suite.Name
		}
		if parent.ID == "" {
			parent.ID = suite.ID
		}
		if parent.Timestamp == nil {
			parent.Timestamp = suite.Timestamp
		}
		if parent.Time == nil {
			parent.Time = suite.Time
		}
		parent.Tests += suite.Tests
		parent.Failures += suite.Failures
		parent.Errors += suite.Errors
		parent.Skipped += suite.Skipped
		parent.TestCases = append(parent.TestCases, suite.TestCases...)
		return
	}

	if p.report != nil {
		p.report.TestSuites = append(p.report.TestSuites, suite)
		return
	}

	p.reports = append(p.reports, junit.Report{
		Name:       suite.Name,
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Errors:     suite.Errors,
		Skipped:    suite.Skipped,
		Time:       suite.Time,
		Timestamp:  suite.Timestamp,
		TestSuites: []junit.TestSuite{suite},
	})
}

func (p *Parser) openCase(e *xmlEvent) {
	if len(p.suites) == 0 {
		p.issues = append(p.issues, "test case found without a test suite found")
		return
	}

	name, _ := p.stringAttr(e, "name")
	if name == "" {
		p.issues = append(p.issues, "could not parse test case name")
	}

	testCase := junit.TestCase{Name: name, Status: junit.SuccessStatus()}
	testCase.Timestamp = p.timestampAttr(e)
	testCase.Time = floatAttr(e, "time")
	testCase.Classname, _ = p.stringAttr(e, "classname")
	testCase.ID, _ = p.stringAttr(e, "id")

	if file, ok := p.stringAttr(e, "file"); ok {
		testCase.File = file
	} else if filepath, ok := p.stringAttr(e, "filepath"); ok {
		testCase.File = filepath
	}
	if line := intAttrPtr(e, "line"); line != nil {
		testCase.Line = line
	}
	if assertions := intAttrPtr(e, "assertions"); assertions != nil {
		testCase.Assertions = assertions
	}

	p.testCase = &testCase
}

func (p *Parser) closeCase() {
	if p.testCase == nil {
		p.issues = append(p.issues, "test case end tag found without start tag")
		return
	}
	suite := &p.suites[len(p.suites)-1]
	suite.TestCases = append(suite.TestCases, *p.testCase)
	p.testCase = nil
}

func (p *Parser) setStatus(e *xmlEvent) {
	if p.testCase == nil {
		p.issues = append(p.issues, "test case status found without a test case found")
		return
	}
	message, _ := p.stringAttr(e, "message")
	if e.name == tagFailure {
		p.testCase.Status = junit.FailureStatus(message, "")
	} else {
		p.testCase.Status = junit.ErrorStatus(message, "")
	}
}

func (p *Parser) stringAttr(e *xmlEvent, name string) (string, bool) {
	value, ok := e.attr(name)
	if !ok {
		return "", false
	}
	return fields.Truncate(value, maxTextFieldSize), true
}

func (p *Parser) timestampAttr(e *xmlEvent) *junit.Timestamp {
	value, ok := e.attr("timestamp")
	if !ok {
		return nil
	}
	t, ok := p.dates.parse(value)
	if !ok {
		return nil
	}
	ts := junit.NewTimestamp(t)
	return &ts
}

func floatAttr(e *xmlEvent, name string) *float64 {
	value, ok := e.attr(name)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

func intAttr(e *xmlEvent, name string) int {
	value, ok := e.attr(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func intAttrPtr(e *xmlEvent, name string) *int {
	value, ok := e.attr(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}
