package application

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/trunk-io/analytics-cli/internal/adapters/outbound/binreport"
	"github.com/trunk-io/analytics-cli/internal/adapters/outbound/junitxml"
	"github.com/trunk-io/analytics-cli/internal/domain/junit"
	"github.com/trunk-io/analytics-cli/internal/domain/validation"
)

// ValidateService decodes test report files and grades them against the
// ingestion rules.
type ValidateService struct {
	clock func() time.Time
}

// NewValidateService creates a ValidateService. A nil clock means time.Now.
func NewValidateService(clock func() time.Time) *ValidateService {
	if clock == nil {
		clock = time.Now
	}
	return &ValidateService{clock: clock}
}

// ValidatedReport pairs a decoded report with its validation tree.
type ValidatedReport struct {
	Report     junit.Report            `json:"report"`
	Validation *junit.ReportValidation `json:"validation"`
}

// ValidateOutcome is the result of validating one input file.
type ValidateOutcome struct {
	Reports     []ValidatedReport `json:"reports"`
	ParseIssues []string          `json:"parse_issues,omitempty"`
}

// MaxLevel is the worst level across all reports. An input that decoded to
// zero reports is Invalid.
func (o *ValidateOutcome) MaxLevel() validation.Level {
	if len(o.Reports) == 0 {
		return validation.Invalid
	}
	level := validation.Valid
	for _, r := range o.Reports {
		if l := r.Validation.MaxLevel(); l > level {
			level = l
		}
	}
	return level
}

// ValidateFile reads path and validates its contents, dispatching on the
// payload format: XML documents start with '<', anything else is treated
// as a binary report payload.
func (s *ValidateService) ValidateFile(path string, window *junit.RunWindow) (*ValidateOutcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}
	if looksLikeXML(data) {
		return s.ValidateXML(data, window)
	}
	return s.ValidateBinary(data, window)
}

// ValidateXML decodes a JUnit XML document and validates every report in it.
func (s *ValidateService) ValidateXML(data []byte, window *junit.RunWindow) (*ValidateOutcome, error) {
	reports, issues, err := junitxml.Decode(data)
	if err != nil {
		return nil, err
	}
	return s.validateAll(reports, issues, window), nil
}

// ValidateBinary decodes a binary payload, which may carry several
// concatenated records, and validates every report in it.
func (s *ValidateService) ValidateBinary(data []byte, window *junit.RunWindow) (*ValidateOutcome, error) {
	reports, err := binreport.DecodeAll(data)
	if err != nil {
		return nil, err
	}
	return s.validateAll(reports, nil, window), nil
}

func (s *ValidateService) validateAll(reports []junit.Report, issues []string, window *junit.RunWindow) *ValidateOutcome {
	now := s.clock()
	outcome := &ValidateOutcome{ParseIssues: issues}
	for i := range reports {
		outcome.Reports = append(outcome.Reports, ValidatedReport{
			Report:     reports[i],
			Validation: junit.Validate(&reports[i], window, now),
		})
	}
	return outcome
}

func looksLikeXML(data []byte) bool {
	return strings.HasPrefix(strings.TrimLeft(string(data), " \t\r\n"), "<")
}

// ParseRunWindow builds a RunWindow from string inputs, typically CLI flags
// or tool arguments. All three must be given together; all empty means no
// window. Times are RFC 3339.
func ParseRunWindow(result, startedAt, finishedAt string) (*junit.RunWindow, error) {
	if result == "" && startedAt == "" && finishedAt == "" {
		return nil, nil
	}
	if result == "" || startedAt == "" || finishedAt == "" {
		return nil, fmt.Errorf("run result, started-at and finished-at must be given together")
	}

	window := &junit.RunWindow{}
	switch result {
	case "passed":
		window.Result = junit.RunPassed
	case "failed":
		window.Result = junit.RunFailed
	default:
		return nil, fmt.Errorf("unknown run result %q (want passed or failed)", result)
	}

	var err error
	if window.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return nil, fmt.Errorf("parsing started-at: %w", err)
	}
	if window.FinishedAt, err = time.Parse(time.RFC3339, finishedAt); err != nil {
		return nil, fmt.Errorf("parsing finished-at: %w", err)
	}
	return window, nil
}
