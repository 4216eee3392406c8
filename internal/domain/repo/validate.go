package repo

import (
	"time"

	"github.com/trunk-io/analytics-cli/internal/domain/fields"
	"github.com/trunk-io/analytics-cli/internal/domain/validation"
)

const (
	timestampOldDays    = 30
	timestampStaleHours = 1
)

// Validate grades the bundled repository snapshot. Commit freshness is
// judged relative to now.
func Validate(bundle *BundleRepo, now time.Time) *validation.Result {
	result := &validation.Result{}

	switch check, _ := fields.CheckLen(bundle.HeadAuthorEmail, fields.MaxEmailLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "repo head commit author email too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "repo head commit author email too long, truncated to 254")
	}

	switch check, _ := fields.CheckLen(bundle.HeadAuthorName, fields.MaxFieldLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "repo head commit author name too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "repo head commit author name too long, truncated to 1000")
	}

	switch check, _ := fields.CheckLen(bundle.HeadBranch, fields.MaxBranchNameLen); check {
	case fields.LenTooShort:
		result.Add(validation.Invalid, "repo branch name too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "repo head branch name too long, truncated to 36")
	}

	switch check, _ := fields.CheckLen(bundle.HeadCommitMessage, fields.MaxFieldLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "repo head commit message too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "repo head commit message too long, truncated to 1000")
	}

	switch check, _ := fields.CheckLen(bundle.HeadSHA, fields.MaxShaFieldLen); check {
	case fields.LenTooShort:
		result.Add(validation.Invalid, "repo sha too short")
	case fields.LenTooLong:
		result.Add(validation.Invalid, "repo sha too long, truncated to 40")
	}

	commitTime := time.Unix(bundle.HeadCommitEpoch, 0)
	age := now.Sub(commitTime)
	switch {
	case commitTime.After(now):
		result.Add(validation.SubOptimal, "repo head commit has future timestamp")
	case age > timestampOldDays*24*time.Hour:
		result.Add(validation.SubOptimal, "repo head commit has old (> 30 day(s)) timestamp")
	case age > timestampStaleHours*time.Hour:
		result.Add(validation.SubOptimal, "repo head commit has stale (> 1 hour(s)) timestamp")
	}

	return result
}
