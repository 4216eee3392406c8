package ci

import (
	"github.com/trunk-io/analytics-cli/internal/domain/fields"
	"github.com/trunk-io/analytics-cli/internal/domain/validation"
)

// Validate grades a resolved CIInfo. An empty branch is the only Invalid
// finding; every other short or oversized field is SubOptimal.
func Validate(info *CIInfo) *validation.Result {
	result := &validation.Result{}

	switch check, _ := fields.CheckLen(info.Actor, fields.MaxFieldLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "CI info actor too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "CI info actor too long, truncated to 1000")
	}

	switch check, _ := fields.CheckLen(info.AuthorEmail, fields.MaxEmailLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "CI info author email too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "CI info author email too long, truncated to 254")
	}

	switch check, _ := fields.CheckLen(info.AuthorName, fields.MaxFieldLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "CI info author name too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "CI info author name too long, truncated to 1000")
	}

	switch check, _ := fields.CheckLen(info.Branch, fields.MaxBranchNameLen); check {
	case fields.LenTooShort:
		result.Add(validation.Invalid, "CI info branch name too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "CI info branch name too long, truncated to 36")
	}

	switch check, _ := fields.CheckLen(info.CommitMessage, fields.MaxFieldLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "CI info commit message too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "CI info commit message too long, truncated to 1000")
	}

	switch check, _ := fields.CheckLen(info.CommitterEmail, fields.MaxEmailLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "CI info committer email too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "CI info committer email too long, truncated to 254")
	}

	switch check, _ := fields.CheckLen(info.CommitterName, fields.MaxFieldLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "CI info committer name too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "CI info committer name too long, truncated to 1000")
	}

	switch check, _ := fields.CheckLen(info.JobURL, fields.MaxFieldLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "CI info job URL too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "CI info job URL too long, truncated to 1000")
	}

	return result
}
