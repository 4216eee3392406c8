// Package meta validates the combined CI and repository context after
// resolution, backfilling the branch from the repo when CI left it empty.
package meta

import (
	"github.com/trunk-io/analytics-cli/internal/domain/ci"
	"github.com/trunk-io/analytics-cli/internal/domain/fields"
	"github.com/trunk-io/analytics-cli/internal/domain/repo"
	"github.com/trunk-io/analytics-cli/internal/domain/validation"
)

// Context is the enriched CI context used for upload metadata.
type Context struct {
	CIInfo ci.CIInfo `json:"ci_info"`
}

// NewContext copies info and fills any empty identity fields from the repo
// snapshot. A branch adopted from the repo is cleaned and reclassified.
func NewContext(info *ci.CIInfo, bundle *repo.BundleRepo, stableBranches []string) Context {
	enriched := *info

	if enriched.Branch == "" && bundle != nil {
		enriched.Branch = ci.CleanBranch(bundle.HeadBranch)
		enriched.BranchClass = ci.Classify(enriched.Branch, stableBranches)
	}
	if bundle != nil {
		if enriched.Actor == "" {
			enriched.Actor = bundle.HeadAuthorEmail
		}
		if enriched.CommitMessage == "" {
			enriched.CommitMessage = bundle.HeadCommitMessage
		}
		if enriched.CommitterName == "" {
			enriched.CommitterName = bundle.HeadAuthorName
		}
		if enriched.CommitterEmail == "" {
			enriched.CommitterEmail = bundle.HeadAuthorEmail
		}
		if enriched.AuthorName == "" {
			enriched.AuthorName = bundle.HeadAuthorName
		}
		if enriched.AuthorEmail == "" {
			enriched.AuthorEmail = bundle.HeadAuthorEmail
		}
	}

	return Context{CIInfo: enriched}
}

// Validate builds the enriched context and grades it. The branch must be
// non-empty after enrichment; whether it matches a stable branch does not
// change the level.
func Validate(info *ci.CIInfo, bundle *repo.BundleRepo, stableBranches []string) (Context, *validation.Result) {
	ctx := NewContext(info, bundle, stableBranches)
	result := &validation.Result{}
	enriched := &ctx.CIInfo

	switch check, _ := fields.CheckLen(enriched.Actor, fields.MaxFieldLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "CI info actor too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "CI info actor too long, truncated to 1000")
	}

	switch check, _ := fields.CheckLen(enriched.AuthorEmail, fields.MaxEmailLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "CI info author email too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "CI info author email too long, truncated to 254")
	}

	switch check, _ := fields.CheckLen(enriched.AuthorName, fields.MaxFieldLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "CI info author name too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "CI info author name too long, truncated to 1000")
	}

	switch check, _ := fields.CheckLen(enriched.Branch, fields.MaxBranchNameLen); check {
	case fields.LenTooShort:
		result.Add(validation.Invalid, "CI info branch name too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "CI info branch name too long, truncated to 36")
	}

	switch check, _ := fields.CheckLen(enriched.CommitMessage, fields.MaxFieldLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "CI info commit message too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "CI info commit message too long, truncated to 1000")
	}

	switch check, _ := fields.CheckLen(enriched.CommitterEmail, fields.MaxEmailLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "CI info committer email too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "CI info committer email too long, truncated to 254")
	}

	switch check, _ := fields.CheckLen(enriched.CommitterName, fields.MaxFieldLen); check {
	case fields.LenTooShort:
		result.Add(validation.SubOptimal, "CI info committer name too short")
	case fields.LenTooLong:
		result.Add(validation.SubOptimal, "CI info committer name too long, truncated to 1000")
	}

	return ctx, result
}
