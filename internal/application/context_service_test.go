package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trunk-io/analytics-cli/internal/application"
	"github.com/trunk-io/analytics-cli/internal/domain/ci"
	"github.com/trunk-io/analytics-cli/internal/domain/repo"
	"github.com/trunk-io/analytics-cli/internal/domain/settings"
	"github.com/trunk-io/analytics-cli/internal/domain/validation"
)

type stubSettings struct {
	cfg settings.Settings
	err error
}

func (s stubSettings) Load(string) (settings.Settings, error) {
	return s.cfg, s.err
}

type stubRepos struct {
	bundle *repo.BundleRepo
}

func (s stubRepos) IsGitRepo(string) bool {
	return s.bundle != nil
}

func (s stubRepos) Resolve(string) (*repo.BundleRepo, error) {
	return s.bundle, nil
}

func clonedBundle() *repo.BundleRepo {
	return &repo.BundleRepo{
		Repo:              repo.RepoUrlParts{Host: "github.com", Owner: "example-org", Name: "example-repo"},
		URL:               "https://github.com/example-org/example-repo.git",
		HeadSHA:           "4bf1e1a6a57bbcb16ba7ab069e80b78876e53a27",
		HeadSHAShort:      "4bf1e1a",
		HeadBranch:        "some-branch",
		HeadCommitEpoch:   testNow.Add(-10 * time.Minute).Unix(),
		HeadCommitMessage: "add feature",
		HeadAuthorName:    "Ada Lovelace",
		HeadAuthorEmail:   "ada@example.com",
	}
}

func githubEnv() map[string]string {
	return map[string]string{
		"GITHUB_ACTIONS":    "true",
		"GITHUB_REF":        "refs/heads/main",
		"GITHUB_ACTOR":      "octocat",
		"GITHUB_SHA":        "4bf1e1a6a57bbcb16ba7ab069e80b78876e53a27",
		"GITHUB_WORKFLOW":   "ci",
		"GITHUB_JOB":        "build",
		"GITHUB_REPOSITORY": "example-org/example-repo",
		"GITHUB_RUN_ID":     "42",
	}
}

func TestResolve_GitHubWithClone(t *testing.T) {
	svc := application.NewContextService(stubSettings{}, stubRepos{bundle: clonedBundle()}, fixedClock)

	outcome, err := svc.Resolve(t.TempDir(), githubEnv())
	require.NoError(t, err)

	require.NotNil(t, outcome.CIInfo)
	assert.Equal(t, ci.PlatformGitHubActions, outcome.CIInfo.Platform)
	assert.Equal(t, "main", outcome.CIInfo.Branch)
	assert.Equal(t, ci.BranchProtected, outcome.CIInfo.BranchClass)
	assert.Equal(t, "https://github.com/example-org/example-repo/actions/runs/42", outcome.CIInfo.JobURL)

	require.NotNil(t, outcome.Bundle)
	require.NotNil(t, outcome.CIResult)
	require.NotNil(t, outcome.RepoResult)
	require.NotNil(t, outcome.MetaResult)
	assert.Equal(t, validation.Valid, outcome.MaxLevel())
	assert.Equal(t, "main", outcome.Meta.CIInfo.Branch)
}

func TestResolve_UnknownPlatformStillGradesMeta(t *testing.T) {
	svc := application.NewContextService(stubSettings{}, stubRepos{bundle: clonedBundle()}, fixedClock)

	outcome, err := svc.Resolve(t.TempDir(), map[string]string{})
	require.NoError(t, err)

	assert.Nil(t, outcome.CIInfo)
	assert.Nil(t, outcome.CIResult)
	require.NotNil(t, outcome.MetaResult)
	// Branch backfills from the repo snapshot.
	assert.Equal(t, "some-branch", outcome.Meta.CIInfo.Branch)
}

func TestResolve_SettingsOverridesWinOverClone(t *testing.T) {
	cfg := settings.Settings{}
	cfg.Repo.URL = "https://github.com/other-org/other-repo.git"
	cfg.Repo.HeadBranch = "release"
	cfg.Repo.HeadSHA = "1111111aaaaaaa57bbcb16ba7ab069e80b788766"
	svc := application.NewContextService(stubSettings{cfg: cfg}, stubRepos{bundle: clonedBundle()}, fixedClock)

	outcome, err := svc.Resolve(t.TempDir(), githubEnv())
	require.NoError(t, err)

	require.NotNil(t, outcome.Bundle)
	assert.True(t, outcome.Bundle.Uncloned)
	assert.Equal(t, "other-repo", outcome.Bundle.Repo.Name)
	// Uncloned repo values take precedence over CI env for the branch.
	assert.Equal(t, "release", outcome.CIInfo.Branch)
	// The SHA keeps env precedence even for uncloned repos.
	assert.Equal(t, "4bf1e1a6a57bbcb16ba7ab069e80b78876e53a27", outcome.CIInfo.CommitSHA)
}

func TestResolve_StableBranchesFromSettings(t *testing.T) {
	cfg := settings.Settings{StableBranches: []string{"develop"}}
	svc := application.NewContextService(stubSettings{cfg: cfg}, stubRepos{}, fixedClock)

	outcome, err := svc.Resolve(t.TempDir(), githubEnv())
	require.NoError(t, err)

	require.NotNil(t, outcome.CIInfo)
	assert.Equal(t, ci.BranchNone, outcome.CIInfo.BranchClass)
}

func TestResolve_NoRepoNoPlatform(t *testing.T) {
	svc := application.NewContextService(stubSettings{}, stubRepos{}, fixedClock)

	outcome, err := svc.Resolve(t.TempDir(), map[string]string{})
	require.NoError(t, err)

	assert.Nil(t, outcome.CIInfo)
	assert.Nil(t, outcome.Bundle)
	assert.Nil(t, outcome.RepoResult)
	require.NotNil(t, outcome.MetaResult)
	// With nothing to resolve a branch from, the context is invalid.
	assert.Equal(t, validation.Invalid, outcome.MaxLevel())
}

func TestResolve_SettingsErrorPropagates(t *testing.T) {
	svc := application.NewContextService(stubSettings{err: assert.AnError}, stubRepos{}, fixedClock)

	_, err := svc.Resolve(t.TempDir(), nil)
	assert.Error(t, err)
}
