package gitrepo_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trunk-io/analytics-cli/internal/adapters/outbound/gitrepo"
)

func TestRepoAdapter_IsGitRepo_True(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")

	adapter := gitrepo.New()
	assert.True(t, adapter.IsGitRepo(dir))
}

func TestRepoAdapter_IsGitRepo_False(t *testing.T) {
	dir := t.TempDir()
	adapter := gitrepo.New()
	assert.False(t, adapter.IsGitRepo(dir))
}

func TestRepoAdapter_Resolve(t *testing.T) {
	dir := initRepoWithCommit(t)
	runGit(t, dir, "remote", "add", "origin", "https://github.com/example-org/example-repo.git")

	bundle, err := gitrepo.New().Resolve(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/example-org/example-repo.git", bundle.URL)
	assert.Equal(t, "github.com", bundle.Repo.Host)
	assert.Equal(t, "example-org", bundle.Repo.Owner)
	assert.Equal(t, "example-repo", bundle.Repo.Name)
	assert.Equal(t, "github.com/example-org/example-repo", bundle.Repo.FullName())

	assert.Len(t, bundle.HeadSHA, 40)
	assert.Equal(t, bundle.HeadSHA[:7], bundle.HeadSHAShort)
	assert.Equal(t, "trunk", bundle.HeadBranch)
	assert.Equal(t, "init\n", bundle.HeadCommitMessage)
	assert.Equal(t, "Test", bundle.HeadAuthorName)
	assert.Equal(t, "test@test.com", bundle.HeadAuthorEmail)
	assert.NotZero(t, bundle.HeadCommitEpoch)
	assert.False(t, bundle.Uncloned)
}

func TestRepoAdapter_Resolve_ScpRemote(t *testing.T) {
	dir := initRepoWithCommit(t)
	runGit(t, dir, "remote", "add", "origin", "git@github.com:example-org/example-repo.git")

	bundle, err := gitrepo.New().Resolve(dir)
	require.NoError(t, err)

	assert.Equal(t, "github.com", bundle.Repo.Host)
	assert.Equal(t, "example-org", bundle.Repo.Owner)
	assert.Equal(t, "example-repo", bundle.Repo.Name)
}

func TestRepoAdapter_Resolve_NoRemote(t *testing.T) {
	dir := initRepoWithCommit(t)

	_, err := gitrepo.New().Resolve(dir)
	assert.Error(t, err)
}

func TestRepoAdapter_Resolve_NotGitRepo(t *testing.T) {
	dir := t.TempDir()

	_, err := gitrepo.New().Resolve(dir)
	assert.Error(t, err)
}

func initRepoWithCommit(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init", "-b", "trunk")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")

	f := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(f, []byte("hello"), 0644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "init")
	return dir
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, string(out))
}
