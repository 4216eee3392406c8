package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/trunk-io/analytics-cli/internal/adapters/outbound/config"
	"github.com/trunk-io/analytics-cli/internal/domain/settings"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".trunk-analytics.yaml"), []byte(content), 0644))
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, settings.Default(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
org_url_slug: example-org
stable_branches:
  - main
  - release
variant: linux-x86
`)
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "example-org", cfg.OrgSlug)
	assert.Equal(t, []string{"main", "release"}, cfg.StableBranches)
	assert.Equal(t, "linux-x86", cfg.Variant)
}

func TestYAMLLoader_RepoOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
repo:
  url: https://github.com/example-org/example-repo.git
  head_sha: 4bf1e1a6a57bbcb16ba7ab069e80b78876e53a27
  head_branch: main
  head_commit_epoch: 1700000000
`)
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)

	bundle, err := cfg.ResolveRepo()
	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.True(t, bundle.Uncloned)
	assert.Equal(t, "example-org", bundle.Repo.Owner)
	assert.Equal(t, "example-repo", bundle.Repo.Name)
	assert.Equal(t, "4bf1e1a", bundle.HeadSHAShort)
	assert.Equal(t, "main", bundle.HeadBranch)
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{{{invalid yaml`)
	loader := appconfig.New()

	_, err := loader.Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing .trunk-analytics.yaml")
}

func TestYAMLLoader_InvalidSettingsRejected(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
stable_branches:
  - main
  - ""
`)
	loader := appconfig.New()

	_, err := loader.Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid .trunk-analytics.yaml")
}

func TestYAMLLoader_BadRepoURLRejected(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
repo:
  url: not-a-repo-url
`)
	loader := appconfig.New()

	_, err := loader.Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "repo.url")
}

func TestYAMLLoader_EmptyFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "")
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.OrgSlug)

	bundle, err := cfg.ResolveRepo()
	require.NoError(t, err)
	assert.Nil(t, bundle)
}
