package settings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trunk-io/analytics-cli/internal/domain/settings"
)

func TestValidate_ZeroValueIsValid(t *testing.T) {
	assert.NoError(t, settings.Default().Validate())
}

func TestValidate_NegativeEpochRejected(t *testing.T) {
	cfg := settings.Settings{}
	cfg.Repo.HeadCommitEpoch = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "head_commit_epoch")
}

func TestResolveRepo_PartialOverrides(t *testing.T) {
	cfg := settings.Settings{}
	cfg.Repo.HeadBranch = "refs/heads/main"

	bundle, err := cfg.ResolveRepo()
	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.True(t, bundle.Uncloned)
	assert.Equal(t, "refs/heads/main", bundle.HeadBranch)
	assert.Empty(t, bundle.URL)
}
