// Package settings holds the project-level configuration loaded from
// .trunk-analytics.yaml.
package settings

import (
	"fmt"
	"strings"

	"github.com/trunk-io/analytics-cli/internal/domain/repo"
)

// Settings is the parsed project configuration. Everything is optional;
// the zero value changes nothing.
type Settings struct {
	OrgSlug        string        `yaml:"org_url_slug"    json:"org_url_slug,omitempty"`
	StableBranches []string      `yaml:"stable_branches" json:"stable_branches,omitempty"`
	Variant        string        `yaml:"variant"         json:"variant,omitempty"`
	Repo           RepoOverrides `yaml:"repo"            json:"repo,omitempty"`
}

// RepoOverrides supplies repository metadata by hand for environments
// without a local clone, e.g. reports uploaded from a build farm.
type RepoOverrides struct {
	URL               string `yaml:"url"                 json:"url,omitempty"`
	HeadSHA           string `yaml:"head_sha"            json:"head_sha,omitempty"`
	HeadBranch        string `yaml:"head_branch"         json:"head_branch,omitempty"`
	HeadCommitEpoch   int64  `yaml:"head_commit_epoch"   json:"head_commit_epoch,omitempty"`
	HeadCommitMessage string `yaml:"head_commit_message" json:"head_commit_message,omitempty"`
	HeadAuthorName    string `yaml:"head_author_name"    json:"head_author_name,omitempty"`
	HeadAuthorEmail   string `yaml:"head_author_email"   json:"head_author_email,omitempty"`
}

// Default returns a zero-value settings object.
func Default() Settings {
	return Settings{}
}

func (o RepoOverrides) isZero() bool {
	return o == RepoOverrides{}
}

// Validate checks the settings for values that cannot be right.
func (s Settings) Validate() error {
	for i, branch := range s.StableBranches {
		if strings.TrimSpace(branch) == "" {
			return fmt.Errorf("stable_branches[%d] must not be empty", i)
		}
	}
	if s.Repo.HeadCommitEpoch < 0 {
		return fmt.Errorf("repo.head_commit_epoch must not be negative (got %d)", s.Repo.HeadCommitEpoch)
	}
	if s.Repo.URL != "" {
		if _, err := repo.ParseRepoURL(s.Repo.URL); err != nil {
			return fmt.Errorf("repo.url: %w", err)
		}
	}
	return nil
}

// ResolveRepo builds a repository snapshot from the overrides. The result
// is marked Uncloned so resolver precedence favors it over CI env values.
// A nil snapshot means no overrides were given.
func (s Settings) ResolveRepo() (*repo.BundleRepo, error) {
	if s.Repo.isZero() {
		return nil, nil
	}

	bundle := &repo.BundleRepo{
		URL:               s.Repo.URL,
		HeadSHA:           s.Repo.HeadSHA,
		HeadBranch:        s.Repo.HeadBranch,
		HeadCommitEpoch:   s.Repo.HeadCommitEpoch,
		HeadCommitMessage: s.Repo.HeadCommitMessage,
		HeadAuthorName:    s.Repo.HeadAuthorName,
		HeadAuthorEmail:   s.Repo.HeadAuthorEmail,
		Uncloned:          true,
	}
	if s.Repo.URL != "" {
		parts, err := repo.ParseRepoURL(s.Repo.URL)
		if err != nil {
			return nil, err
		}
		bundle.Repo = parts
	}
	bundle.HeadSHAShort = bundle.ShortSHA()
	return bundle, nil
}
