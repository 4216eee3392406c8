// Package gitrepo reads repository metadata from a local clone using go-git.
package gitrepo

import (
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/trunk-io/analytics-cli/internal/domain/repo"
)

// RepoAdapter resolves a BundleRepo snapshot from a working copy.
type RepoAdapter struct{}

func New() *RepoAdapter {
	return &RepoAdapter{}
}

func (a *RepoAdapter) IsGitRepo(root string) bool {
	_, err := git.PlainOpen(root)
	return err == nil
}

// Resolve reads the origin URL, HEAD commit and branch from the clone at
// root. A detached HEAD yields an empty branch name.
func (a *RepoAdapter) Resolve(root string) (*repo.BundleRepo, error) {
	gitRepo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("opening git repo: %w", err)
	}

	url, err := originURL(gitRepo)
	if err != nil {
		return nil, err
	}
	parts, err := repo.ParseRepoURL(url)
	if err != nil {
		return nil, err
	}

	head, err := gitRepo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}
	commit, err := gitRepo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("reading HEAD commit: %w", err)
	}

	branch := ""
	if head.Name().IsBranch() {
		branch = head.Name().Short()
	}

	bundle := &repo.BundleRepo{
		Repo:              parts,
		Root:              root,
		URL:               url,
		HeadSHA:           head.Hash().String(),
		HeadBranch:        branch,
		HeadCommitEpoch:   commit.Author.When.Unix(),
		HeadCommitMessage: commit.Message,
		HeadAuthorName:    commit.Author.Name,
		HeadAuthorEmail:   commit.Author.Email,
	}
	bundle.HeadSHAShort = bundle.ShortSHA()
	return bundle, nil
}

func originURL(gitRepo *git.Repository) (string, error) {
	remote, err := gitRepo.Remote(git.DefaultRemoteName)
	if err == nil {
		urls := remote.Config().URLs
		if len(urls) > 0 {
			return urls[0], nil
		}
	}

	// Fall back to any configured remote when origin is absent.
	remotes, listErr := gitRepo.Remotes()
	if listErr != nil {
		return "", fmt.Errorf("listing remotes: %w", listErr)
	}
	for _, r := range remotes {
		if urls := r.Config().URLs; len(urls) > 0 {
			return urls[0], nil
		}
	}
	return "", fmt.Errorf("repo has no remote with a URL")
}
