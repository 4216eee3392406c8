// Package repo models the repository a test report was produced from and
// validates its head-commit metadata.
package repo

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/trunk-io/analytics-cli/internal/domain/fields"
)

var (
	schemeURLRe = regexp.MustCompile(`^(ssh|git|http|https|ftp|ftps)://([^/]*?@)?([^/]*)/(.+)/([^/]+)`)
	scpURLRe    = regexp.MustCompile(`^([^/]*?@)([^/]*):(.+)/([^/]+)`)
)

// RepoUrlParts is the host/owner/name triple extracted from a remote URL.
type RepoUrlParts struct {
	Host  string `json:"host"`
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// ParseRepoURL splits a git remote URL into its parts. Both scheme URLs
// (https://host/owner/name) and scp-like URLs (git@host:owner/name) are
// accepted. A trailing "/" or ".git" is dropped from the name.
func ParseRepoURL(url string) (RepoUrlParts, error) {
	var host, owner, name string
	if m := schemeURLRe.FindStringSubmatch(url); m != nil {
		host, owner, name = m[3], m[4], m[5]
	} else if m := scpURLRe.FindStringSubmatch(url); m != nil {
		host, owner, name = m[2], m[3], m[4]
	} else {
		return RepoUrlParts{}, fmt.Errorf("failed to parse repo url %q", url)
	}

	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, "/")
	name = strings.TrimSuffix(name, ".git")

	return RepoUrlParts{
		Host:  strings.TrimSpace(host),
		Owner: strings.TrimSpace(owner),
		Name:  name,
	}, nil
}

// FullName is the host-qualified repo name, e.g. "github.com/trunk-io/trunk".
func (p RepoUrlParts) FullName() string {
	return fmt.Sprintf("%s/%s/%s", p.Host, p.Owner, p.Name)
}

// BundleRepo is the repository snapshot bundled with a report. Uncloned is
// set when the fields were supplied by the caller instead of being read
// from a local clone; resolver precedence then favors them over CI env.
type BundleRepo struct {
	Repo              RepoUrlParts `json:"repo"`
	Root              string       `json:"repo_root,omitempty"`
	URL               string       `json:"repo_url"`
	HeadSHA           string       `json:"repo_head_sha"`
	HeadSHAShort      string       `json:"repo_head_sha_short,omitempty"`
	HeadBranch        string       `json:"repo_head_branch"`
	HeadCommitEpoch   int64        `json:"repo_head_commit_epoch"`
	HeadCommitMessage string       `json:"repo_head_commit_message"`
	HeadAuthorName    string       `json:"repo_head_author_name"`
	HeadAuthorEmail   string       `json:"repo_head_author_email"`
	Uncloned          bool         `json:"uncloned,omitempty"`
}

// ShortSHA derives the short head SHA, preferring an explicit value.
func (r *BundleRepo) ShortSHA() string {
	if r.HeadSHAShort != "" {
		return r.HeadSHAShort
	}
	if len(r.HeadSHA) > fields.ShortShaLen {
		return r.HeadSHA[:fields.ShortShaLen]
	}
	return r.HeadSHA
}
