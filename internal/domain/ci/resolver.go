package ci

import (
	"fmt"
	"strings"

	"github.com/trunk-io/analytics-cli/internal/domain/fields"
	"github.com/trunk-io/analytics-cli/internal/domain/repo"
)

// maxBranchNameSize caps a cleaned branch name.
const maxBranchNameSize = 1000

// BranchClass classifies a resolved branch against the stable-branch list.
type BranchClass int

const (
	BranchNone BranchClass = iota
	BranchProtected
)

func (c BranchClass) String() string {
	if c == BranchProtected {
		return "PROTECTED"
	}
	return "NONE"
}

// DefaultStableBranches is used when the caller supplies no list.
var DefaultStableBranches = []string{"main", "master"}

// CIInfo is the resolved CI context for one upload.
type CIInfo struct {
	Platform       Platform    `json:"platform"`
	JobURL         string      `json:"job_url,omitempty"`
	Branch         string      `json:"branch,omitempty"`
	BranchClass    BranchClass `json:"branch_class"`
	Actor          string      `json:"actor,omitempty"`
	CommitterName  string      `json:"committer_name,omitempty"`
	CommitterEmail string      `json:"committer_email,omitempty"`
	AuthorName     string      `json:"author_name,omitempty"`
	AuthorEmail    string      `json:"author_email,omitempty"`
	CommitMessage  string      `json:"commit_message,omitempty"`
	CommitSHA      string      `json:"commit_sha,omitempty"`
	CommitSHAShort string      `json:"commit_sha_short,omitempty"`
	Workflow       string      `json:"workflow,omitempty"`
	Job            string      `json:"job,omitempty"`
}

// CleanBranch strips ref prefixes from a branch name and caps its length.
func CleanBranch(branch string) string {
	cleaned := strings.ReplaceAll(branch, "refs/heads/", "")
	cleaned = strings.ReplaceAll(cleaned, "refs/", "")
	cleaned = strings.ReplaceAll(cleaned, "origin/", "")
	return fields.Truncate(cleaned, maxBranchNameSize)
}

// Classify matches branch against the stable-branch list. The match is
// exact; anything else, including an empty branch, is BranchNone.
func Classify(branch string, stableBranches []string) BranchClass {
	if len(stableBranches) == 0 {
		stableBranches = DefaultStableBranches
	}
	for _, stable := range stableBranches {
		if branch == stable {
			return BranchProtected
		}
	}
	return BranchNone
}

// Resolve builds the CIInfo for the current environment. Non-empty env
// values win over bundle fields unless the bundle is marked Uncloned, in
// which case the caller-supplied repo values take precedence for branch,
// actor, commit message and author/committer identities. Returns nil when
// no supported platform is detected.
func Resolve(env map[string]string, bundle *repo.BundleRepo, stableBranches []string) *CIInfo {
	platform := DetectPlatform(env)
	if platform == PlatformUnknown {
		return nil
	}

	b := platformBindings[platform]
	info := &CIInfo{
		Platform:       platform,
		Branch:         lookup(env, b.branch),
		Actor:          lookup(env, b.actor),
		AuthorName:     lookup(env, b.authorName),
		AuthorEmail:    lookup(env, b.authorEmail),
		CommitterName:  lookup(env, b.committerName),
		CommitterEmail: lookup(env, b.committerEmail),
		CommitMessage:  lookup(env, b.commitMessage),
		CommitSHA:      lookup(env, b.sha),
		Workflow:       lookup(env, b.workflow),
		Job:            lookup(env, b.job),
		JobURL:         lookup(env, b.jobURL),
	}

	switch platform {
	case PlatformGitHubActions:
		normalizeGitHub(env, info)
	case PlatformGitLabCI:
		normalizeGitLab(env, info)
	case PlatformSemaphore:
		normalizeSemaphore(env, info)
	}

	if bundle != nil {
		mergeBundle(info, bundle)
	}

	info.Branch = CleanBranch(info.Branch)
	if info.CommitSHAShort == "" && info.CommitSHA != "" {
		info.CommitSHAShort = fields.Truncate(info.CommitSHA, fields.ShortShaLen)
	}
	info.BranchClass = Classify(info.Branch, stableBranches)

	return info
}

func mergeBundle(info *CIInfo, bundle *repo.BundleRepo) {
	if info.Branch == "" || bundle.Uncloned {
		setIfPresent(&info.Branch, bundle.HeadBranch)
	}
	if info.Actor == "" || bundle.Uncloned {
		setIfPresent(&info.Actor, bundle.HeadAuthorEmail)
	}
	if info.CommitMessage == "" || bundle.Uncloned {
		setIfPresent(&info.CommitMessage, bundle.HeadCommitMessage)
	}
	if info.AuthorName == "" || bundle.Uncloned {
		setIfPresent(&info.AuthorName, bundle.HeadAuthorName)
	}
	if info.AuthorEmail == "" || bundle.Uncloned {
		setIfPresent(&info.AuthorEmail, bundle.HeadAuthorEmail)
	}
	if info.CommitterName == "" || bundle.Uncloned {
		setIfPresent(&info.CommitterName, bundle.HeadAuthorName)
	}
	if info.CommitterEmail == "" || bundle.Uncloned {
		setIfPresent(&info.CommitterEmail, bundle.HeadAuthorEmail)
	}
	if info.CommitSHA == "" {
		info.CommitSHA = bundle.HeadSHA
		info.CommitSHAShort = bundle.ShortSHA()
	}
}

func setIfPresent(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func lookup(env map[string]string, keys []string) string {
	for _, key := range keys {
		if v := env[key]; v != "" {
			return v
		}
	}
	return ""
}

func normalizeGitHub(env map[string]string, info *CIInfo) {
	repoName := env["GITHUB_REPOSITORY"]
	runID := env["GITHUB_RUN_ID"]
	if repoName != "" && runID != "" {
		info.JobURL = fmt.Sprintf("https://github.com/%s/actions/runs/%s", repoName, runID)
	}
}

func normalizeGitLab(env map[string]string, info *CIInfo) {
	info.Branch = strings.Replace(info.Branch, "remotes/", "", 1)

	// CI_COMMIT_AUTHOR is "Name <email>".
	if author := env["CI_COMMIT_AUTHOR"]; author != "" {
		name, email, found := strings.Cut(author, "<")
		if found {
			info.AuthorName = strings.TrimSpace(name)
			info.AuthorEmail = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(email), ">"))
		} else {
			info.AuthorName = strings.TrimSpace(author)
		}
	}
}

func normalizeSemaphore(env map[string]string, info *CIInfo) {
	orgURL := env["SEMAPHORE_ORGANIZATION_URL"]
	projectID := env["SEMAPHORE_PROJECT_ID"]
	jobID := env["SEMAPHORE_JOB_ID"]
	if orgURL != "" && projectID != "" && jobID != "" {
		info.JobURL = fmt.Sprintf("%s/projects/%s/jobs/%s", orgURL, projectID, jobID)
	}
}
