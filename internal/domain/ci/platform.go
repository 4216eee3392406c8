// Package ci detects the hosting CI platform and resolves a CIInfo from
// environment variables and the bundled repository snapshot.
package ci

// Platform is the CI system a report was produced on.
type Platform int

const (
	PlatformUnknown Platform = iota
	PlatformGitHubActions
	PlatformJenkins
	PlatformCircleCI
	PlatformBuildkite
	PlatformSemaphore
	PlatformTravisCI
	PlatformWebappio
	PlatformAWSCodeBuild
	PlatformBitbucket
	PlatformAzurePipelines
	PlatformGitLabCI
	PlatformDrone
)

func (p Platform) String() string {
	switch p {
	case PlatformGitHubActions:
		return "GitHub Actions"
	case PlatformJenkins:
		return "Jenkins"
	case PlatformCircleCI:
		return "CircleCI"
	case PlatformBuildkite:
		return "Buildkite"
	case PlatformSemaphore:
		return "Semaphore"
	case PlatformTravisCI:
		return "Travis CI"
	case PlatformWebappio:
		return "webapp.io"
	case PlatformAWSCodeBuild:
		return "AWS CodeBuild"
	case PlatformBitbucket:
		return "Bitbucket Pipelines"
	case PlatformAzurePipelines:
		return "Azure Pipelines"
	case PlatformGitLabCI:
		return "GitLab CI"
	case PlatformDrone:
		return "Drone"
	default:
		return "Unknown"
	}
}

// platformSignatures maps a marker variable to its platform. Detection
// walks the list in order so results do not depend on map iteration.
var platformSignatures = []struct {
	envKey   string
	platform Platform
}{
	{"GITHUB_ACTIONS", PlatformGitHubActions},
	{"GITLAB_CI", PlatformGitLabCI},
	{"CIRCLECI", PlatformCircleCI},
	{"BUILDKITE", PlatformBuildkite},
	{"SEMAPHORE", PlatformSemaphore},
	{"TRAVIS", PlatformTravisCI},
	{"WEBAPPIO", PlatformWebappio},
	{"CODEBUILD_BUILD_ID", PlatformAWSCodeBuild},
	{"BITBUCKET_BUILD_NUMBER", PlatformBitbucket},
	{"TF_BUILD", PlatformAzurePipelines},
	{"DRONE", PlatformDrone},
	// BUILD_ID is set by several systems; keep the Jenkins marker last.
	{"BUILD_ID", PlatformJenkins},
}

// DetectPlatform identifies the CI platform from its signature variable.
func DetectPlatform(env map[string]string) Platform {
	for _, sig := range platformSignatures {
		if _, ok := env[sig.envKey]; ok {
			return sig.platform
		}
	}
	return PlatformUnknown
}

// binding lists, per CIInfo field, the environment variables to try in
// order. Quirks that a lookup chain cannot express live in the per-platform
// normalize hooks in resolver.go.
type binding struct {
	branch         []string
	actor          []string
	authorName     []string
	authorEmail    []string
	committerName  []string
	committerEmail []string
	commitMessage  []string
	sha            []string
	workflow       []string
	job            []string
	jobURL         []string
}

var platformBindings = map[Platform]binding{
	PlatformGitHubActions: {
		branch:   []string{"GITHUB_HEAD_REF", "GITHUB_REF"},
		actor:    []string{"GITHUB_ACTOR"},
		sha:      []string{"GITHUB_SHA"},
		workflow: []string{"GITHUB_WORKFLOW"},
		job:      []string{"GITHUB_JOB"},
	},
	PlatformJenkins: {
		branch:         []string{"CHANGE_BRANCH", "BRANCH_NAME"},
		actor:          []string{"CHANGE_AUTHOR_EMAIL"},
		authorName:     []string{"CHANGE_AUTHOR_DISPLAY_NAME"},
		authorEmail:    []string{"CHANGE_AUTHOR_EMAIL"},
		committerName:  []string{"CHANGE_AUTHOR_DISPLAY_NAME"},
		committerEmail: []string{"CHANGE_AUTHOR_EMAIL"},
		sha:            []string{"GIT_COMMIT"},
		jobURL:         []string{"BUILD_URL"},
	},
	PlatformCircleCI: {
		branch: []string{"CIRCLE_BRANCH"},
		actor:  []string{"CIRCLE_USERNAME"},
		sha:    []string{"CIRCLE_SHA1"},
		job:    []string{"CIRCLE_JOB"},
		jobURL: []string{"CIRCLE_BUILD_URL"},
	},
	PlatformBuildkite: {
		branch:         []string{"BUILDKITE_BRANCH"},
		actor:          []string{"BUILDKITE_BUILD_AUTHOR_EMAIL"},
		authorName:     []string{"BUILDKITE_BUILD_AUTHOR"},
		authorEmail:    []string{"BUILDKITE_BUILD_AUTHOR_EMAIL"},
		committerName:  []string{"BUILDKITE_BUILD_AUTHOR"},
		committerEmail: []string{"BUILDKITE_BUILD_AUTHOR_EMAIL"},
		commitMessage:  []string{"BUILDKITE_MESSAGE"},
		sha:            []string{"BUILDKITE_COMMIT"},
		jobURL:         []string{"BUILDKITE_BUILD_URL"},
	},
	PlatformSemaphore: {
		branch:        []string{"SEMAPHORE_GIT_PR_BRANCH", "SEMAPHORE_GIT_WORKING_BRANCH", "SEMAPHORE_GIT_BRANCH"},
		actor:         []string{"SEMAPHORE_GIT_COMMIT_AUTHOR"},
		authorName:    []string{"SEMAPHORE_GIT_COMMIT_AUTHOR"},
		committerName: []string{"SEMAPHORE_GIT_COMMITTER"},
		sha:           []string{"SEMAPHORE_GIT_SHA"},
		workflow:      []string{"SEMAPHORE_PROJECT_NAME"},
		job:           []string{"SEMAPHORE_JOB_NAME"},
	},
	PlatformTravisCI: {
		branch:        []string{"TRAVIS_BRANCH"},
		commitMessage: []string{"TRAVIS_COMMIT_MESSAGE"},
		sha:           []string{"TRAVIS_COMMIT"},
		jobURL:        []string{"TRAVIS_JOB_WEB_URL"},
	},
	PlatformWebappio: {
		branch: []string{"GIT_BRANCH"},
		sha:    []string{"GIT_COMMIT"},
	},
	PlatformAWSCodeBuild: {
		branch: []string{"CODEBUILD_WEBHOOK_HEAD_REF"},
		sha:    []string{"CODEBUILD_RESOLVED_SOURCE_VERSION"},
		jobURL: []string{"CODEBUILD_BUILD_URL"},
	},
	PlatformBitbucket: {
		branch: []string{"BITBUCKET_BRANCH"},
		sha:    []string{"BITBUCKET_COMMIT"},
	},
	PlatformAzurePipelines: {
		branch:         []string{"BUILD_SOURCEBRANCH"},
		actor:          []string{"BUILD_REQUESTEDFOR"},
		authorName:     []string{"BUILD_REQUESTEDFOR"},
		authorEmail:    []string{"BUILD_REQUESTEDFOREMAIL"},
		committerEmail: []string{"BUILD_REQUESTEDFOREMAIL"},
		commitMessage:  []string{"BUILD_SOURCEVERSIONMESSAGE"},
		sha:            []string{"BUILD_SOURCEVERSION"},
		workflow:       []string{"BUILD_DEFINITIONNAME"},
	},
	PlatformGitLabCI: {
		branch:        []string{"CI_COMMIT_REF_NAME", "CI_COMMIT_BRANCH", "CI_MERGE_REQUEST_SOURCE_BRANCH_NAME"},
		commitMessage: []string{"CI_COMMIT_MESSAGE"},
		sha:           []string{"CI_COMMIT_SHA"},
		workflow:      []string{"CI_JOB_NAME"},
		job:           []string{"CI_JOB_STAGE"},
		jobURL:        []string{"CI_JOB_URL"},
	},
	PlatformDrone: {
		branch:         []string{"DRONE_SOURCE_BRANCH"},
		actor:          []string{"DRONE_COMMIT_AUTHOR"},
		authorName:     []string{"DRONE_COMMIT_AUTHOR_NAME"},
		authorEmail:    []string{"DRONE_COMMIT_AUTHOR_EMAIL"},
		committerName:  []string{"DRONE_COMMIT_AUTHOR_NAME"},
		committerEmail: []string{"DRONE_COMMIT_AUTHOR_EMAIL"},
		sha:            []string{"DRONE_COMMIT_SHA"},
		jobURL:         []string{"DRONE_BUILD_LINK"},
	},
}
