package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/trunk-io/analytics-cli/internal/domain/ci"
	"github.com/trunk-io/analytics-cli/internal/domain/meta"
	"github.com/trunk-io/analytics-cli/internal/domain/repo"
	"github.com/trunk-io/analytics-cli/internal/domain/settings"
	"github.com/trunk-io/analytics-cli/internal/domain/validation"
)

// SettingsLoader loads the project configuration.
type SettingsLoader interface {
	Load(projectPath string) (settings.Settings, error)
}

// RepoResolver reads a repository snapshot from a local clone.
type RepoResolver interface {
	IsGitRepo(root string) bool
	Resolve(root string) (*repo.BundleRepo, error)
}

// ContextService resolves and grades the CI context for an upload: CI env
// variables, the local (or caller-supplied) repository snapshot, and the
// merged view of both.
type ContextService struct {
	settings SettingsLoader
	repos    RepoResolver
	clock    func() time.Time
}

// NewContextService creates a ContextService. A nil clock means time.Now.
func NewContextService(settingsLoader SettingsLoader, repos RepoResolver, clock func() time.Time) *ContextService {
	if clock == nil {
		clock = time.Now
	}
	return &ContextService{settings: settingsLoader, repos: repos, clock: clock}
}

// ContextOutcome carries everything context resolution produced. CIInfo is
// nil when no supported CI platform was detected; RepoResult is nil when
// there was no repository snapshot to grade.
type ContextOutcome struct {
	Settings   settings.Settings  `json:"settings"`
	CIInfo     *ci.CIInfo         `json:"ci_info,omitempty"`
	Bundle     *repo.BundleRepo   `json:"repo,omitempty"`
	Meta       meta.Context       `json:"meta"`
	CIResult   *validation.Result `json:"-"`
	RepoResult *validation.Result `json:"-"`
	MetaResult *validation.Result `json:"-"`
}

// MaxLevel is the worst level across the CI, repo and meta validations.
func (o *ContextOutcome) MaxLevel() validation.Level {
	level := validation.Valid
	for _, r := range []*validation.Result{o.CIResult, o.RepoResult, o.MetaResult} {
		if r != nil && r.MaxLevel() > level {
			level = r.MaxLevel()
		}
	}
	return level
}

// Resolve builds the full context for projectPath using the given
// environment. Repo overrides from the settings file win over a local
// clone; a missing clone is not an error.
func (s *ContextService) Resolve(projectPath string, env map[string]string) (*ContextOutcome, error) {
	cfg, err := s.settings.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	bundle, err := cfg.ResolveRepo()
	if err != nil {
		return nil, fmt.Errorf("resolving repo overrides: %w", err)
	}
	if bundle == nil && s.repos != nil && s.repos.IsGitRepo(projectPath) {
		bundle, err = s.repos.Resolve(projectPath)
		if err != nil {
			return nil, fmt.Errorf("reading git repo: %w", err)
		}
	}

	info := ci.Resolve(env, bundle, cfg.StableBranches)

	outcome := &ContextOutcome{
		Settings: cfg,
		CIInfo:   info,
		Bundle:   bundle,
	}

	metaInput := info
	if metaInput == nil {
		metaInput = &ci.CIInfo{}
	} else {
		outcome.CIResult = ci.Validate(info)
	}
	outcome.Meta, outcome.MetaResult = meta.Validate(metaInput, bundle, cfg.StableBranches)

	if bundle != nil {
		outcome.RepoResult = repo.Validate(bundle, s.clock())
	}

	return outcome, nil
}

// EnvMap converts os.Environ()-style "KEY=VALUE" pairs into a map.
func EnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, pair := range environ {
		if key, value, found := strings.Cut(pair, "="); found {
			env[key] = value
		}
	}
	return env
}
