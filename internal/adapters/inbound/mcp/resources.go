package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/trunk-io/analytics-cli/internal/adapters/outbound/config"
	"github.com/trunk-io/analytics-cli/internal/adapters/outbound/gitrepo"
	"github.com/trunk-io/analytics-cli/internal/application"
	"github.com/trunk-io/analytics-cli/internal/domain/validation"
)

// registerResources registers all analytics MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string) {
	// analytics://context - resolved and graded CI context
	s.AddResource(
		mcplib.NewResource(
			"analytics://context",
			"CI Context",
			mcplib.WithResourceDescription("Resolved CI context with its validation findings"),
			mcplib.WithMIMEType("application/json"),
		),
		handleContextResource(projectPath),
	)

	// analytics://settings - loaded project settings
	s.AddResource(
		mcplib.NewResource(
			"analytics://settings",
			"Project Settings",
			mcplib.WithResourceDescription("Project settings loaded from .trunk-analytics.yaml"),
			mcplib.WithMIMEType("application/json"),
		),
		handleSettingsResource(projectPath),
	)
}

// contextResult flattens a ContextOutcome for serialization, surfacing the
// validation findings the outcome itself does not marshal.
type contextResult struct {
	Level      string                      `json:"level"`
	Context    *application.ContextOutcome `json:"context"`
	CIIssues   []validation.Issue          `json:"ci_issues,omitempty"`
	RepoIssues []validation.Issue          `json:"repo_issues,omitempty"`
	MetaIssues []validation.Issue          `json:"meta_issues,omitempty"`
}

func contextResponse(outcome *application.ContextOutcome) contextResult {
	resp := contextResult{
		Level:   outcome.MaxLevel().String(),
		Context: outcome,
	}
	if outcome.CIResult != nil {
		resp.CIIssues = outcome.CIResult.Issues()
	}
	if outcome.RepoResult != nil {
		resp.RepoIssues = outcome.RepoResult.Issues()
	}
	if outcome.MetaResult != nil {
		resp.MetaIssues = outcome.MetaResult.Issues()
	}
	return resp
}

func handleContextResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		svc := application.NewContextService(config.New(), gitrepo.New(), nil)
		outcome, err := svc.Resolve(projectPath, application.EnvMap(os.Environ()))
		if err != nil {
			return nil, fmt.Errorf("context resolution failed: %w", err)
		}

		data, err := json.MarshalIndent(contextResponse(outcome), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling context: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "analytics://context",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleSettingsResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := config.New().Load(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling settings: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "analytics://settings",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
