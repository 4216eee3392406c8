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
	"github.com/trunk-io/analytics-cli/internal/domain/identity"
)

// registerTools registers all analytics MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	s.AddTool(
		mcplib.NewTool("analytics_validate_report",
			mcplib.WithDescription("Validate a JUnit XML or binary test report file against the ingestion rules"),
			mcplib.WithString("report_path",
				mcplib.Required(),
				mcplib.Description("Path to the report file"),
			),
			mcplib.WithString("run_result", mcplib.Description("Outcome of the run that produced the report: passed or failed")),
			mcplib.WithString("run_started_at", mcplib.Description("RFC 3339 start of the run window")),
			mcplib.WithString("run_finished_at", mcplib.Description("RFC 3339 end of the run window")),
		),
		handleValidateReport(),
	)

	s.AddTool(
		mcplib.NewTool("analytics_parse_report",
			mcplib.WithDescription("Decode a JUnit XML or binary test report file and return the report model as JSON"),
			mcplib.WithString("report_path",
				mcplib.Required(),
				mcplib.Description("Path to the report file"),
			),
		),
		handleParseReport(),
	)

	s.AddTool(
		mcplib.NewTool("analytics_resolve_context",
			mcplib.WithDescription("Resolve and grade the CI context: platform, branch, commit and repository metadata"),
		),
		handleResolveContext(projectPath),
	)

	s.AddTool(
		mcplib.NewTool("analytics_generate_id",
			mcplib.WithDescription("Generate the stable test case identity UUID from its identifying fields"),
			mcplib.WithString("org_url_slug", mcplib.Required(), mcplib.Description("Organization URL slug")),
			mcplib.WithString("repo_full_name", mcplib.Required(), mcplib.Description("Host-qualified repo name, e.g. github.com/org/repo")),
			mcplib.WithString("name", mcplib.Required(), mcplib.Description("Test case name")),
			mcplib.WithString("file", mcplib.Description("Test case file path")),
			mcplib.WithString("classname", mcplib.Description("Test case classname")),
			mcplib.WithString("parent_path", mcplib.Description("Path of the enclosing suites")),
			mcplib.WithString("variant", mcplib.Description("Report variant label")),
			mcplib.WithString("existing_id", mcplib.Description("Identity already present on the test case, if any")),
		),
		handleGenerateID(),
	)
}

func handleValidateReport() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		reportPath, err := request.RequireString("report_path")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		args := request.GetArguments()
		result, _ := args["run_result"].(string)
		startedAt, _ := args["run_started_at"].(string)
		finishedAt, _ := args["run_finished_at"].(string)

		window, err := application.ParseRunWindow(result, startedAt, finishedAt)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc := application.NewValidateService(nil)
		outcome, err := svc.ValidateFile(reportPath, window)
		if err != nil {
			return errorResult(fmt.Sprintf("validate failed: %v", err)), nil
		}

		return jsonResult(struct {
			Level string `json:"level"`
			*application.ValidateOutcome
		}{outcome.MaxLevel().String(), outcome})
	}
}

func handleParseReport() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		reportPath, err := request.RequireString("report_path")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc := application.NewValidateService(nil)
		outcome, err := svc.ValidateFile(reportPath, nil)
		if err != nil {
			return errorResult(fmt.Sprintf("parse failed: %v", err)), nil
		}

		reports := make([]any, 0, len(outcome.Reports))
		for i := range outcome.Reports {
			reports = append(reports, outcome.Reports[i].Report)
		}
		return jsonResult(struct {
			Reports []any    `json:"reports"`
			Issues  []string `json:"issues,omitempty"`
		}{reports, outcome.ParseIssues})
	}
}

func handleResolveContext(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		svc := application.NewContextService(config.New(), gitrepo.New(), nil)
		outcome, err := svc.Resolve(projectPath, application.EnvMap(os.Environ()))
		if err != nil {
			return errorResult(fmt.Sprintf("context resolution failed: %v", err)), nil
		}
		return jsonResult(contextResponse(outcome))
	}
}

func handleGenerateID() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		orgSlug, err := request.RequireString("org_url_slug")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		repoFullName, err := request.RequireString("repo_full_name")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		name, err := request.RequireString("name")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		args := request.GetArguments()
		str := func(key string) string {
			v, _ := args[key].(string)
			return v
		}

		fact := identity.Fact{
			OrgSlug:      orgSlug,
			RepoFullName: repoFullName,
			File:         str("file"),
			Classname:    str("classname"),
			ParentPath:   str("parent_path"),
			Name:         name,
			Variant:      str("variant"),
		}

		return textResult(identity.GenerateID(fact, str("existing_id"))), nil
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
