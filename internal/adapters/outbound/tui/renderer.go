package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/trunk-io/analytics-cli/internal/application"
	"github.com/trunk-io/analytics-cli/internal/domain/validation"
)

// ── warm terminal palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	scopeStyle    = lipgloss.NewStyle().Foreground(dim)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

func levelStyle(level validation.Level) lipgloss.Style {
	switch level {
	case validation.Invalid:
		return failStyle
	case validation.SubOptimal:
		return warnStyle
	default:
		return passStyle
	}
}

func levelTag(level validation.Level) string {
	return levelStyle(level).Bold(true).Render(level.String())
}

// RenderValidateOutcome renders the validation result for one input file.
func RenderValidateOutcome(outcome *application.ValidateOutcome) string {
	var b strings.Builder

	title := headerStyle.Render("trunk analytics")
	subtitle := dimStyle.Render("Test Report Validation")
	overall := levelTag(outcome.MaxLevel())
	summary := dimStyle.Render(fmt.Sprintf("%d report(s)", len(outcome.Reports)))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + overall + "  " + summary))
	b.WriteString("\n\n")

	for _, issue := range outcome.ParseIssues {
		fmt.Fprintf(&b, "  %s %s\n", warnStyle.Render("●"), dimStyle.Render(issue))
	}
	if len(outcome.ParseIssues) > 0 {
		b.WriteString("\n")
	}

	for i := range outcome.Reports {
		renderReport(&b, &outcome.Reports[i])
		if i < len(outcome.Reports)-1 {
			b.WriteString("\n  " + separatorLine + "\n\n")
		}
	}

	return b.String()
}

func renderReport(b *strings.Builder, r *application.ValidatedReport) {
	name := r.Report.Name
	if name == "" {
		name = "(unnamed report)"
	}

	cases := 0
	for _, suite := range r.Report.TestSuites {
		cases += len(suite.TestCases)
	}

	fmt.Fprintf(b, "  %s  %s\n", titleStyle.Render(name), levelTag(r.Validation.MaxLevel()))
	fmt.Fprintf(b, "  %s\n", dimStyle.Render(fmt.Sprintf("%d suite(s), %d case(s)", len(r.Report.TestSuites), cases)))

	invalid := r.Validation.NumIssuesAt(validation.Invalid)
	subOptimal := r.Validation.NumIssuesAt(validation.SubOptimal)
	if invalid == 0 && subOptimal == 0 {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
		return
	}

	b.WriteString("\n")
	if invalid > 0 {
		fmt.Fprintf(b, "  %s", failStyle.Bold(true).Render(fmt.Sprintf("%d invalid", invalid)))
	}
	if subOptimal > 0 {
		b.WriteString("  " + warnStyle.Bold(true).Render(fmt.Sprintf("%d sub-optimal", subOptimal)))
	}
	b.WriteString("\n\n")

	for _, issue := range r.Validation.AllIssues {
		fmt.Fprintf(b, "    %s %s  %s\n",
			levelStyle(issue.Level).Render("●"),
			scopeStyle.Render(issue.Scope.String()),
			issue.Message,
		)
	}
}

// RenderContext renders the resolved CI context and its validations.
func RenderContext(outcome *application.ContextOutcome) string {
	var b strings.Builder

	title := headerStyle.Render("trunk analytics")
	subtitle := dimStyle.Render("CI Context")
	overall := levelTag(outcome.MaxLevel())

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + overall))
	b.WriteString("\n\n")

	if outcome.CIInfo == nil {
		b.WriteString("  " + warnStyle.Render("No supported CI platform detected.") + "\n")
	} else {
		info := outcome.CIInfo
		renderField(&b, "platform", info.Platform.String())
		renderField(&b, "branch", fmt.Sprintf("%s (%s)", info.Branch, info.BranchClass))
		renderField(&b, "commit", info.CommitSHAShort)
		renderField(&b, "actor", info.Actor)
		renderField(&b, "workflow", info.Workflow)
		renderField(&b, "job", info.Job)
		renderField(&b, "job URL", info.JobURL)
	}
	if outcome.Bundle != nil {
		renderField(&b, "repo", outcome.Bundle.Repo.FullName())
	}

	renderResult(&b, "CI environment", outcome.CIResult)
	renderResult(&b, "Repository", outcome.RepoResult)
	renderResult(&b, "Merged context", outcome.MetaResult)

	return b.String()
}

func renderField(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "  %s %s\n", dimStyle.Render(padRight(name, 10)), value)
}

func renderResult(b *strings.Builder, title string, result *validation.Result) {
	if result == nil {
		return
	}

	b.WriteString("\n")
	fmt.Fprintf(b, "  %s  %s\n", titleStyle.Render(title), levelTag(result.MaxLevel()))

	issues := result.Issues()
	if len(issues) == 0 {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
		return
	}
	for _, issue := range issues {
		fmt.Fprintf(b, "    %s %s\n", levelStyle(issue.Level).Render("●"), issue.Message)
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
