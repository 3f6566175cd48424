package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"novapro/internal/advisor"
	"novapro/internal/perception"
)

// Palette
var (
	accentColor  = lipgloss.Color("#8BC34A") // Lime Green
	mutedColor   = lipgloss.Color("#8a94a6")
	successColor = lipgloss.Color("#8BC34A")
	warningColor = lipgloss.Color("#FFC107")
	dangerColor  = lipgloss.Color("#e53935")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(mutedColor)
	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
	badgeStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

func dangerColorFor(d advisor.DangerLevel) lipgloss.Color {
	switch d {
	case advisor.DangerLow:
		return successColor
	case advisor.DangerHigh:
		return dangerColor
	default:
		return warningColor
	}
}

// dangerBadge renders the danger level as a colored tag.
func dangerBadge(d advisor.DangerLevel) string {
	return badgeStyle.Foreground(dangerColorFor(d)).Render(strings.ToUpper(string(d)))
}

// renderResult renders one strategy report box.
func renderResult(title string, r advisor.StrategyResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("  ")
	b.WriteString(dangerBadge(r.DangerLevel))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Advice"))
	b.WriteString("\n")
	b.WriteString(r.Advice)
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Recommended config"))
	b.WriteString("\n")
	b.WriteString(r.RecommendedConfig)
	return boxStyle.Render(b.String())
}

// renderExplain renders the diagnostics behind a report.
func renderExplain(r advisor.Report, trace *perception.Trace, lines []string) string {
	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(label+":"), value)
	}
	row("request", r.RequestID)
	row("fallback", fmt.Sprintf("%t", r.Fallback))
	row("failure", r.Kind.String())
	if r.Cause != "" {
		row("cause", r.Cause)
	}
	row("latency", r.Latency.String())
	if trace != nil {
		if trace.Model != "" {
			row("model", trace.Model)
		}
		row("upstream", trace.Duration.String())
	}
	if len(lines) > 0 {
		b.WriteString(mutedStyle.Render("session log:"))
		b.WriteString("\n")
		for _, line := range lines {
			b.WriteString(mutedStyle.Render(line))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
