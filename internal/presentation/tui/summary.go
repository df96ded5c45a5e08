package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowmap/pkg/domain"
)

// SummaryMarkdown describes a positioned diagram as markdown tables, for `flowmap inspect`.
// validationErrs lists problems found by diagram.Validate, if any.
func SummaryMarkdown(workflowID string, g domain.Graph, validationErrs []error) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Workflow `%s`\n\n", workflowID)
	fmt.Fprintf(&sb, "%d states, %d transitions.\n\n", len(g.Nodes), len(g.Edges))

	sb.WriteString("## States\n\n")
	sb.WriteString("| ID | Title | Position | Flags |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, n := range g.Nodes {
		var flags []string
		if n.IsCurrentState {
			flags = append(flags, "current")
		}
		if n.IsNoneState {
			flags = append(flags, "none")
		}
		if !n.Persisted {
			flags = append(flags, "draft")
		}
		fmt.Fprintf(&sb, "| %s | %s | (%g, %g) | %s |\n",
			cell(n.ID), cell(n.Title), n.Position.X, n.Position.Y, strings.Join(flags, ", "))
	}

	sb.WriteString("\n## Transitions\n\n")
	sb.WriteString("| ID | From | To | Title |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", cell(e.ID), cell(e.Source), cell(e.Target), cell(e.Title))
	}

	if len(validationErrs) > 0 {
		sb.WriteString("\n## Problems\n\n")
		for _, err := range validationErrs {
			fmt.Fprintf(&sb, "- %s\n", err)
		}
	}

	return sb.String()
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}
