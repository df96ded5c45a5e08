package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowmap/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
// Current overrides the IsCurrentState flags of the graph when set.
type GraphOverlay struct {
	VisitedStates []string
	Current       string
}

// GenerateMermaid produces a Mermaid flowchart from a positioned diagram.
// It applies semantic styling:
// - None state: ((Circle))
// - Draft (not persisted) state: (Rounded)
// - Default: [Rectangle]
// Automated transitions are drawn dotted. Node positions are kept as comments
// so the export can be fed back into tools that understand them.
func GenerateMermaid(g domain.Graph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	current := ""
	for _, node := range g.Nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.IsNoneState:
			opener, closer = "((", "))"
		case !node.Persisted:
			opener, closer = "(", ")"
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(node.Title), closer))
		sb.WriteString(fmt.Sprintf("    %%%% pos %s %g,%g\n", safeID, node.Position.X, node.Position.Y))

		if node.IsCurrentState {
			current = node.ID
		}
	}

	for _, edge := range g.Edges {
		if edge.Source == "" || edge.Target == "" {
			sb.WriteString(fmt.Sprintf("    %%%% skipped %s: missing endpoint\n", sanitizeMermaidID(edge.ID)))
			continue
		}

		arrow := "-->"
		if edge.Automated {
			arrow = "-.->"
		}
		if edge.Title != "" {
			label := escapeLabel(edge.Title)
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
			if edge.Automated {
				arrow = fmt.Sprintf("-. \"%s\" .->", label)
			}
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(edge.Source), arrow, sanitizeMermaidID(edge.Target)))
	}

	var visited []string
	if overlay != nil {
		visited = overlay.VisitedStates
		if overlay.Current != "" {
			current = overlay.Current
		}
	}

	if current == "" && len(visited) == 0 {
		return sb.String()
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
	sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

	visitedSet := make(map[string]bool)
	for _, id := range visited {
		safeID := sanitizeMermaidID(id)
		if !visitedSet[safeID] && safeID != "" {
			visitedSet[safeID] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
		}
	}

	if current != "" {
		sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(current)))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	s := r.Replace(id)
	// "end" is a reserved word in flowcharts.
	if strings.EqualFold(s, "end") {
		s = "n_" + s
	}
	return s
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
