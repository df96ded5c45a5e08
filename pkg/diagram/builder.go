package diagram

import (
	"strings"

	"github.com/aretw0/flowmap/pkg/domain"
)

// AutomatedMarker prefixes the title of automated transition edges.
const AutomatedMarker = "⚡"

// Build converts transitions into deduplicated nodes and one edge per transition.
// The first transition referencing a state id fixes that node's metadata.
// Every node starts at the origin; positions are assigned by Layout or Arrange.
func Build(transitions []domain.TransitionRecord, currentStateName string) domain.Graph {
	g := domain.Graph{
		Nodes: make([]domain.StateNode, 0, len(transitions)),
		Edges: make([]domain.TransitionEdge, 0, len(transitions)),
	}
	seen := make(map[string]bool, len(transitions))

	addNode := func(id, name string, persisted bool) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		title := name
		if title == "" {
			title = id
		}
		g.Nodes = append(g.Nodes, domain.StateNode{
			ID:             id,
			Title:          title,
			IsCurrentState: currentStateName == title,
			IsNoneState:    id == domain.NoneStateID,
			Persisted:      persisted,
		})
	}

	for _, t := range transitions {
		addNode(t.StartStateID, t.StartStateName, t.Persisted)
		addNode(t.EndStateID, t.EndStateName, t.Persisted)

		g.Edges = append(g.Edges, domain.TransitionEdge{
			ID:        t.ID,
			Source:    t.StartStateID,
			Target:    t.EndStateID,
			Title:     EdgeTitle(t),
			Automated: t.Automated,
			Persisted: t.Persisted,
		})
	}

	return g
}

// EdgeTitle derives the edge label from the automation marker and the transition name.
func EdgeTitle(t domain.TransitionRecord) string {
	parts := make([]string, 0, 2)
	if t.Automated {
		parts = append(parts, AutomatedMarker)
	}
	if name := strings.TrimSpace(t.Name); name != "" {
		parts = append(parts, name)
	}
	return strings.Join(parts, " ")
}
