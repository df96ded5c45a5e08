package layouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/flowmap/pkg/diagram"
	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/aretw0/flowmap/pkg/observability"
)

// Diagram assembles the positioned graph of a workflow.
// A missing layout is not an error: the layout engine fills in positions.
func (m *Manager) Diagram(ctx context.Context, workflowID, currentStateName string) (domain.Graph, error) {
	_, g, err := m.assemble(ctx, workflowID, currentStateName)
	return g, err
}

func (m *Manager) assemble(ctx context.Context, workflowID, currentStateName string) ([]domain.TransitionRecord, domain.Graph, error) {
	start := time.Now()

	transitions, err := m.Transitions(ctx, workflowID)
	if err != nil {
		return nil, domain.Graph{}, err
	}

	saved, err := m.LoadLayout(ctx, workflowID)
	if err != nil {
		if !errors.Is(err, domain.ErrLayoutNotFound) {
			return nil, domain.Graph{}, fmt.Errorf("failed to load layout: %w", err)
		}
		saved = nil
	}

	g := diagram.Build(transitions, currentStateName)

	if err := diagram.Validate(g); err != nil {
		dangling := diagram.ValidationErrors(err)
		m.metrics.AddDanglingEdges(len(dangling))
		if m.strict {
			return nil, domain.Graph{}, fmt.Errorf("workflow %s: %w", workflowID, err)
		}
		m.logger.Warn("diagram has dangling edges",
			"workflow_id", workflowID,
			"count", len(dangling),
		)
	}

	g = diagram.Arrange(g, saved,
		diagram.WithMode(m.mode),
		diagram.WithLayout(m.layout...),
	)

	m.metrics.ObserveDiagram(m.layoutSource(saved, g.Nodes), time.Since(start))
	m.logger.Debug("diagram assembled",
		"workflow_id", workflowID,
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
	)
	return transitions, g, nil
}

func (m *Manager) layoutSource(saved domain.PositionsMap, nodes []domain.StateNode) string {
	if saved == nil {
		return observability.SourceComputed
	}
	if m.mode == diagram.ModeMixed {
		for _, n := range nodes {
			if _, ok := saved[n.ID]; !ok {
				return observability.SourceMixed
			}
		}
	}
	return observability.SourceSaved
}

// Surface returns a diagram.Surface loaded with the workflow's diagram whose
// drag results are persisted through PersistAsync.
func (m *Manager) Surface(ctx context.Context, workflowID, currentStateName string) (*diagram.Surface, error) {
	transitions, g, err := m.assemble(ctx, workflowID, currentStateName)
	if err != nil {
		return nil, err
	}

	surface := diagram.NewSurface(
		diagram.WithArrangeOptions(diagram.WithMode(m.mode), diagram.WithLayout(m.layout...)),
		diagram.WithOnUpdatePositionsMap(func(positions domain.PositionsMap) {
			m.PersistAsync(workflowID, positions)
		}),
	)

	// Seed with the assembled positions so the surface matches Diagram.
	surface.Update(transitions, diagram.ExtractPositions(g.Nodes), currentStateName)
	return surface, nil
}

// DragEnd applies the reported node positions to the workflow's diagram and
// persists the resulting PositionsMap asynchronously.
func (m *Manager) DragEnd(ctx context.Context, workflowID string, nodes []domain.StateNode) (domain.PositionsMap, error) {
	surface, err := m.Surface(ctx, workflowID, "")
	if err != nil {
		return nil, err
	}
	return surface.OnNodeDragEnd(nodes), nil
}

// Select resolves a node or edge of the workflow's diagram.
func (m *Manager) Select(ctx context.Context, workflowID string, kind domain.SelectionType, id string) (domain.SelectionDescriptor, error) {
	g, err := m.Diagram(ctx, workflowID, "")
	if err != nil {
		return domain.SelectionDescriptor{}, err
	}

	var (
		sel domain.SelectionDescriptor
		ok  bool
	)
	switch kind {
	case domain.SelectionNode:
		sel, ok = diagram.SelectNode(g, id)
	case domain.SelectionEdge:
		sel, ok = diagram.SelectEdge(g, id)
	default:
		return domain.SelectionDescriptor{}, fmt.Errorf("%w: %q", domain.ErrInvalidSelection, kind)
	}
	if !ok {
		return domain.SelectionDescriptor{}, fmt.Errorf("%w: %s %q", domain.ErrElementNotFound, kind, id)
	}
	return sel, nil
}
