package ports

import (
	"context"

	"github.com/aretw0/flowmap/pkg/domain"
)

// TransitionSource defines how the layout manager retrieves workflow transitions.
type TransitionSource interface {
	// ListTransitions returns the transitions of a workflow in definition order.
	// Returns domain.ErrWorkflowNotFound if the workflow is unknown.
	ListTransitions(ctx context.Context, workflowID string) ([]domain.TransitionRecord, error)
}

// TransitionStore is a TransitionSource that also accepts new definitions.
type TransitionStore interface {
	TransitionSource

	// SaveTransitions replaces the transitions of a workflow.
	SaveTransitions(ctx context.Context, workflowID string, transitions []domain.TransitionRecord) error
}

// LayoutStore defines the interface for persisting user-adjusted node positions.
// The store owns the persistence format; callers only see domain.PositionsMap.
type LayoutStore interface {
	// SaveLayout replaces the positions map of a workflow.
	SaveLayout(ctx context.Context, workflowID string, positions domain.PositionsMap) error

	// LoadLayout retrieves the positions map of a workflow.
	// Returns domain.ErrLayoutNotFound if nothing was saved.
	LoadLayout(ctx context.Context, workflowID string) (domain.PositionsMap, error)

	// DeleteLayout removes the positions map of a workflow.
	DeleteLayout(ctx context.Context, workflowID string) error

	// ListLayouts returns the ids of workflows with a saved layout.
	ListLayouts(ctx context.Context) ([]string, error)
}
