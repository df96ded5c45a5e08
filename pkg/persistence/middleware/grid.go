package middleware

import (
	"context"
	"math"

	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/aretw0/flowmap/pkg/ports"
)

type gridMiddleware struct {
	next ports.LayoutStore
	step float64
}

// NewGridMiddleware rounds saved positions to the nearest multiple of step.
// The caller's map is never modified. A step <= 0 disables snapping.
func NewGridMiddleware(step float64) Middleware {
	return func(next ports.LayoutStore) ports.LayoutStore {
		if step <= 0 {
			return next
		}
		return &gridMiddleware{next: next, step: step}
	}
}

func (m *gridMiddleware) SaveLayout(ctx context.Context, workflowID string, positions domain.PositionsMap) error {
	snapped := make(domain.PositionsMap, len(positions))
	for id, p := range positions {
		snapped[id] = domain.Position{X: m.snap(p.X), Y: m.snap(p.Y)}
	}
	return m.next.SaveLayout(ctx, workflowID, snapped)
}

func (m *gridMiddleware) snap(v float64) float64 {
	return math.Round(v/m.step) * m.step
}

func (m *gridMiddleware) LoadLayout(ctx context.Context, workflowID string) (domain.PositionsMap, error) {
	return m.next.LoadLayout(ctx, workflowID)
}

func (m *gridMiddleware) DeleteLayout(ctx context.Context, workflowID string) error {
	return m.next.DeleteLayout(ctx, workflowID)
}

func (m *gridMiddleware) ListLayouts(ctx context.Context) ([]string, error) {
	return m.next.ListLayouts(ctx)
}
