package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/aretw0/flowmap/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.LayoutStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level, and failures at warn.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.LayoutStore) ports.LayoutStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(op, workflowID string, start time.Time, err error) {
	attrs := []any{"op", op, "duration", time.Since(start)}
	if workflowID != "" {
		attrs = append(attrs, "workflow_id", workflowID)
	}
	if err != nil {
		m.logger.Warn("layout store call failed", append(attrs, "error", err)...)
		return
	}
	m.logger.Debug("layout store call", attrs...)
}

func (m *loggingMiddleware) SaveLayout(ctx context.Context, workflowID string, positions domain.PositionsMap) error {
	start := time.Now()
	err := m.next.SaveLayout(ctx, workflowID, positions)
	m.log("save", workflowID, start, err)
	return err
}

func (m *loggingMiddleware) LoadLayout(ctx context.Context, workflowID string) (domain.PositionsMap, error) {
	start := time.Now()
	positions, err := m.next.LoadLayout(ctx, workflowID)
	// A missing layout is the normal first-render case.
	if errors.Is(err, domain.ErrLayoutNotFound) {
		m.log("load", workflowID, start, nil)
		return positions, err
	}
	m.log("load", workflowID, start, err)
	return positions, err
}

func (m *loggingMiddleware) DeleteLayout(ctx context.Context, workflowID string) error {
	start := time.Now()
	err := m.next.DeleteLayout(ctx, workflowID)
	m.log("delete", workflowID, start, err)
	return err
}

func (m *loggingMiddleware) ListLayouts(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.ListLayouts(ctx)
	m.log("list", "", start, err)
	return ids, err
}
