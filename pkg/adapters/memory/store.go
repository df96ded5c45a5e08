package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/flowmap/pkg/domain"
)

// LayoutStore implements ports.LayoutStore in memory.
// Safe for concurrent use.
type LayoutStore struct {
	data map[string]domain.PositionsMap
	mu   sync.RWMutex
}

// NewLayoutStore creates a new in-memory layout store.
func NewLayoutStore() *LayoutStore {
	return &LayoutStore{
		data: make(map[string]domain.PositionsMap),
	}
}

// SaveLayout persists a copy of the positions in memory.
func (s *LayoutStore) SaveLayout(ctx context.Context, workflowID string, positions domain.PositionsMap) error {
	copied := positions.Clone()
	if copied == nil {
		copied = domain.PositionsMap{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[workflowID] = copied
	return nil
}

// LoadLayout returns a copy so callers can't mutate store state by reference.
func (s *LayoutStore) LoadLayout(ctx context.Context, workflowID string) (domain.PositionsMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	positions, ok := s.data[workflowID]
	if !ok {
		return nil, domain.ErrLayoutNotFound
	}
	return positions.Clone(), nil
}

// DeleteLayout removes the layout.
func (s *LayoutStore) DeleteLayout(ctx context.Context, workflowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, workflowID)
	return nil
}

// ListLayouts returns the stored workflow ids, sorted.
func (s *LayoutStore) ListLayouts(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// TransitionStore implements ports.TransitionStore in memory.
// Safe for concurrent use.
type TransitionStore struct {
	data map[string][]domain.TransitionRecord
	mu   sync.RWMutex
}

// NewTransitionStore creates a store pre-populated with the given workflows.
func NewTransitionStore(workflows ...domain.Workflow) *TransitionStore {
	s := &TransitionStore{
		data: make(map[string][]domain.TransitionRecord),
	}
	for _, w := range workflows {
		s.data[w.ID] = cloneTransitions(w.Transitions)
	}
	return s
}

// ListTransitions returns a copy of the workflow transitions.
func (s *TransitionStore) ListTransitions(ctx context.Context, workflowID string) ([]domain.TransitionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transitions, ok := s.data[workflowID]
	if !ok {
		return nil, domain.ErrWorkflowNotFound
	}
	return cloneTransitions(transitions), nil
}

// SaveTransitions replaces the workflow transitions.
func (s *TransitionStore) SaveTransitions(ctx context.Context, workflowID string, transitions []domain.TransitionRecord) error {
	copied := cloneTransitions(transitions)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[workflowID] = copied
	return nil
}

func cloneTransitions(in []domain.TransitionRecord) []domain.TransitionRecord {
	out := make([]domain.TransitionRecord, len(in))
	copy(out, in)
	return out
}
