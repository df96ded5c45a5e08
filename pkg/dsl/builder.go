package dsl

import (
	"fmt"

	"github.com/aretw0/flowmap/pkg/adapters/memory"
	"github.com/aretw0/flowmap/pkg/domain"
)

// Builder manages the workflow construction.
type Builder struct {
	workflowID  string
	states      map[string]*StateBuilder
	transitions []*TransitionBuilder
}

// New creates a new workflow builder.
func New(workflowID string) *Builder {
	return &Builder{
		workflowID: workflowID,
		states:     make(map[string]*StateBuilder),
	}
}

// State declares metadata for a state.
// If the state already exists, it returns the existing builder.
func (b *Builder) State(id string) *StateBuilder {
	if sb, ok := b.states[id]; ok {
		return sb
	}
	sb := &StateBuilder{id: id}
	b.states[id] = sb
	return sb
}

// From starts a transition leaving the given state.
func (b *Builder) From(stateID string) *TransitionBuilder {
	tb := &TransitionBuilder{
		record: domain.TransitionRecord{
			StartStateID: stateID,
		},
	}
	b.transitions = append(b.transitions, tb)
	return tb
}

// Start adds the automated transition entering the workflow from the none state.
func (b *Builder) Start(stateID string) *TransitionBuilder {
	return b.From(domain.NoneStateID).To(stateID).Automated()
}

// Build compiles the workflow. Transitions keep declaration order; those without
// an id are named after their position ("t1", "t2", ...).
func (b *Builder) Build() (domain.Workflow, error) {
	records := make([]domain.TransitionRecord, 0, len(b.transitions))
	seen := make(map[string]bool, len(b.transitions))

	for i, tb := range b.transitions {
		r := tb.record
		if r.ID == "" {
			r.ID = fmt.Sprintf("t%d", i+1)
		}
		if seen[r.ID] {
			return domain.Workflow{}, fmt.Errorf("%w: duplicate transition id %q", domain.ErrInvalidTransition, r.ID)
		}
		seen[r.ID] = true

		if r.StartStateID == "" || r.EndStateID == "" {
			return domain.Workflow{}, fmt.Errorf("%w: transition %q needs both From and To", domain.ErrInvalidTransition, r.ID)
		}

		if sb, ok := b.states[r.StartStateID]; ok {
			r.StartStateName = sb.title
		}
		if sb, ok := b.states[r.EndStateID]; ok {
			r.EndStateName = sb.title
		}
		// A persisted state marks the first transition referencing it.
		if !r.Persisted && (b.persisted(r.StartStateID) || b.persisted(r.EndStateID)) {
			r.Persisted = true
		}

		records = append(records, r)
	}

	return domain.Workflow{ID: b.workflowID, Transitions: records}, nil
}

func (b *Builder) persisted(id string) bool {
	sb, ok := b.states[id]
	return ok && sb.persisted
}

// BuildStore compiles the workflow into an in-memory TransitionStore.
func (b *Builder) BuildStore() (*memory.TransitionStore, error) {
	wf, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build transition store: %w", err)
	}
	return memory.NewTransitionStore(wf), nil
}
