package dsl

import "github.com/aretw0/flowmap/pkg/domain"

// TransitionBuilder provides a fluent API for configuring a transition.
type TransitionBuilder struct {
	record domain.TransitionRecord
}

// To sets the target state.
func (t *TransitionBuilder) To(stateID string) *TransitionBuilder {
	t.record.EndStateID = stateID
	return t
}

// ID sets an explicit transition id.
func (t *TransitionBuilder) ID(id string) *TransitionBuilder {
	t.record.ID = id
	return t
}

// Name sets the label shown on the edge.
func (t *TransitionBuilder) Name(name string) *TransitionBuilder {
	t.record.Name = name
	return t
}

// Automated marks the transition as firing without user action.
func (t *TransitionBuilder) Automated() *TransitionBuilder {
	t.record.Automated = true
	return t
}

// Persisted marks the transition as saved in the backing workflow definition.
func (t *TransitionBuilder) Persisted() *TransitionBuilder {
	t.record.Persisted = true
	return t
}

// Record returns the underlying domain.TransitionRecord.
func (t *TransitionBuilder) Record() domain.TransitionRecord {
	return t.record
}
