package dto

import (
	"fmt"

	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// RawTransition is the loosely-shaped transition record accepted at the boundary.
// It uses "mapstructure" tags to match every historical field name seen in
// workflow exports (startStateId, fromState, from, ...).
type RawTransition struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`

	StartStateID  string `json:"startStateId" mapstructure:"startStateId"`
	StartSnake    string `json:"start_state_id" mapstructure:"start_state_id"`
	FromState     string `json:"fromState" mapstructure:"fromState"`
	From          string `json:"from" mapstructure:"from"`
	FromStateFull string `json:"from_state_id" mapstructure:"from_state_id"`

	EndStateID  string `json:"endStateId" mapstructure:"endStateId"`
	EndSnake    string `json:"end_state_id" mapstructure:"end_state_id"`
	ToState     string `json:"toState" mapstructure:"toState"`
	To          string `json:"to" mapstructure:"to"`
	ToStateFull string `json:"to_state_id" mapstructure:"to_state_id"`

	StartStateName string `json:"startStateName" mapstructure:"startStateName"`
	FromStateName  string `json:"fromStateName" mapstructure:"fromStateName"`
	EndStateName   string `json:"endStateName" mapstructure:"endStateName"`
	ToStateName    string `json:"toStateName" mapstructure:"toStateName"`

	Automated   *bool `json:"automated" mapstructure:"automated"`
	IsAutomated *bool `json:"isAutomated" mapstructure:"isAutomated"`
	Persisted   *bool `json:"persisted" mapstructure:"persisted"`
	IsPersisted *bool `json:"isPersisted" mapstructure:"isPersisted"`
}

// Canonical resolves aliases into a domain.TransitionRecord.
// Canonical keys win over historical ones.
func (r RawTransition) Canonical() domain.TransitionRecord {
	return domain.TransitionRecord{
		ID:             r.ID,
		Name:           r.Name,
		StartStateID:   firstNonEmpty(r.StartStateID, r.StartSnake, r.FromState, r.From, r.FromStateFull),
		EndStateID:     firstNonEmpty(r.EndStateID, r.EndSnake, r.ToState, r.To, r.ToStateFull),
		StartStateName: firstNonEmpty(r.StartStateName, r.FromStateName),
		EndStateName:   firstNonEmpty(r.EndStateName, r.ToStateName),
		Automated:      firstSet(r.Automated, r.IsAutomated),
		Persisted:      firstSet(r.Persisted, r.IsPersisted),
	}
}

// DecodeTransition decodes a single raw record.
func DecodeTransition(raw map[string]any) (domain.TransitionRecord, error) {
	var rt RawTransition
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &rt,
	})
	if err != nil {
		return domain.TransitionRecord{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return domain.TransitionRecord{}, fmt.Errorf("%w: %v", domain.ErrInvalidTransition, err)
	}
	return rt.Canonical(), nil
}

// DecodeTransitions normalizes a list of raw records, preserving order.
// Records without an id are named after their position ("t1", "t2", ...).
func DecodeTransitions(raw []map[string]any) ([]domain.TransitionRecord, error) {
	out := make([]domain.TransitionRecord, 0, len(raw))
	for i, item := range raw {
		t, err := DecodeTransition(item)
		if err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
		if t.ID == "" {
			t.ID = fmt.Sprintf("t%d", i+1)
		}
		out = append(out, t)
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstSet(values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return false
}
