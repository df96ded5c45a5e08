package domain

// TransitionRecord is the canonical shape of a workflow transition.
// Loosely-shaped inputs are normalized into this type before reaching the builder.
type TransitionRecord struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name,omitempty" yaml:"name,omitempty"`
	StartStateID   string `json:"startStateId" yaml:"startStateId"`
	EndStateID     string `json:"endStateId" yaml:"endStateId"`
	StartStateName string `json:"startStateName,omitempty" yaml:"startStateName,omitempty"`
	EndStateName   string `json:"endStateName,omitempty" yaml:"endStateName,omitempty"`

	// Automated transitions fire without user action.
	Automated bool `json:"automated" yaml:"automated"`
	Persisted bool `json:"persisted" yaml:"persisted"`
}

// Workflow groups the transitions of a single workflow definition.
type Workflow struct {
	ID          string             `json:"id" yaml:"id"`
	Transitions []TransitionRecord `json:"transitions" yaml:"transitions"`
}
