package dsl

// StateBuilder provides a fluent API for state metadata.
type StateBuilder struct {
	id        string
	title     string
	persisted bool
}

// Title sets the display name of the state.
func (s *StateBuilder) Title(title string) *StateBuilder {
	s.title = title
	return s
}

// Persisted marks the state as saved in the backing workflow definition.
func (s *StateBuilder) Persisted() *StateBuilder {
	s.persisted = true
	return s
}
