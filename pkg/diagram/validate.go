package diagram

import (
	"fmt"

	"github.com/aretw0/flowmap/pkg/domain"
)

// DanglingEdgeError reports an edge endpoint that does not resolve to a node.
type DanglingEdgeError struct {
	EdgeID   string // Transition id
	Endpoint string // "source" or "target"
	StateID  string // The unresolved state id, possibly empty
}

func (e *DanglingEdgeError) Error() string {
	if e.StateID == "" {
		return fmt.Sprintf("edge %q: missing %s state", e.EdgeID, e.Endpoint)
	}
	return fmt.Sprintf("edge %q: %s state %q has no node", e.EdgeID, e.Endpoint, e.StateID)
}

func (e *DanglingEdgeError) Unwrap() error {
	return domain.ErrDanglingEdge
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}

// Validate checks that every edge endpoint resolves to a node of g.
// Build tolerates malformed transitions; Validate lets callers reject them.
func Validate(g domain.Graph) error {
	nodes := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes[n.ID] = true
	}

	var errs []error
	for _, e := range g.Edges {
		if e.Source == "" || !nodes[e.Source] {
			errs = append(errs, &DanglingEdgeError{EdgeID: e.ID, Endpoint: "source", StateID: e.Source})
		}
		if e.Target == "" || !nodes[e.Target] {
			errs = append(errs, &DanglingEdgeError{EdgeID: e.ID, Endpoint: "target", StateID: e.Target})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
