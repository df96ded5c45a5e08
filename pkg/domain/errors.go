package domain

import "errors"

// ErrWorkflowNotFound is returned when no transitions are known for a workflow id.
var ErrWorkflowNotFound = errors.New("workflow not found")

// ErrLayoutNotFound is returned when no positions map was saved for a workflow.
var ErrLayoutNotFound = errors.New("layout not found")

// ErrDanglingEdge is returned when an edge endpoint does not match any node.
var ErrDanglingEdge = errors.New("dangling edge endpoint")

// ErrInvalidTransition is returned when a raw transition record cannot be decoded.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrElementNotFound is returned when a selected node or edge is not in the diagram.
var ErrElementNotFound = errors.New("diagram element not found")

// ErrInvalidSelection is returned for a selection kind other than node or edge.
var ErrInvalidSelection = errors.New("invalid selection type")

// ErrInvalidWorkflowID is returned when a workflow id cannot name a stored document.
var ErrInvalidWorkflowID = errors.New("invalid workflow id")
