package domain

// SelectionType discriminates what was clicked on the diagram.
type SelectionType string

const (
	SelectionNode SelectionType = "node"
	SelectionEdge SelectionType = "edge"
)

// SelectionDescriptor is handed to the inspector when a node or edge is selected.
type SelectionDescriptor struct {
	Type      SelectionType `json:"type"`
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Persisted bool          `json:"persisted"`
}
