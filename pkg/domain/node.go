package domain

// NoneStateID is the reserved state id meaning "no prior state".
// Transitions leaving it start a workflow.
const NoneStateID = "noneState"

// Position is a 2D coordinate on the diagram canvas.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// PositionsMap maps state ids to saved coordinates.
type PositionsMap map[string]Position

// Clone returns a copy of the map. A nil map stays nil.
func (m PositionsMap) Clone() PositionsMap {
	if m == nil {
		return nil
	}
	out := make(PositionsMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// StateNode is a diagram node representing a workflow state.
type StateNode struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Position       Position `json:"position"`
	IsCurrentState bool     `json:"isCurrentState"`
	IsNoneState    bool     `json:"isNoneState"`
	Persisted      bool     `json:"persisted"`
}

// TransitionEdge is a diagram edge representing a workflow transition.
type TransitionEdge struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	Title     string `json:"title"`
	Automated bool   `json:"automated"`
	Persisted bool   `json:"persisted"`
}

// Graph is the node-link view handed to the diagram surface.
type Graph struct {
	Nodes []StateNode      `json:"nodes"`
	Edges []TransitionEdge `json:"edges"`
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]StateNode, len(g.Nodes)),
		Edges: make([]TransitionEdge, len(g.Edges)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)
	return out
}
