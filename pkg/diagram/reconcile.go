package diagram

import "github.com/aretw0/flowmap/pkg/domain"

// Mode decides how a saved PositionsMap and the computed layout combine.
type Mode string

const (
	// ModeSavedOnly computes a layout only when no positions map exists at all.
	// With a map, nodes missing from it keep their constructed position.
	ModeSavedOnly Mode = "saved-only"
	// ModeMixed computes a layout for every node and lets saved positions win per node.
	ModeMixed Mode = "mixed"
)

// ParseMode returns the Mode named by s, defaulting to ModeSavedOnly.
func ParseMode(s string) Mode {
	if Mode(s) == ModeMixed {
		return ModeMixed
	}
	return ModeSavedOnly
}

// ApplyPositions returns a copy of nodes where every node with a key in
// positions takes that position. Other nodes are copied unchanged.
func ApplyPositions(nodes []domain.StateNode, positions domain.PositionsMap) []domain.StateNode {
	out := make([]domain.StateNode, len(nodes))
	copy(out, nodes)
	for i := range out {
		if p, ok := positions[out[i].ID]; ok {
			out[i].Position = p
		}
	}
	return out
}

// ApplySavedPositions picks the position source for each node.
// A nil saved map means every node receives its computed layout position.
// Otherwise the saved map wins for the nodes it names and the remaining nodes
// keep whatever position they were constructed with. Extra keys are ignored.
func ApplySavedPositions(nodes []domain.StateNode, saved, computed domain.PositionsMap) []domain.StateNode {
	if saved == nil {
		return ApplyPositions(nodes, computed)
	}
	return ApplyPositions(nodes, saved)
}

// ExtractPositions projects the live position of every node into a fresh map.
func ExtractPositions(nodes []domain.StateNode) domain.PositionsMap {
	out := make(domain.PositionsMap, len(nodes))
	for _, n := range nodes {
		out[n.ID] = n.Position
	}
	return out
}

// ArrangeOptions configures Arrange.
type ArrangeOptions struct {
	Mode   Mode
	Layout []LayoutOption
}

// ArrangeOption configures Arrange.
type ArrangeOption func(*ArrangeOptions)

// WithMode selects how saved and computed positions combine.
func WithMode(m Mode) ArrangeOption {
	return func(o *ArrangeOptions) {
		o.Mode = m
	}
}

// WithLayout forwards spacing options to the layout engine.
func WithLayout(opts ...LayoutOption) ArrangeOption {
	return func(o *ArrangeOptions) {
		o.Layout = append(o.Layout, opts...)
	}
}

// Arrange positions the nodes of g. The layout engine only runs when it can
// contribute: always without a saved map, and in ModeMixed when the saved map
// misses some nodes. The input graph is not modified.
func Arrange(g domain.Graph, saved domain.PositionsMap, opts ...ArrangeOption) domain.Graph {
	o := ArrangeOptions{Mode: ModeSavedOnly}
	for _, opt := range opts {
		opt(&o)
	}

	out := g.Clone()
	switch {
	case saved == nil:
		out.Nodes = ApplySavedPositions(out.Nodes, nil, Layout(out.Nodes, out.Edges, o.Layout...))
	case o.Mode == ModeMixed && !covers(saved, out.Nodes):
		computed := Layout(out.Nodes, out.Edges, o.Layout...)
		out.Nodes = ApplyPositions(ApplyPositions(out.Nodes, computed), saved)
	default:
		out.Nodes = ApplySavedPositions(out.Nodes, saved, nil)
	}
	return out
}

func covers(positions domain.PositionsMap, nodes []domain.StateNode) bool {
	for _, n := range nodes {
		if _, ok := positions[n.ID]; !ok {
			return false
		}
	}
	return true
}
