package diagram

import "github.com/aretw0/flowmap/pkg/domain"

const (
	// DefaultHorizontalSpacing is the distance between two consecutive levels.
	DefaultHorizontalSpacing = 400
	// DefaultVerticalSpacing is the distance between two nodes of the same level.
	DefaultVerticalSpacing = 250
)

// LayoutOptions holds the spacing used by Layout.
type LayoutOptions struct {
	HorizontalSpacing float64
	VerticalSpacing   float64
}

// LayoutOption configures Layout.
type LayoutOption func(*LayoutOptions)

// WithHorizontalSpacing overrides the level spacing. Non-positive values are ignored.
func WithHorizontalSpacing(v float64) LayoutOption {
	return func(o *LayoutOptions) {
		if v > 0 {
			o.HorizontalSpacing = v
		}
	}
}

// WithVerticalSpacing overrides the in-level spacing. Non-positive values are ignored.
func WithVerticalSpacing(v float64) LayoutOption {
	return func(o *LayoutOptions) {
		if v > 0 {
			o.VerticalSpacing = v
		}
	}
}

func newLayoutOptions(opts []LayoutOption) LayoutOptions {
	o := LayoutOptions{
		HorizontalSpacing: DefaultHorizontalSpacing,
		VerticalSpacing:   DefaultVerticalSpacing,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Levels is the result of breadth-first leveling.
type Levels struct {
	// Level maps every node id to its BFS distance from the nearest root.
	Level map[string]int
	// ByLevel groups node ids per level, in discovery order.
	ByLevel [][]string
}

// queueItem pairs a state id with its BFS level.
type queueItem struct {
	id    string
	level int
}

// ComputeLevels assigns a level to every node.
// Roots are the nodes with in-degree zero, seeded in node order. A visited set
// makes cycles terminate: back-edges never re-level a node. Nodes unreachable
// from any root (pure cycles) are forced into level 0.
func ComputeLevels(nodes []domain.StateNode, edges []domain.TransitionEdge) Levels {
	res := Levels{Level: make(map[string]int, len(nodes))}
	if len(nodes) == 0 {
		return res
	}

	isNode := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		isNode[n.ID] = true
	}

	adjacency := make(map[string][]string, len(nodes))
	inDegree := make(map[string]int, len(nodes))
	for _, e := range edges {
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		inDegree[e.Target]++
	}

	queue := make([]queueItem, 0, len(nodes))
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, queueItem{id: n.ID, level: 0})
		}
	}

	visited := make(map[string]bool, len(nodes))
	for head := 0; head < len(queue); head++ {
		item := queue[head]
		if visited[item.id] {
			continue
		}
		visited[item.id] = true

		if isNode[item.id] {
			res.place(item.id, item.level)
		}
		for _, next := range adjacency[item.id] {
			queue = append(queue, queueItem{id: next, level: item.level + 1})
		}
	}

	for _, n := range nodes {
		if !visited[n.ID] {
			visited[n.ID] = true
			res.place(n.ID, 0)
		}
	}

	return res
}

func (l *Levels) place(id string, level int) {
	l.Level[id] = level
	for len(l.ByLevel) <= level {
		l.ByLevel = append(l.ByLevel, nil)
	}
	l.ByLevel[level] = append(l.ByLevel[level], id)
}

// Layout computes a left-to-right hierarchical position for every node.
// x grows with the level; each level is centered vertically around y = 0.
// It never fails: without edges all nodes share level 0, without nodes the map is empty.
func Layout(nodes []domain.StateNode, edges []domain.TransitionEdge, opts ...LayoutOption) domain.PositionsMap {
	o := newLayoutOptions(opts)
	levels := ComputeLevels(nodes, edges)

	positions := make(domain.PositionsMap, len(nodes))
	for level, ids := range levels.ByLevel {
		startY := -float64(len(ids)-1) * o.VerticalSpacing / 2
		for i, id := range ids {
			positions[id] = domain.Position{
				X: float64(level) * o.HorizontalSpacing,
				Y: startY + float64(i)*o.VerticalSpacing,
			}
		}
	}
	return positions
}
