package diagram

import (
	"sync"

	"github.com/aretw0/flowmap/pkg/domain"
)

// Surface is the stateful shell between the pure pipeline and an interactive
// renderer. It owns the current node and edge set, applies drags in place and
// resolves clicks into selection descriptors.
//
// Update replaces the whole set. A drag that has not reported its final
// position yet is lost when Update runs in between.
type Surface struct {
	mu    sync.Mutex
	graph domain.Graph

	arrange  []ArrangeOption
	onUpdate func(domain.PositionsMap)
	onSelect func(domain.SelectionDescriptor)
}

// SurfaceOption configures a Surface.
type SurfaceOption func(*Surface)

// WithOnUpdatePositionsMap registers the callback receiving positions after a drag ends.
// The callback is fire-and-forget: it has no error channel.
func WithOnUpdatePositionsMap(fn func(domain.PositionsMap)) SurfaceOption {
	return func(s *Surface) {
		s.onUpdate = fn
	}
}

// WithOnSelect registers the callback receiving resolved selections.
func WithOnSelect(fn func(domain.SelectionDescriptor)) SurfaceOption {
	return func(s *Surface) {
		s.onSelect = fn
	}
}

// WithArrangeOptions forwards options to Arrange on every Update.
func WithArrangeOptions(opts ...ArrangeOption) SurfaceOption {
	return func(s *Surface) {
		s.arrange = append(s.arrange, opts...)
	}
}

// NewSurface creates an empty surface.
func NewSurface(opts ...SurfaceOption) *Surface {
	s := &Surface{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update recomputes nodes, edges and positions from scratch.
func (s *Surface) Update(transitions []domain.TransitionRecord, saved domain.PositionsMap, currentStateName string) domain.Graph {
	g := Arrange(Build(transitions, currentStateName), saved, s.arrange...)

	s.mu.Lock()
	s.graph = g
	s.mu.Unlock()

	return g.Clone()
}

// Graph returns a copy of the live nodes and edges.
func (s *Surface) Graph() domain.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Clone()
}

// MoveNode patches the live position of a node during a drag.
// It reports whether the node exists.
func (s *Surface) MoveNode(id string, pos domain.Position) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.graph.Nodes {
		if s.graph.Nodes[i].ID == id {
			s.graph.Nodes[i].Position = pos
			return true
		}
	}
	return false
}

// OnNodeDragEnd records the on-screen positions reported by the renderer,
// extracts a PositionsMap from the live set and forwards it to the update
// callback. Reported nodes unknown to the surface are ignored. A nil slice
// extracts the live set as is.
func (s *Surface) OnNodeDragEnd(nodes []domain.StateNode) domain.PositionsMap {
	s.mu.Lock()
	if nodes != nil {
		s.graph.Nodes = ApplyPositions(s.graph.Nodes, ExtractPositions(nodes))
	}
	positions := ExtractPositions(s.graph.Nodes)
	onUpdate := s.onUpdate
	s.mu.Unlock()

	if onUpdate != nil {
		onUpdate(positions.Clone())
	}
	return positions
}

// OnNodeSelect resolves a clicked node.
func (s *Surface) OnNodeSelect(id string) (domain.SelectionDescriptor, bool) {
	s.mu.Lock()
	sel, ok := SelectNode(s.graph, id)
	onSelect := s.onSelect
	s.mu.Unlock()

	if ok && onSelect != nil {
		onSelect(sel)
	}
	return sel, ok
}

// OnEdgeSelect resolves a clicked edge.
func (s *Surface) OnEdgeSelect(id string) (domain.SelectionDescriptor, bool) {
	s.mu.Lock()
	sel, ok := SelectEdge(s.graph, id)
	onSelect := s.onSelect
	s.mu.Unlock()

	if ok && onSelect != nil {
		onSelect(sel)
	}
	return sel, ok
}

// SelectNode describes the node with the given id.
func SelectNode(g domain.Graph, id string) (domain.SelectionDescriptor, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return domain.SelectionDescriptor{
				Type:      domain.SelectionNode,
				ID:        n.ID,
				Title:     n.Title,
				Persisted: n.Persisted,
			}, true
		}
	}
	return domain.SelectionDescriptor{}, false
}

// SelectEdge describes the edge with the given id.
func SelectEdge(g domain.Graph, id string) (domain.SelectionDescriptor, bool) {
	for _, e := range g.Edges {
		if e.ID == id {
			return domain.SelectionDescriptor{
				Type:      domain.SelectionEdge,
				ID:        e.ID,
				Title:     e.Title,
				Persisted: e.Persisted,
			}, true
		}
	}
	return domain.SelectionDescriptor{}, false
}
