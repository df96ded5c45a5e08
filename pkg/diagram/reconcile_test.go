package diagram_test

import (
	"testing"

	"github.com/aretw0/flowmap/pkg/diagram"
	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestArrange_SavedPositionsAreAllOrNothing(t *testing.T) {
	g := diagram.Build([]domain.TransitionRecord{tr("t1", "A", "B")}, "")
	saved := domain.PositionsMap{"A": {X: 10, Y: 20}}

	got := diagram.Arrange(g, saved)

	assert.Equal(t, domain.Position{X: 10, Y: 20}, got.Nodes[0].Position)
	assert.Equal(t, domain.Position{}, got.Nodes[1].Position, "uncovered nodes keep their constructed position")
}

func TestArrange_MixedModeFillsUncoveredNodes(t *testing.T) {
	g := diagram.Build([]domain.TransitionRecord{tr("t1", "A", "B")}, "")
	saved := domain.PositionsMap{"A": {X: 10, Y: 20}}

	got := diagram.Arrange(g, saved, diagram.WithMode(diagram.ModeMixed))

	assert.Equal(t, domain.Position{X: 10, Y: 20}, got.Nodes[0].Position)
	assert.Equal(t, domain.Position{X: 400, Y: 0}, got.Nodes[1].Position)
}

func TestArrange_NilMapUsesLayout(t *testing.T) {
	g := diagram.Build([]domain.TransitionRecord{tr("t1", "A", "B"), tr("t2", "A", "C")}, "")

	got := diagram.Arrange(g, nil, diagram.WithLayout(diagram.WithHorizontalSpacing(10)))

	assert.Equal(t, domain.PositionsMap{
		"A": {X: 0, Y: 0},
		"B": {X: 10, Y: -125},
		"C": {X: 10, Y: 125},
	}, diagram.ExtractPositions(got.Nodes))
}

func TestArrange_EmptyMapIsStillAMap(t *testing.T) {
	g := diagram.Build([]domain.TransitionRecord{tr("t1", "A", "B")}, "")

	got := diagram.Arrange(g, domain.PositionsMap{})

	for _, n := range got.Nodes {
		assert.Equal(t, domain.Position{}, n.Position)
	}
}

func TestArrange_DoesNotMutateInput(t *testing.T) {
	g := diagram.Build([]domain.TransitionRecord{tr("t1", "A", "B")}, "")

	_ = diagram.Arrange(g, nil)

	for _, n := range g.Nodes {
		assert.Equal(t, domain.Position{}, n.Position)
	}
}

func TestApplySavedPositions(t *testing.T) {
	nodes := []domain.StateNode{{ID: "A"}, {ID: "B"}}
	computed := domain.PositionsMap{"A": {X: 1, Y: 1}, "B": {X: 2, Y: 2}}

	t.Run("Nil Map Takes Computed", func(t *testing.T) {
		got := diagram.ApplySavedPositions(nodes, nil, computed)
		assert.Equal(t, computed, diagram.ExtractPositions(got))
	})

	t.Run("Saved Map Wins And Ignores Extra Keys", func(t *testing.T) {
		saved := domain.PositionsMap{"B": {X: 5, Y: 6}, "ghost": {X: 9, Y: 9}}
		got := diagram.ApplySavedPositions(nodes, saved, computed)
		assert.Equal(t, domain.PositionsMap{
			"A": {X: 0, Y: 0},
			"B": {X: 5, Y: 6},
		}, diagram.ExtractPositions(got))
	})

	t.Run("Inputs Untouched", func(t *testing.T) {
		_ = diagram.ApplySavedPositions(nodes, computed, nil)
		assert.Equal(t, domain.Position{}, nodes[0].Position)
	})
}

func TestExtractPositions_RoundTrip(t *testing.T) {
	g := diagram.Build([]domain.TransitionRecord{tr("t1", "A", "B"), tr("t2", "B", "C")}, "")
	saved := domain.PositionsMap{
		"A":     {X: -3, Y: 7.5},
		"B":     {X: 120, Y: 0},
		"C":     {X: 44, Y: -12},
		"stale": {X: 1, Y: 1},
	}

	got := diagram.ExtractPositions(diagram.ApplySavedPositions(g.Nodes, saved, nil))

	delete(saved, "stale")
	assert.Equal(t, saved, got)
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, diagram.ModeMixed, diagram.ParseMode("mixed"))
	assert.Equal(t, diagram.ModeSavedOnly, diagram.ParseMode("saved-only"))
	assert.Equal(t, diagram.ModeSavedOnly, diagram.ParseMode(""))
}
