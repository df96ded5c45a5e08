package diagram_test

import (
	"testing"

	"github.com/aretw0/flowmap/pkg/diagram"
	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_Examples(t *testing.T) {
	tests := []struct {
		name        string
		transitions []domain.TransitionRecord
		wantLevels  map[string]int
		want        domain.PositionsMap
	}{
		{
			name:        "Entry From None State",
			transitions: []domain.TransitionRecord{tr("t1", domain.NoneStateID, "A")},
			wantLevels:  map[string]int{domain.NoneStateID: 0, "A": 1},
			want: domain.PositionsMap{
				domain.NoneStateID: {X: 0, Y: 0},
				"A":                {X: 400, Y: 0},
			},
		},
		{
			name:        "Branch Is Centered",
			transitions: []domain.TransitionRecord{tr("t1", "A", "B"), tr("t2", "A", "C")},
			wantLevels:  map[string]int{"A": 0, "B": 1, "C": 1},
			want: domain.PositionsMap{
				"A": {X: 0, Y: 0},
				"B": {X: 400, Y: -125},
				"C": {X: 400, Y: 125},
			},
		},
		{
			name:        "Self Loop Terminates",
			transitions: []domain.TransitionRecord{tr("t1", "A", "A")},
			wantLevels:  map[string]int{"A": 0},
			want:        domain.PositionsMap{"A": {X: 0, Y: 0}},
		},
		{
			name:        "Pure Cycle Falls Back To Level Zero",
			transitions: []domain.TransitionRecord{tr("t1", "A", "B"), tr("t2", "B", "C"), tr("t3", "C", "A")},
			wantLevels:  map[string]int{"A": 0, "B": 0, "C": 0},
			want: domain.PositionsMap{
				"A": {X: 0, Y: -250},
				"B": {X: 0, Y: 0},
				"C": {X: 0, Y: 250},
			},
		},
		{
			name: "Back Edge Does Not Relevel",
			transitions: []domain.TransitionRecord{
				tr("t1", "A", "B"), tr("t2", "B", "C"), tr("t3", "C", "B"),
			},
			wantLevels: map[string]int{"A": 0, "B": 1, "C": 2},
			want: domain.PositionsMap{
				"A": {X: 0, Y: 0},
				"B": {X: 400, Y: 0},
				"C": {X: 800, Y: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := diagram.Build(tt.transitions, "")
			levels := diagram.ComputeLevels(g.Nodes, g.Edges)
			assert.Equal(t, tt.wantLevels, levels.Level)
			assert.Equal(t, tt.want, diagram.Layout(g.Nodes, g.Edges))
		})
	}
}

func TestLayout_NoEdgesSpreadsVertically(t *testing.T) {
	nodes := []domain.StateNode{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}

	got := diagram.Layout(nodes, nil)

	assert.Equal(t, domain.PositionsMap{
		"a": {X: 0, Y: -375},
		"b": {X: 0, Y: -125},
		"c": {X: 0, Y: 125},
		"d": {X: 0, Y: 375},
	}, got)
}

func TestLayout_Empty(t *testing.T) {
	assert.Empty(t, diagram.Layout(nil, nil))
	assert.Empty(t, diagram.ComputeLevels(nil, nil).ByLevel)
}

func TestLayout_CustomSpacing(t *testing.T) {
	g := diagram.Build([]domain.TransitionRecord{tr("t1", "A", "B"), tr("t2", "A", "C")}, "")

	got := diagram.Layout(g.Nodes, g.Edges,
		diagram.WithHorizontalSpacing(100),
		diagram.WithVerticalSpacing(40),
		diagram.WithVerticalSpacing(-1), // ignored
	)

	assert.Equal(t, domain.Position{X: 100, Y: -20}, got["B"])
	assert.Equal(t, domain.Position{X: 100, Y: 20}, got["C"])
}

func TestLayout_DanglingTargetIsNotPositioned(t *testing.T) {
	g := diagram.Build([]domain.TransitionRecord{tr("t1", "A", "")}, "")

	got := diagram.Layout(g.Nodes, g.Edges)

	assert.Equal(t, domain.PositionsMap{"A": {X: 0, Y: 0}}, got)
}

func TestLayout_Deterministic(t *testing.T) {
	transitions := []domain.TransitionRecord{
		tr("t1", domain.NoneStateID, "new"),
		tr("t2", "new", "triage"),
		tr("t3", "triage", "in_progress"),
		tr("t4", "triage", "rejected"),
		tr("t5", "in_progress", "done"),
		tr("t6", "in_progress", "triage"),
		tr("t7", "done", "in_progress"),
	}

	first := diagram.Arrange(diagram.Build(transitions, ""), nil)
	for i := 0; i < 20; i++ {
		again := diagram.Arrange(diagram.Build(transitions, ""), nil)
		require.Equal(t, first, again)
	}
}

func TestLayout_LevelInvariant(t *testing.T) {
	// Every node is reachable from a root; back-edges included.
	transitions := []domain.TransitionRecord{
		tr("t1", "r1", "a"),
		tr("t2", "r1", "b"),
		tr("t3", "a", "c"),
		tr("t4", "b", "c"),
		tr("t5", "c", "d"),
		tr("t6", "d", "a"),
		tr("t7", "r2", "d"),
		tr("t8", "d", "e"),
		tr("t9", "e", "e"),
	}
	g := diagram.Build(transitions, "")
	levels := diagram.ComputeLevels(g.Nodes, g.Edges)

	require.Len(t, levels.Level, len(g.Nodes))
	for _, e := range g.Edges {
		assert.LessOrEqual(t, levels.Level[e.Target], levels.Level[e.Source]+1,
			"edge %s: %s -> %s", e.ID, e.Source, e.Target)
	}
	assert.Equal(t, 1, levels.Level["d"], "d is reached from r2 directly")
	assert.Equal(t, []string{"r1", "r2"}, levels.ByLevel[0])
}
