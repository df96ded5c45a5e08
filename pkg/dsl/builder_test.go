package dsl_test

import (
	"context"
	"testing"

	"github.com/aretw0/flowmap/pkg/diagram"
	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/aretw0/flowmap/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := dsl.New("orders")

	b.State("draft").Title("Draft")
	b.State("review").Title("In Review").Persisted()

	b.Start("draft")
	b.From("draft").To("review").Name("Submit").ID("submit")
	b.From("review").To("done").Name("Approve").Automated()

	wf, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "orders", wf.ID)
	require.Len(t, wf.Transitions, 3)

	assert.Equal(t, domain.TransitionRecord{
		ID:           "t1",
		StartStateID: domain.NoneStateID,
		EndStateID:   "draft",
		EndStateName: "Draft",
		Automated:    true,
	}, wf.Transitions[0])

	submit := wf.Transitions[1]
	assert.Equal(t, "submit", submit.ID)
	assert.Equal(t, "Draft", submit.StartStateName)
	assert.Equal(t, "In Review", submit.EndStateName)
	assert.True(t, submit.Persisted, "persisted target state marks the transition")

	assert.Equal(t, "t3", wf.Transitions[2].ID)
	assert.Equal(t, "⚡ Approve", diagram.EdgeTitle(wf.Transitions[2]))
}

func TestBuilder_StateIsReused(t *testing.T) {
	b := dsl.New("wf")
	assert.Same(t, b.State("a"), b.State("a"))
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("missing target", func(t *testing.T) {
		b := dsl.New("wf")
		b.From("a")
		_, err := b.Build()
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("duplicate id", func(t *testing.T) {
		b := dsl.New("wf")
		b.From("a").To("b").ID("x")
		b.From("b").To("a").ID("x")
		_, err := b.BuildStore()
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestBuilder_BuildStore(t *testing.T) {
	b := dsl.New("orders")
	b.Start("draft")
	b.From("draft").To("done")

	store, err := b.BuildStore()
	require.NoError(t, err)

	transitions, err := store.ListTransitions(context.Background(), "orders")
	require.NoError(t, err)

	g := diagram.Build(transitions, "")
	assert.Len(t, g.Nodes, 3)
	assert.NoError(t, diagram.Validate(g))
}
