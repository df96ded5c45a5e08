package flowmap_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/flowmap"
	"github.com/aretw0/flowmap/pkg/domain"
)

// ExampleDraw shows the pure pipeline: states fan out left to right and
// siblings are centered around y=0.
func ExampleDraw() {
	transitions := []domain.TransitionRecord{
		{ID: "t1", StartStateID: "A", EndStateID: "B"},
		{ID: "t2", StartStateID: "A", EndStateID: "C", Name: "Escalate", Automated: true},
	}

	g := flowmap.Draw(transitions, nil, "")
	for _, n := range g.Nodes {
		fmt.Printf("%s (%g, %g)\n", n.ID, n.Position.X, n.Position.Y)
	}
	for _, e := range g.Edges {
		fmt.Printf("%s: %s -> %s %q\n", e.ID, e.Source, e.Target, e.Title)
	}
	// Output:
	// A (0, 0)
	// B (400, -125)
	// C (400, 125)
	// t1: A -> B ""
	// t2: A -> C "⚡ Escalate"
}

// ExampleDraw_savedPositions shows that a saved map wins for the nodes it names.
func ExampleDraw_savedPositions() {
	transitions := []domain.TransitionRecord{
		{ID: "t1", StartStateID: "A", EndStateID: "B"},
	}

	g := flowmap.Draw(transitions, domain.PositionsMap{"A": {X: 10, Y: 20}}, "")
	for _, n := range g.Nodes {
		fmt.Printf("%s (%g, %g)\n", n.ID, n.Position.X, n.Position.Y)
	}
	// Output:
	// A (10, 20)
	// B (0, 0)
}

// ExampleNew demonstrates a file-backed project directory.
func ExampleNew() {
	dir, err := os.MkdirTemp("", "flowmap-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	_ = os.MkdirAll(filepath.Join(dir, "workflows"), 0755)
	_ = os.WriteFile(filepath.Join(dir, "workflows", "orders.yaml"), []byte(`
id: orders
transitions:
  - {id: t1, from: noneState, to: draft, toStateName: Draft, automated: true}
  - {id: t2, from: draft, to: done, name: Finish}
`), 0644)

	mgr := flowmap.New(dir)
	ctx := context.Background()

	g, err := mgr.Diagram(ctx, "orders", "Draft")
	if err != nil {
		log.Fatal(err)
	}
	for _, n := range g.Nodes {
		fmt.Printf("%s current=%v x=%g\n", n.ID, n.IsCurrentState, n.Position.X)
	}
	// Output:
	// noneState current=false x=0
	// draft current=true x=400
	// done current=false x=800
}
