/*
Package flowmap turns workflow state machines into positioned node-link diagrams.

A workflow is a flat list of transitions between states. flowmap deduplicates the states into
nodes, emits one edge per transition, lays the nodes out in left-to-right levels (breadth-first
from the states nothing points to) and reconciles that layout with the positions a user saved by
dragging nodes around.

# Concept

The pipeline is pure and synchronous:

	transitions ─> diagram.Build ─> diagram.Validate ─> diagram.Arrange ─> domain.Graph
	                                                        ▲
	                                    saved PositionsMap ─┘

Everything stateful lives at the edges: package layouts serializes access to the layout store,
diagram.Surface tracks drags and selections for an interactive renderer, and the adapters
(memory, file, Redis, HTTP, MCP) plug the pipeline into storage and transport.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/flowmap"
	)

	func main() {
		// Workflows in ./workflows/<id>.yaml, layouts saved to ./layouts/<id>.json
		mgr := flowmap.New(".")

		g, err := mgr.Diagram(context.Background(), "orders", "Draft")
		if err != nil {
			log.Fatal(err)
		}
		for _, n := range g.Nodes {
			fmt.Println(n.ID, n.Position.X, n.Position.Y)
		}
	}
*/
package flowmap
