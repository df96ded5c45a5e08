/*
Package diagram turns workflow transitions into a positioned node-link diagram.

The pipeline has three pure stages:

  - Build: deduplicates the states referenced by a transition list into nodes
    and emits one edge per transition.
  - Layout: assigns deterministic coordinates using breadth-first leveling from
    the entry states (in-degree zero), flowing left to right.
  - Reconcile: overlays a previously saved PositionsMap on top of the computed
    layout, and extracts a fresh PositionsMap after interactive dragging.

Arrange chains Layout and Reconcile for a built graph. Surface is a thin
stateful shell around the pipeline for interactive callers (drag and select).

# Usage

	g := diagram.Build(transitions, "In Review")
	g = diagram.Arrange(g, saved)
	if err := diagram.Validate(g); err != nil {
		// dangling endpoints, the diagram is still drawable
	}

None of the stages fail on malformed input. Validate reports edges whose
endpoints do not resolve to nodes so callers can decide how strict to be.
*/
package diagram
