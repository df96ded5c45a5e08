/*
Package domain contains the core data model of the flowmap diagram builder.

It defines the records that flow through the builder, layout engine and
position reconciler. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - TransitionRecord: A canonical workflow transition between two states.
  - StateNode: A diagram node, one per distinct state id.
  - TransitionEdge: A diagram edge, one per transition.
  - PositionsMap: Persisted, user-adjustable node coordinates keyed by state id.
  - SelectionDescriptor: What the inspector shows when a node or edge is clicked.
*/
package domain
