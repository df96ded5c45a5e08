/*
Package ports defines the driven ports (interfaces) of flowmap.

These interfaces decouple the diagram pipeline from external collaborators,
allowing the layout manager to work with various storage backends and lock
providers.

# Key Interfaces

  - TransitionSource: Lists the transitions of a workflow (e.g., from files or memory).
  - LayoutStore: Persists and loads the PositionsMap of a workflow.
  - DistributedLocker: Provides distributed locking for concurrent layout writes.
*/
package ports
