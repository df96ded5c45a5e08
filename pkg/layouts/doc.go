/*
Package layouts assembles positioned diagrams for stored workflows and persists the
positions users drag nodes to.

The Manager sits between the pure diagram pipeline (package diagram) and the driven ports:

	transitions (TransitionSource) ─┐
	                                ├─> Build -> Validate -> Arrange -> Graph
	positions   (LayoutStore)     ──┘

Writes to the LayoutStore are serialized per workflow with reference-counted in-process
mutexes and, when configured, a DistributedLocker shared by every replica.

PersistAsync is the fire-and-forget sink wired to diagram.Surface drag callbacks: it never
returns an error, failures are logged and counted.
*/
package layouts
