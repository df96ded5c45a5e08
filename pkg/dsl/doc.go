/*
Package dsl provides a fluent Go builder for workflow transitions.

It lets tests, examples and embedding programs describe a workflow in code instead of a YAML
file, and hands the result to the diagram pipeline through an in-memory TransitionSource.

Example usage:

	b := dsl.New("orders")

	b.State("draft").Title("Draft")
	b.State("review").Title("In Review").Persisted()

	b.Start("draft")
	b.From("draft").To("review").Name("Submit")
	b.From("review").To("draft").Name("Reject")
	b.From("review").To("done").Name("Approve").Automated()

	store, err := b.BuildStore()
	// ... pass store to layouts.NewManager(...)
*/
package dsl
