// Package history provides undo/redo for the text storage engine.
//
// The stack stores inverse edits rather than commands: when a change is
// applied to a buffer, the inverse batch returned by the apply pipeline is
// pushed as an undo unit. Undoing applies that batch, and the inverse it
// produces in turn becomes the matching redo unit. One representation
// serves both directions.
//
// # Units
//
// A Unit is one undo step. It carries a uuid identity, a label, a
// timestamp, and one or more edit batches. Grouped units hold a batch per
// grouped change; batches are replayed newest-first so a group unwinds in
// reverse chronological order.
//
// # Stack
//
//	stack := history.NewStack(1000) // Max 1000 undo units
//
//	// Record an applied change
//	stack.Push("typing", result.ReverseEdits)
//
//	// Undo/redo through the owning document's apply closure
//	stack.Undo(apply)
//	stack.Redo(apply)
//
// # Grouping
//
// Multiple changes can collapse into a single undo unit:
//
//	stack.BeginGroup("find and replace")
//	// ... multiple edits ...
//	stack.EndGroup()
//
// Now all edits undo together in one step.
package history
