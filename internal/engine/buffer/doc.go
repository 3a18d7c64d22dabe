// Package buffer provides the text buffer that wraps a piece tree with
// document-level behavior: line/column/offset queries, byte-order-mark and
// line-ending metadata, content-classification fast-path flags, and the
// batch edit-application pipeline.
//
// Edits are submitted as batches of EditOperation values. ApplyEdits
// validates the batch (overlapping ranges are rejected before any mutation),
// sorts it, optionally collapses oversized untracked batches into one
// synthetic edit, computes the inverse edits needed for undo, and applies
// the batch bottom-to-top against the piece tree. See ApplyEdits for the
// exact contract.
//
// Positions are 1-based (line, column) pairs; offsets are 0-based byte
// offsets. For every offset o in [0, Length()]:
//
//	off, _ := b.OffsetAt(must(b.PositionAt(o)))
//	off == o
//
// Buffers are constructed through Builder (or the NewFromString /
// NewFromReader helpers), which detect the BOM and the dominant line-ending
// style and normalize lone-CR or mixed-ending documents.
//
// The buffer does no locking; a single logical writer is assumed, with
// mutual exclusion provided by the owning layer.
package buffer
