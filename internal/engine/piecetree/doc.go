// Package piecetree provides the piece-tree text storage used by the text
// buffer: a red-black tree whose nodes ("pieces") each reference a sub-range
// of an immutable text chunk. An in-order traversal of the pieces
// reconstructs the document, in edit order rather than chunk order.
//
// Every node carries aggregated byte and line-feed counts for its whole
// subtree, so offset/position conversion descends the tree like an
// order-statistics lookup:
//
//   - Insert, Delete: O(log n) in the number of pieces
//   - OffsetAt, PositionAt: O(log n)
//   - Extract: O(log n + k) for k extracted bytes
//
// Text is stored exactly once. The original document arrives as immutable
// chunks; inserted text is appended to a change chunk (or, for large inserts,
// split into standalone chunks). Pieces hold (chunk, start, end) references,
// never copies, which keeps edits allocation-light and makes snapshots cheap.
//
// The tree performs no locking and assumes a single logical writer; callers
// provide mutual exclusion.
package piecetree
