// Package interval implements an augmented red-black interval tree tuned
// for tracked ranges in an editable document.
//
// The defining feature is delta encoding: every node stores its start and
// end relative to its parent, plus a delta that applies to its entire right
// subtree. When text is inserted or deleted, every interval positioned after
// the edit must shift by the same amount; the delta encoding turns that bulk
// shift into O(log n) adjustments along a single root-to-leaf path instead
// of a walk over every node. The classic maxEnd augmentation rides on top,
// kept in each node's own coordinate frame, so overlap queries prune
// subtrees without resolving absolute offsets first.
//
// Typical use pairs the tree with a text buffer: markers are inserted as
// intervals, AcceptReplace is called once per applied content change, and
// Search answers "which markers intersect this range" during rendering or
// decoration passes.
//
// The tree is not safe for concurrent use; the owning document serializes
// access.
package interval
