package interval

type nodeColor uint8

const (
	red nodeColor = iota
	black
)

// Interval is an absolute [Start, End] offset pair. Intervals appear only at
// the tree's API boundary; inside the tree all coordinates are
// parent-relative.
type Interval struct {
	Start int
	End   int
}

// Node is one stored interval. Its start and end are offsets relative to its
// parent's coordinate frame; delta is the correction applied to the entire
// right subtree; maxEnd is the maximum end offset across the subtree,
// expressed in the node's own frame.
//
// Node values are stable handles: Insert returns the node, and the node
// remains valid (and keeps its identity) across edits until deleted.
type Node struct {
	left, right, parent *Node
	color               nodeColor

	start, end int
	delta      int
	maxEnd     int

	// Absolute offsets as of the last query that visited this node.
	cachedStart, cachedEnd int
}

// Interval returns the node's absolute interval as resolved by the most
// recent Search, All, or AcceptReplace that visited it.
func (n *Node) Interval() Interval {
	return Interval{Start: n.cachedStart, End: n.cachedEnd}
}

// detach clears the node's structural links.
func (n *Node) detach() {
	n.parent = nil
	n.left = nil
	n.right = nil
}
