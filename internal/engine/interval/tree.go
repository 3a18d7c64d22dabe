package interval

// Tree is an augmented red-black tree over intervals. Nodes store
// parent-relative offsets with per-node right-subtree delta corrections, so
// shifting every interval after an edit point costs O(log n) delta
// adjustments instead of touching every node. maxEnd augmentation prunes
// overlap search in the classic interval-tree fashion.
//
// The tree performs no locking; callers serialize access.
type Tree struct {
	sent  *Node
	root  *Node
	count int
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	s := &Node{color: black}
	s.parent, s.left, s.right = s, s, s
	return &Tree{sent: s, root: s}
}

// Count returns the number of stored intervals.
func (t *Tree) Count() int {
	return t.count
}

// Insert adds an interval and returns its node handle.
func (t *Tree) Insert(iv Interval) *Node {
	z := &Node{start: iv.Start, end: iv.End, cachedStart: iv.Start, cachedEnd: iv.End}
	t.rbInsert(z)
	t.count++
	return z
}

// Delete removes a node previously returned by Insert.
func (t *Tree) Delete(z *Node) {
	t.rbDelete(z)
	t.count--
}

// Search returns the nodes whose intervals overlap iv (touching endpoints
// included), in left-to-right document order. Each returned node's cached
// absolute offsets are refreshed.
func (t *Tree) Search(iv Interval) []*Node {
	var result []*Node
	t.search(t.root, 0, iv.Start, iv.End, &result)
	return result
}

func (t *Tree) search(n *Node, delta, qStart, qEnd int, out *[]*Node) {
	if n == t.sent {
		return
	}
	if delta+n.maxEnd < qStart {
		// Nothing in this subtree reaches far enough right.
		return
	}
	t.search(n.left, delta, qStart, qEnd, out)
	nodeStart := delta + n.start
	if nodeStart > qEnd {
		// This node and everything to its right starts too late.
		return
	}
	nodeEnd := delta + n.end
	if nodeEnd >= qStart {
		n.cachedStart, n.cachedEnd = nodeStart, nodeEnd
		*out = append(*out, n)
	}
	t.search(n.right, delta+n.delta, qStart, qEnd, out)
}

// All returns every node in document order with refreshed cached offsets.
func (t *Tree) All() []*Node {
	result := make([]*Node, 0, t.count)
	t.collect(t.root, 0, &result)
	return result
}

func (t *Tree) collect(n *Node, delta int, out *[]*Node) {
	if n == t.sent {
		return
	}
	t.collect(n.left, delta, out)
	n.cachedStart = delta + n.start
	n.cachedEnd = delta + n.end
	*out = append(*out, n)
	t.collect(n.right, delta+n.delta, out)
}

// AllInOrder returns every stored interval in document order.
func (t *Tree) AllInOrder() []Interval {
	nodes := t.All()
	result := make([]Interval, len(nodes))
	for i, n := range nodes {
		result[i] = n.Interval()
	}
	return result
}

// Resolve computes n's current absolute interval by summing the deltas of
// the right-subtree edges on its path to the root. It does not touch the
// node's cached offsets, so it is safe under a read lock.
func (t *Tree) Resolve(n *Node) Interval {
	delta := 0
	for x := n; x != t.root; x = x.parent {
		if x == x.parent.right {
			delta += x.parent.delta
		}
	}
	return Interval{Start: n.start + delta, End: n.end + delta}
}

// AcceptReplace adjusts the tree for a text edit replacing [offset,
// offset+length) with textLength characters. Intervals overlapping the
// edited range are removed, individually adjusted, and reinserted; the
// untouched remainder of the tree is shifted through O(log n) delta
// corrections.
func (t *Tree) AcceptReplace(offset, length, textLength int, forceMoveMarkers bool) {
	editEnd := offset + length
	nodes := t.searchForEditing(offset, editEnd)
	for _, n := range nodes {
		t.rbDelete(n)
	}

	t.noOverlapReplace(t.root, 0, editEnd, textLength-length)

	for _, n := range nodes {
		start := adjustPoint(n.cachedStart, offset, editEnd, textLength, forceMoveMarkers)
		end := adjustPoint(n.cachedEnd, offset, editEnd, textLength, forceMoveMarkers)
		if end < start {
			end = start
		}
		n.start, n.end = start, end
		n.cachedStart, n.cachedEnd = start, end
		t.rbInsert(n)
	}
}

// adjustPoint maps one offset through the edit.
func adjustPoint(p, editStart, editEnd, textLength int, forceMoveMarkers bool) int {
	switch {
	case p < editStart:
		return p
	case p > editEnd:
		return p + textLength - (editEnd - editStart)
	case forceMoveMarkers:
		return editStart + textLength
	default:
		return editStart
	}
}

// searchForEditing is Search over [start, end] that tolerates the collected
// nodes being deleted afterwards.
func (t *Tree) searchForEditing(start, end int) []*Node {
	var result []*Node
	t.search(t.root, 0, start, end, &result)
	return result
}

// noOverlapReplace shifts, by editDelta, every interval starting strictly
// after editEnd. Overlapping intervals have already been removed, so a
// single root-to-leaf descent suffices: a shifted node covers its whole
// right subtree by bumping its delta, and only its left subtree needs
// further inspection.
func (t *Tree) noOverlapReplace(n *Node, acc, editEnd, editDelta int) {
	if n == t.sent {
		return
	}
	if acc+n.start > editEnd {
		n.start += editDelta
		n.end += editDelta
		n.delta += editDelta
		t.noOverlapReplace(n.left, acc, editEnd, editDelta)
	} else {
		t.noOverlapReplace(n.right, acc+n.delta, editEnd, editDelta)
	}
	t.recomputeMaxEnd(n)
}

// recomputeMaxEnd refreshes a node's maxEnd from its own end and its
// children's maxEnd values (right subtree corrected by delta).
func (t *Tree) recomputeMaxEnd(n *Node) {
	maxEnd := n.end
	if n.left != t.sent && n.left.maxEnd > maxEnd {
		maxEnd = n.left.maxEnd
	}
	if n.right != t.sent && n.right.maxEnd+n.delta > maxEnd {
		maxEnd = n.right.maxEnd + n.delta
	}
	n.maxEnd = maxEnd
}

// recomputeMaxEndWalk propagates maxEnd recomputation from n to the root,
// stopping early once a node's maxEnd is unchanged (its ancestors take a max
// over a superset, so they cannot have changed either).
func (t *Tree) recomputeMaxEndWalk(n *Node) {
	for n != t.sent {
		maxEnd := n.end
		if n.left != t.sent && n.left.maxEnd > maxEnd {
			maxEnd = n.left.maxEnd
		}
		if n.right != t.sent && n.right.maxEnd+n.delta > maxEnd {
			maxEnd = n.right.maxEnd + n.delta
		}
		if n.maxEnd == maxEnd {
			return
		}
		n.maxEnd = maxEnd
		n = n.parent
	}
}

// recomputeMaxEndWalkAll is the unconditional variant used after node
// removal, where the early-exit shortcut does not hold.
func (t *Tree) recomputeMaxEndWalkAll(n *Node) {
	for n != t.sent {
		t.recomputeMaxEnd(n)
		n = n.parent
	}
}

// compareIntervals orders intervals lexicographically by (start, end).
func compareIntervals(aStart, aEnd, bStart, bEnd int) int {
	if aStart != bStart {
		return aStart - bStart
	}
	return aEnd - bEnd
}

// treeInsert descends by absolute coordinates, converting z's absolute
// start/end into its future parent's frame by subtracting the deltas
// accumulated along the way.
func (t *Tree) treeInsert(z *Node) {
	delta := 0
	x := t.root
	zStart, zEnd := z.start, z.end
	for {
		if compareIntervals(zStart, zEnd, x.start+delta, x.end+delta) < 0 {
			if x.left == t.sent {
				z.start -= delta
				z.end -= delta
				z.maxEnd = z.end
				x.left = z
				break
			}
			x = x.left
		} else {
			if x.right == t.sent {
				z.start -= delta + x.delta
				z.end -= delta + x.delta
				z.maxEnd = z.end
				x.right = z
				break
			}
			delta += x.delta
			x = x.right
		}
	}
	z.parent = x
	z.left = t.sent
	z.right = t.sent
	z.color = red
}

func (t *Tree) rbInsert(z *Node) {
	if t.root == t.sent {
		z.parent = t.sent
		z.left = t.sent
		z.right = t.sent
		z.delta = 0
		z.maxEnd = z.end
		z.color = black
		t.root = z
		return
	}

	z.delta = 0
	t.treeInsert(z)
	t.recomputeMaxEndWalk(z.parent)

	// Standard red-uncle/black-uncle fixup.
	x := z
	for x != t.root && x.parent.color == red {
		if x.parent == x.parent.parent.left {
			uncle := x.parent.parent.right
			if uncle.color == red {
				x.parent.color = black
				uncle.color = black
				x.parent.parent.color = red
				x = x.parent.parent
			} else {
				if x == x.parent.right {
					x = x.parent
					t.leftRotate(x)
				}
				x.parent.color = black
				x.parent.parent.color = red
				t.rightRotate(x.parent.parent)
			}
		} else {
			uncle := x.parent.parent.left
			if uncle.color == red {
				x.parent.color = black
				uncle.color = black
				x.parent.parent.color = red
				x = x.parent.parent
			} else {
				if x == x.parent.left {
					x = x.parent
					t.rightRotate(x)
				}
				x.parent.color = black
				x.parent.parent.color = red
				t.leftRotate(x.parent.parent)
			}
		}
	}
	t.root.color = black
	t.resetSentinel()
}

// leftRotate rotates x with its right child y. y moves out of x's
// right-subtree frame, so x's delta folds into y's coordinates and delta;
// x keeps its own coordinates and becomes y's left child in the same frame.
func (t *Tree) leftRotate(x *Node) {
	y := x.right

	y.delta += x.delta
	y.start += x.delta
	y.end += x.delta

	x.right = y.left
	if y.left != t.sent {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == t.sent {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y

	t.recomputeMaxEnd(x)
	t.recomputeMaxEnd(y)
}

// rightRotate rotates y with its left child x. y moves into x's
// right-subtree frame, so x's delta is subtracted back out of y's
// coordinates and delta.
func (t *Tree) rightRotate(y *Node) {
	x := y.left

	y.start -= x.delta
	y.end -= x.delta
	y.delta -= x.delta

	y.left = x.right
	if x.right != t.sent {
		x.right.parent = y
	}
	x.parent = y.parent
	if y.parent == t.sent {
		t.root = x
	} else if y == y.parent.right {
		y.parent.right = x
	} else {
		y.parent.left = x
	}
	x.right = y
	y.parent = x

	t.recomputeMaxEnd(y)
	t.recomputeMaxEnd(x)
}

// rbDelete removes z. When z has two children its in-order successor y is
// spliced into z's position; y's delta is re-homed into the node that
// inherits its old slot (its right child x, which in a red-black tree is at
// most a single red node, so the adjustment is complete without walking a
// subtree).
func (t *Tree) rbDelete(z *Node) {
	var x, y *Node

	switch {
	case z.left == t.sent:
		x = z.right
		y = z
		// x leaves z's right-subtree frame.
		x.delta += z.delta
		x.start += z.delta
		x.end += z.delta
	case z.right == t.sent:
		x = z.left
		y = z
	default:
		y = z.right
		for y.left != t.sent {
			y = y.left
		}
		x = y.right

		// x leaves y's right-subtree frame.
		x.start += y.delta
		x.end += y.delta
		x.delta += y.delta

		// y takes over z's coordinates and (for z's old right subtree)
		// z's delta.
		y.start += z.delta
		y.end += z.delta
		y.delta = z.delta
	}

	if y == t.root {
		t.root = x
		x.color = black
		if x != t.sent {
			t.recomputeMaxEnd(x)
		}
		z.detach()
		t.resetSentinel()
		t.root.parent = t.sent
		return
	}

	yWasRed := y.color == red

	if y == y.parent.left {
		y.parent.left = x
	} else {
		y.parent.right = x
	}

	if y == z {
		x.parent = y.parent
	} else {
		if y.parent == z {
			x.parent = y
		} else {
			x.parent = y.parent
		}

		y.left = z.left
		y.right = z.right
		y.parent = z.parent
		y.color = z.color

		if z == t.root {
			t.root = y
		} else if z == z.parent.left {
			z.parent.left = y
		} else {
			z.parent.right = y
		}
		if y.left != t.sent {
			y.left.parent = y
		}
		if y.right != t.sent {
			y.right.parent = y
		}
	}

	z.detach()

	// A deletion can lower an ancestor's maxEnd even when the subtree
	// below the splice point is unchanged, so walk all the way up.
	if x != t.sent {
		t.recomputeMaxEnd(x)
	}
	t.recomputeMaxEndWalkAll(x.parent)

	if yWasRed {
		t.resetSentinel()
		return
	}

	// Delete fixup: restore black-height balance.
	for x != t.root && x.color == black {
		if x == x.parent.left {
			w := x.parent.right
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.leftRotate(x.parent)
				w = x.parent.right
			}
			if w.left.color == black && w.right.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.right.color == black {
					w.left.color = black
					w.color = red
					t.rightRotate(w)
					w = x.parent.right
				}
				w.color = x.parent.color
				x.parent.color = black
				w.right.color = black
				t.leftRotate(x.parent)
				x = t.root
			}
		} else {
			w := x.parent.left
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.rightRotate(x.parent)
				w = x.parent.left
			}
			if w.right.color == black && w.left.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.left.color == black {
					w.right.color = black
					w.color = red
					t.leftRotate(w)
					w = x.parent.left
				}
				w.color = x.parent.color
				x.parent.color = black
				w.left.color = black
				t.rightRotate(x.parent)
				x = t.root
			}
		}
	}
	x.color = black
	t.resetSentinel()
}

// resetSentinel restores the shared leaf node to its canonical zero state.
// Deletions and rotations may transiently write coordinates or links into
// it.
func (t *Tree) resetSentinel() {
	s := t.sent
	s.parent, s.left, s.right = s, s, s
	s.color = black
	s.start, s.end, s.delta, s.maxEnd = 0, 0, 0, 0
}
