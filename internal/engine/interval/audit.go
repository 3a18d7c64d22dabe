package interval

import "fmt"

// Audit verifies the tree's structural invariants: the red-black
// properties, maxEnd correctness in every node's coordinate frame, the
// (start, end) ordering of resolved absolute intervals, and the sentinel's
// canonical state. It returns the first violation found, or nil.
//
// Audit walks the whole tree; it is meant for tests and debugging, not for
// production paths.
func (t *Tree) Audit() error {
	s := t.sent
	if s.color != black {
		return fmt.Errorf("interval: sentinel is not black")
	}
	if s.parent != s || s.left != s || s.right != s {
		return fmt.Errorf("interval: sentinel links are not self-referential")
	}
	if s.start != 0 || s.end != 0 || s.delta != 0 || s.maxEnd != 0 {
		return fmt.Errorf("interval: sentinel carries stale values")
	}
	if t.root == s {
		if t.count != 0 {
			return fmt.Errorf("interval: empty tree reports count %d", t.count)
		}
		return nil
	}
	if t.root.color != black {
		return fmt.Errorf("interval: root is red")
	}
	if t.root.parent != s {
		return fmt.Errorf("interval: root parent is not the sentinel")
	}

	if _, err := t.auditNode(t.root); err != nil {
		return err
	}

	seen := 0
	prevStart, prevEnd := -1, -1
	var orderErr error
	t.auditOrder(t.root, 0, &seen, &prevStart, &prevEnd, &orderErr)
	if orderErr != nil {
		return orderErr
	}
	if seen != t.count {
		return fmt.Errorf("interval: count is %d but tree holds %d nodes", t.count, seen)
	}
	return nil
}

// auditNode checks color and maxEnd invariants and returns the subtree's
// black height.
func (t *Tree) auditNode(n *Node) (int, error) {
	if n == t.sent {
		return 1, nil
	}
	if n.color == red {
		if n.left.color == red || n.right.color == red {
			return 0, fmt.Errorf("interval: red node at start %d has a red child", n.start)
		}
	}
	if n.left != t.sent && n.left.parent != n {
		return 0, fmt.Errorf("interval: broken parent link at start %d (left)", n.start)
	}
	if n.right != t.sent && n.right.parent != n {
		return 0, fmt.Errorf("interval: broken parent link at start %d (right)", n.start)
	}

	maxEnd := n.end
	if n.left != t.sent && n.left.maxEnd > maxEnd {
		maxEnd = n.left.maxEnd
	}
	if n.right != t.sent && n.right.maxEnd+n.delta > maxEnd {
		maxEnd = n.right.maxEnd + n.delta
	}
	if n.maxEnd != maxEnd {
		return 0, fmt.Errorf("interval: maxEnd at start %d is %d, want %d", n.start, n.maxEnd, maxEnd)
	}

	lh, err := t.auditNode(n.left)
	if err != nil {
		return 0, err
	}
	rh, err := t.auditNode(n.right)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, fmt.Errorf("interval: black height mismatch at start %d: %d vs %d", n.start, lh, rh)
	}
	if n.color == black {
		lh++
	}
	return lh, nil
}

// auditOrder resolves absolute intervals in-order and checks that they are
// non-decreasing by (start, end) and non-negative in extent.
func (t *Tree) auditOrder(n *Node, delta int, seen *int, prevStart, prevEnd *int, out *error) {
	if n == t.sent || *out != nil {
		return
	}
	t.auditOrder(n.left, delta, seen, prevStart, prevEnd, out)
	if *out != nil {
		return
	}
	start := delta + n.start
	end := delta + n.end
	if end < start {
		*out = fmt.Errorf("interval: inverted interval [%d, %d)", start, end)
		return
	}
	if compareIntervals(*prevStart, *prevEnd, start, end) > 0 {
		*out = fmt.Errorf("interval: order violation: [%d, %d) after [%d, %d)", start, end, *prevStart, *prevEnd)
		return
	}
	*prevStart, *prevEnd = start, end
	*seen++
	t.auditOrder(n.right, delta+n.delta, seen, prevStart, prevEnd, out)
}
