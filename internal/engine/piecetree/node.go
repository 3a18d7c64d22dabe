package piecetree

type nodeColor uint8

const (
	red nodeColor = iota
	black
)

// piece references the sub-range [start, end) of one chunk. The covered text
// is never copied into the piece; it is sliced out of the chunk on demand.
type piece struct {
	chunk   int
	start   cursor
	end     cursor
	length  int
	lfCount int
}

// node is a red-black tree node holding one piece. subLen and subLF aggregate
// the byte length and line-feed count of the whole subtree rooted here
// (including the node's own piece), in the style of the rope summary monoid:
// they are recomputed bottom-up after every structural change, which keeps
// rotations and deletions free of incremental size_left bookkeeping.
type node struct {
	left, right, parent *node
	color               nodeColor

	piece piece

	subLen int
	subLF  int
}

// recompute refreshes the subtree aggregates from the node's children.
func (n *node) recompute() {
	n.subLen = n.left.subLen + n.right.subLen + n.piece.length
	n.subLF = n.left.subLF + n.right.subLF + n.piece.lfCount
}

// recomputeUpward refreshes aggregates from n to the root.
func (t *Tree) recomputeUpward(n *node) {
	for n != t.sent {
		n.recompute()
		n = n.parent
	}
}

// minimum returns the leftmost node of the subtree rooted at n.
func (t *Tree) minimum(n *node) *node {
	for n.left != t.sent {
		n = n.left
	}
	return n
}

// next returns the in-order successor of n, or the sentinel.
func (t *Tree) next(n *node) *node {
	if n.right != t.sent {
		return t.minimum(n.right)
	}
	for n.parent != t.sent && n.parent.right == n {
		n = n.parent
	}
	return n.parent
}

func (t *Tree) leftRotate(x *node) {
	y := x.right
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

	x.recompute()
	y.recompute()
}

func (t *Tree) rightRotate(y *node) {
	x := y.left
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

	y.recompute()
	x.recompute()
}

// insertFixup restores the red-black properties after z was inserted red.
func (t *Tree) insertFixup(z *node) {
	for z.parent.color == red {
		if z.parent == z.parent.parent.left {
			uncle := z.parent.parent.right
			if uncle.color == red {
				z.parent.color = black
				uncle.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.leftRotate(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rightRotate(z.parent.parent)
			}
		} else {
			uncle := z.parent.parent.left
			if uncle.color == red {
				z.parent.color = black
				uncle.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rightRotate(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.leftRotate(z.parent.parent)
			}
		}
	}
	t.root.color = black
}

// transplant replaces the subtree rooted at u with the one rooted at v.
func (t *Tree) transplant(u, v *node) {
	if u.parent == t.sent {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

// rbDelete removes z from the tree and rebalances.
func (t *Tree) rbDelete(z *node) {
	y := z
	yColor := y.color
	var x *node
	switch {
	case z.left == t.sent:
		x = z.right
		t.transplant(z, z.right)
	case z.right == t.sent:
		x = z.left
		t.transplant(z, z.left)
	default:
		y = t.minimum(z.right)
		yColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	t.recomputeUpward(x.parent)
	if yColor == black {
		t.deleteFixup(x)
	}

	// Rotations and transplants may have parked pointers in the sentinel;
	// restore its canonical zero state.
	t.sent.parent = nil
	t.sent.left = nil
	t.sent.right = nil
	z.parent, z.left, z.right = nil, nil, nil
}

func (t *Tree) deleteFixup(x *node) {
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
}

// attachAsLeft links z as the in-order predecessor position relative to n:
// z becomes n's left child, or the right child of the rightmost node in
// n's left subtree.
func (t *Tree) attachAsLeft(n, z *node) {
	if n.left == t.sent {
		n.left = z
		z.parent = n
		return
	}
	p := n.left
	for p.right != t.sent {
		p = p.right
	}
	p.right = z
	z.parent = p
}

// attachAsRight links z as the in-order successor position relative to n.
func (t *Tree) attachAsRight(n, z *node) {
	if n.right == t.sent {
		n.right = z
		z.parent = n
		return
	}
	p := n.right
	for p.left != t.sent {
		p = p.left
	}
	p.left = z
	z.parent = p
}

// insertPieceBefore inserts a new node holding p immediately before n in
// document order. A nil n means the tree is empty.
func (t *Tree) insertPieceBefore(n *node, p piece) *node {
	z := t.newNode(p)
	if n == nil {
		t.root = z
		z.color = black
		z.parent = t.sent
		return z
	}
	t.attachAsLeft(n, z)
	t.recomputeUpward(z)
	t.insertFixup(z)
	return z
}

// insertPieceAfter inserts a new node holding p immediately after n in
// document order. A nil n means insert as the first piece.
func (t *Tree) insertPieceAfter(n *node, p piece) *node {
	z := t.newNode(p)
	if t.root == t.sent {
		t.root = z
		z.color = black
		z.parent = t.sent
		return z
	}
	if n == nil {
		t.attachAsLeft(t.minimum(t.root), z)
	} else {
		t.attachAsRight(n, z)
	}
	t.recomputeUpward(z)
	t.insertFixup(z)
	return z
}

func (t *Tree) newNode(p piece) *node {
	return &node{
		left:   t.sent,
		right:  t.sent,
		parent: t.sent,
		color:  red,
		piece:  p,
		subLen: p.length,
		subLF:  p.lfCount,
	}
}
