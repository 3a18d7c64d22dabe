package piecetree

// Iterator walks the document's pieces in order, yielding each piece's
// covered text. It is invalidated by any mutation of the tree.
type Iterator struct {
	tree *Tree
	node *node
}

// Iter returns an iterator positioned before the first piece.
func (t *Tree) Iter() *Iterator {
	var first *node
	if t.root != t.sent {
		first = t.minimum(t.root)
	}
	return &Iterator{tree: t, node: first}
}

// Next returns the next piece's text. ok is false once all pieces have been
// consumed.
func (it *Iterator) Next() (part string, ok bool) {
	if it.node == nil || it.node == it.tree.sent {
		return "", false
	}
	n := it.node
	c := it.tree.chunks[n.piece.chunk]
	from := c.offsetOf(n.piece.start)
	part = c.data[from : from+n.piece.length]
	it.node = it.tree.next(n)
	return part, true
}

// Parts returns the piece texts in document order. The returned strings alias
// the tree's immutable chunks, so the slice remains a consistent snapshot of
// the document even after later edits.
func (t *Tree) Parts() []string {
	var parts []string
	it := t.Iter()
	for {
		part, ok := it.Next()
		if !ok {
			return parts
		}
		parts = append(parts, part)
	}
}

// EqualContent reports whether two trees hold byte-identical documents.
// It streams both piece sequences without materializing either document.
// Pieces are never empty, so once the lengths match the two iterators
// exhaust together.
func EqualContent(a, b *Tree) bool {
	if a.Length() != b.Length() {
		return false
	}
	ia, ib := a.Iter(), b.Iter()
	var pa, pb string
	for {
		if len(pa) == 0 {
			part, ok := ia.Next()
			if !ok {
				return true
			}
			pa = part
		}
		if len(pb) == 0 {
			pb, _ = ib.Next()
		}
		n := len(pa)
		if len(pb) < n {
			n = len(pb)
		}
		if n == 0 || pa[:n] != pb[:n] {
			return false
		}
		pa, pb = pa[n:], pb[n:]
	}
}
