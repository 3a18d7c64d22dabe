package piecetree

import "strings"

// Tree is a piece tree: a red-black tree whose in-order traversal of piece
// sub-ranges reconstructs the document. It stores text once, in immutable
// chunks, and supports O(log n) edits and offset/position conversion in the
// number of pieces.
//
// Offsets are 0-based byte offsets. Lines are 1-based; a column is a 1-based
// byte offset within the line. The tree itself performs no locking; callers
// serialize access.
type Tree struct {
	sent   *node
	root   *node
	chunks []*chunk

	// change is the index of the current append chunk, or -1.
	change int
}

// New creates a tree from the given initial chunks. Empty chunks are skipped.
func New(chunks []string) *Tree {
	t := &Tree{change: -1}
	t.sent = &node{color: black}
	t.root = t.sent

	var last *node
	for _, data := range chunks {
		if len(data) == 0 {
			continue
		}
		c := newChunk(data)
		t.chunks = append(t.chunks, c)
		p := piece{
			chunk:   len(t.chunks) - 1,
			start:   cursor{0, 0},
			end:     c.cursorAt(len(data)),
			length:  len(data),
			lfCount: len(c.lineStarts) - 1,
		}
		last = t.insertPieceAfter(last, p)
	}
	return t
}

// Length returns the total byte length of the document.
func (t *Tree) Length() int {
	return t.root.subLen
}

// LineCount returns the number of lines. An empty document has one line.
func (t *Tree) LineCount() int {
	return t.root.subLF + 1
}

// nodeAt locates the node covering the given offset. remainder is the byte
// position within the node's piece; an offset on the boundary between two
// pieces resolves to the left piece with remainder == piece.length.
func (t *Tree) nodeAt(offset int) (n *node, remainder int) {
	x := t.root
	for x != t.sent {
		switch {
		case x.left != t.sent && x.left.subLen > offset:
			x = x.left
		case x.left.subLen+x.piece.length >= offset:
			return x, offset - x.left.subLen
		default:
			offset -= x.left.subLen + x.piece.length
			x = x.right
		}
	}
	return nil, 0
}

// OffsetAt converts a 1-based (line, column) position to a byte offset.
// Inputs are not validated here; the text buffer validates before calling.
func (t *Tree) OffsetAt(line, column int) int {
	leftLen := 0
	x := t.root
	for x != t.sent {
		lfLeft := x.left.subLF
		switch {
		case x.left != t.sent && lfLeft+1 >= line:
			x = x.left
		case lfLeft+x.piece.lfCount+1 >= line:
			leftLen += x.left.subLen
			return leftLen + t.accumulatedValue(x, line-lfLeft-2) + column - 1
		default:
			line -= lfLeft + x.piece.lfCount
			leftLen += x.left.subLen + x.piece.length
			x = x.right
		}
	}
	return leftLen
}

// accumulatedValue returns the byte count from the start of the node's piece
// to the start of its (index+1)-th line. An index < 0 means the piece's first
// (partial) line, i.e. zero bytes.
func (t *Tree) accumulatedValue(n *node, index int) int {
	if index < 0 {
		return 0
	}
	p := n.piece
	c := t.chunks[p.chunk]
	targetLine := p.start.line + index + 1
	if targetLine > p.end.line {
		return p.length
	}
	return c.lineStarts[targetLine] - c.offsetOf(p.start)
}

// PositionAt converts a byte offset in [0, Length()] to a 1-based
// (line, column) position.
func (t *Tree) PositionAt(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	original := offset
	lfBefore := 0
	leftLen := 0
	x := t.root
	for x != t.sent {
		switch {
		case x.left != t.sent && x.left.subLen > offset:
			x = x.left
		case x.left.subLen+x.piece.length >= offset:
			offset -= x.left.subLen
			lfBefore += x.left.subLF
			index, rem := t.indexInPiece(x, offset)
			lfBefore += index
			if index == 0 {
				// The line begins in an earlier piece; measure the column
				// from the line's true start offset.
				lineStart := t.OffsetAt(lfBefore+1, 1)
				return lfBefore + 1, original - lineStart + 1
			}
			return lfBefore + 1, rem + 1
		default:
			offset -= x.left.subLen + x.piece.length
			lfBefore += x.left.subLF + x.piece.lfCount
			leftLen += x.left.subLen + x.piece.length
			x = x.right
		}
	}
	return lfBefore + 1, 1
}

// indexInPiece returns how many line breaks precede remainder within the
// node's piece, and the byte column relative to the last such break.
func (t *Tree) indexInPiece(n *node, remainder int) (index, rem int) {
	p := n.piece
	c := t.chunks[p.chunk]
	cur := c.cursorAt(c.offsetOf(p.start) + remainder)
	return cur.line - p.start.line, cur.col
}

// Insert inserts text at the given byte offset.
func (t *Tree) Insert(offset int, text string) {
	if len(text) == 0 {
		return
	}
	if t.root == t.sent {
		var last *node
		for _, p := range t.createPieces(text) {
			last = t.insertPieceAfter(last, p)
		}
		return
	}

	n, remainder := t.nodeAt(offset)
	switch {
	case remainder == n.piece.length:
		if t.tryAppendToNode(n, text) {
			return
		}
		cur := n
		for _, p := range t.createPieces(text) {
			cur = t.insertPieceAfter(cur, p)
		}
	case remainder == 0:
		pieces := t.createPieces(text)
		cur := t.insertPieceBefore(n, pieces[0])
		for _, p := range pieces[1:] {
			cur = t.insertPieceAfter(cur, p)
		}
	default:
		right := t.splitRight(n, remainder)
		t.truncateTail(n, remainder)
		cur := n
		for _, p := range t.createPieces(text) {
			cur = t.insertPieceAfter(cur, p)
		}
		t.insertPieceAfter(cur, right)
	}
}

// Delete removes cnt bytes starting at offset.
func (t *Tree) Delete(offset, cnt int) {
	if cnt <= 0 || t.root == t.sent {
		return
	}

	sn, r1 := t.nodeAt(offset)
	if r1 == sn.piece.length {
		sn = t.next(sn)
		r1 = 0
	}
	en, r2 := t.nodeAt(offset + cnt)

	if sn == en {
		switch {
		case r1 == 0 && r2 == sn.piece.length:
			t.rbDelete(sn)
		case r1 == 0:
			t.truncateHead(sn, r2)
		case r2 == sn.piece.length:
			t.truncateTail(sn, r1)
		default:
			right := t.splitRight(sn, r2)
			t.truncateTail(sn, r1)
			t.insertPieceAfter(sn, right)
		}
		return
	}

	var toDelete []*node
	if r1 == 0 {
		toDelete = append(toDelete, sn)
	}
	for x := t.next(sn); x != t.sent && x != en; x = t.next(x) {
		toDelete = append(toDelete, x)
	}
	if r2 == en.piece.length {
		toDelete = append(toDelete, en)
	} else if r2 > 0 {
		t.truncateHead(en, r2)
	}
	if r1 > 0 {
		t.truncateTail(sn, r1)
	}
	for _, x := range toDelete {
		t.rbDelete(x)
	}
}

// truncateTail shrinks the node's piece to its first length bytes.
func (t *Tree) truncateTail(n *node, length int) {
	p := &n.piece
	c := t.chunks[p.chunk]
	p.end = c.cursorAt(c.offsetOf(p.start) + length)
	p.length = length
	p.lfCount = p.end.line - p.start.line
	t.recomputeUpward(n)
}

// truncateHead removes the first cnt bytes of the node's piece.
func (t *Tree) truncateHead(n *node, cnt int) {
	p := &n.piece
	c := t.chunks[p.chunk]
	p.start = c.cursorAt(c.offsetOf(p.start) + cnt)
	p.length -= cnt
	p.lfCount = p.end.line - p.start.line
	t.recomputeUpward(n)
}

// splitRight returns the piece covering [remainder, length) of n's piece
// without modifying n.
func (t *Tree) splitRight(n *node, remainder int) piece {
	p := n.piece
	c := t.chunks[p.chunk]
	mid := c.cursorAt(c.offsetOf(p.start) + remainder)
	return piece{
		chunk:   p.chunk,
		start:   mid,
		end:     p.end,
		length:  p.length - remainder,
		lfCount: p.end.line - mid.line,
	}
}

// tryAppendToNode extends n's piece in place when the insert continues the
// tail of the append chunk. This keeps sequential typing from creating one
// piece per keystroke.
func (t *Tree) tryAppendToNode(n *node, text string) bool {
	if t.change < 0 || n.piece.chunk != t.change {
		return false
	}
	if len(text) >= AverageChunkSize {
		return false
	}
	c := t.chunks[t.change]
	if c.offsetOf(n.piece.end) != c.len() || c.len()+len(text) > changeChunkLimit {
		return false
	}
	c.appendText(text)
	p := &n.piece
	p.end = c.cursorAt(c.len())
	p.length += len(text)
	p.lfCount = p.end.line - p.start.line
	t.recomputeUpward(n)
	return true
}

// createPieces stores text in the chunk set and returns the pieces covering
// it. Small inserts append to the change chunk; large inserts become
// standalone chunks.
func (t *Tree) createPieces(text string) []piece {
	if len(text) >= AverageChunkSize {
		parts := splitLargeText(text)
		pieces := make([]piece, 0, len(parts))
		for _, part := range parts {
			c := newChunk(part)
			t.chunks = append(t.chunks, c)
			pieces = append(pieces, piece{
				chunk:   len(t.chunks) - 1,
				start:   cursor{0, 0},
				end:     c.cursorAt(len(part)),
				length:  len(part),
				lfCount: len(c.lineStarts) - 1,
			})
		}
		return pieces
	}

	if t.change < 0 || t.chunks[t.change].len()+len(text) > changeChunkLimit {
		t.chunks = append(t.chunks, newChunk(""))
		t.change = len(t.chunks) - 1
	}
	c := t.chunks[t.change]
	start := c.cursorAt(c.len())
	startLine := start.line
	c.appendText(text)
	end := c.cursorAt(c.len())
	return []piece{{
		chunk:   t.change,
		start:   start,
		end:     end,
		length:  len(text),
		lfCount: end.line - startLine,
	}}
}

// Extract returns the text in [start, end).
func (t *Tree) Extract(start, end int) string {
	if end <= start {
		return ""
	}
	var sb strings.Builder
	sb.Grow(end - start)
	t.appendRange(&sb, start, end)
	return sb.String()
}

func (t *Tree) appendRange(sb *strings.Builder, start, end int) {
	n, remainder := t.nodeAt(start)
	if n == nil {
		return
	}
	if remainder == n.piece.length {
		n = t.next(n)
		remainder = 0
	}
	left := end - start
	for n != nil && n != t.sent && left > 0 {
		c := t.chunks[n.piece.chunk]
		from := c.offsetOf(n.piece.start) + remainder
		avail := n.piece.length - remainder
		if avail > left {
			avail = left
		}
		sb.WriteString(c.data[from : from+avail])
		left -= avail
		remainder = 0
		n = t.next(n)
	}
}

// Text returns the full document content.
func (t *Tree) Text() string {
	return t.Extract(0, t.Length())
}
