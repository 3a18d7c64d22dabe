package piecetree

// Chunk size constants control how inserted text is stored.
const (
	// AverageChunkSize is the target size for chunks created from large inserts.
	AverageChunkSize = 64 * 1024

	// changeChunkLimit caps how far the append chunk may grow before a new
	// one is started.
	changeChunkLimit = 1024 * 1024
)

// chunk is an immutable run of text plus the precomputed offsets of its line
// starts. lineStarts[0] is always 0; every subsequent entry is the offset of
// the byte following a '\n'. A piece covering any sub-range of the chunk can
// count its line breaks with two binary searches.
//
// The append chunk grows by appendText, which extends data and lineStarts but
// never rewrites existing bytes, so outstanding pieces stay valid.
type chunk struct {
	data       string
	lineStarts []int
}

func newChunk(data string) *chunk {
	return &chunk{
		data:       data,
		lineStarts: computeLineStarts(data, 0, nil),
	}
}

// computeLineStarts appends the line-start offsets of s (shifted by base) to
// dst. When dst is nil a fresh slice beginning with base is returned.
func computeLineStarts(s string, base int, dst []int) []int {
	if dst == nil {
		dst = append(dst, base)
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			dst = append(dst, base+i+1)
		}
	}
	return dst
}

// appendText extends the chunk with s. Only valid for the tree's append chunk.
func (c *chunk) appendText(s string) {
	base := len(c.data)
	c.data += s
	c.lineStarts = computeLineStarts(s, base, c.lineStarts)
}

func (c *chunk) len() int {
	return len(c.data)
}

// cursor addresses a byte inside a chunk as (line index, byte column).
// The canonical cursor for an offset has the largest line index whose start
// is <= the offset, so a cursor sitting immediately after a '\n' is (line+1, 0).
type cursor struct {
	line int
	col  int
}

// cursorAt returns the canonical cursor for a byte offset in [0, len(data)].
func (c *chunk) cursorAt(offset int) cursor {
	// Binary search for the last line start <= offset.
	lo, hi := 0, len(c.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if c.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return cursor{line: lo, col: offset - c.lineStarts[lo]}
}

// offsetOf is the inverse of cursorAt for canonical cursors.
func (c *chunk) offsetOf(cur cursor) int {
	return c.lineStarts[cur.line] + cur.col
}

// splitLargeText cuts text into runs of roughly AverageChunkSize bytes,
// never splitting a UTF-8 sequence or a CRLF pair.
func splitLargeText(text string) []string {
	if len(text) <= AverageChunkSize {
		return []string{text}
	}
	var parts []string
	for len(text) > AverageChunkSize {
		pos := AverageChunkSize
		// Back off to a rune boundary.
		for pos > 0 && !isUTF8Start(text[pos]) {
			pos--
		}
		// Never separate a CR from its LF.
		if pos > 0 && text[pos-1] == '\r' && pos < len(text) && text[pos] == '\n' {
			pos--
		}
		if pos == 0 {
			pos = AverageChunkSize
		}
		parts = append(parts, text[:pos])
		text = text[pos:]
	}
	if len(text) > 0 {
		parts = append(parts, text)
	}
	return parts
}

// isUTF8Start returns true if the byte begins a UTF-8 sequence.
func isUTF8Start(b byte) bool {
	return b&0xC0 != 0x80
}
