package buffer

import (
	"errors"
	"io"
	"strings"

	"github.com/dshills/textstore/internal/engine/piecetree"
)

// Errors returned by buffer operations.
var (
	ErrInvalidLine      = errors.New("line number out of range")
	ErrInvalidPosition  = errors.New("position out of range")
	ErrInvalidOffset    = errors.New("offset out of range")
	ErrInvalidRange     = errors.New("invalid range")
	ErrOverlappingEdits = errors.New("overlapping ranges are not allowed")
)

// TextBuffer stores one document as a piece tree plus document-wide
// metadata: byte-order mark, line-ending style, and two monotonic flags that
// let higher layers skip character classification when both are false.
//
// The buffer performs no locking; it assumes a single logical writer and
// externally serialized readers.
type TextBuffer struct {
	tree *piecetree.Tree
	bom  string
	eol  EndOfLineSequence

	// Once true these stay true until the content is rebuilt wholesale.
	mightContainRTL           bool
	mightContainNonBasicASCII bool
}

// BOM returns the document's byte-order mark, or "".
func (b *TextBuffer) BOM() string {
	return b.bom
}

// EOL returns the stored line-ending style.
func (b *TextBuffer) EOL() EndOfLineSequence {
	return b.eol
}

// MightContainRTL returns true if the buffer may contain right-to-left text.
// False is definitive; true is conservative.
func (b *TextBuffer) MightContainRTL() bool {
	return b.mightContainRTL
}

// MightContainNonBasicASCII returns true if the buffer may contain
// characters outside basic ASCII. False is definitive; true is conservative.
func (b *TextBuffer) MightContainNonBasicASCII() bool {
	return b.mightContainNonBasicASCII
}

// Length returns the document's byte length.
func (b *TextBuffer) Length() int {
	return b.tree.Length()
}

// LineCount returns the number of lines.
func (b *TextBuffer) LineCount() int {
	return b.tree.LineCount()
}

// Text returns the full document content, without the BOM.
func (b *TextBuffer) Text() string {
	return b.tree.Text()
}

// lineRawLength returns the byte length of a line including its end-of-line
// characters (the last line has none).
func (b *TextBuffer) lineRawLength(line int) int {
	start := b.tree.OffsetAt(line, 1)
	if line >= b.tree.LineCount() {
		return b.tree.Length() - start
	}
	return b.tree.OffsetAt(line+1, 1) - start
}

// LineContent returns the text of a line without its end-of-line characters.
func (b *TextBuffer) LineContent(line int) (string, error) {
	if line < 1 || line > b.tree.LineCount() {
		return "", ErrInvalidLine
	}
	start := b.tree.OffsetAt(line, 1)
	raw := b.tree.Extract(start, start+b.lineRawLength(line))
	raw = strings.TrimSuffix(raw, "\n")
	raw = strings.TrimSuffix(raw, "\r")
	return raw, nil
}

// LineLength returns the byte length of a line's content, excluding its
// end-of-line characters.
func (b *TextBuffer) LineLength(line int) (int, error) {
	content, err := b.LineContent(line)
	if err != nil {
		return 0, err
	}
	return len(content), nil
}

// LinesContent returns every line's content.
func (b *TextBuffer) LinesContent() []string {
	count := b.tree.LineCount()
	lines := make([]string, count)
	for i := 1; i <= count; i++ {
		lines[i-1], _ = b.LineContent(i)
	}
	return lines
}

// LineFirstNonWhitespaceColumn returns the 1-based column of the first
// non-whitespace character on the line, or 0 if the line is blank.
func (b *TextBuffer) LineFirstNonWhitespaceColumn(line int) (int, error) {
	content, err := b.LineContent(line)
	if err != nil {
		return 0, err
	}
	idx := firstNonWhitespaceIndex(content)
	if idx == -1 {
		return 0, nil
	}
	return idx + 1, nil
}

// LineLastNonWhitespaceColumn returns the column one past the last
// non-whitespace character on the line, or 0 if the line is blank. Note the
// result is index+2, one more than the "first" variant's index+1; callers
// rely on this being the column immediately after the character.
func (b *TextBuffer) LineLastNonWhitespaceColumn(line int) (int, error) {
	content, err := b.LineContent(line)
	if err != nil {
		return 0, err
	}
	idx := lastNonWhitespaceIndex(content)
	if idx == -1 {
		return 0, nil
	}
	return idx + 2, nil
}

// validatePosition checks that p addresses a byte position inside the
// document. Columns may extend over a line's end-of-line characters up to
// the start of the next line, so every valid offset has a valid position.
func (b *TextBuffer) validatePosition(p Position) error {
	if p.Line < 1 || p.Line > b.tree.LineCount() {
		return ErrInvalidPosition
	}
	if p.Column < 1 || p.Column > b.lineRawLength(p.Line)+1 {
		return ErrInvalidPosition
	}
	return nil
}

// OffsetAt converts a position to a byte offset.
func (b *TextBuffer) OffsetAt(p Position) (int, error) {
	if err := b.validatePosition(p); err != nil {
		return 0, err
	}
	return b.tree.OffsetAt(p.Line, p.Column), nil
}

// PositionAt converts a byte offset in [0, Length()] to a position.
func (b *TextBuffer) PositionAt(offset int) (Position, error) {
	if offset < 0 || offset > b.tree.Length() {
		return Position{}, ErrInvalidOffset
	}
	line, column := b.tree.PositionAt(offset)
	return Position{Line: line, Column: column}, nil
}

// validateRange checks both endpoints and their ordering.
func (b *TextBuffer) validateRange(r Range) error {
	if err := b.validatePosition(r.Start); err != nil {
		return err
	}
	if err := b.validatePosition(r.End); err != nil {
		return err
	}
	if !r.IsValid() {
		return ErrInvalidRange
	}
	return nil
}

// ValueInRange returns the text covered by r, with line endings rendered
// according to the preference. The stored pieces are not modified.
func (b *TextBuffer) ValueInRange(r Range, pref EndOfLinePreference) (string, error) {
	if err := b.validateRange(r); err != nil {
		return "", err
	}
	start := b.tree.OffsetAt(r.Start.Line, r.Start.Column)
	end := b.tree.OffsetAt(r.End.Line, r.End.Column)
	text := b.tree.Extract(start, end)
	switch pref {
	case EOLTextDefined:
		return text, nil
	case EOLLF:
		return normalizeLineEndings(text, EOLSequenceLF), nil
	case EOLCRLF:
		return normalizeLineEndings(text, EOLSequenceCRLF), nil
	}
	return text, nil
}

// ValueLengthInRange returns the byte length of the text covered by r as
// stored.
func (b *TextBuffer) ValueLengthInRange(r Range) (int, error) {
	if err := b.validateRange(r); err != nil {
		return 0, err
	}
	start := b.tree.OffsetAt(r.Start.Line, r.Start.Column)
	end := b.tree.OffsetAt(r.End.Line, r.End.Column)
	return end - start, nil
}

// SetEOL rewrites the stored line-ending representation. The logical line
// count is unchanged.
func (b *TextBuffer) SetEOL(eol EndOfLineSequence) {
	if eol == b.eol {
		return
	}
	text := normalizeLineEndings(b.tree.Text(), eol)
	b.tree = piecetree.New([]string{text})
	b.eol = eol
}

// Equals reports exact equality: same BOM, same stored line-ending style,
// and byte-identical content. Cheap metadata comparisons run before the
// structural content walk.
func (b *TextBuffer) Equals(other *TextBuffer) bool {
	if b.bom != other.bom || b.eol != other.eol {
		return false
	}
	if b.tree.Length() != other.tree.Length() || b.tree.LineCount() != other.tree.LineCount() {
		return false
	}
	return piecetree.EqualContent(b.tree, other.tree)
}

// Snapshot is an immutable view of the buffer's content at creation time.
// It aliases the buffer's immutable chunks, so taking one is O(pieces).
type Snapshot struct {
	parts []string
	read  int
	off   int
}

// CreateSnapshot captures the current content. When preserveBOM is set the
// BOM is emitted as a leading part.
func (b *TextBuffer) CreateSnapshot(preserveBOM bool) *Snapshot {
	var parts []string
	if preserveBOM && b.bom != "" {
		parts = append(parts, b.bom)
	}
	parts = append(parts, b.tree.Parts()...)
	return &Snapshot{parts: parts}
}

// Text returns the whole snapshot as one string.
func (s *Snapshot) Text() string {
	var sb strings.Builder
	for _, p := range s.parts {
		sb.WriteString(p)
	}
	return sb.String()
}

// Read implements io.Reader over the snapshot content.
func (s *Snapshot) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) && s.read < len(s.parts) {
		part := s.parts[s.read]
		c := copy(p[n:], part[s.off:])
		n += c
		s.off += c
		if s.off == len(part) {
			s.read++
			s.off = 0
		}
	}
	if n == 0 && s.read >= len(s.parts) {
		return 0, io.EOF
	}
	return n, nil
}
