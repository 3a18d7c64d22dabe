package engine

import (
	"io"
	"reflect"
	"sync"

	"github.com/dshills/textstore/internal/engine/buffer"
	"github.com/dshills/textstore/internal/engine/history"
	"github.com/dshills/textstore/internal/engine/interval"
)

// Re-export commonly used types for convenience.
type (
	// Position is a 1-based line/column position.
	Position = buffer.Position

	// Range is a start/end position pair.
	Range = buffer.Range

	// EditOperation describes one text replacement.
	EditOperation = buffer.EditOperation

	// ContentChange describes one applied replacement in offset terms.
	ContentChange = buffer.ContentChange

	// ApplyEditsResult is the outcome of an edit batch.
	ApplyEditsResult = buffer.ApplyEditsResult

	// EndOfLineSequence is the document's line terminator.
	EndOfLineSequence = buffer.EndOfLineSequence

	// EndOfLinePreference selects EOL handling for range extraction.
	EndOfLinePreference = buffer.EndOfLinePreference

	// UnitInfo describes an undo or redo step.
	UnitInfo = history.UnitInfo
)

// Re-export constants.
const (
	EOLSequenceLF   = buffer.EOLSequenceLF
	EOLSequenceCRLF = buffer.EOLSequenceCRLF

	EOLTextDefined = buffer.EOLTextDefined
	EOLLF          = buffer.EOLLF
	EOLCRLF        = buffer.EOLCRLF
)

// NewRange builds a range from 1-based line/column pairs.
func NewRange(startLine, startColumn, endLine, endColumn int) Range {
	return buffer.NewRange(startLine, startColumn, endLine, endColumn)
}

// Document is the main facade for the text storage engine. It combines the
// piece-tree buffer, undo/redo, and marker tracking into a unified,
// thread-safe API.
//
// All operations are safe to call from multiple goroutines.
type Document struct {
	mu sync.RWMutex

	buf     *buffer.TextBuffer
	stack   *history.Stack
	markers *interval.Tree

	markerByID map[string]*interval.Node
	markerIDs  map[*interval.Node]string

	// Configuration
	defaultEOL     buffer.EndOfLineSequence
	maxUndoEntries int
	readOnly       bool

	// Initialization
	initContent string
}

// New creates a Document with the given options.
func New(opts ...Option) *Document {
	d := &Document{
		defaultEOL:     buffer.EOLSequenceLF,
		maxUndoEntries: DefaultMaxUndoEntries,
	}
	for _, opt := range opts {
		opt(d)
	}

	bl := buffer.NewBuilder()
	if d.initContent != "" {
		bl.AcceptChunk(d.initContent)
	}
	d.buf = bl.Finish(d.defaultEOL)
	d.finishInit()
	return d
}

// NewFromReader creates a Document by streaming content from r. A leading
// byte-order mark is detected and preserved as document metadata.
func NewFromReader(r io.Reader, opts ...Option) (*Document, error) {
	d := &Document{
		defaultEOL:     buffer.EOLSequenceLF,
		maxUndoEntries: DefaultMaxUndoEntries,
	}
	for _, opt := range opts {
		opt(d)
	}

	buf, err := buffer.NewFromReader(r, d.defaultEOL)
	if err != nil {
		return nil, err
	}
	d.buf = buf
	d.finishInit()
	return d, nil
}

func (d *Document) finishInit() {
	d.stack = history.NewStack(d.maxUndoEntries)
	d.markers = interval.NewTree()
	d.markerByID = make(map[string]*interval.Node)
	d.markerIDs = make(map[*interval.Node]string)
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full document content, without the BOM.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.Text()
}

// Length returns the content length in bytes.
func (d *Document) Length() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.Length()
}

// LineCount returns the number of lines. An empty document has one line.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.LineCount()
}

// LineContent returns the text of a line without its terminator.
func (d *Document) LineContent(line int) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.LineContent(line)
}

// LineLength returns the length of a line without its terminator.
func (d *Document) LineLength(line int) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.LineLength(line)
}

// LinesContent returns every line without terminators.
func (d *Document) LinesContent() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.LinesContent()
}

// LineFirstNonWhitespaceColumn returns the 1-based column of the first
// non-whitespace character on a line, or 0 for a blank line.
func (d *Document) LineFirstNonWhitespaceColumn(line int) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.LineFirstNonWhitespaceColumn(line)
}

// LineLastNonWhitespaceColumn returns the column one past the last
// non-whitespace character on a line, or 0 for a blank line.
func (d *Document) LineLastNonWhitespaceColumn(line int) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.LineLastNonWhitespaceColumn(line)
}

// OffsetAt converts a position to a byte offset.
func (d *Document) OffsetAt(p Position) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.OffsetAt(p)
}

// PositionAt converts a byte offset to a position.
func (d *Document) PositionAt(offset int) (Position, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.PositionAt(offset)
}

// ValueInRange returns the text inside r, with line terminators rendered
// per pref.
func (d *Document) ValueInRange(r Range, pref EndOfLinePreference) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.ValueInRange(r, pref)
}

// ValueLengthInRange returns the byte length of the text inside r.
func (d *Document) ValueLengthInRange(r Range) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.ValueLengthInRange(r)
}

// BOM returns the byte-order mark stripped at load time, if any.
func (d *Document) BOM() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.BOM()
}

// EOL returns the document's line terminator.
func (d *Document) EOL() EndOfLineSequence {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.EOL()
}

// MightContainRTL reports whether right-to-left text may be present. False
// is definitive; true is a hint.
func (d *Document) MightContainRTL() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.MightContainRTL()
}

// MightContainNonBasicASCII reports whether text outside the basic ASCII
// set may be present. False is definitive; true is a hint.
func (d *Document) MightContainNonBasicASCII() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.MightContainNonBasicASCII()
}

// Equals reports whether two documents hold identical content and
// metadata, without materializing either as a string.
func (d *Document) Equals(other *Document) bool {
	if d == other {
		return true
	}
	// Lock in address order to avoid deadlock with a concurrent
	// other.Equals(d).
	first, second := d, other
	if reflect.ValueOf(second).Pointer() < reflect.ValueOf(first).Pointer() {
		first, second = second, first
	}
	first.mu.RLock()
	defer first.mu.RUnlock()
	second.mu.RLock()
	defer second.mu.RUnlock()
	return d.buf.Equals(other.buf)
}

// Snapshot returns an immutable view of the current content. The snapshot
// stays valid and unchanged across later edits.
func (d *Document) Snapshot(preserveBOM bool) *buffer.Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.CreateSnapshot(preserveBOM)
}

// IsReadOnly returns true if the document rejects writes.
func (d *Document) IsReadOnly() bool {
	return d.readOnly
}

// ============================================================================
// Write Operations
// ============================================================================

// ApplyEdits applies a batch of edits atomically, records the inverse
// batch for undo, and shifts markers. recordTrimAutoWhitespace asks the
// result to carry line numbers whose auto-inserted indentation a later
// batch may want to trim.
func (d *Document) ApplyEdits(ops []EditOperation, recordTrimAutoWhitespace bool) (ApplyEditsResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return ApplyEditsResult{}, ErrReadOnly
	}
	return d.applyLocked(ops, recordTrimAutoWhitespace, true, editLabel(ops))
}

// Insert inserts text at a position.
func (d *Document) Insert(p Position, text string) (ApplyEditsResult, error) {
	return d.ApplyEdits([]EditOperation{buffer.NewInsert(p, text)}, false)
}

// Delete removes the text inside r.
func (d *Document) Delete(r Range) (ApplyEditsResult, error) {
	return d.ApplyEdits([]EditOperation{buffer.NewDelete(r)}, false)
}

// Replace substitutes the text inside r.
func (d *Document) Replace(r Range, text string) (ApplyEditsResult, error) {
	return d.ApplyEdits([]EditOperation{buffer.NewReplace(r, text)}, false)
}

// applyLocked runs a batch through the buffer, propagates the resulting
// content changes to the marker tree, and optionally records the inverse
// on the undo stack.
func (d *Document) applyLocked(ops []EditOperation, recordTrim, record bool, label string) (ApplyEditsResult, error) {
	res, err := d.buf.ApplyEdits(ops, recordTrim, true)
	if err != nil {
		return ApplyEditsResult{}, err
	}

	// Changes arrive in application order (descending offsets), so each
	// change's pre-batch offsets are still valid when it reaches the
	// marker tree.
	for _, ch := range res.Changes {
		d.markers.AcceptReplace(ch.RangeOffset, ch.RangeLength, len(ch.Text), ch.ForceMoveMarkers)
	}

	if record {
		d.stack.Push(label, res.ReverseEdits)
	}
	return res, nil
}

// editLabel summarizes a batch for undo history display.
func editLabel(ops []EditOperation) string {
	if len(ops) == 1 {
		switch {
		case ops[0].Range.IsEmpty():
			return "insert"
		case ops[0].Text == "":
			return "delete"
		default:
			return "replace"
		}
	}
	return "edit"
}

// SetEOL changes the document's line terminator, rewriting existing
// terminators. The change does not participate in undo.
func (d *Document) SetEOL(eol EndOfLineSequence) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return ErrReadOnly
	}
	d.buf.SetEOL(eol)
	return nil
}

// SetContent replaces all content and resets history. Markers collapse to
// the document start.
func (d *Document) SetContent(content string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return ErrReadOnly
	}

	whole := buffer.NewRange(1, 1, d.buf.LineCount(), d.lastColumnLocked())
	if _, err := d.applyLocked([]EditOperation{buffer.NewReplace(whole, content)}, false, false, ""); err != nil {
		return err
	}
	d.stack.Clear()
	return nil
}

// Clear removes all content and resets history.
func (d *Document) Clear() error {
	return d.SetContent("")
}

func (d *Document) lastColumnLocked() int {
	n, err := d.buf.LineLength(d.buf.LineCount())
	if err != nil {
		return 1
	}
	return n + 1
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

// Undo reverts the most recent undo unit.
func (d *Document) Undo() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return ErrReadOnly
	}
	return d.stack.Undo(d.replayFunc())
}

// Redo reapplies the most recently undone unit.
func (d *Document) Redo() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return ErrReadOnly
	}
	return d.stack.Redo(d.replayFunc())
}

// replayFunc applies a stored batch without recording it; the stack files
// the returned inverse on the opposite side itself.
func (d *Document) replayFunc() history.ApplyFunc {
	return func(edits []EditOperation) ([]EditOperation, error) {
		res, err := d.applyLocked(edits, false, false, "")
		if err != nil {
			return nil, err
		}
		return res.ReverseEdits, nil
	}
}

// CanUndo returns true if undo is available.
func (d *Document) CanUndo() bool {
	return d.stack.CanUndo()
}

// CanRedo returns true if redo is available.
func (d *Document) CanRedo() bool {
	return d.stack.CanRedo()
}

// UndoCount returns the number of available undo units.
func (d *Document) UndoCount() int {
	return d.stack.UndoCount()
}

// RedoCount returns the number of available redo units.
func (d *Document) RedoCount() int {
	return d.stack.RedoCount()
}

// PeekUndo describes the next undo unit without applying it.
func (d *Document) PeekUndo() (UnitInfo, bool) {
	return d.stack.PeekUndo()
}

// PeekRedo describes the next redo unit without applying it.
func (d *Document) PeekRedo() (UnitInfo, bool) {
	return d.stack.PeekRedo()
}

// BeginUndoGroup starts an undo group. All edits until EndUndoGroup undo
// as a single unit.
func (d *Document) BeginUndoGroup(label string) {
	d.stack.BeginGroup(label)
}

// EndUndoGroup closes the current undo group.
func (d *Document) EndUndoGroup() {
	d.stack.EndGroup()
}

// CancelUndoGroup discards the current group without recording it.
// Edits already applied stay applied.
func (d *Document) CancelUndoGroup() {
	d.stack.CancelGroup()
}

// ClearHistory removes all undo/redo history.
func (d *Document) ClearHistory() {
	d.stack.Clear()
}
