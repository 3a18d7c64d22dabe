package buffer

import "fmt"

// EditOperation is one requested edit: replace Range with Text. An empty
// range inserts; empty text deletes.
type EditOperation struct {
	// Identifier optionally names the edit so its result can be tracked by
	// the caller. Identified edits are never merged with others.
	Identifier string

	Range Range
	Text  string

	// ForceMoveMarkers pushes markers sitting at the edit boundary to the
	// end of the inserted text.
	ForceMoveMarkers bool

	// IsAutoWhitespaceEdit marks edits produced by automatic indentation,
	// making their lines candidates for whitespace trimming on the next
	// edit.
	IsAutoWhitespaceEdit bool
}

// NewInsert creates an edit inserting text at a position.
func NewInsert(p Position, text string) EditOperation {
	return EditOperation{Range: RangeAt(p), Text: text}
}

// NewDelete creates an edit deleting a range.
func NewDelete(r Range) EditOperation {
	return EditOperation{Range: r}
}

// NewReplace creates an edit replacing a range with text.
func NewReplace(r Range, text string) EditOperation {
	return EditOperation{Range: r, Text: text}
}

// String returns a human-readable representation of the edit.
func (e EditOperation) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%s, %q)", e.Range.Start, e.Text)
	}
	if e.Text == "" {
		return fmt.Sprintf("Delete%s", e.Range)
	}
	return fmt.Sprintf("Replace%s with %q", e.Range, e.Text)
}

// tracked returns true if the operation has caller-visible identity that
// must survive as a separate entry.
func (e EditOperation) tracked() bool {
	return e.Identifier != "" || e.ForceMoveMarkers
}

// ContentChange describes one applied edit for dependent layers (views,
// markers). RangeOffset and RangeLength are measured against the buffer
// before the batch was applied.
type ContentChange struct {
	Range            Range
	RangeOffset      int
	RangeLength      int
	Text             string
	ForceMoveMarkers bool
}

// ApplyEditsResult bundles the outputs of ApplyEdits.
type ApplyEditsResult struct {
	// ReverseEdits undo the batch exactly. Nil unless requested.
	ReverseEdits []EditOperation

	// Changes lists the applied edits from the bottom of the document up.
	Changes []ContentChange

	// TrimAutoWhitespaceLineNumbers are lines, in descending order, whose
	// auto-inserted whitespace should be trimmed by the caller's next edit.
	// Nil unless requested.
	TrimAutoWhitespaceLineNumbers []int
}

// validatedOperation is the internal, decorated form of an EditOperation.
type validatedOperation struct {
	sortIndex   int
	identifier  string
	rng         Range
	rangeOffset int
	rangeLength int
	text        string

	eolCount        int
	firstLineLength int
	lastLineLength  int

	forceMoveMarkers     bool
	isAutoWhitespaceEdit bool
}
