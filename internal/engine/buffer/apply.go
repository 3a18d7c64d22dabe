package buffer

import (
	"sort"
	"strings"
)

// maxEditBatch is the batch-size safety valve: larger untracked batches are
// collapsed into a single synthetic edit to avoid pathological intermediate
// churn when, e.g., a formatter rewrites every line.
const maxEditBatch = 1000

// ApplyEdits validates and applies a batch of edits atomically.
//
// Ranges in the batch must be pairwise non-overlapping; touching endpoints
// are allowed. On an overlap the batch fails with ErrOverlappingEdits before
// any mutation. The returned reverse edits (when computeUndoEdits is set)
// restore the exact pre-batch content when applied as a batch themselves.
func (b *TextBuffer) ApplyEdits(rawOps []EditOperation, recordTrimAutoWhitespace, computeUndoEdits bool) (ApplyEditsResult, error) {
	mightContainRTL := b.mightContainRTL
	mightContainNonBasicASCII := b.mightContainNonBasicASCII
	canReduceOperations := true

	operations := make([]validatedOperation, len(rawOps))
	for i, op := range rawOps {
		if err := b.validateRange(op.Range); err != nil {
			return ApplyEditsResult{}, err
		}
		text := normalizeLineEndings(op.Text, b.eol)
		if !mightContainRTL && text != "" {
			mightContainRTL = containsRTL(text)
		}
		if !mightContainNonBasicASCII && text != "" {
			mightContainNonBasicASCII = !isBasicASCII(text)
		}
		if op.tracked() {
			canReduceOperations = false
		}

		rangeOffset := b.tree.OffsetAt(op.Range.Start.Line, op.Range.Start.Column)
		rangeLength := b.tree.OffsetAt(op.Range.End.Line, op.Range.End.Column) - rangeOffset
		eolCount, firstLineLength, lastLineLength := countEOL(text)

		operations[i] = validatedOperation{
			sortIndex:            i,
			identifier:           op.Identifier,
			rng:                  op.Range,
			rangeOffset:          rangeOffset,
			rangeLength:          rangeLength,
			text:                 text,
			eolCount:             eolCount,
			firstLineLength:      firstLineLength,
			lastLineLength:       lastLineLength,
			forceMoveMarkers:     op.ForceMoveMarkers,
			isAutoWhitespaceEdit: op.IsAutoWhitespaceEdit,
		}
	}

	// Sort ascending by end position; submission order breaks ties. This
	// ordering is what makes the single-pass inverse computation valid.
	sort.Slice(operations, func(i, j int) bool {
		c := operations[i].rng.End.Compare(operations[j].rng.End)
		if c == 0 {
			return operations[i].sortIndex < operations[j].sortIndex
		}
		return c < 0
	})

	hasTouchingRanges := false
	for i := 0; i < len(operations)-1; i++ {
		rangeEnd := operations[i].rng.End
		nextRangeStart := operations[i+1].rng.Start
		switch nextRangeStart.Compare(rangeEnd) {
		case -1:
			return ApplyEditsResult{}, ErrOverlappingEdits
		case 0:
			hasTouchingRanges = true
		}
	}

	if canReduceOperations && len(operations) > maxEditBatch {
		operations = []validatedOperation{b.toSingleEditOperation(operations)}
	}

	var reverseRanges []Range
	if computeUndoEdits || recordTrimAutoWhitespace {
		reverseRanges = inverseEditRanges(operations)
	}

	var trimCandidates []trimCandidate
	if recordTrimAutoWhitespace {
		for i := range operations {
			op := &operations[i]
			if !op.isAutoWhitespaceEdit || !op.rng.IsEmpty() {
				continue
			}
			reverseRange := reverseRanges[i]
			for line := reverseRange.Start.Line; line <= reverseRange.End.Line; line++ {
				currentLineContent := ""
				if line == reverseRange.Start.Line {
					currentLineContent, _ = b.LineContent(op.rng.Start.Line)
					if firstNonWhitespaceIndex(currentLineContent) != -1 {
						continue
					}
				}
				trimCandidates = append(trimCandidates, trimCandidate{line: line, oldContent: currentLineContent})
			}
		}
	}

	var reverseOperations []EditOperation
	if computeUndoEdits {
		reverse := make([]struct {
			sortIndex int
			op        EditOperation
		}, len(operations))
		for i := range operations {
			op := &operations[i]
			reverse[i].sortIndex = op.sortIndex
			reverse[i].op = EditOperation{
				Identifier:       op.identifier,
				Range:            reverseRanges[i],
				Text:             b.tree.Extract(op.rangeOffset, op.rangeOffset+op.rangeLength),
				ForceMoveMarkers: op.forceMoveMarkers,
			}
		}
		// When no ranges touch, reverse edits can be returned in original
		// submission order. With touching ranges that re-sort would be
		// ambiguous, so the end-position order is kept.
		if !hasTouchingRanges {
			sort.Slice(reverse, func(i, j int) bool {
				return reverse[i].sortIndex < reverse[j].sortIndex
			})
		}
		reverseOperations = make([]EditOperation, len(reverse))
		for i := range reverse {
			reverseOperations[i] = reverse[i].op
		}
	}

	// All validation has passed; from here on the buffer mutates.
	b.mightContainRTL = mightContainRTL
	b.mightContainNonBasicASCII = mightContainNonBasicASCII

	changes := b.doApplyEdits(operations)

	var trimLines []int
	if recordTrimAutoWhitespace && len(trimCandidates) > 0 {
		sort.Slice(trimCandidates, func(i, j int) bool {
			return trimCandidates[i].line > trimCandidates[j].line
		})
		trimLines = []int{}
		for i, cand := range trimCandidates {
			if i > 0 && trimCandidates[i-1].line == cand.line {
				continue
			}
			lineContent, _ := b.LineContent(cand.line)
			if len(lineContent) == 0 || lineContent == cand.oldContent || firstNonWhitespaceIndex(lineContent) != -1 {
				continue
			}
			trimLines = append(trimLines, cand.line)
		}
	}

	return ApplyEditsResult{
		ReverseEdits:                  reverseOperations,
		Changes:                       changes,
		TrimAutoWhitespaceLineNumbers: trimLines,
	}, nil
}

type trimCandidate struct {
	line       int
	oldContent string
}

// doApplyEdits performs the actual piece-tree mutations, bottom of the
// document first so that pending offsets stay valid.
func (b *TextBuffer) doApplyEdits(operations []validatedOperation) []ContentChange {
	sort.Slice(operations, func(i, j int) bool {
		c := operations[i].rng.End.Compare(operations[j].rng.End)
		if c == 0 {
			return operations[i].sortIndex > operations[j].sortIndex
		}
		return c > 0
	})

	changes := make([]ContentChange, 0, len(operations))
	for i := range operations {
		op := &operations[i]
		if op.rangeLength == 0 && len(op.text) == 0 {
			// No-op.
			continue
		}
		if op.rangeLength > 0 {
			b.tree.Delete(op.rangeOffset, op.rangeLength)
		}
		if len(op.text) > 0 {
			b.tree.Insert(op.rangeOffset, op.text)
		}
		changes = append(changes, ContentChange{
			Range:            op.rng,
			RangeOffset:      op.rangeOffset,
			RangeLength:      op.rangeLength,
			Text:             op.text,
			ForceMoveMarkers: op.forceMoveMarkers,
		})
	}
	return changes
}

// toSingleEditOperation collapses a sorted batch into one synthetic edit
// spanning from the first edit's start to the last edit's end, interleaving
// the untouched text between consecutive edits with each edit's replacement.
func (b *TextBuffer) toSingleEditOperation(operations []validatedOperation) validatedOperation {
	first := &operations[0]
	last := &operations[len(operations)-1]
	entireRange := Range{Start: first.rng.Start, End: last.rng.End}

	var sb strings.Builder
	for i := range operations {
		op := &operations[i]
		sb.WriteString(op.text)
		if i+1 < len(operations) {
			next := &operations[i+1]
			sb.WriteString(b.tree.Extract(op.rangeOffset+op.rangeLength, next.rangeOffset))
		}
	}
	text := sb.String()
	eolCount, firstLineLength, lastLineLength := countEOL(text)

	return validatedOperation{
		sortIndex:       0,
		rng:             entireRange,
		rangeOffset:     first.rangeOffset,
		rangeLength:     last.rangeOffset + last.rangeLength - first.rangeOffset,
		text:            text,
		eolCount:        eolCount,
		firstLineLength: firstLineLength,
		lastLineLength:  lastLineLength,
	}
}

// inverseEditRanges computes, for each sorted operation, the range its
// replacement text occupies after the whole batch applies. A single
// left-to-right pass threads the previous inverse end position, so the cost
// is linear in the number of edits.
func inverseEditRanges(operations []validatedOperation) []Range {
	result := make([]Range, len(operations))
	var prevOp *validatedOperation
	var prevEnd Position
	for i := range operations {
		op := &operations[i]

		var start Position
		if prevOp != nil {
			if prevOp.rng.End.Line == op.rng.Start.Line {
				start = Position{
					Line:   prevEnd.Line,
					Column: prevEnd.Column + (op.rng.Start.Column - prevOp.rng.End.Column),
				}
			} else {
				start = Position{
					Line:   prevEnd.Line + (op.rng.Start.Line - prevOp.rng.End.Line),
					Column: op.rng.Start.Column,
				}
			}
		} else {
			start = op.rng.Start
		}

		var end Position
		if len(op.text) > 0 {
			if op.eolCount == 0 {
				end = Position{Line: start.Line, Column: start.Column + op.firstLineLength}
			} else {
				end = Position{Line: start.Line + op.eolCount, Column: op.lastLineLength + 1}
			}
		} else {
			end = start
		}

		result[i] = Range{Start: start, End: end}
		prevEnd = end
		prevOp = op
	}
	return result
}
