package buffer

import "fmt"

// Range is a position range in a document. Start is inclusive, End is
// exclusive: [Start, End). A range with Start == End is empty.
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a Range from 1-based line/column coordinates.
func NewRange(startLine, startColumn, endLine, endColumn int) Range {
	return Range{
		Start: Position{Line: startLine, Column: startColumn},
		End:   Position{Line: endLine, Column: endColumn},
	}
}

// RangeAt returns the empty range at a position.
func RangeAt(p Position) Range {
	return Range{Start: p, End: p}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s-%s)", r.Start, r.End)
}

// IsEmpty returns true if the range has zero extent.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if Start <= End.
func (r Range) IsValid() bool {
	return r.Start.Compare(r.End) <= 0
}

// ContainsPosition returns true if p lies inside the range, boundaries
// included.
func (r Range) ContainsPosition(p Position) bool {
	return p.Compare(r.Start) >= 0 && p.Compare(r.End) <= 0
}

// Overlaps returns true if the two ranges share an interior point.
// Ranges that merely touch at an endpoint do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Touches returns true if one range ends exactly where the other starts.
func (r Range) Touches(other Range) bool {
	return r.End == other.Start || other.End == r.Start
}

// IsSingleLine returns true if the range spans only one line.
func (r Range) IsSingleLine() bool {
	return r.Start.Line == r.End.Line
}
