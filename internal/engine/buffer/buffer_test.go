package buffer

import (
	"errors"
	"io"
	"testing"
)

func TestNewFromStringEmpty(t *testing.T) {
	b := NewFromString("")

	if b.Length() != 0 {
		t.Errorf("expected length 0, got %d", b.Length())
	}
	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
	if b.Text() != "" {
		t.Errorf("expected empty text, got %q", b.Text())
	}
}

func TestLineContent(t *testing.T) {
	b := NewFromString("line1\nline2\nline3")

	if b.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", b.LineCount())
	}
	for i, want := range []string{"line1", "line2", "line3"} {
		got, err := b.LineContent(i + 1)
		if err != nil {
			t.Fatalf("LineContent(%d): %v", i+1, err)
		}
		if got != want {
			t.Errorf("line %d: expected %q, got %q", i+1, want, got)
		}
	}
}

func TestLineContentStripsCRLF(t *testing.T) {
	b := NewFromString("ab\r\ncd\r\n")

	got, err := b.LineContent(1)
	if err != nil {
		t.Fatalf("LineContent(1): %v", err)
	}
	if got != "ab" {
		t.Errorf("expected %q, got %q", "ab", got)
	}

	n, err := b.LineLength(1)
	if err != nil {
		t.Fatalf("LineLength(1): %v", err)
	}
	if n != 2 {
		t.Errorf("expected length 2, got %d", n)
	}
}

func TestLineContentOutOfRange(t *testing.T) {
	b := NewFromString("one line")

	if _, err := b.LineContent(0); !errors.Is(err, ErrInvalidLine) {
		t.Errorf("expected ErrInvalidLine for line 0, got %v", err)
	}
	if _, err := b.LineContent(2); !errors.Is(err, ErrInvalidLine) {
		t.Errorf("expected ErrInvalidLine for line 2, got %v", err)
	}
}

func TestLinesContent(t *testing.T) {
	b := NewFromString("a\nb\n")

	lines := b.LinesContent()
	want := []string{"a", "b", ""}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i+1, want[i], lines[i])
		}
	}
}

func TestLineFirstNonWhitespaceColumn(t *testing.T) {
	b := NewFromString("  \tabc\n   \n")

	col, err := b.LineFirstNonWhitespaceColumn(1)
	if err != nil {
		t.Fatal(err)
	}
	if col != 4 {
		t.Errorf("expected column 4, got %d", col)
	}

	col, err = b.LineFirstNonWhitespaceColumn(2)
	if err != nil {
		t.Fatal(err)
	}
	if col != 0 {
		t.Errorf("expected 0 for blank line, got %d", col)
	}
}

// The "last" variant reports the column immediately after the character,
// one more than a symmetric index+1 conversion would give.
func TestLineLastNonWhitespaceColumn(t *testing.T) {
	b := NewFromString("  abc  \n\t\t\n")

	col, err := b.LineLastNonWhitespaceColumn(1)
	if err != nil {
		t.Fatal(err)
	}
	if col != 6 {
		t.Errorf("expected column 6, got %d", col)
	}

	col, err = b.LineLastNonWhitespaceColumn(2)
	if err != nil {
		t.Fatal(err)
	}
	if col != 0 {
		t.Errorf("expected 0 for blank line, got %d", col)
	}
}

func TestOffsetAtValidation(t *testing.T) {
	b := NewFromString("ab\ncd")

	tests := []struct {
		name string
		p    Position
		ok   bool
	}{
		{"start", Position{1, 1}, true},
		{"line end", Position{1, 3}, true},
		{"over the newline", Position{1, 4}, true},
		{"past raw line end", Position{1, 5}, false},
		{"last line end", Position{2, 3}, true},
		{"past document", Position{2, 4}, false},
		{"zero line", Position{0, 1}, false},
		{"zero column", Position{1, 0}, false},
		{"line too big", Position{3, 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.OffsetAt(tt.p)
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidPosition) {
				t.Errorf("expected ErrInvalidPosition, got %v", err)
			}
		})
	}
}

func TestPositionAtValidation(t *testing.T) {
	b := NewFromString("abc")

	if _, err := b.PositionAt(-1); !errors.Is(err, ErrInvalidOffset) {
		t.Errorf("expected ErrInvalidOffset, got %v", err)
	}
	if _, err := b.PositionAt(4); !errors.Is(err, ErrInvalidOffset) {
		t.Errorf("expected ErrInvalidOffset, got %v", err)
	}
	if _, err := b.PositionAt(3); err != nil {
		t.Errorf("offset == length must be valid, got %v", err)
	}
}

// Every offset must survive PositionAt then OffsetAt, including offsets
// inside CRLF pairs.
func TestOffsetPositionRoundTrip(t *testing.T) {
	for _, text := range []string{
		"ab\ncd\n",
		"ab\r\ncd\r\nef",
		"\n\n\n",
		"no newline",
		"",
	} {
		b := NewFromString(text)
		for offset := 0; offset <= b.Length(); offset++ {
			p, err := b.PositionAt(offset)
			if err != nil {
				t.Fatalf("%q: PositionAt(%d): %v", text, offset, err)
			}
			got, err := b.OffsetAt(p)
			if err != nil {
				t.Fatalf("%q: OffsetAt(%v): %v", text, p, err)
			}
			if got != offset {
				t.Fatalf("%q: offset %d -> %v -> %d", text, offset, p, got)
			}
		}
	}
}

func TestValueInRange(t *testing.T) {
	b := NewFromString("ab\ncd\nef")

	got, err := b.ValueInRange(NewRange(1, 2, 3, 2), EOLTextDefined)
	if err != nil {
		t.Fatal(err)
	}
	if got != "b\ncd\ne" {
		t.Errorf("expected %q, got %q", "b\ncd\ne", got)
	}

	got, err = b.ValueInRange(NewRange(1, 1, 2, 3), EOLCRLF)
	if err != nil {
		t.Fatal(err)
	}
	if got != "ab\r\ncd" {
		t.Errorf("expected %q, got %q", "ab\r\ncd", got)
	}

	if _, err := b.ValueInRange(NewRange(2, 1, 1, 1), EOLTextDefined); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestValueLengthInRange(t *testing.T) {
	b := NewFromString("ab\ncd")

	n, err := b.ValueLengthInRange(NewRange(1, 2, 2, 2))
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3, got %d", n)
	}
}

func TestSetEOL(t *testing.T) {
	b := NewFromString("a\nb\nc")
	if b.EOL() != EOLSequenceLF {
		t.Fatalf("expected LF, got %v", b.EOL())
	}

	b.SetEOL(EOLSequenceCRLF)
	if b.Text() != "a\r\nb\r\nc" {
		t.Errorf("expected CRLF text, got %q", b.Text())
	}
	if b.LineCount() != 3 {
		t.Errorf("line count changed: %d", b.LineCount())
	}

	b.SetEOL(EOLSequenceLF)
	if b.Text() != "a\nb\nc" {
		t.Errorf("expected LF text, got %q", b.Text())
	}
}

func TestEquals(t *testing.T) {
	a := NewFromString("same\ncontent")
	b := NewFromString("same\ncontent")
	if !a.Equals(b) {
		t.Error("identical buffers should be equal")
	}

	c := NewFromString("same\ncontent!")
	if a.Equals(c) {
		t.Error("different content should not be equal")
	}

	d := NewFromString("same\ncontent")
	d.SetEOL(EOLSequenceCRLF)
	if a.Equals(d) {
		t.Error("different EOL styles should not be equal")
	}
}

func TestEqualsAfterEquivalentEdits(t *testing.T) {
	a := NewFromString("hello world")
	b := NewFromString("hweorld")

	_, err := b.ApplyEdits([]EditOperation{NewReplace(NewRange(1, 2, 1, 5), "ello wor")}, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equals(b) {
		t.Errorf("expected equal content, got %q vs %q", a.Text(), b.Text())
	}
}

func TestSnapshot(t *testing.T) {
	b := NewFromString("before edit")
	snap := b.CreateSnapshot(false)

	_, err := b.ApplyEdits([]EditOperation{NewReplace(NewRange(1, 1, 1, 7), "after ")}, false, false)
	if err != nil {
		t.Fatal(err)
	}

	if snap.Text() != "before edit" {
		t.Errorf("snapshot changed after edit: %q", snap.Text())
	}

	data, err := io.ReadAll(snap)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if string(data) != "before edit" {
		t.Errorf("reader yielded %q", string(data))
	}
}

func TestSnapshotPreservesBOM(t *testing.T) {
	b := NewFromString("\uFEFFcontent")

	if b.BOM() == "" {
		t.Fatal("BOM not detected")
	}
	if b.Text() != "content" {
		t.Errorf("BOM leaked into content: %q", b.Text())
	}

	with := b.CreateSnapshot(true)
	if with.Text() != "\uFEFFcontent" {
		t.Errorf("expected BOM in snapshot, got %q", with.Text())
	}
	without := b.CreateSnapshot(false)
	if without.Text() != "content" {
		t.Errorf("expected no BOM, got %q", without.Text())
	}
}
