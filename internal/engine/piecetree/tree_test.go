package piecetree

import (
	"math/rand"
	"strings"
	"testing"
)

func TestNewEmpty(t *testing.T) {
	tr := New(nil)

	if tr.Length() != 0 {
		t.Errorf("expected length 0, got %d", tr.Length())
	}
	if tr.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", tr.LineCount())
	}
	if tr.Text() != "" {
		t.Errorf("expected empty text, got %q", tr.Text())
	}
}

func TestNewMultiChunk(t *testing.T) {
	tr := New([]string{"ab", "cd\n", "", "ef"})

	if tr.Text() != "abcd\nef" {
		t.Errorf("expected %q, got %q", "abcd\nef", tr.Text())
	}
	if tr.Length() != 7 {
		t.Errorf("expected length 7, got %d", tr.Length())
	}
	if tr.LineCount() != 2 {
		t.Errorf("expected 2 lines, got %d", tr.LineCount())
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		offset int
		text   string
		want   string
	}{
		{"at start", "world", 0, "hello ", "hello world"},
		{"at end", "hello", 5, " world", "hello world"},
		{"in middle", "held", 2, "llo wor", "hello world"},
		{"into empty", "", 0, "abc", "abc"},
		{"newline", "ab", 1, "\n", "a\nb"},
		{"empty text", "ab", 1, "", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New([]string{tt.base})
			tr.Insert(tt.offset, tt.text)
			if got := tr.Text(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestInsertSplitsPiece(t *testing.T) {
	tr := New([]string{"ab\ncd\n"})
	tr.Insert(1, "X\n")

	if got := tr.Text(); got != "aX\nb\ncd\n" {
		t.Errorf("expected %q, got %q", "aX\nb\ncd\n", got)
	}
	if tr.LineCount() != 4 {
		t.Errorf("expected 4 lines, got %d", tr.LineCount())
	}
}

func TestSequentialAppends(t *testing.T) {
	tr := New(nil)
	var want strings.Builder
	for i := 0; i < 200; i++ {
		s := string(rune('a'+i%26)) + "x"
		tr.Insert(tr.Length(), s)
		want.WriteString(s)
	}
	if got := tr.Text(); got != want.String() {
		t.Errorf("sequential appends diverged: got %q", got)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name   string
		base   []string
		offset int
		cnt    int
		want   string
	}{
		{"prefix", []string{"hello world"}, 0, 6, "world"},
		{"suffix", []string{"hello world"}, 5, 6, "hello"},
		{"middle", []string{"hello world"}, 2, 7, "held"},
		{"all", []string{"hello"}, 0, 5, ""},
		{"across pieces", []string{"abc", "def", "ghi"}, 2, 5, "abhi"},
		{"whole middle piece", []string{"abc", "def", "ghi"}, 3, 3, "abcghi"},
		{"zero count", []string{"abc"}, 1, 0, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.base)
			tr.Delete(tt.offset, tt.cnt)
			if got := tr.Text(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDeleteNewlineMergesLines(t *testing.T) {
	tr := New([]string{"ab\ncd"})
	tr.Delete(2, 1)

	if got := tr.Text(); got != "abcd" {
		t.Errorf("expected %q, got %q", "abcd", got)
	}
	if tr.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", tr.LineCount())
	}
}

func TestOffsetAt(t *testing.T) {
	tr := New([]string{"ab\n", "cd\nef"})

	tests := []struct {
		line, column, want int
	}{
		{1, 1, 0},
		{1, 3, 2},
		{2, 1, 3},
		{2, 3, 5},
		{3, 1, 6},
		{3, 3, 8},
	}
	for _, tt := range tests {
		if got := tr.OffsetAt(tt.line, tt.column); got != tt.want {
			t.Errorf("OffsetAt(%d, %d) = %d, want %d", tt.line, tt.column, got, tt.want)
		}
	}
}

func TestPositionAt(t *testing.T) {
	tr := New([]string{"ab\n", "cd\nef"})

	tests := []struct {
		offset, line, column int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{5, 2, 3},
		{6, 3, 1},
		{8, 3, 3},
	}
	for _, tt := range tests {
		line, column := tr.PositionAt(tt.offset)
		if line != tt.line || column != tt.column {
			t.Errorf("PositionAt(%d) = (%d, %d), want (%d, %d)", tt.offset, line, column, tt.line, tt.column)
		}
	}
}

// A line that starts in one piece and continues into the next must report
// columns measured from the line's true start.
func TestPositionAtCrossPieceLine(t *testing.T) {
	tr := New([]string{"ab\ncd"})
	tr.Insert(5, "ef") // line 2 is "cdef", tail in another piece

	line, column := tr.PositionAt(6)
	if line != 2 || column != 4 {
		t.Errorf("PositionAt(6) = (%d, %d), want (2, 4)", line, column)
	}
}

func TestOffsetPositionRoundTrip(t *testing.T) {
	tr := New([]string{"ab\n", "cd\n", "\n", "efg"})
	for offset := 0; offset <= tr.Length(); offset++ {
		line, column := tr.PositionAt(offset)
		if got := tr.OffsetAt(line, column); got != offset {
			t.Errorf("round trip failed at %d: position (%d, %d) maps to %d", offset, line, column, got)
		}
	}
}

func TestExtract(t *testing.T) {
	tr := New([]string{"hello ", "world"})

	tests := []struct {
		start, end int
		want       string
	}{
		{0, 5, "hello"},
		{6, 11, "world"},
		{3, 9, "lo wor"},
		{0, 11, "hello world"},
		{4, 4, ""},
	}
	for _, tt := range tests {
		if got := tr.Extract(tt.start, tt.end); got != tt.want {
			t.Errorf("Extract(%d, %d) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestPartsSnapshotStableAcrossEdits(t *testing.T) {
	tr := New([]string{"abc\n"})
	tr.Insert(4, "def")

	parts := tr.Parts()
	before := strings.Join(parts, "")

	tr.Insert(7, "ghi") // extends the append chunk
	tr.Delete(0, 2)

	if got := strings.Join(parts, ""); got != before {
		t.Errorf("snapshot changed after edits: %q -> %q", before, got)
	}
}

func TestEqualContent(t *testing.T) {
	a := New([]string{"ab", "cd\nef"})
	b := New([]string{"abcd", "\n", "ef"})
	if !EqualContent(a, b) {
		t.Error("differently chunked identical documents should be equal")
	}

	c := New([]string{"abcd\neX"})
	if EqualContent(a, c) {
		t.Error("different documents should not be equal")
	}

	d := New([]string{"abcd\nef!"})
	if EqualContent(a, d) {
		t.Error("documents of different length should not be equal")
	}
}

func TestLargeInsertSplitsChunks(t *testing.T) {
	var sb strings.Builder
	for sb.Len() < AverageChunkSize*2+100 {
		sb.WriteString("0123456789abcdef\n")
	}
	big := sb.String()

	tr := New([]string{"start|", "|end"})
	tr.Insert(6, big)

	if got := tr.Length(); got != len(big)+10 {
		t.Fatalf("expected length %d, got %d", len(big)+10, got)
	}
	if got := tr.Extract(6, 6+len(big)); got != big {
		t.Error("large insert content mismatch")
	}
	if got := tr.Extract(0, 6); got != "start|" {
		t.Errorf("prefix damaged: %q", got)
	}
}

func TestRandomizedEditsMatchReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ref := "line one\nline two\nline three\n"
	tr := New([]string{ref})

	alphabet := []string{"x", "yy", "zzz\n", "\n", "hello world", "a\nb\nc"}

	for i := 0; i < 500; i++ {
		if rng.Intn(2) == 0 || len(ref) == 0 {
			off := rng.Intn(len(ref) + 1)
			text := alphabet[rng.Intn(len(alphabet))]
			tr.Insert(off, text)
			ref = ref[:off] + text + ref[off:]
		} else {
			off := rng.Intn(len(ref))
			cnt := rng.Intn(len(ref)-off) + 1
			tr.Delete(off, cnt)
			ref = ref[:off] + ref[off+cnt:]
		}

		if tr.Length() != len(ref) {
			t.Fatalf("step %d: length %d, want %d", i, tr.Length(), len(ref))
		}
		wantLines := strings.Count(ref, "\n") + 1
		if tr.LineCount() != wantLines {
			t.Fatalf("step %d: line count %d, want %d", i, tr.LineCount(), wantLines)
		}
		if i%25 == 0 && tr.Text() != ref {
			t.Fatalf("step %d: content diverged", i)
		}
	}

	if tr.Text() != ref {
		t.Fatal("final content diverged from reference")
	}

	for offset := 0; offset <= len(ref); offset++ {
		line, column := tr.PositionAt(offset)
		if got := tr.OffsetAt(line, column); got != offset {
			t.Fatalf("round trip failed at %d: (%d, %d) -> %d", offset, line, column, got)
		}
	}
}
