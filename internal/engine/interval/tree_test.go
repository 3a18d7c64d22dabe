package interval

import (
	"math/rand"
	"sort"
	"testing"
)

func intervalsOf(nodes []*Node) []Interval {
	result := make([]Interval, len(nodes))
	for i, n := range nodes {
		result[i] = n.Interval()
	}
	return result
}

func requireAudit(t *testing.T, tr *Tree) {
	t.Helper()
	if err := tr.Audit(); err != nil {
		t.Fatalf("audit failed: %v", err)
	}
}

func TestEmptyTree(t *testing.T) {
	tr := NewTree()

	if tr.Count() != 0 {
		t.Errorf("expected count 0, got %d", tr.Count())
	}
	if got := tr.Search(Interval{0, 100}); len(got) != 0 {
		t.Errorf("expected no results, got %v", intervalsOf(got))
	}
	requireAudit(t, tr)
}

func TestInsertAndSearch(t *testing.T) {
	tr := NewTree()
	tr.Insert(Interval{10, 20})
	tr.Insert(Interval{5, 8})
	tr.Insert(Interval{15, 30})
	tr.Insert(Interval{40, 45})
	requireAudit(t, tr)

	got := intervalsOf(tr.Search(Interval{18, 22}))
	want := []Interval{{10, 20}, {15, 30}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSearchIncludesTouching(t *testing.T) {
	tr := NewTree()
	tr.Insert(Interval{0, 5})
	tr.Insert(Interval{5, 10})

	got := intervalsOf(tr.Search(Interval{5, 5}))
	if len(got) != 2 {
		t.Errorf("touching endpoints should match, got %v", got)
	}
}

func TestAllInOrder(t *testing.T) {
	tr := NewTree()
	for _, iv := range []Interval{{30, 35}, {10, 12}, {20, 28}, {10, 11}} {
		tr.Insert(iv)
	}

	got := tr.AllInOrder()
	want := []Interval{{10, 11}, {10, 12}, {20, 28}, {30, 35}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDelete(t *testing.T) {
	tr := NewTree()
	a := tr.Insert(Interval{0, 10})
	b := tr.Insert(Interval{5, 15})
	c := tr.Insert(Interval{20, 25})

	tr.Delete(b)
	requireAudit(t, tr)

	got := tr.AllInOrder()
	want := []Interval{{0, 10}, {20, 25}}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got)
	}

	tr.Delete(a)
	tr.Delete(c)
	requireAudit(t, tr)
	if tr.Count() != 0 {
		t.Errorf("expected empty tree, got %d nodes", tr.Count())
	}
}

func TestAcceptReplaceShiftsFollowing(t *testing.T) {
	tr := NewTree()
	tr.Insert(Interval{0, 5})
	tr.Insert(Interval{20, 30})
	tr.Insert(Interval{40, 50})

	// Replace [10, 12) with 5 characters: everything after grows by 3.
	tr.AcceptReplace(10, 2, 5, false)
	requireAudit(t, tr)

	got := tr.AllInOrder()
	want := []Interval{{0, 5}, {23, 33}, {43, 53}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestAcceptReplaceStretchesCovering(t *testing.T) {
	tr := NewTree()
	tr.Insert(Interval{0, 20})

	// An edit strictly inside a covering interval stretches it.
	tr.AcceptReplace(5, 2, 6, false)
	requireAudit(t, tr)

	got := tr.AllInOrder()
	if got[0] != (Interval{0, 24}) {
		t.Errorf("expected [0, 24], got %v", got[0])
	}
}

func TestAcceptReplaceCollapsesContained(t *testing.T) {
	tr := NewTree()
	tr.Insert(Interval{10, 14})

	// The interval sits inside the deleted range and collapses to the
	// edit start.
	tr.AcceptReplace(8, 10, 0, false)
	requireAudit(t, tr)

	got := tr.AllInOrder()
	if got[0] != (Interval{8, 8}) {
		t.Errorf("expected [8, 8], got %v", got[0])
	}
}

func TestAcceptReplaceForceMoveMarkers(t *testing.T) {
	tr := NewTree()
	tr.Insert(Interval{10, 10})

	// Insert at the marker position; forced markers move past the text.
	tr.AcceptReplace(10, 0, 4, true)
	requireAudit(t, tr)

	got := tr.AllInOrder()
	if got[0] != (Interval{14, 14}) {
		t.Errorf("expected [14, 14], got %v", got[0])
	}
}

func TestAcceptReplaceWithoutForceKeepsBoundary(t *testing.T) {
	tr := NewTree()
	tr.Insert(Interval{10, 10})

	tr.AcceptReplace(10, 0, 4, false)
	requireAudit(t, tr)

	got := tr.AllInOrder()
	if got[0] != (Interval{10, 10}) {
		t.Errorf("expected [10, 10], got %v", got[0])
	}
}

func TestNodeHandleStableAcrossEdits(t *testing.T) {
	tr := NewTree()
	n := tr.Insert(Interval{20, 25})
	tr.Insert(Interval{0, 5})
	tr.Insert(Interval{50, 60})

	tr.AcceptReplace(10, 0, 7, false)

	iv := tr.Resolve(n)
	if iv != (Interval{27, 32}) {
		t.Errorf("expected [27, 32], got %v", iv)
	}
}

// bruteIntervals mirrors the tree with a plain slice for cross-checking.
type bruteIntervals []Interval

func (b bruteIntervals) overlapping(q Interval) []Interval {
	var result []Interval
	for _, iv := range b {
		if iv.Start <= q.End && iv.End >= q.Start {
			result = append(result, iv)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Start != result[j].Start {
			return result[i].Start < result[j].Start
		}
		return result[i].End < result[j].End
	})
	return result
}

func (b bruteIntervals) acceptReplace(offset, length, textLength int, force bool) bruteIntervals {
	editEnd := offset + length
	adjust := func(p int) int {
		switch {
		case p < offset:
			return p
		case p > editEnd:
			return p + textLength - length
		case force:
			return offset + textLength
		default:
			return offset
		}
	}
	result := make(bruteIntervals, len(b))
	for i, iv := range b {
		s, e := adjust(iv.Start), adjust(iv.End)
		if e < s {
			e = s
		}
		result[i] = Interval{s, e}
	}
	return result
}

func TestRandomizedAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := NewTree()
	var ref bruteIntervals
	var handles []*Node

	const docLen = 1000
	for step := 0; step < 400; step++ {
		switch op := rng.Intn(10); {
		case op < 4: // insert
			s := rng.Intn(docLen)
			e := s + rng.Intn(docLen-s)
			handles = append(handles, tr.Insert(Interval{s, e}))
			ref = append(ref, Interval{s, e})

		case op < 6 && len(handles) > 0: // delete
			i := rng.Intn(len(handles))
			tr.Delete(handles[i])
			handles = append(handles[:i], handles[i+1:]...)
			ref = append(ref[:i], ref[i+1:]...)

		case op < 8: // edit
			offset := rng.Intn(docLen)
			length := rng.Intn(30)
			textLength := rng.Intn(30)
			force := rng.Intn(4) == 0
			tr.AcceptReplace(offset, length, textLength, force)
			ref = ref.acceptReplace(offset, length, textLength, force)

		default: // query
			s := rng.Intn(docLen)
			e := s + rng.Intn(docLen-s)
			got := intervalsOf(tr.Search(Interval{s, e}))
			want := ref.overlapping(Interval{s, e})
			if len(got) != len(want) {
				t.Fatalf("step %d: query [%d, %d]: got %v, want %v", step, s, e, got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("step %d: query [%d, %d]: got %v, want %v", step, s, e, got, want)
				}
			}
		}

		if err := tr.Audit(); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		if tr.Count() != len(ref) {
			t.Fatalf("step %d: count %d, want %d", step, tr.Count(), len(ref))
		}
	}

	// Final full comparison.
	got := tr.AllInOrder()
	want := ref.overlapping(Interval{0, docLen * 10})
	if len(got) != len(want) {
		t.Fatalf("final: got %d intervals, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("final: got %v, want %v", got, want)
		}
	}
}
