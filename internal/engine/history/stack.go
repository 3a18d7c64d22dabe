package history

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/textstore/internal/engine/buffer"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// ApplyFunc applies a batch of edits to the owning buffer and returns the
// batch's inverse. The stack stays agnostic of the buffer type; the owning
// document supplies the closure.
type ApplyFunc func(edits []buffer.EditOperation) ([]buffer.EditOperation, error)

// Unit is one undo (or redo) step. It holds one or more edit batches; a
// grouped unit carries a batch per grouped operation. Batches are applied
// newest-first, each replaced by its inverse, which makes the same unit
// shape serve both stacks.
type Unit struct {
	ID        string
	Label     string
	Timestamp time.Time

	batches [][]buffer.EditOperation
}

// BatchCount returns the number of edit batches in the unit.
func (u *Unit) BatchCount() int {
	return len(u.batches)
}

// UnitInfo describes a unit without exposing its edits.
type UnitInfo struct {
	ID        string
	Label     string
	Timestamp time.Time
	Batches   int
}

func (u *Unit) info() UnitInfo {
	return UnitInfo{ID: u.ID, Label: u.Label, Timestamp: u.Timestamp, Batches: len(u.batches)}
}

// Stack manages undo/redo state for a single document.
type Stack struct {
	mu sync.Mutex

	undoStack []*Unit
	redoStack []*Unit

	// Grouping state
	grouping     bool
	groupLabel   string
	groupBatches [][]buffer.EditOperation

	maxEntries int
}

// NewStack creates an edit stack holding at most maxEntries undo units.
func NewStack(maxEntries int) *Stack {
	if maxEntries <= 0 {
		maxEntries = 1000 // Default
	}
	return &Stack{maxEntries: maxEntries}
}

// Push records the inverse of an applied change as a new undo unit and
// clears the redo stack. While grouping, the batch accumulates into the
// pending group instead.
func (s *Stack) Push(label string, reverse []buffer.EditOperation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grouping {
		s.groupBatches = append(s.groupBatches, reverse)
		return
	}

	s.pushLocked(&Unit{
		ID:        uuid.NewString(),
		Label:     label,
		Timestamp: time.Now(),
		batches:   [][]buffer.EditOperation{reverse},
	})
}

// pushLocked adds a unit without acquiring the lock.
func (s *Stack) pushLocked(u *Unit) {
	s.undoStack = append(s.undoStack, u)
	s.redoStack = nil

	if len(s.undoStack) > s.maxEntries {
		excess := len(s.undoStack) - s.maxEntries
		s.undoStack = s.undoStack[excess:]
	}
}

// Undo applies the most recent undo unit through apply and moves its
// inverse onto the redo stack. The lock is released during apply to avoid
// holding it across buffer mutation.
func (s *Stack) Undo(apply ApplyFunc) error {
	s.mu.Lock()
	if len(s.undoStack) == 0 {
		s.mu.Unlock()
		return ErrNothingToUndo
	}
	u := s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	s.mu.Unlock()

	inverse, err := applyUnit(u, apply)
	if err != nil {
		s.mu.Lock()
		s.undoStack = append(s.undoStack, u)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.redoStack = append(s.redoStack, inverse)
	s.mu.Unlock()
	return nil
}

// Redo applies the most recent redo unit and moves its inverse back onto
// the undo stack.
func (s *Stack) Redo(apply ApplyFunc) error {
	s.mu.Lock()
	if len(s.redoStack) == 0 {
		s.mu.Unlock()
		return ErrNothingToRedo
	}
	u := s.redoStack[len(s.redoStack)-1]
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	s.mu.Unlock()

	inverse, err := applyUnit(u, apply)
	if err != nil {
		s.mu.Lock()
		s.redoStack = append(s.redoStack, u)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.undoStack = append(s.undoStack, inverse)
	s.mu.Unlock()
	return nil
}

// applyUnit applies a unit's batches newest-first and builds the inverse
// unit. The inverse keeps the same ID and label so a step stays
// identifiable as it bounces between the stacks.
func applyUnit(u *Unit, apply ApplyFunc) (*Unit, error) {
	inverse := &Unit{
		ID:        u.ID,
		Label:     u.Label,
		Timestamp: time.Now(),
		batches:   make([][]buffer.EditOperation, 0, len(u.batches)),
	}
	for i := len(u.batches) - 1; i >= 0; i-- {
		rev, err := apply(u.batches[i])
		if err != nil {
			return nil, err
		}
		inverse.batches = append(inverse.batches, rev)
	}
	return inverse, nil
}

// CanUndo returns true if undo is available.
func (s *Stack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (s *Stack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redoStack) > 0
}

// UndoCount returns the number of undo units available.
func (s *Stack) UndoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undoStack)
}

// RedoCount returns the number of redo units available.
func (s *Stack) RedoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redoStack)
}

// BeginGroup starts an undo group. Batches pushed until EndGroup collapse
// into a single undo unit. Nested calls are ignored.
func (s *Stack) BeginGroup(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grouping {
		return
	}
	s.grouping = true
	s.groupLabel = label
	s.groupBatches = nil
}

// EndGroup closes the current group. An empty group leaves no unit.
func (s *Stack) EndGroup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.grouping {
		return
	}
	s.grouping = false

	if len(s.groupBatches) == 0 {
		s.groupBatches = nil
		return
	}

	s.pushLocked(&Unit{
		ID:        uuid.NewString(),
		Label:     s.groupLabel,
		Timestamp: time.Now(),
		batches:   s.groupBatches,
	})
	s.groupBatches = nil
}

// CancelGroup discards the pending group without recording it.
// Note: changes already applied to the buffer stay applied.
func (s *Stack) CancelGroup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.grouping = false
	s.groupBatches = nil
}

// IsGrouping returns true if a group is open.
func (s *Stack) IsGrouping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grouping
}

// Clear removes all undo/redo history.
func (s *Stack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.undoStack = nil
	s.redoStack = nil
	s.grouping = false
	s.groupBatches = nil
}

// UndoInfo describes the undo stack oldest-first.
func (s *Stack) UndoInfo() []UnitInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]UnitInfo, len(s.undoStack))
	for i, u := range s.undoStack {
		result[i] = u.info()
	}
	return result
}

// RedoInfo describes the redo stack oldest-first.
func (s *Stack) RedoInfo() []UnitInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]UnitInfo, len(s.redoStack))
	for i, u := range s.redoStack {
		result[i] = u.info()
	}
	return result
}

// PeekUndo describes the next undo unit without removing it.
func (s *Stack) PeekUndo() (UnitInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.undoStack) == 0 {
		return UnitInfo{}, false
	}
	return s.undoStack[len(s.undoStack)-1].info(), true
}

// PeekRedo describes the next redo unit without removing it.
func (s *Stack) PeekRedo() (UnitInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.redoStack) == 0 {
		return UnitInfo{}, false
	}
	return s.redoStack[len(s.redoStack)-1].info(), true
}

// SetMaxEntries changes the undo limit, evicting oldest units if needed.
func (s *Stack) SetMaxEntries(max int) {
	if max <= 0 {
		max = 1000
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.maxEntries = max
	if len(s.undoStack) > max {
		excess := len(s.undoStack) - max
		s.undoStack = s.undoStack[excess:]
	}
}

// MaxEntries returns the undo limit.
func (s *Stack) MaxEntries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxEntries
}
