package engine

import (
	"errors"

	"github.com/dshills/textstore/internal/engine/buffer"
	"github.com/dshills/textstore/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrReadOnly indicates a write was attempted on a read-only document.
	ErrReadOnly = errors.New("document is read-only")

	// ErrMarkerNotFound indicates a marker ID is unknown.
	ErrMarkerNotFound = errors.New("marker not found")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrInvalidLine indicates a line number outside the document.
	ErrInvalidLine = buffer.ErrInvalidLine

	// ErrInvalidPosition indicates a position outside the document.
	ErrInvalidPosition = buffer.ErrInvalidPosition

	// ErrInvalidOffset indicates a byte offset outside the document.
	ErrInvalidOffset = buffer.ErrInvalidOffset

	// ErrInvalidRange indicates a range outside the document or with
	// end before start.
	ErrInvalidRange = buffer.ErrInvalidRange

	// ErrOverlappingEdits indicates a batch contains edits whose ranges
	// strictly overlap.
	ErrOverlappingEdits = buffer.ErrOverlappingEdits
)
