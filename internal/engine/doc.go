// Package engine provides the core text storage engine for textstore.
//
// The engine package serves as the main facade, combining the piece-tree
// buffer, batch edit application, undo/redo, and marker tracking into a
// unified, thread-safe API for building text editors.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - piecetree: red-black tree of text pieces over immutable chunks
//   - buffer: position/offset conversion and the edit application pipeline
//   - interval: delta-encoded interval tree for tracked ranges
//   - history: inverse-edit undo/redo stacks with grouping
//
// # Thread Safety
//
// All Document operations are thread-safe. The document uses a read-write
// mutex to allow concurrent reads while serializing writes.
//
// # Basic Usage
//
// Create a document and perform edits:
//
//	d := engine.New(engine.WithContent("Hello, World!"))
//
//	// Replace a range (positions are 1-based line/column)
//	d.Replace(engine.Range{
//	    Start: engine.Position{Line: 1, Column: 8},
//	    End:   engine.Position{Line: 1, Column: 13},
//	}, "Go")
//
//	text := d.Text() // "Hello, Go!"
//
//	d.Undo() // "Hello, World!"
//
// # Loading Files
//
//	f, _ := os.Open("file.txt")
//	defer f.Close()
//	d, _ := engine.NewFromReader(f)
//
// A UTF-8 or UTF-16 byte-order mark at the start of the stream is
// detected, stripped from content, and retained as metadata.
//
// # Batch Edits
//
// ApplyEdits applies a whole batch against the pre-edit coordinate space
// and returns the inverse batch plus offset-based content changes:
//
//	res, err := d.ApplyEdits([]engine.EditOperation{
//	    buffer.NewInsert(engine.Position{Line: 1, Column: 1}, "x"),
//	    buffer.NewDelete(engine.NewRange(2, 1, 2, 4)),
//	}, false)
//
// Strictly overlapping edits in one batch are rejected before any
// mutation takes place.
//
// # Undo/Redo
//
// Each applied batch becomes one undo unit. Groups collapse several
// batches into a single unit:
//
//	d.BeginUndoGroup("find and replace")
//	// ... multiple edits ...
//	d.EndUndoGroup()
//
//	d.Undo() // Undoes the whole group at once
//
// # Markers
//
// Markers are tracked offset ranges that follow their text across edits:
//
//	id, _ := d.AddMarker(4, 9)
//	// ... edits ...
//	m, _ := d.MarkerRange(id) // shifted/stretched offsets
//
// # Read-Only Mode
//
//	d := engine.New(engine.WithContent("frozen"), engine.WithReadOnly())
//	_, err := d.Insert(engine.Position{Line: 1, Column: 1}, "x")
//	// err == engine.ErrReadOnly
package engine
