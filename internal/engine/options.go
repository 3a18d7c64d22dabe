package engine

import (
	"github.com/dshills/textstore/internal/engine/buffer"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries = 1000
)

// Option configures a Document during creation.
type Option func(*Document)

// WithContent sets the initial content of the document.
func WithContent(content string) Option {
	return func(d *Document) {
		d.initContent = content
	}
}

// WithEOL sets the end-of-line sequence assumed when the content does not
// determine one.
func WithEOL(eol buffer.EndOfLineSequence) Option {
	return func(d *Document) {
		d.defaultEOL = eol
	}
}

// WithMaxUndoEntries sets the maximum number of undo units.
func WithMaxUndoEntries(max int) Option {
	return func(d *Document) {
		if max > 0 {
			d.maxUndoEntries = max
		}
	}
}

// WithReadOnly creates a read-only document.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(d *Document) {
		d.readOnly = true
	}
}
