package editor

import (
	"github.com/dshills/walnut/internal/document"
	"github.com/dshills/walnut/internal/history"
)

// DefaultMaxUndoEntries bounds undo history unless WithMaxUndoEntries is given.
const DefaultMaxUndoEntries = history.DefaultMaxEntries

// Option configures an Editor during creation.
type Option func(*Editor)

// WithDocument sets the initial document. The cursor starts at its end.
func WithDocument(d document.Document) Option {
	return func(e *Editor) {
		e.initDoc = &d
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Editor) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithReadOnly creates a read-only editor.
// Edit operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Editor) {
		e.readOnly = true
	}
}

// WithOnChange registers fn to run after every edit that changes the
// document. It is called without the editor lock held.
func WithOnChange(fn func()) Option {
	return func(e *Editor) {
		e.onChange = fn
	}
}
