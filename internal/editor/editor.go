// Package editor combines a document, a selection, pending marks and undo
// history into the editing API a host surface drives.
//
// Keystroke-level input goes through the autoformat rules before the plain
// transform runs, so typing "# " or backspacing at the start of a heading
// behaves like the shortcut it is.
package editor

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/walnut/internal/autoformat"
	"github.com/dshills/walnut/internal/document"
	"github.com/dshills/walnut/internal/history"
	"github.com/dshills/walnut/internal/transform"
)

// Editor is safe for concurrent use.
type Editor struct {
	mu sync.RWMutex

	doc document.Document
	sel document.Selection

	// pending holds marks toggled at a collapsed cursor; they apply to the
	// next insertion and are dropped when the cursor moves.
	pending *document.Marks

	history *history.History

	// rev increases with every edit and every cursor change.
	rev uint64

	maxUndoEntries int
	readOnly       bool
	onChange       func()
	initDoc        *document.Document
}

// New creates an editor. The initial document must be well formed.
func New(opts ...Option) (*Editor, error) {
	e := &Editor{maxUndoEntries: DefaultMaxUndoEntries}
	for _, opt := range opts {
		opt(e)
	}

	e.doc = document.New()
	if e.initDoc != nil {
		if err := e.initDoc.Validate(); err != nil {
			return nil, fmt.Errorf("editor: %w", err)
		}
		e.doc = e.initDoc.Clone()
		e.initDoc = nil
	}
	e.sel = document.Caret(e.doc.EndPoint())
	e.history = history.NewHistory(e.maxUndoEntries)
	return e, nil
}

// editFunc is a pure document transform.
type editFunc func(document.Document, document.Selection) (document.Document, document.Selection, error)

// apply runs fn against the current state and records the prior state for
// undo when the document changed.
func (e *Editor) apply(label string, fn editFunc) error {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return ErrReadOnly
	}
	nd, nsel, err := fn(e.doc, e.sel)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	changed := !nd.Equal(e.doc)
	if changed {
		e.history.Push(history.Snapshot{Doc: e.doc, Selection: e.sel, Label: label})
	}
	e.doc, e.sel = nd, nsel
	e.pending = nil
	e.rev++
	hook := e.onChange
	e.mu.Unlock()

	if changed && hook != nil {
		hook()
	}
	return nil
}

// Document returns a copy of the current document.
func (e *Editor) Document() document.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Clone()
}

// Selection returns the current selection.
func (e *Editor) Selection() document.Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sel
}

// SetSelection replaces the selection. Pending marks are dropped.
func (e *Editor) SetSelection(sel document.Selection) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.doc.ValidSelection(sel) {
		return fmt.Errorf("%w: %s", transform.ErrInvalidSelection, sel)
	}
	e.sel = sel
	e.pending = nil
	e.rev++
	return nil
}

// Text returns the plain text of the document.
func (e *Editor) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.PlainText()
}

// IsReadOnly reports whether edits are rejected.
func (e *Editor) IsReadOnly() bool {
	return e.readOnly
}

// InsertText types text at the cursor, replacing any selected range. Line
// breaks split the block. A lone space may trigger an autoformat shortcut.
func (e *Editor) InsertText(text string) error {
	if text == "" {
		return nil
	}
	return e.apply("insert", func(d document.Document, sel document.Selection) (document.Document, document.Selection, error) {
		if nd, nsel, ok, err := autoformat.HandleInsertText(d, sel, text); err != nil || ok {
			return nd, nsel, err
		}

		marks := transform.MarksAt(d, sel.Start())
		if e.pending != nil {
			marks = *e.pending
		}
		for i, part := range strings.Split(text, "\n") {
			var err error
			if i > 0 {
				if d, sel, err = transform.SplitBlock(d, sel); err != nil {
					return d, sel, err
				}
			}
			if d, sel, err = transform.InsertText(d, sel, strings.TrimSuffix(part, "\r"), marks); err != nil {
				return d, sel, err
			}
		}
		return d, sel, nil
	})
}

// InsertBreak splits the block at the cursor.
func (e *Editor) InsertBreak() error {
	return e.apply("break", transform.SplitBlock)
}

// DeleteBackward deletes before the cursor. At the start of a heading or
// list item the block is demoted to a paragraph instead.
func (e *Editor) DeleteBackward() error {
	return e.apply("delete", func(d document.Document, sel document.Selection) (document.Document, document.Selection, error) {
		if nd, nsel, ok, err := autoformat.HandleDeleteBackward(d, sel); err != nil || ok {
			return nd, nsel, err
		}
		return transform.DeleteBackward(d, sel)
	})
}

// DeleteForward deletes after the cursor.
func (e *Editor) DeleteForward() error {
	return e.apply("delete", transform.DeleteForward)
}

// ToggleMark toggles m over the selected range. With a collapsed cursor it
// toggles the pending mark for the next insertion.
func (e *Editor) ToggleMark(m document.Mark) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %q", transform.ErrInvalidMark, m)
	}

	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return ErrReadOnly
	}
	if e.sel.IsCollapsed() {
		marks := e.marksLocked()
		marks = marks.With(m, !marks.Has(m))
		e.pending = &marks
		e.rev++
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	return e.apply("format", func(d document.Document, sel document.Selection) (document.Document, document.Selection, error) {
		return transform.ToggleMark(d, sel, m)
	})
}

// Marks returns the marks the next insertion would carry.
func (e *Editor) Marks() document.Marks {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.marksLocked()
}

func (e *Editor) marksLocked() document.Marks {
	if e.pending != nil {
		return *e.pending
	}
	return transform.MarksAt(e.doc, e.sel.Start())
}

// IsMarkActive reports whether m is active for the selection, taking
// pending marks into account.
func (e *Editor) IsMarkActive(m document.Mark) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.sel.IsCollapsed() {
		return e.marksLocked().Has(m)
	}
	return transform.IsMarkActive(e.doc, e.sel, m)
}

// ToggleBlock toggles the focused block between t and a paragraph.
func (e *Editor) ToggleBlock(t document.BlockType) error {
	return e.apply("block", func(d document.Document, sel document.Selection) (document.Document, document.Selection, error) {
		return transform.ToggleBlock(d, sel, t)
	})
}

// SetBlockType sets the type of the selected blocks.
func (e *Editor) SetBlockType(t document.BlockType) error {
	return e.apply("block", func(d document.Document, sel document.Selection) (document.Document, document.Selection, error) {
		return transform.SetBlockType(d, sel, t)
	})
}

// WrapInList moves the selected blocks into a list of type t.
func (e *Editor) WrapInList(t document.BlockType) error {
	return e.apply("block", func(d document.Document, sel document.Selection) (document.Document, document.Selection, error) {
		return transform.WrapInList(d, sel, t)
	})
}

// UnwrapFromList lifts the selected list items out of their lists.
func (e *Editor) UnwrapFromList() error {
	return e.apply("block", transform.UnwrapFromList)
}

// IsBlockActive reports whether the focused block has type t.
func (e *Editor) IsBlockActive(t document.BlockType) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return transform.IsBlockActive(e.doc, e.sel, t)
}

// Move moves the cursor. With extend the selection grows instead.
func (e *Editor) Move(dir transform.Direction, extend bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel = transform.Move(e.doc, e.sel, dir, extend)
	e.pending = nil
	e.rev++
}

// SelectAll selects the whole document.
func (e *Editor) SelectAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel = transform.SelectAll(e.doc)
	e.pending = nil
	e.rev++
}

// Revision identifies the editor state. It changes on every edit and
// every cursor movement.
func (e *Editor) Revision() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rev
}

// CursorOffset returns the focus as a flat offset over the text blocks
// joined by newlines.
func (e *Editor) CursorOffset() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.OffsetOf(e.sel.Focus)
}

// SetCursorOffset collapses the selection at a flat offset, clamped to the
// document.
func (e *Editor) SetCursorOffset(offset int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel = document.Caret(e.doc.PointAt(offset))
	e.pending = nil
	e.rev++
}

// Undo restores the state before the last edit.
func (e *Editor) Undo() error {
	return e.swap(e.history.Undo)
}

// Redo reapplies the last undone edit.
func (e *Editor) Redo() error {
	return e.swap(e.history.Redo)
}

func (e *Editor) swap(step func(history.Snapshot) (history.Snapshot, error)) error {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return ErrReadOnly
	}
	s, err := step(history.Snapshot{Doc: e.doc, Selection: e.sel})
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.doc, e.sel = s.Doc, s.Selection
	e.pending = nil
	e.rev++
	hook := e.onChange
	e.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

// BeginBatch starts collecting edits into a single undo step, for example
// while a paste is delivered key by key. Nested calls are ignored.
func (e *Editor) BeginBatch(label string) {
	e.history.BeginGroup(label)
}

// EndBatch closes the batch opened by BeginBatch.
func (e *Editor) EndBatch() {
	e.history.EndGroup()
}

// CanUndo returns true if undo is available.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}
