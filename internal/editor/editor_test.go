package editor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/walnut/internal/document"
	"github.com/dshills/walnut/internal/transform"
)

func newEditor(t *testing.T, opts ...Option) *Editor {
	t.Helper()
	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

func typeKeys(t *testing.T, e *Editor, s string) {
	t.Helper()
	for _, r := range s {
		require.NoError(t, e.InsertText(string(r)))
	}
}

func TestNewEditor(t *testing.T) {
	e := newEditor(t)
	assert.True(t, e.Document().IsEmpty())
	assert.Equal(t, document.Caret(document.At(0, 0)), e.Selection())
	assert.False(t, e.CanUndo())

	d := document.FromBlocks(document.NewParagraph("ab"), document.NewParagraph("cd"))
	e = newEditor(t, WithDocument(d))
	assert.Equal(t, document.Caret(document.At(2, 1)), e.Selection())

	_, err := New(WithDocument(document.Document{}))
	assert.True(t, errors.Is(err, document.ErrInvalidDocument))
}

func TestTypingWithShortcuts(t *testing.T) {
	e := newEditor(t)
	typeKeys(t, e, "# Groceries")
	require.NoError(t, e.InsertBreak())
	typeKeys(t, e, "- milk")
	require.NoError(t, e.InsertBreak())
	typeKeys(t, e, "- eggs")

	want := document.FromBlocks(
		document.NewTextBlock(document.HeadingOne, document.Run("Groceries")),
		document.NewList(document.BulletedList, "milk", "eggs"),
	)
	got := e.Document()
	require.NoError(t, got.Validate())
	assert.True(t, want.Equal(got), "%#v", got.Blocks)
}

func TestHeadingBreakThenDemote(t *testing.T) {
	e := newEditor(t)
	typeKeys(t, e, "## Title")
	require.NoError(t, e.InsertBreak())
	// New block is a heading too; backspace at its start demotes it.
	require.True(t, e.IsBlockActive(document.HeadingTwo))
	require.NoError(t, e.DeleteBackward())
	assert.True(t, e.IsBlockActive(document.Paragraph))

	// A second backspace joins the previous block.
	require.NoError(t, e.DeleteBackward())
	assert.Equal(t, "Title", e.Text())
	assert.Len(t, e.Document().Blocks, 1)
}

func TestInsertTextWithNewlines(t *testing.T) {
	e := newEditor(t)
	require.NoError(t, e.InsertText("one\r\ntwo\nthree"))
	d := e.Document()
	require.Len(t, d.Blocks, 3)
	assert.Equal(t, "one\ntwo\nthree", e.Text())
	assert.Equal(t, document.Caret(document.At(5, 2)), e.Selection())
}

func TestPendingMarks(t *testing.T) {
	e := newEditor(t)
	typeKeys(t, e, "a")
	require.NoError(t, e.ToggleMark(document.Bold))
	assert.True(t, e.IsMarkActive(document.Bold))
	assert.False(t, e.Document().Blocks[0].Runs[0].Bold, "toggling at a cursor leaves the text alone")

	typeKeys(t, e, "bc")
	require.NoError(t, e.ToggleMark(document.Bold))
	typeKeys(t, e, "d")

	want := document.FromBlocks(document.NewTextBlock(document.Paragraph,
		document.Run("a"),
		document.MarkedRun("bc", document.Marks{Bold: true}),
		document.Run("d"),
	))
	assert.True(t, want.Equal(e.Document()), "%#v", e.Document().Blocks)
}

func TestPendingMarksDroppedOnMove(t *testing.T) {
	e := newEditor(t)
	typeKeys(t, e, "ab")
	require.NoError(t, e.ToggleMark(document.Italic))
	e.Move(transform.Left, false)
	assert.False(t, e.IsMarkActive(document.Italic))
}

func TestToggleMarkOnRange(t *testing.T) {
	e := newEditor(t)
	typeKeys(t, e, "hello")
	e.SelectAll()
	require.NoError(t, e.ToggleMark(document.Underline))
	assert.True(t, e.IsMarkActive(document.Underline))

	require.NoError(t, e.ToggleMark(document.Underline))
	assert.False(t, e.IsMarkActive(document.Underline))
	assert.True(t, document.FromBlocks(document.NewParagraph("hello")).Equal(e.Document()))
}

func TestBlockToggles(t *testing.T) {
	e := newEditor(t)
	typeKeys(t, e, "item")
	require.NoError(t, e.ToggleBlock(document.NumberedList))
	assert.True(t, e.IsBlockActive(document.NumberedList))
	assert.True(t, e.IsBlockActive(document.ListItem))

	require.NoError(t, e.ToggleBlock(document.BulletedList))
	assert.True(t, e.IsBlockActive(document.BulletedList))

	require.NoError(t, e.UnwrapFromList())
	assert.True(t, e.IsBlockActive(document.Paragraph))

	require.NoError(t, e.SetBlockType(document.HeadingOne))
	assert.True(t, e.IsBlockActive(document.HeadingOne))

	require.NoError(t, e.WrapInList(document.BulletedList))
	assert.True(t, e.IsBlockActive(document.BulletedList))
	assert.Equal(t, "item", e.Text())
}

func TestUndoRedo(t *testing.T) {
	e := newEditor(t)
	typeKeys(t, e, "ab")
	require.NoError(t, e.ToggleBlock(document.HeadingOne))

	require.NoError(t, e.Undo())
	assert.True(t, e.IsBlockActive(document.Paragraph))
	assert.Equal(t, "ab", e.Text())

	require.NoError(t, e.Undo())
	assert.Equal(t, "a", e.Text())
	assert.Equal(t, document.Caret(document.At(1, 0)), e.Selection())

	require.NoError(t, e.Redo())
	require.NoError(t, e.Redo())
	assert.True(t, e.IsBlockActive(document.HeadingOne))
	assert.True(t, errors.Is(e.Redo(), ErrNothingToRedo))

	require.NoError(t, e.Undo())
	require.NoError(t, e.Undo())
	require.NoError(t, e.Undo())
	assert.True(t, errors.Is(e.Undo(), ErrNothingToUndo))
	assert.True(t, e.Document().IsEmpty())
}

func TestBatchUndoesAsOneStep(t *testing.T) {
	e := newEditor(t)
	typeKeys(t, e, "a")
	e.BeginBatch("paste")
	typeKeys(t, e, "bc")
	require.NoError(t, e.InsertBreak())
	typeKeys(t, e, "d")
	e.EndBatch()

	assert.Equal(t, "abc\nd", e.Text())
	require.NoError(t, e.Undo())
	assert.Equal(t, "a", e.Text())
	require.NoError(t, e.Redo())
	assert.Equal(t, "abc\nd", e.Text())
}

func TestUndoLimit(t *testing.T) {
	e := newEditor(t, WithMaxUndoEntries(2))
	typeKeys(t, e, "abcd")
	require.NoError(t, e.Undo())
	require.NoError(t, e.Undo())
	assert.Equal(t, "ab", e.Text())
	assert.False(t, e.CanUndo())
}

func TestNoOpEditsLeaveNoHistory(t *testing.T) {
	calls := 0
	e := newEditor(t, WithOnChange(func() { calls++ }))
	require.NoError(t, e.DeleteBackward())
	require.NoError(t, e.UnwrapFromList())
	assert.False(t, e.CanUndo())
	assert.Equal(t, 0, calls)

	typeKeys(t, e, "x")
	assert.Equal(t, 1, calls)
	require.NoError(t, e.Undo())
	assert.Equal(t, 2, calls)
}

func TestReadOnly(t *testing.T) {
	e := newEditor(t, WithReadOnly(), WithDocument(document.FromBlocks(document.NewParagraph("x"))))
	assert.True(t, e.IsReadOnly())
	assert.True(t, errors.Is(e.InsertText("y"), ErrReadOnly))
	assert.True(t, errors.Is(e.DeleteBackward(), ErrReadOnly))
	assert.True(t, errors.Is(e.ToggleMark(document.Bold), ErrReadOnly))
	assert.True(t, errors.Is(e.Undo(), ErrReadOnly))
	assert.Equal(t, "x", e.Text())
}

func TestCursorOffset(t *testing.T) {
	d := document.FromBlocks(document.NewParagraph("ab"), document.NewList(document.BulletedList, "cd"))
	e := newEditor(t, WithDocument(d))
	assert.Equal(t, 5, e.CursorOffset())

	e.SetCursorOffset(3)
	assert.Equal(t, document.Caret(document.At(0, 1, 0)), e.Selection())
	assert.Equal(t, 3, e.CursorOffset())

	e.SetCursorOffset(100)
	assert.Equal(t, 5, e.CursorOffset())
}

func TestRevision(t *testing.T) {
	e := newEditor(t)
	r0 := e.Revision()

	typeKeys(t, e, "ab")
	r1 := e.Revision()
	assert.Greater(t, r1, r0)

	e.Move(transform.Left, false)
	r2 := e.Revision()
	assert.Greater(t, r2, r1)

	e.SetCursorOffset(2)
	assert.Greater(t, e.Revision(), r2)

	r3 := e.Revision()
	assert.Equal(t, r3, e.Revision(), "reads leave it alone")
	_ = e.Text()
	_ = e.CursorOffset()
	assert.Equal(t, r3, e.Revision())
}

func TestSetSelection(t *testing.T) {
	e := newEditor(t, WithDocument(document.FromBlocks(document.NewParagraph("abc"))))
	sel := document.Selection{Anchor: document.At(0, 0), Focus: document.At(2, 0)}
	require.NoError(t, e.SetSelection(sel))
	assert.Equal(t, sel, e.Selection())

	err := e.SetSelection(document.Caret(document.At(9, 0)))
	assert.True(t, errors.Is(err, transform.ErrInvalidSelection))

	require.NoError(t, e.InsertText("X"))
	assert.Equal(t, "Xc", e.Text())
}
