// Package transform implements the editing operations on a document.
//
// Every operation is a pure function: it takes a document and a selection
// and returns a new document and the selection at the equivalent logical
// position. Inputs are never modified. Structural operations (retype, wrap,
// unwrap) keep every text block's position in document order, so the
// selection is carried across them unchanged in meaning.
//
// Operations act on the text blocks touched by the selection. Autoformat and
// the block toggles call them with a collapsed cursor, which touches one
// block.
package transform

import (
	"errors"
	"fmt"

	"github.com/dshills/walnut/internal/document"
)

var (
	// ErrInvalidSelection is returned when a selection does not address
	// text inside the document.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrInvalidBlockType is returned for unknown block types, or for a
	// non-list type where a list type is required.
	ErrInvalidBlockType = errors.New("invalid block type")

	// ErrInvalidMark is returned for unknown marks.
	ErrInvalidMark = errors.New("invalid mark")
)

// state is a working copy of a document in line coordinates.
type state struct {
	ls  *lines
	sel span
}

func open(d document.Document, sel document.Selection) (*state, error) {
	if !d.ValidSelection(sel) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSelection, sel)
	}
	return &state{
		ls: flatten(d),
		sel: span{
			anchor: pos{line: d.TextBlockIndex(sel.Anchor.Path), off: sel.Anchor.Offset},
			focus:  pos{line: d.TextBlockIndex(sel.Focus.Path), off: sel.Focus.Offset},
		},
	}, nil
}

func (s *state) close() (document.Document, document.Selection) {
	d := s.ls.build()
	tbs := d.TextBlocks()
	point := func(p pos) document.Point {
		if p.line >= len(tbs) {
			return d.EndPoint()
		}
		tb := tbs[p.line]
		off := min(max(p.off, 0), tb.Block.Len())
		return document.Point{Path: tb.Path.Clone(), Offset: off}
	}
	return d, document.Selection{Anchor: point(s.sel.anchor), Focus: point(s.sel.focus)}
}

// lineRange returns the first and last lines touched by the selection.
func (s *state) lineRange() (int, int) {
	return s.sel.start().line, s.sel.end().line
}

// SetBlockType changes the type of the selected blocks without touching
// their text. List types wrap (see WrapInList). ListItem wraps each run of
// adjacent blocks that are not in a list in one bulleted list. Text types unwrap list items first.
func SetBlockType(d document.Document, sel document.Selection, t document.BlockType) (document.Document, document.Selection, error) {
	if !t.Valid() {
		return d, sel, fmt.Errorf("%w: %q", ErrInvalidBlockType, t)
	}
	if t.IsList() {
		return WrapInList(d, sel, t)
	}
	s, err := open(d, sel)
	if err != nil {
		return d, sel, err
	}

	from, to := s.lineRange()
	if t == document.ListItem {
		// Each run of adjacent non-list lines becomes one list.
		for i := from; i <= to; {
			if s.ls.items[i].group >= 0 {
				i++
				continue
			}
			j := i
			for j < to && s.ls.items[j+1].group < 0 {
				j++
			}
			s.ls.wrap(i, j, document.BulletedList)
			i = j + 1
		}
		d, sel = s.close()
		return d, sel, nil
	}
	for i := from; i <= to; i++ {
		s.ls.unwrap(i)
		s.ls.items[i].block.Type = t
	}
	d, sel = s.close()
	return d, sel, nil
}

// WrapInList moves the selected blocks into a new list of type listType,
// converting them to list items. Blocks already in a list of that type are
// left alone. A block in a list of a different type is moved into its own
// new list at the same position; the items around it stay in lists of the
// old type.
func WrapInList(d document.Document, sel document.Selection, listType document.BlockType) (document.Document, document.Selection, error) {
	if !listType.IsList() {
		return d, sel, fmt.Errorf("%w: %q is not a list type", ErrInvalidBlockType, listType)
	}
	s, err := open(d, sel)
	if err != nil {
		return d, sel, err
	}

	from, to := s.lineRange()
	same := true
	for i := from; i <= to; i++ {
		if ln := s.ls.items[i]; ln.group < 0 || ln.list != listType {
			same = false
			break
		}
	}
	if same {
		return d, sel, nil
	}
	s.ls.wrap(from, to, listType)
	d, sel = s.close()
	return d, sel, nil
}

// UnwrapFromList lifts the selected list items out of their lists as
// paragraphs. Items before them stay in the original list and items after
// them form a new list of the same type. Lists left empty disappear. Blocks
// that are not list items are unchanged.
func UnwrapFromList(d document.Document, sel document.Selection) (document.Document, document.Selection, error) {
	s, err := open(d, sel)
	if err != nil {
		return d, sel, err
	}
	from, to := s.lineRange()
	changed := false
	for i := from; i <= to; i++ {
		if s.ls.items[i].group >= 0 {
			s.ls.unwrap(i)
			changed = true
		}
	}
	if !changed {
		return d, sel, nil
	}
	d, sel = s.close()
	return d, sel, nil
}

// IsBlockActive reports whether the block at the selection focus has type t.
// For list types it reports whether the block is an item of such a list.
func IsBlockActive(d document.Document, sel document.Selection, t document.BlockType) bool {
	path := sel.Focus.Path
	if t.IsList() {
		if len(path) != 2 {
			return false
		}
		list, ok := d.Block(path[:1])
		return ok && list.Type == t
	}
	b, ok := d.Block(path)
	return ok && b.Type == t
}

// ToggleBlock demotes the focused block to a paragraph when t is active and
// otherwise sets its type to t.
func ToggleBlock(d document.Document, sel document.Selection, t document.BlockType) (document.Document, document.Selection, error) {
	if !t.Valid() {
		return d, sel, fmt.Errorf("%w: %q", ErrInvalidBlockType, t)
	}
	if IsBlockActive(d, sel, t) {
		return SetBlockType(d, sel, document.Paragraph)
	}
	return SetBlockType(d, sel, t)
}

// ListType returns the type of the list containing the focused block, or ""
// when the block is not a list item.
func ListType(d document.Document, sel document.Selection) document.BlockType {
	path := sel.Focus.Path
	if len(path) != 2 {
		return ""
	}
	list, ok := d.Block(path[:1])
	if !ok {
		return ""
	}
	return list.Type
}

// BlockType returns the type of the block at the selection focus.
func BlockType(d document.Document, sel document.Selection) document.BlockType {
	b, ok := d.Block(sel.Focus.Path)
	if !ok {
		return ""
	}
	return b.Type
}
