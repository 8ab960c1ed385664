package transform

import "github.com/dshills/walnut/internal/document"

// Direction is a cursor motion.
type Direction int

// Cursor motions. Up and Down move between text blocks, keeping the offset
// where the target block allows.
const (
	Left Direction = iota
	Right
	Up
	Down
	LineStart
	LineEnd
	DocStart
	DocEnd
)

// Move returns the selection after moving the focus in dir. With extend the
// anchor stays put; without it the result is collapsed. Left and Right on a
// range without extend collapse to the range's start or end.
func Move(d document.Document, sel document.Selection, dir Direction, extend bool) document.Selection {
	if !d.ValidSelection(sel) {
		return document.Caret(d.StartPoint())
	}
	if !extend && !sel.IsCollapsed() {
		switch dir {
		case Left:
			return document.Caret(sel.Start())
		case Right:
			return document.Caret(sel.End())
		}
	}

	tbs := d.TextBlocks()
	line := d.TextBlockIndex(sel.Focus.Path)
	off := sel.Focus.Offset
	size := func(i int) int { return tbs[i].Block.Len() }

	switch dir {
	case Left:
		switch {
		case off > 0:
			off = prevBoundary(tbs[line].Block.Text(), off)
		case line > 0:
			line--
			off = size(line)
		}
	case Right:
		switch {
		case off < size(line):
			off = nextBoundary(tbs[line].Block.Text(), off)
		case line < len(tbs)-1:
			line++
			off = 0
		}
	case Up:
		if line > 0 {
			line--
			off = min(off, size(line))
		} else {
			off = 0
		}
	case Down:
		if line < len(tbs)-1 {
			line++
			off = min(off, size(line))
		} else {
			off = size(line)
		}
	case LineStart:
		off = 0
	case LineEnd:
		off = size(line)
	case DocStart:
		line, off = 0, 0
	case DocEnd:
		line = len(tbs) - 1
		off = size(line)
	}

	focus := document.Point{Path: tbs[line].Path.Clone(), Offset: off}
	if extend {
		return document.Selection{Anchor: sel.Anchor, Focus: focus}
	}
	return document.Caret(focus)
}

// SelectAll returns a selection spanning the whole document.
func SelectAll(d document.Document) document.Selection {
	return document.Selection{Anchor: d.StartPoint(), Focus: d.EndPoint()}
}
