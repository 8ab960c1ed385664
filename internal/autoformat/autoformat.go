// Package autoformat implements the Markdown-style shortcuts applied while
// typing, and the backspace rule that demotes a block at its start.
//
// Typing a space directly after one of the markers below, with nothing else
// before it in the block, replaces the marker with a block change:
//
//	#    heading one
//	##   heading two
//	-    bulleted list
//	*    bulleted list
//	1.   numbered list
//
// The marker and the space are consumed. Matching is exact: "##x" or " #"
// insert the space as ordinary text.
package autoformat

import (
	"github.com/dshills/walnut/internal/document"
	"github.com/dshills/walnut/internal/transform"
)

// Trigger is the text whose insertion runs the shortcut check.
const Trigger = " "

// Shortcut maps a marker to the block type it produces.
type Shortcut struct {
	Marker string
	Type   document.BlockType
}

// Shortcuts lists the recognized markers.
var Shortcuts = []Shortcut{
	{Marker: "#", Type: document.HeadingOne},
	{Marker: "##", Type: document.HeadingTwo},
	{Marker: "-", Type: document.BulletedList},
	{Marker: "*", Type: document.BulletedList},
	{Marker: "1.", Type: document.NumberedList},
}

// Match returns the block type for the text typed before the cursor.
func Match(before string) (document.BlockType, bool) {
	for _, s := range Shortcuts {
		if s.Marker == before {
			return s.Type, true
		}
	}
	return "", false
}

// HandleInsertText applies a shortcut when text is the trigger, the
// selection is a cursor and the text before it matches a marker. When it
// reports false the caller performs the ordinary insertion.
func HandleInsertText(d document.Document, sel document.Selection, text string) (document.Document, document.Selection, bool, error) {
	if text != Trigger || !sel.IsCollapsed() {
		return d, sel, false, nil
	}
	t, ok := Match(transform.TextBefore(d, sel.Focus))
	if !ok {
		return d, sel, false, nil
	}

	marker := document.Selection{
		Anchor: document.Point{Path: sel.Focus.Path.Clone()},
		Focus:  sel.Focus,
	}
	nd, nsel, err := transform.DeleteRange(d, marker)
	if err != nil {
		return d, sel, false, err
	}

	if t.IsList() && transform.ListType(nd, nsel) == t {
		// Already an item of this list; join it rather than nest.
		nd, nsel, err = transform.SetBlockType(nd, nsel, document.ListItem)
	} else {
		nd, nsel, err = transform.SetBlockType(nd, nsel, t)
	}
	if err != nil {
		return d, sel, false, err
	}
	return nd, nsel, true, nil
}

// HandleDeleteBackward demotes a heading or list item to a paragraph when
// the cursor is at the very start of it, unwrapping list items from their
// list. When it reports false the caller performs the ordinary deletion.
func HandleDeleteBackward(d document.Document, sel document.Selection) (document.Document, document.Selection, bool, error) {
	if !sel.IsCollapsed() || sel.Focus.Offset != 0 {
		return d, sel, false, nil
	}

	var (
		nd   document.Document
		nsel document.Selection
		err  error
	)
	switch transform.BlockType(d, sel) {
	case document.HeadingOne, document.HeadingTwo:
		nd, nsel, err = transform.SetBlockType(d, sel, document.Paragraph)
	case document.ListItem:
		nd, nsel, err = transform.UnwrapFromList(d, sel)
	default:
		return d, sel, false, nil
	}
	if err != nil {
		return d, sel, false, err
	}
	return nd, nsel, true, nil
}
