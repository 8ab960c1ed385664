package transform

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/walnut/internal/document"
)

// InsertText replaces the selected range, if any, with text carrying marks
// and leaves the cursor after it. Text is inserted verbatim; line breaks are
// the caller's concern (see SplitBlock).
func InsertText(d document.Document, sel document.Selection, text string, marks document.Marks) (document.Document, document.Selection, error) {
	s, err := open(d, sel)
	if err != nil {
		return d, sel, err
	}
	s.deleteSelection()
	if text == "" {
		d, sel = s.close()
		return d, sel, nil
	}

	at := s.sel.focus
	b := &s.ls.items[at.line].block
	head, tail := document.SplitRuns(b.Runs, at.off)
	runs := append(head, document.MarkedRun(text, marks))
	b.Runs = append(runs, tail...)

	s.sel = caretAt(pos{line: at.line, off: at.off + utf8.RuneCountInString(text)})
	d, sel = s.close()
	return d, sel, nil
}

// DeleteRange removes the selected text. Blocks strictly inside the range
// are removed and the rest of the last block joins the first, which keeps
// its type. A collapsed selection is a no-op.
func DeleteRange(d document.Document, sel document.Selection) (document.Document, document.Selection, error) {
	s, err := open(d, sel)
	if err != nil {
		return d, sel, err
	}
	if s.sel.collapsed() {
		return d, sel, nil
	}
	s.deleteSelection()
	d, sel = s.close()
	return d, sel, nil
}

func (s *state) deleteSelection() {
	if s.sel.collapsed() {
		return
	}
	start, end := s.sel.start(), s.sel.end()
	s.ls.deleteSpan(start, end)
	s.sel = caretAt(start)
}

// DeleteBackward removes the grapheme cluster before the cursor. At the
// start of a block the block joins the previous text block; at the start of
// the document nothing happens. A range is deleted instead.
func DeleteBackward(d document.Document, sel document.Selection) (document.Document, document.Selection, error) {
	s, err := open(d, sel)
	if err != nil {
		return d, sel, err
	}
	if !s.sel.collapsed() {
		s.deleteSelection()
		d, sel = s.close()
		return d, sel, nil
	}

	at := s.sel.focus
	switch {
	case at.off > 0:
		from := prevBoundary(s.ls.text(at.line), at.off)
		s.ls.deleteSpan(pos{line: at.line, off: from}, at)
		s.sel = caretAt(pos{line: at.line, off: from})
	case at.line > 0:
		prev := at.line - 1
		off := s.ls.size(prev)
		s.ls.joinNext(prev)
		s.sel = caretAt(pos{line: prev, off: off})
	default:
		return d, sel, nil
	}
	d, sel = s.close()
	return d, sel, nil
}

// DeleteForward removes the grapheme cluster after the cursor. At the end of
// a block the next text block joins it; at the end of the document nothing
// happens. A range is deleted instead.
func DeleteForward(d document.Document, sel document.Selection) (document.Document, document.Selection, error) {
	s, err := open(d, sel)
	if err != nil {
		return d, sel, err
	}
	if !s.sel.collapsed() {
		s.deleteSelection()
		d, sel = s.close()
		return d, sel, nil
	}

	at := s.sel.focus
	switch {
	case at.off < s.ls.size(at.line):
		to := nextBoundary(s.ls.text(at.line), at.off)
		s.ls.deleteSpan(at, pos{line: at.line, off: to})
	case at.line < len(s.ls.items)-1:
		s.ls.joinNext(at.line)
	default:
		return d, sel, nil
	}
	d, sel = s.close()
	return d, sel, nil
}

// SplitBlock breaks the block at the cursor in two, deleting any selected
// range first. The new block has the same type; in a list it is a sibling
// item. The cursor moves to the start of the new block.
func SplitBlock(d document.Document, sel document.Selection) (document.Document, document.Selection, error) {
	s, err := open(d, sel)
	if err != nil {
		return d, sel, err
	}
	s.deleteSelection()
	at := s.sel.focus
	s.ls.splitLine(at.line, at.off)
	s.sel = caretAt(pos{line: at.line + 1})
	d, sel = s.close()
	return d, sel, nil
}

// TextBefore returns the text between the start of the focused block and
// the cursor.
func TextBefore(d document.Document, p document.Point) string {
	b, ok := d.Block(p.Path)
	if !ok || !b.IsText() {
		return ""
	}
	rs := []rune(b.Text())
	if p.Offset < 0 || p.Offset > len(rs) {
		return ""
	}
	return string(rs[:p.Offset])
}

// graphemeBounds returns the rune offsets of the grapheme cluster
// boundaries in s, starting with 0.
func graphemeBounds(s string) []int {
	bounds := []int{0}
	n := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		n += len(g.Runes())
		bounds = append(bounds, n)
	}
	return bounds
}

func prevBoundary(s string, off int) int {
	prev := 0
	for _, b := range graphemeBounds(s) {
		if b >= off {
			break
		}
		prev = b
	}
	return prev
}

func nextBoundary(s string, off int) int {
	bounds := graphemeBounds(s)
	for _, b := range bounds {
		if b > off {
			return b
		}
	}
	return bounds[len(bounds)-1]
}
