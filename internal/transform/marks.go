package transform

import (
	"fmt"

	"github.com/dshills/walnut/internal/document"
)

// MarksAt returns the marks text typed at p would carry.
func MarksAt(d document.Document, p document.Point) document.Marks {
	if !d.ValidPoint(p) {
		return document.Marks{}
	}
	b, _ := d.Block(p.Path)
	return document.MarksAt(b.Runs, p.Offset)
}

// IsMarkActive reports whether m is active for the selection. For a cursor
// that is the mark at the insertion point. For a range every run lying
// fully inside the range must carry m. When no run is fully covered the
// runs partly covered decide instead.
func IsMarkActive(d document.Document, sel document.Selection, m document.Mark) bool {
	if sel.IsCollapsed() {
		return MarksAt(d, sel.Focus).Has(m)
	}
	s, err := open(d, sel)
	if err != nil {
		return false
	}
	var full, part struct{ seen, off bool }
	for i, r := range s.ranges() {
		at := 0
		for _, run := range s.ls.items[i].block.Runs {
			n := run.Len()
			if n > 0 && at < r.to && at+n > r.from {
				c := &part
				if at >= r.from && at+n <= r.to {
					c = &full
				}
				c.seen = true
				if !run.Marks().Has(m) {
					c.off = true
				}
			}
			at += n
		}
	}
	switch {
	case full.seen:
		return !full.off
	case part.seen:
		return !part.off
	}
	return MarksAt(d, sel.Start()).Has(m)
}

// ToggleMark removes m from every run in the selected range when it is
// active and adds it otherwise. A collapsed selection leaves the document
// unchanged; callers track the pending mark for the next insertion.
func ToggleMark(d document.Document, sel document.Selection, m document.Mark) (document.Document, document.Selection, error) {
	if !m.Valid() {
		return d, sel, fmt.Errorf("%w: %q", ErrInvalidMark, m)
	}
	if !d.ValidSelection(sel) {
		return d, sel, fmt.Errorf("%w: %s", ErrInvalidSelection, sel)
	}
	if sel.IsCollapsed() {
		return d, sel, nil
	}
	return SetMark(d, sel, m, !IsMarkActive(d, sel, m))
}

// SetMark sets m on or off for every run in the selected range.
func SetMark(d document.Document, sel document.Selection, m document.Mark, on bool) (document.Document, document.Selection, error) {
	if !m.Valid() {
		return d, sel, fmt.Errorf("%w: %q", ErrInvalidMark, m)
	}
	s, err := open(d, sel)
	if err != nil {
		return d, sel, err
	}
	for i, r := range s.ranges() {
		b := &s.ls.items[i].block
		head, rest := document.SplitRuns(b.Runs, r.from)
		mid, tail := document.SplitRuns(rest, r.to-r.from)
		for k := range mid {
			mid[k] = mid[k].WithMarks(mid[k].Marks().With(m, on))
		}
		runs := append(head, mid...)
		b.Runs = append(runs, tail...)
	}
	d, sel = s.close()
	return d, sel, nil
}

// runeRange is the rune range [from, to) of one line covered by a selection.
type runeRange struct {
	from, to int
}

// ranges maps each line touched by the selection to the part it covers.
func (s *state) ranges() map[int]runeRange {
	start, end := s.sel.start(), s.sel.end()
	out := make(map[int]runeRange, end.line-start.line+1)
	for i := start.line; i <= end.line; i++ {
		r := runeRange{from: 0, to: s.ls.size(i)}
		if i == start.line {
			r.from = start.off
		}
		if i == end.line {
			r.to = end.off
		}
		out[i] = r
	}
	return out
}
