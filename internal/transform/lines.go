package transform

import (
	"github.com/dshills/walnut/internal/document"
)

// line is one text-bearing block in document order. Lines that belong to the
// same list share a group; top-level blocks have group -1.
type line struct {
	group int
	list  document.BlockType
	block document.Block
}

// lines is a document flattened into its text blocks. Structural edits work
// on lines and rebuild the tree, so a text block keeps its index across
// wrap, unwrap and retype.
type lines struct {
	items []line
	next  int // next unused group id
}

// pos is a point expressed as a line index and rune offset.
type pos struct {
	line, off int
}

func (p pos) less(o pos) bool {
	return p.line < o.line || (p.line == o.line && p.off < o.off)
}

// span is a selection in line coordinates.
type span struct {
	anchor, focus pos
}

func (s span) collapsed() bool {
	return s.anchor == s.focus
}

func (s span) start() pos {
	if s.focus.less(s.anchor) {
		return s.focus
	}
	return s.anchor
}

func (s span) end() pos {
	if s.focus.less(s.anchor) {
		return s.anchor
	}
	return s.focus
}

func caretAt(p pos) span {
	return span{anchor: p, focus: p}
}

func flatten(d document.Document) *lines {
	ls := &lines{next: len(d.Blocks)}
	for i, b := range d.Blocks {
		if b.IsList() {
			for _, item := range b.Items {
				ls.items = append(ls.items, line{group: i, list: b.Type, block: item.Clone()})
			}
			continue
		}
		ls.items = append(ls.items, line{group: -1, block: b.Clone()})
	}
	return ls
}

// build reassembles the tree. Consecutive lines of one group form a list.
func (ls *lines) build() document.Document {
	d := document.Document{Blocks: make([]document.Block, 0, len(ls.items))}
	last := -1
	for _, ln := range ls.items {
		b := ln.block
		b.Runs = document.MergeRuns(b.Runs)
		if ln.group < 0 {
			d.Blocks = append(d.Blocks, b)
			last = -1
			continue
		}
		b.Type = document.ListItem
		if ln.group == last {
			list := &d.Blocks[len(d.Blocks)-1]
			list.Items = append(list.Items, b)
			continue
		}
		d.Blocks = append(d.Blocks, document.Block{Type: ln.list, Items: []document.Block{b}})
		last = ln.group
	}
	if len(d.Blocks) == 0 {
		return document.New()
	}
	return d
}

func (ls *lines) newGroup() int {
	g := ls.next
	ls.next++
	return g
}

// wrap moves lines [from, to] into one new list of type t.
func (ls *lines) wrap(from, to int, t document.BlockType) {
	g := ls.newGroup()
	for i := from; i <= to; i++ {
		ls.items[i].group = g
		ls.items[i].list = t
		ls.items[i].block.Type = document.ListItem
	}
}

// unwrap lifts line i out of its list as a paragraph. Items after it are
// rebuilt as a separate list of the same type.
func (ls *lines) unwrap(i int) {
	ln := &ls.items[i]
	if ln.group < 0 {
		return
	}
	ln.group = -1
	ln.list = ""
	ln.block.Type = document.Paragraph
}

func (ls *lines) text(i int) string {
	return ls.items[i].block.Text()
}

func (ls *lines) size(i int) int {
	return ls.items[i].block.Len()
}

// remove deletes lines (from, to], i.e. keeps from.
func (ls *lines) remove(from, to int) {
	ls.items = append(ls.items[:from+1], ls.items[to+1:]...)
}

// deleteSpan removes the text between start and end, merging the remainder
// of the end line into the start line.
func (ls *lines) deleteSpan(start, end pos) {
	first := &ls.items[start.line]
	head, _ := document.SplitRuns(first.block.Runs, start.off)
	_, tail := document.SplitRuns(ls.items[end.line].block.Runs, end.off)
	if len(head) == 0 && len(tail) == 0 {
		first.block.Runs = []document.TextRun{document.MarkedRun("", document.MarksAt(first.block.Runs, start.off))}
	} else {
		first.block.Runs = append(head, tail...)
	}
	if end.line > start.line {
		ls.remove(start.line, end.line)
	}
}

// splitLine breaks line i at off. The new line has the same type and group.
func (ls *lines) splitLine(i, off int) {
	ln := ls.items[i]
	marks := document.MarksAt(ln.block.Runs, off)
	head, tail := document.SplitRuns(ln.block.Runs, off)
	if len(head) == 0 {
		head = []document.TextRun{document.MarkedRun("", marks)}
	}
	if len(tail) == 0 {
		tail = []document.TextRun{document.MarkedRun("", marks)}
	}
	ls.items[i].block.Runs = head

	next := ln
	next.block = document.Block{Type: ln.block.Type, Runs: tail}
	ls.items = append(ls.items, line{})
	copy(ls.items[i+2:], ls.items[i+1:])
	ls.items[i+1] = next
}

// joinNext merges line i+1 into line i.
func (ls *lines) joinNext(i int) {
	cur := &ls.items[i]
	cur.block.Runs = append(cur.block.Runs, ls.items[i+1].block.Runs...)
	ls.remove(i, i+1)
}
