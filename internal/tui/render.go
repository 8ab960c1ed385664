package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/walnut/internal/document"
)

const helpText = "^B ^T ^U marks  F1-F4 blocks  ^Z ^Y undo  ^S save  ^Q quit"

type cell struct {
	r     rune
	comb  []rune
	width int
	off   int
	style tcell.Style
}

// row is one screen line of a text block.
type row struct {
	line   int // text block index
	indent int
	prefix string
	cells  []cell
}

// pos is a (text block, offset) location.
type pos struct {
	line, off int
}

func (p pos) less(o pos) bool {
	return p.line < o.line || (p.line == o.line && p.off < o.off)
}

func toPos(d document.Document, p document.Point) pos {
	return pos{line: d.TextBlockIndex(p.Path), off: p.Offset}
}

// layout wraps the text blocks of d to width.
func layout(d document.Document, width int) []row {
	var rows []row
	for i, tb := range d.TextBlocks() {
		prefix := blockPrefix(d, tb.Path)
		indent := runewidth.StringWidth(prefix)
		base := blockStyle(tb.Block.Type)

		cur := row{line: i, indent: indent, prefix: prefix}
		x := indent
		off := 0
		for _, run := range tb.Block.Runs {
			style := runStyle(base, run.Marks())
			for _, r := range run.Text {
				w := runewidth.RuneWidth(r)
				if w == 0 && len(cur.cells) > 0 {
					last := &cur.cells[len(cur.cells)-1]
					last.comb = append(last.comb, r)
					off++
					continue
				}
				if w == 0 {
					w = 1
				}
				if x+w > width && len(cur.cells) > 0 {
					rows = append(rows, cur)
					cur = row{line: i, indent: indent}
					x = indent
				}
				cur.cells = append(cur.cells, cell{r: r, width: w, off: off, style: style})
				x += w
				off++
			}
		}
		rows = append(rows, cur)
	}
	return rows
}

// blockPrefix is the marker drawn before a list item.
func blockPrefix(d document.Document, path document.Path) string {
	if len(path) != 2 {
		return ""
	}
	if d.Blocks[path[0]].Type == document.NumberedList {
		return fmt.Sprintf("  %d. ", path[1]+1)
	}
	return "  • "
}

func blockStyle(t document.BlockType) tcell.Style {
	switch t {
	case document.HeadingOne:
		return tcell.StyleDefault.Bold(true).Underline(true)
	case document.HeadingTwo:
		return tcell.StyleDefault.Bold(true)
	default:
		return tcell.StyleDefault
	}
}

func runStyle(base tcell.Style, m document.Marks) tcell.Style {
	if m.Bold {
		base = base.Bold(true)
	}
	if m.Italic {
		base = base.Italic(true)
	}
	if m.Underline {
		base = base.Underline(true)
	}
	return base
}

// cursorCell returns the row index and column of p within rows.
func cursorCell(rows []row, p pos) (int, int) {
	last := -1
	for i, r := range rows {
		if r.line != p.line {
			continue
		}
		x := r.indent
		for _, c := range r.cells {
			if c.off >= p.off {
				return i, x
			}
			x += c.width
		}
		last = i
	}
	if last < 0 {
		return 0, 0
	}
	r := rows[last]
	x := r.indent
	for _, c := range r.cells {
		x += c.width
	}
	return last, x
}

// draw renders the session to the screen.
func (h *Host) draw() {
	ed := h.sess.Editor()
	d := ed.Document()
	sel := ed.Selection()

	h.screen.Clear()
	width, height := h.screen.Size()
	if width <= 0 || height < 3 {
		h.screen.Show()
		return
	}
	bodyHeight := height - 2

	title := h.sess.Title()
	if title == "" {
		title = "Untitled Note"
	}
	h.putString(0, 0, width, title, tcell.StyleDefault.Bold(true).Reverse(true))

	rows := layout(d, width)
	start, end := toPos(d, sel.Start()), toPos(d, sel.End())
	cy, cx := cursorCell(rows, toPos(d, sel.Focus))

	if cy < h.top {
		h.top = cy
	}
	if cy >= h.top+bodyHeight {
		h.top = cy - bodyHeight + 1
	}

	for y := 0; y < bodyHeight && h.top+y < len(rows); y++ {
		r := rows[h.top+y]
		h.putString(0, y+1, width, r.prefix, tcell.StyleDefault)
		x := r.indent
		for _, c := range r.cells {
			style := c.style
			p := pos{line: r.line, off: c.off}
			if !p.less(start) && p.less(end) {
				style = style.Reverse(true)
			}
			h.screen.SetContent(x, y+1, c.r, c.comb, style)
			x += c.width
		}
	}

	if h.HasFocus() {
		h.screen.ShowCursor(min(cx, width-1), cy-h.top+1)
	} else {
		h.screen.HideCursor()
	}

	h.putString(0, height-1, width, h.statusLine(), tcell.StyleDefault.Reverse(true))
	h.screen.Show()
}

func (h *Host) statusLine() string {
	ed := h.sess.Editor()
	var parts []string
	var marks []string
	for _, m := range document.AllMarks {
		if ed.IsMarkActive(m) {
			marks = append(marks, string(m))
		}
	}
	if len(marks) > 0 {
		parts = append(parts, strings.Join(marks, "+"))
	}
	for _, t := range []document.BlockType{document.HeadingOne, document.HeadingTwo, document.BulletedList, document.NumberedList} {
		if ed.IsBlockActive(t) {
			parts = append(parts, string(t))
			break
		}
	}
	if h.sess.Pending() {
		parts = append(parts, "unsaved")
	}
	if h.status != "" {
		parts = append(parts, h.status)
	}
	parts = append(parts, helpText)
	return strings.Join(parts, " | ")
}

// putString writes s at (x, y), padding with spaces to width.
func (h *Host) putString(x, y, width int, s string, style tcell.Style) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if x+w > width {
			break
		}
		h.screen.SetContent(x, y, r, nil, style)
		x += w
	}
	if style != tcell.StyleDefault {
		for ; x < width; x++ {
			h.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}
