package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a block: [i] for a top-level block, [i, j] for item j of
// the list at i.
type Path []int

// Equal reports whether two paths address the same block.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Compare orders paths in document order.
func (p Path) Compare(o Path) int {
	for i := 0; i < len(p) && i < len(o); i++ {
		if p[i] < o[i] {
			return -1
		}
		if p[i] > o[i] {
			return 1
		}
	}
	switch {
	case len(p) < len(o):
		return -1
	case len(p) > len(o):
		return 1
	}
	return 0
}

// Clone returns a copy of the path.
func (p Path) Clone() Path {
	return append(Path(nil), p...)
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, n := range p {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Point is a rune offset within a text-bearing block.
type Point struct {
	Path   Path
	Offset int
}

// At creates a point.
func At(offset int, path ...int) Point {
	return Point{Path: Path(path), Offset: offset}
}

// Equal reports whether two points are identical.
func (p Point) Equal(o Point) bool {
	return p.Offset == o.Offset && p.Path.Equal(o.Path)
}

// Compare orders points in document order.
func (p Point) Compare(o Point) int {
	if c := p.Path.Compare(o.Path); c != 0 {
		return c
	}
	switch {
	case p.Offset < o.Offset:
		return -1
	case p.Offset > o.Offset:
		return 1
	}
	return 0
}

func (p Point) String() string {
	return fmt.Sprintf("%s:%d", p.Path, p.Offset)
}

// Selection is an anchor/focus pair. Anchor is where the selection started,
// Focus is where the cursor is.
type Selection struct {
	Anchor Point
	Focus  Point
}

// Caret returns a collapsed selection at p.
func Caret(p Point) Selection {
	return Selection{Anchor: p, Focus: p}
}

// IsCollapsed reports whether the selection is a pure cursor.
func (s Selection) IsCollapsed() bool {
	return s.Anchor.Equal(s.Focus)
}

// Start returns the earlier point.
func (s Selection) Start() Point {
	if s.Anchor.Compare(s.Focus) <= 0 {
		return s.Anchor
	}
	return s.Focus
}

// End returns the later point.
func (s Selection) End() Point {
	if s.Anchor.Compare(s.Focus) <= 0 {
		return s.Focus
	}
	return s.Anchor
}

func (s Selection) String() string {
	if s.IsCollapsed() {
		return s.Focus.String()
	}
	return s.Anchor.String() + "->" + s.Focus.String()
}

// Block returns the block at path.
func (d Document) Block(path Path) (Block, bool) {
	switch len(path) {
	case 1:
		if path[0] < 0 || path[0] >= len(d.Blocks) {
			return Block{}, false
		}
		return d.Blocks[path[0]], true
	case 2:
		if path[0] < 0 || path[0] >= len(d.Blocks) {
			return Block{}, false
		}
		list := d.Blocks[path[0]]
		if path[1] < 0 || path[1] >= len(list.Items) {
			return Block{}, false
		}
		return list.Items[path[1]], true
	}
	return Block{}, false
}

// BlockPtr returns a pointer into d for in-place edits by owners of d.
func (d *Document) BlockPtr(path Path) *Block {
	switch len(path) {
	case 1:
		if path[0] >= 0 && path[0] < len(d.Blocks) {
			return &d.Blocks[path[0]]
		}
	case 2:
		if path[0] >= 0 && path[0] < len(d.Blocks) {
			list := &d.Blocks[path[0]]
			if path[1] >= 0 && path[1] < len(list.Items) {
				return &list.Items[path[1]]
			}
		}
	}
	return nil
}

// TextBlock is a text-bearing block paired with its path.
type TextBlock struct {
	Path  Path
	Block Block
}

// TextBlocks returns every text-bearing block in document order.
func (d Document) TextBlocks() []TextBlock {
	var out []TextBlock
	for i, b := range d.Blocks {
		if b.IsList() {
			for j, item := range b.Items {
				out = append(out, TextBlock{Path: Path{i, j}, Block: item})
			}
			continue
		}
		out = append(out, TextBlock{Path: Path{i}, Block: b})
	}
	return out
}

// TextBlockIndex returns the position of path within TextBlocks, or -1.
func (d Document) TextBlockIndex(path Path) int {
	for i, tb := range d.TextBlocks() {
		if tb.Path.Equal(path) {
			return i
		}
	}
	return -1
}

// ValidPoint reports whether p addresses a text-bearing block and its offset
// is within that block's text.
func (d Document) ValidPoint(p Point) bool {
	b, ok := d.Block(p.Path)
	if !ok || !b.IsText() {
		return false
	}
	return p.Offset >= 0 && p.Offset <= b.Len()
}

// ValidSelection reports whether both ends of s are valid points.
func (d Document) ValidSelection(s Selection) bool {
	return d.ValidPoint(s.Anchor) && d.ValidPoint(s.Focus)
}

// StartPoint returns the point at the start of the first text block.
func (d Document) StartPoint() Point {
	tbs := d.TextBlocks()
	if len(tbs) == 0 {
		return Point{Path: Path{0}}
	}
	return Point{Path: tbs[0].Path.Clone()}
}

// EndPoint returns the point at the end of the last text block.
func (d Document) EndPoint() Point {
	tbs := d.TextBlocks()
	if len(tbs) == 0 {
		return Point{Path: Path{0}}
	}
	last := tbs[len(tbs)-1]
	return Point{Path: last.Path.Clone(), Offset: last.Block.Len()}
}

// OffsetOf maps a point to a flat offset over the text blocks joined by a
// single newline. Invalid points map to -1.
func (d Document) OffsetOf(p Point) int {
	flat := 0
	for _, tb := range d.TextBlocks() {
		if tb.Path.Equal(p.Path) {
			if p.Offset < 0 || p.Offset > tb.Block.Len() {
				return -1
			}
			return flat + p.Offset
		}
		flat += tb.Block.Len() + 1
	}
	return -1
}

// PointAt maps a flat offset back to a point, clamping to the document.
func (d Document) PointAt(offset int) Point {
	if offset < 0 {
		offset = 0
	}
	tbs := d.TextBlocks()
	for _, tb := range tbs {
		n := tb.Block.Len()
		if offset <= n {
			return Point{Path: tb.Path.Clone(), Offset: offset}
		}
		offset -= n + 1
	}
	return d.EndPoint()
}
