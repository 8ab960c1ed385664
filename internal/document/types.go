package document

import "strings"

// BlockType identifies a block variant. The string values are the persisted
// type tags.
type BlockType string

// Block variants.
const (
	Paragraph    BlockType = "paragraph"
	HeadingOne   BlockType = "heading-one"
	HeadingTwo   BlockType = "heading-two"
	BulletedList BlockType = "bulleted-list"
	NumberedList BlockType = "numbered-list"
	ListItem     BlockType = "list-item"
)

// BlockTypes lists every known block variant.
var BlockTypes = []BlockType{Paragraph, HeadingOne, HeadingTwo, BulletedList, NumberedList, ListItem}

// Valid reports whether t is one of the known variants.
func (t BlockType) Valid() bool {
	switch t {
	case Paragraph, HeadingOne, HeadingTwo, BulletedList, NumberedList, ListItem:
		return true
	}
	return false
}

// IsList reports whether t is a list container.
func (t BlockType) IsList() bool {
	return t == BulletedList || t == NumberedList
}

// IsText reports whether t owns text runs.
func (t BlockType) IsText() bool {
	return t.Valid() && !t.IsList()
}

// Mark is an inline formatting attribute.
type Mark string

// Inline marks.
const (
	Bold      Mark = "bold"
	Italic    Mark = "italic"
	Underline Mark = "underline"
)

// AllMarks lists the marks in their persisted order.
var AllMarks = []Mark{Bold, Italic, Underline}

// Valid reports whether m is a known mark.
func (m Mark) Valid() bool {
	return m == Bold || m == Italic || m == Underline
}

// Marks is a set of inline marks.
type Marks struct {
	Bold      bool
	Italic    bool
	Underline bool
}

// Has reports whether the set contains m.
func (ms Marks) Has(m Mark) bool {
	switch m {
	case Bold:
		return ms.Bold
	case Italic:
		return ms.Italic
	case Underline:
		return ms.Underline
	}
	return false
}

// With returns a copy of the set with m set to on.
func (ms Marks) With(m Mark, on bool) Marks {
	switch m {
	case Bold:
		ms.Bold = on
	case Italic:
		ms.Italic = on
	case Underline:
		ms.Underline = on
	}
	return ms
}

// String renders the set as a "+"-joined list, e.g. "bold+italic".
func (ms Marks) String() string {
	var parts []string
	for _, m := range AllMarks {
		if ms.Has(m) {
			parts = append(parts, string(m))
		}
	}
	if len(parts) == 0 {
		return "plain"
	}
	return strings.Join(parts, "+")
}

// TextRun is a contiguous span of text sharing one set of marks.
type TextRun struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
}

// Run creates an unmarked run.
func Run(text string) TextRun {
	return TextRun{Text: text}
}

// MarkedRun creates a run carrying marks.
func MarkedRun(text string, marks Marks) TextRun {
	return TextRun{Text: text, Bold: marks.Bold, Italic: marks.Italic, Underline: marks.Underline}
}

// Marks returns the run's mark set.
func (r TextRun) Marks() Marks {
	return Marks{Bold: r.Bold, Italic: r.Italic, Underline: r.Underline}
}

// WithMarks returns a copy of the run carrying marks.
func (r TextRun) WithMarks(marks Marks) TextRun {
	return MarkedRun(r.Text, marks)
}

// Len returns the run length in runes.
func (r TextRun) Len() int {
	return len([]rune(r.Text))
}

// Block is a tagged-variant tree node. Runs is used by text-bearing blocks,
// Items by list blocks; the unused field is nil.
type Block struct {
	Type  BlockType
	Runs  []TextRun
	Items []Block
}

// NewTextBlock creates a text-bearing block. A block with no runs gets one
// empty run.
func NewTextBlock(t BlockType, runs ...TextRun) Block {
	if len(runs) == 0 {
		runs = []TextRun{{}}
	}
	return Block{Type: t, Runs: append([]TextRun(nil), runs...)}
}

// NewParagraph creates a paragraph holding a single unmarked run.
func NewParagraph(text string) Block {
	return NewTextBlock(Paragraph, Run(text))
}

// NewList creates a list block of type t with one item per text.
func NewList(t BlockType, texts ...string) Block {
	items := make([]Block, len(texts))
	for i, text := range texts {
		items[i] = NewTextBlock(ListItem, Run(text))
	}
	return Block{Type: t, Items: items}
}

// IsText reports whether the block owns text runs.
func (b Block) IsText() bool {
	return b.Type.IsText()
}

// IsList reports whether the block is a list container.
func (b Block) IsList() bool {
	return b.Type.IsList()
}

// Text returns the concatenated text of the block. For lists this is the
// items' text joined by newlines.
func (b Block) Text() string {
	if b.IsList() {
		parts := make([]string, len(b.Items))
		for i, item := range b.Items {
			parts[i] = item.Text()
		}
		return strings.Join(parts, "\n")
	}
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Len returns the text length of a text-bearing block in runes.
func (b Block) Len() int {
	n := 0
	for _, r := range b.Runs {
		n += r.Len()
	}
	return n
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	out := Block{Type: b.Type}
	if b.Runs != nil {
		out.Runs = append([]TextRun(nil), b.Runs...)
	}
	if b.Items != nil {
		out.Items = make([]Block, len(b.Items))
		for i, item := range b.Items {
			out.Items[i] = item.Clone()
		}
	}
	return out
}

// Document is an ordered sequence of top-level blocks.
type Document struct {
	Blocks []Block
}

// New returns the default document: one empty paragraph.
func New() Document {
	return Document{Blocks: []Block{NewTextBlock(Paragraph)}}
}

// FromBlocks creates a document from blocks, cloning them.
func FromBlocks(blocks ...Block) Document {
	d := Document{Blocks: make([]Block, len(blocks))}
	for i, b := range blocks {
		d.Blocks[i] = b.Clone()
	}
	return d
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{Blocks: make([]Block, len(d.Blocks))}
	for i, b := range d.Blocks {
		out.Blocks[i] = b.Clone()
	}
	return out
}

// IsEmpty reports whether the document holds a single empty paragraph.
func (d Document) IsEmpty() bool {
	return len(d.Blocks) == 1 && d.Blocks[0].Type == Paragraph && d.Blocks[0].Len() == 0
}
