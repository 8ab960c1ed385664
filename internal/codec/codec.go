// Package codec converts documents to and from their persisted string form.
//
// The structured form is a JSON array of block objects:
//
//	[
//	  {"type":"heading-one","children":[{"text":"Groceries"}]},
//	  {"type":"bulleted-list","children":[
//	    {"type":"list-item","children":[{"text":"milk","bold":true}]}
//	  ]}
//	]
//
// Notes written before the structured form existed are plain text. There is
// no version tag: Deserialize attempts the structured form first and falls
// back to one paragraph per line.
package codec

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/dshills/walnut/internal/document"
)

// ErrMalformed indicates a string is not a structured document.
var ErrMalformed = errors.New("malformed document")

// wireNode is either an element (Type and Children set) or a text leaf
// (Text set).
type wireNode struct {
	Type      string     `json:"type,omitempty"`
	Children  []wireNode `json:"children,omitempty"`
	Text      *string    `json:"text,omitempty"`
	Bold      bool       `json:"bold,omitempty"`
	Italic    bool       `json:"italic,omitempty"`
	Underline bool       `json:"underline,omitempty"`
}

// element and leaf fix the encoded field order.
type element struct {
	Type     string `json:"type"`
	Children []any  `json:"children"`
}

type leaf struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
}

// Serialize encodes d deterministically. The document is normalized first so
// equal documents encode identically.
func Serialize(d document.Document) string {
	d = d.Normalize()
	nodes := make([]any, len(d.Blocks))
	for i, b := range d.Blocks {
		nodes[i] = encodeBlock(b)
	}
	data, err := json.Marshal(nodes)
	if err != nil {
		// Only strings, bools and slices are marshaled.
		panic(fmt.Sprintf("codec: marshal document: %v", err))
	}
	return string(data)
}

func encodeBlock(b document.Block) element {
	el := element{Type: string(b.Type)}
	if b.IsList() {
		el.Children = make([]any, len(b.Items))
		for i, item := range b.Items {
			el.Children[i] = encodeBlock(item)
		}
		return el
	}
	el.Children = make([]any, len(b.Runs))
	for i, r := range b.Runs {
		el.Children[i] = leaf{Text: r.Text, Bold: r.Bold, Italic: r.Italic, Underline: r.Underline}
	}
	return el
}

// Deserialize decodes a persisted string. It never fails: an empty string
// yields the default document and anything that is not a structured
// document is decoded as legacy plain text.
func Deserialize(s string) document.Document {
	if s == "" {
		return document.New()
	}
	d, err := Decode(s)
	if err != nil {
		return DecodePlainText(s)
	}
	return d
}

// Decode decodes the structured form only. Blocks with no runs get an empty
// run; every other invariant violation is an error wrapping ErrMalformed.
func Decode(s string) (document.Document, error) {
	var nodes []wireNode
	if err := json.Unmarshal([]byte(s), &nodes); err != nil {
		return document.Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(nodes) == 0 {
		return document.Document{}, fmt.Errorf("%w: no blocks", ErrMalformed)
	}

	d := document.Document{Blocks: make([]document.Block, 0, len(nodes))}
	for i, n := range nodes {
		b, err := decodeBlock(n, false)
		if err != nil {
			return document.Document{}, fmt.Errorf("%w: block %d: %v", ErrMalformed, i, err)
		}
		d.Blocks = append(d.Blocks, b)
	}
	if err := d.Validate(); err != nil {
		return document.Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return d, nil
}

func decodeBlock(n wireNode, inList bool) (document.Block, error) {
	if n.Text != nil {
		return document.Block{}, errors.New("text leaf where a block was expected")
	}
	t := document.BlockType(n.Type)
	if !t.Valid() {
		return document.Block{}, fmt.Errorf("unknown block type %q", n.Type)
	}
	if inList != (t == document.ListItem) {
		return document.Block{}, fmt.Errorf("%s not allowed here", t)
	}

	if t.IsList() {
		b := document.Block{Type: t, Items: make([]document.Block, 0, len(n.Children))}
		for _, c := range n.Children {
			item, err := decodeBlock(c, true)
			if err != nil {
				return document.Block{}, err
			}
			b.Items = append(b.Items, item)
		}
		return b, nil
	}

	runs := make([]document.TextRun, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Text == nil {
			return document.Block{}, fmt.Errorf("%s holds a non-text child", t)
		}
		runs = append(runs, document.TextRun{Text: *c.Text, Bold: c.Bold, Italic: c.Italic, Underline: c.Underline})
	}
	return document.NewTextBlock(t, runs...), nil
}

// DecodePlainText is the legacy decoder: one unmarked paragraph per line.
// A trailing carriage return on each line is dropped.
func DecodePlainText(s string) document.Document {
	if s == "" {
		return document.New()
	}
	lines := strings.Split(s, "\n")
	d := document.Document{Blocks: make([]document.Block, len(lines))}
	for i, line := range lines {
		d.Blocks[i] = document.NewParagraph(strings.TrimSuffix(line, "\r"))
	}
	return d
}

// ExtractPlainText returns the unformatted content of d, one line per text
// block.
func ExtractPlainText(d document.Document) string {
	return d.PlainText()
}
