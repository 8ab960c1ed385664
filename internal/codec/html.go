package codec

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/walnut/internal/document"
)

var blockTags = map[document.BlockType]atom.Atom{
	document.Paragraph:    atom.P,
	document.HeadingOne:   atom.H1,
	document.HeadingTwo:   atom.H2,
	document.BulletedList: atom.Ul,
	document.NumberedList: atom.Ol,
	document.ListItem:     atom.Li,
}

// ToHTML renders d as an HTML fragment. Run text is wrapped in <strong>,
// then <em>, then <u>, innermost first; text is escaped.
func ToHTML(d document.Document) string {
	var sb strings.Builder
	for _, b := range d.Blocks {
		// Rendering into a strings.Builder does not fail.
		_ = html.Render(&sb, blockNode(b))
	}
	return sb.String()
}

// ExportHTML renders d as a standalone HTML page titled title.
func ExportHTML(title string, d document.Document) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	sb.WriteString(html.EscapeString(title))
	sb.WriteString("</title>\n</head>\n<body>\n")
	sb.WriteString(ToHTML(d))
	sb.WriteString("\n</body>\n</html>\n")
	return sb.String()
}

func blockNode(b document.Block) *html.Node {
	n := newElement(blockTags[b.Type])
	if b.IsList() {
		for _, item := range b.Items {
			n.AppendChild(blockNode(item))
		}
		return n
	}
	for _, r := range b.Runs {
		n.AppendChild(runNode(r))
	}
	return n
}

func runNode(r document.TextRun) *html.Node {
	n := &html.Node{Type: html.TextNode, Data: r.Text}
	if r.Bold {
		n = wrap(atom.Strong, n)
	}
	if r.Italic {
		n = wrap(atom.Em, n)
	}
	if r.Underline {
		n = wrap(atom.U, n)
	}
	return n
}

func wrap(a atom.Atom, child *html.Node) *html.Node {
	n := newElement(a)
	n.AppendChild(child)
	return n
}

func newElement(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}
