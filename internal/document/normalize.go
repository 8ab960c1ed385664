package document

import "strings"

// Normalize returns a copy of d with adjacent same-mark runs merged, empty
// runs dropped (keeping one per block), empty lists removed and, if nothing
// is left, the default empty paragraph.
func (d Document) Normalize() Document {
	out := Document{Blocks: make([]Block, 0, len(d.Blocks))}
	for _, b := range d.Blocks {
		if b.IsList() {
			if len(b.Items) == 0 {
				continue
			}
			list := Block{Type: b.Type, Items: make([]Block, len(b.Items))}
			for j, item := range b.Items {
				list.Items[j] = Block{Type: item.Type, Runs: MergeRuns(item.Runs)}
			}
			out.Blocks = append(out.Blocks, list)
			continue
		}
		out.Blocks = append(out.Blocks, Block{Type: b.Type, Runs: MergeRuns(b.Runs)})
	}
	if len(out.Blocks) == 0 {
		return New()
	}
	return out
}

// Equal reports structural equality: same block types, nesting, text and
// marks, ignoring how text is divided into runs.
func (d Document) Equal(o Document) bool {
	a, b := d.Normalize(), o.Normalize()
	if len(a.Blocks) != len(b.Blocks) {
		return false
	}
	for i := range a.Blocks {
		if !blockEqual(a.Blocks[i], b.Blocks[i]) {
			return false
		}
	}
	return true
}

func blockEqual(a, b Block) bool {
	if a.Type != b.Type || len(a.Items) != len(b.Items) || len(a.Runs) != len(b.Runs) {
		return false
	}
	for i := range a.Runs {
		if a.Runs[i] != b.Runs[i] {
			return false
		}
	}
	for i := range a.Items {
		if !blockEqual(a.Items[i], b.Items[i]) {
			return false
		}
	}
	return true
}

// PlainText returns every text-bearing block's text joined by newlines.
func (d Document) PlainText() string {
	tbs := d.TextBlocks()
	lines := make([]string, len(tbs))
	for i, tb := range tbs {
		lines[i] = tb.Block.Text()
	}
	return strings.Join(lines, "\n")
}
