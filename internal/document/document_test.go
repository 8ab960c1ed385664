package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() Document {
	return FromBlocks(
		NewTextBlock(HeadingOne, Run("Title")),
		NewTextBlock(Paragraph, Run("plain "), MarkedRun("bold", Marks{Bold: true})),
		NewList(BulletedList, "one", "two"),
		NewParagraph(""),
	)
}

func TestNewDocument(t *testing.T) {
	d := New()
	require.Len(t, d.Blocks, 1)
	assert.Equal(t, Paragraph, d.Blocks[0].Type)
	assert.Len(t, d.Blocks[0].Runs, 1)
	assert.True(t, d.IsEmpty())
	assert.NoError(t, d.Validate())
}

func TestBlockTypePredicates(t *testing.T) {
	for _, bt := range BlockTypes {
		assert.True(t, bt.Valid(), bt)
	}
	assert.False(t, BlockType("quote").Valid())
	assert.True(t, BulletedList.IsList())
	assert.True(t, NumberedList.IsList())
	assert.False(t, ListItem.IsList())
	assert.True(t, ListItem.IsText())
	assert.False(t, BlockType("quote").IsText())
}

func TestMarks(t *testing.T) {
	var ms Marks
	assert.Equal(t, "plain", ms.String())

	ms = ms.With(Bold, true).With(Underline, true)
	assert.True(t, ms.Has(Bold))
	assert.False(t, ms.Has(Italic))
	assert.Equal(t, "bold+underline", ms.String())

	ms = ms.With(Bold, false)
	assert.Equal(t, Marks{Underline: true}, ms)
}

func TestValidate(t *testing.T) {
	require.NoError(t, sampleDoc().Validate())

	tests := []struct {
		name string
		doc  Document
		path Path
	}{
		{"empty", Document{}, Path{}},
		{"unknown type", Document{Blocks: []Block{{Type: "quote", Runs: []TextRun{{}}}}}, Path{0}},
		{"top-level item", Document{Blocks: []Block{NewTextBlock(ListItem)}}, Path{0}},
		{"no runs", Document{Blocks: []Block{{Type: Paragraph}}}, Path{0}},
		{"empty list", Document{Blocks: []Block{{Type: BulletedList}}}, Path{0}},
		{"paragraph in list", Document{Blocks: []Block{{Type: NumberedList, Items: []Block{NewParagraph("x")}}}}, Path{0, 0}},
		{"nested list", Document{Blocks: []Block{{Type: BulletedList, Items: []Block{NewList(BulletedList, "x")}}}}, Path{0, 0}},
		{"item without runs", Document{Blocks: []Block{{Type: BulletedList, Items: []Block{{Type: ListItem}}}}}, Path{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDocument))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.path, verr.Path)
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := sampleDoc()
	c := d.Clone()
	c.Blocks[2].Items[0].Runs[0].Text = "changed"
	c.Blocks[1].Runs[0].Bold = true

	assert.Equal(t, "one", d.Blocks[2].Items[0].Runs[0].Text)
	assert.False(t, d.Blocks[1].Runs[0].Bold)
}

func TestTextBlocksAndLookup(t *testing.T) {
	d := sampleDoc()
	tbs := d.TextBlocks()
	require.Len(t, tbs, 5)
	assert.Equal(t, Path{0}, tbs[0].Path)
	assert.Equal(t, Path{2, 0}, tbs[2].Path)
	assert.Equal(t, Path{2, 1}, tbs[3].Path)
	assert.Equal(t, Path{3}, tbs[4].Path)

	b, ok := d.Block(Path{2, 1})
	require.True(t, ok)
	assert.Equal(t, "two", b.Text())

	_, ok = d.Block(Path{2, 5})
	assert.False(t, ok)
	_, ok = d.Block(Path{9})
	assert.False(t, ok)

	assert.Equal(t, 3, d.TextBlockIndex(Path{2, 1}))
	assert.Equal(t, -1, d.TextBlockIndex(Path{2}))
}

func TestValidPoint(t *testing.T) {
	d := sampleDoc()
	assert.True(t, d.ValidPoint(At(5, 0)))
	assert.False(t, d.ValidPoint(At(6, 0)))
	assert.False(t, d.ValidPoint(At(0, 2)), "list container is not a text block")
	assert.True(t, d.ValidPoint(At(3, 2, 0)))
	assert.False(t, d.ValidPoint(At(-1, 1)))
}

func TestOffsetMapping(t *testing.T) {
	d := sampleDoc()
	// "Title\nplain bold\none\ntwo\n"
	assert.Equal(t, 0, d.OffsetOf(At(0, 0)))
	assert.Equal(t, 6, d.OffsetOf(At(0, 1)))
	assert.Equal(t, 16, d.OffsetOf(At(10, 1)))
	assert.Equal(t, 17, d.OffsetOf(At(0, 2, 0)))
	assert.Equal(t, 22, d.OffsetOf(At(1, 2, 1)))
	assert.Equal(t, -1, d.OffsetOf(At(9, 0)))

	for _, p := range []Point{At(0, 0), At(3, 1), At(2, 2, 0), At(3, 2, 1), At(0, 3)} {
		assert.Equal(t, p, d.PointAt(d.OffsetOf(p)), p.String())
	}
	assert.Equal(t, d.EndPoint(), d.PointAt(1000))
	assert.Equal(t, d.StartPoint(), d.PointAt(-4))
}

func TestSelectionOrdering(t *testing.T) {
	sel := Selection{Anchor: At(3, 2, 0), Focus: At(1, 1)}
	assert.False(t, sel.IsCollapsed())
	assert.Equal(t, At(1, 1), sel.Start())
	assert.Equal(t, At(3, 2, 0), sel.End())
	assert.True(t, Caret(At(2, 0)).IsCollapsed())
	assert.Equal(t, -1, Path{1}.Compare(Path{1, 0}))
	assert.Equal(t, 1, Path{2}.Compare(Path{1, 4}))
}

func TestSplitRuns(t *testing.T) {
	runs := []TextRun{Run("ab"), MarkedRun("cd", Marks{Bold: true})}

	before, after := SplitRuns(runs, 3)
	assert.Equal(t, []TextRun{Run("ab"), MarkedRun("c", Marks{Bold: true})}, before)
	assert.Equal(t, []TextRun{MarkedRun("d", Marks{Bold: true})}, after)

	before, after = SplitRuns(runs, 2)
	assert.Equal(t, []TextRun{Run("ab")}, before)
	assert.Equal(t, []TextRun{MarkedRun("cd", Marks{Bold: true})}, after)

	before, after = SplitRuns(runs, 0)
	assert.Empty(t, before)
	assert.Equal(t, runs, after)

	before, after = SplitRuns(runs, 4)
	assert.Equal(t, runs, before)
	assert.Empty(t, after)

	assert.Equal(t, []TextRun{Run("b"), MarkedRun("c", Marks{Bold: true})}, SliceRuns(runs, 1, 3))
}

func TestSplitRunsMultibyte(t *testing.T) {
	before, after := SplitRuns([]TextRun{Run("héllo")}, 2)
	assert.Equal(t, "hé", before[0].Text)
	assert.Equal(t, "llo", after[0].Text)
}

func TestMarksAt(t *testing.T) {
	runs := []TextRun{Run("ab"), MarkedRun("cd", Marks{Italic: true})}
	assert.Equal(t, Marks{}, MarksAt(runs, 0))
	assert.Equal(t, Marks{}, MarksAt(runs, 2), "boundary inherits the preceding run")
	assert.Equal(t, Marks{Italic: true}, MarksAt(runs, 3))
	assert.Equal(t, Marks{Italic: true}, MarksAt(runs, 4))
}

func TestMergeRuns(t *testing.T) {
	merged := MergeRuns([]TextRun{Run("a"), Run(""), Run("b"), MarkedRun("c", Marks{Bold: true})})
	assert.Equal(t, []TextRun{Run("ab"), MarkedRun("c", Marks{Bold: true})}, merged)

	assert.Equal(t, []TextRun{{Italic: true}}, MergeRuns([]TextRun{{Italic: true}, {}}))
	assert.Equal(t, []TextRun{{}}, MergeRuns(nil))
}

func TestEqualIgnoresRunSplitting(t *testing.T) {
	a := FromBlocks(NewTextBlock(Paragraph, Run("hel"), Run("lo")))
	b := FromBlocks(NewParagraph("hello"))
	assert.True(t, a.Equal(b))

	c := FromBlocks(NewTextBlock(Paragraph, Run("hel"), MarkedRun("lo", Marks{Bold: true})))
	assert.False(t, a.Equal(c))

	assert.False(t, sampleDoc().Equal(New()))
	assert.True(t, sampleDoc().Equal(sampleDoc().Clone()))
}

func TestNormalizeDropsEmptyLists(t *testing.T) {
	d := Document{Blocks: []Block{{Type: BulletedList}, NewParagraph("x")}}
	n := d.Normalize()
	require.Len(t, n.Blocks, 1)
	assert.Equal(t, Paragraph, n.Blocks[0].Type)

	assert.True(t, Document{}.Normalize().IsEmpty())
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Title\nplain bold\none\ntwo\n", sampleDoc().PlainText())
	assert.Equal(t, "", New().PlainText())
	assert.Equal(t, "one\ntwo", NewList(NumberedList, "one", "two").Text())
}
