package autoformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/walnut/internal/document"
	"github.com/dshills/walnut/internal/transform"
)

// typeText feeds s one character at a time the way the editor does.
func typeText(t *testing.T, d document.Document, sel document.Selection, s string) (document.Document, document.Selection) {
	t.Helper()
	for _, r := range s {
		nd, nsel, handled, err := HandleInsertText(d, sel, string(r))
		require.NoError(t, err)
		if !handled {
			nd, nsel, err = transform.InsertText(d, sel, string(r), document.Marks{})
			require.NoError(t, err)
		}
		d, sel = nd, nsel
	}
	return d, sel
}

func start() (document.Document, document.Selection) {
	d := document.New()
	return d, document.Caret(d.StartPoint())
}

func TestHeadingShortcuts(t *testing.T) {
	tests := []struct {
		typed string
		want  document.BlockType
	}{
		{"# ", document.HeadingOne},
		{"## ", document.HeadingTwo},
	}
	for _, tt := range tests {
		t.Run(tt.typed, func(t *testing.T) {
			d, sel := start()
			d, sel = typeText(t, d, sel, tt.typed)

			require.NoError(t, d.Validate())
			require.Len(t, d.Blocks, 1)
			assert.Equal(t, tt.want, d.Blocks[0].Type)
			assert.Equal(t, "", d.Blocks[0].Text())
			assert.Equal(t, document.Caret(document.At(0, 0)), sel)
		})
	}
}

func TestBulletShortcutJoinsExistingList(t *testing.T) {
	d, sel := start()
	d, sel = typeText(t, d, sel, "- ")
	require.Len(t, d.Blocks, 1)
	require.Equal(t, document.BulletedList, d.Blocks[0].Type)
	require.Len(t, d.Blocks[0].Items, 1)
	assert.Equal(t, "", d.Blocks[0].Items[0].Text())
	assert.Equal(t, document.Caret(document.At(0, 0, 0)), sel)

	d, sel = typeText(t, d, sel, "milk")
	var err error
	d, sel, err = transform.SplitBlock(d, sel)
	require.NoError(t, err)
	d, sel = typeText(t, d, sel, "- eggs")

	require.NoError(t, d.Validate())
	want := document.FromBlocks(document.NewList(document.BulletedList, "milk", "eggs"))
	assert.True(t, want.Equal(d), "%#v", d.Blocks)
	assert.Equal(t, document.Caret(document.At(4, 0, 1)), sel)
}

func TestListShortcuts(t *testing.T) {
	tests := []struct {
		typed string
		want  document.BlockType
	}{
		{"- ", document.BulletedList},
		{"* ", document.BulletedList},
		{"1. ", document.NumberedList},
	}
	for _, tt := range tests {
		t.Run(tt.typed, func(t *testing.T) {
			d, sel := start()
			d, _ = typeText(t, d, sel, tt.typed)
			require.NoError(t, d.Validate())
			want := document.FromBlocks(document.NewList(tt.want, ""))
			assert.True(t, want.Equal(d))
		})
	}
}

func TestNumberedShortcutInsideBulletedList(t *testing.T) {
	d := document.FromBlocks(document.NewList(document.BulletedList, "a", "", "c"))
	sel := document.Caret(document.At(0, 0, 1))
	d, sel = typeText(t, d, sel, "1. ")

	want := document.FromBlocks(
		document.NewList(document.BulletedList, "a"),
		document.NewList(document.NumberedList, ""),
		document.NewList(document.BulletedList, "c"),
	)
	assert.True(t, want.Equal(d), "%#v", d.Blocks)
	assert.Equal(t, document.Caret(document.At(0, 1, 0)), sel)
}

func TestShortcutKeepsTextAfterCursor(t *testing.T) {
	d := document.FromBlocks(document.NewParagraph("#Groceries"))
	sel := document.Caret(document.At(1, 0))
	d, sel, handled, err := HandleInsertText(d, sel, " ")
	require.NoError(t, err)
	require.True(t, handled)

	want := document.FromBlocks(document.NewTextBlock(document.HeadingOne, document.Run("Groceries")))
	assert.True(t, want.Equal(d))
	assert.Equal(t, document.Caret(document.At(0, 0)), sel)
}

func TestNonMatchingInputFallsThrough(t *testing.T) {
	tests := []struct {
		name string
		text string
		doc  document.Document
		sel  document.Selection
	}{
		{"partial heading", " ", document.FromBlocks(document.NewParagraph("##x")), document.Caret(document.At(3, 0))},
		{"leading space", " ", document.FromBlocks(document.NewParagraph(" #")), document.Caret(document.At(2, 0))},
		{"three hashes", " ", document.FromBlocks(document.NewParagraph("###")), document.Caret(document.At(3, 0))},
		{"numbered without dot", " ", document.FromBlocks(document.NewParagraph("1")), document.Caret(document.At(1, 0))},
		{"other number", " ", document.FromBlocks(document.NewParagraph("2.")), document.Caret(document.At(2, 0))},
		{"not a space", "x", document.FromBlocks(document.NewParagraph("#")), document.Caret(document.At(1, 0))},
		{"two spaces", "  ", document.FromBlocks(document.NewParagraph("#")), document.Caret(document.At(1, 0))},
		{"range", " ", document.FromBlocks(document.NewParagraph("#a")),
			document.Selection{Anchor: document.At(1, 0), Focus: document.At(2, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, sel, handled, err := HandleInsertText(tt.doc, tt.sel, tt.text)
			require.NoError(t, err)
			assert.False(t, handled)
			assert.Equal(t, tt.doc, d)
			assert.Equal(t, tt.sel, sel)
		})
	}
}

func TestMatch(t *testing.T) {
	for _, s := range Shortcuts {
		typ, ok := Match(s.Marker)
		assert.True(t, ok, s.Marker)
		assert.Equal(t, s.Type, typ)
	}
	_, ok := Match("")
	assert.False(t, ok)
}

func TestBackspaceDemotesHeading(t *testing.T) {
	for _, typ := range []document.BlockType{document.HeadingOne, document.HeadingTwo} {
		d := document.FromBlocks(document.NewTextBlock(typ, document.Run("Title")))
		got, sel, handled, err := HandleDeleteBackward(d, document.Caret(document.At(0, 0)))
		require.NoError(t, err)
		require.True(t, handled)
		assert.True(t, document.FromBlocks(document.NewParagraph("Title")).Equal(got))
		assert.Equal(t, document.Caret(document.At(0, 0)), sel)
	}
}

func TestBackspaceUnwrapsListItem(t *testing.T) {
	d := document.FromBlocks(document.NewParagraph("intro"), document.NewList(document.NumberedList, "one", "two"))
	got, sel, handled, err := HandleDeleteBackward(d, document.Caret(document.At(0, 1, 1)))
	require.NoError(t, err)
	require.True(t, handled)

	want := document.FromBlocks(
		document.NewParagraph("intro"),
		document.NewList(document.NumberedList, "one"),
		document.NewParagraph("two"),
	)
	assert.True(t, want.Equal(got), "%#v", got.Blocks)
	assert.Equal(t, document.Caret(document.At(0, 2)), sel)
}

func TestBackspaceFallsThrough(t *testing.T) {
	tests := []struct {
		name string
		doc  document.Document
		sel  document.Selection
	}{
		{"paragraph", document.FromBlocks(document.NewParagraph("a"), document.NewParagraph("b")), document.Caret(document.At(0, 1))},
		{"inside heading", document.FromBlocks(document.NewTextBlock(document.HeadingOne, document.Run("ab"))), document.Caret(document.At(1, 0))},
		{"range", document.FromBlocks(document.NewTextBlock(document.HeadingOne, document.Run("ab"))),
			document.Selection{Anchor: document.At(0, 0), Focus: document.At(1, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, handled, err := HandleDeleteBackward(tt.doc, tt.sel)
			require.NoError(t, err)
			assert.False(t, handled)
		})
	}
}
