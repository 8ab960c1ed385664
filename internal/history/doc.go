// Package history provides undo/redo for the editor.
//
// History keeps snapshots of the document and selection taken before each
// edit. Documents are immutable values, so a snapshot is just the pair; no
// inverse operations are recorded.
//
//	h := NewHistory(1000) // Max 1000 undo entries
//
//	// Before an edit
//	h.Push(Snapshot{Doc: doc, Selection: sel, Label: "insert"})
//
//	// Undo/redo exchange the current state for a stored one
//	prev, err := h.Undo(Snapshot{Doc: doc, Selection: sel})
//
// # Grouping
//
// Several edits can be undone as one:
//
//	h.BeginGroup("Autoformat")
//	// ... multiple edits ...
//	h.EndGroup()
//
// Only the state before the first edit of the group is kept.
package history
