// Package document provides the structured rich-text model edited by Walnut.
//
// A Document is an ordered list of top-level blocks. Text-bearing blocks
// (paragraphs, headings, list items) own a sequence of text runs; list blocks
// own list items only. The tree is at most two levels deep:
//
//	Document
//	├── Paragraph        [runs]
//	├── HeadingOne       [runs]
//	└── BulletedList
//	    ├── ListItem     [runs]
//	    └── ListItem     [runs]
//
// # Invariants
//
// A well-formed document satisfies:
//
//   - every text-bearing block has at least one (possibly empty) run
//   - list items only appear inside lists
//   - lists only appear at the top level and contain only list items
//   - block types are one of the six named variants
//
// Validate reports the first violated invariant as a *ValidationError.
//
// # Positions
//
// A Point addresses a text-bearing block by Path ([i] for a top-level block,
// [i, j] for item j of list i) and a rune offset into that block's
// concatenated run text. A Selection is an anchor/focus pair of points and is
// collapsed when both are equal.
//
// Values are treated as immutable by the transform and editor packages:
// every edit clones what it changes. Use Clone before mutating a Document
// obtained from another component.
package document
