package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/walnut/internal/document"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries bounds the undo stack when no limit is given.
const DefaultMaxEntries = 1000

// Snapshot is an editor state that can be returned to.
type Snapshot struct {
	Doc       document.Document
	Selection document.Selection
	Label     string
}

// OperationInfo describes a stored snapshot.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
}

type entry struct {
	snap      Snapshot
	timestamp time.Time
}

func (e *entry) info() OperationInfo {
	return OperationInfo{Description: e.snap.Label, Timestamp: e.timestamp}
}

// History manages undo/redo state for one editor.
type History struct {
	mu sync.Mutex

	undoStack []*entry
	redoStack []*entry

	// Grouping state
	grouping   bool
	groupName  string
	groupFirst *Snapshot

	maxEntries int
}

// NewHistory creates a history holding at most maxEntries undo steps.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push records the state before an edit and clears the redo stack. While
// grouping only the first pushed state is kept.
func (h *History) Push(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		if h.groupFirst == nil {
			h.groupFirst = &s
		}
		return
	}
	h.pushLocked(s)
}

func (h *History) pushLocked(s Snapshot) {
	h.undoStack = append(h.undoStack, &entry{snap: s, timestamp: time.Now()})
	h.redoStack = nil
	h.trimLocked()
}

func (h *History) trimLocked() {
	if excess := len(h.undoStack) - h.maxEntries; excess > 0 {
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo returns the state before the last edit and stores current for Redo.
func (h *History) Undo(current Snapshot) (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return Snapshot{}, ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	current.Label = e.snap.Label
	h.redoStack = append(h.redoStack, &entry{snap: current, timestamp: time.Now()})
	return e.snap, nil
}

// Redo returns the state undone last and stores current for Undo.
func (h *History) Redo(current Snapshot) (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return Snapshot{}, ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	current.Label = e.snap.Label
	h.undoStack = append(h.undoStack, &entry{snap: current, timestamp: time.Now()})
	h.trimLocked()
	return e.snap, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// PeekUndo describes the next undo step without taking it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// UndoInfo describes every undo step, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]OperationInfo, len(h.undoStack))
	for i, e := range h.undoStack {
		out[i] = e.info()
	}
	return out
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.groupFirst = nil
}

// SetMaxEntries changes the undo limit, dropping the oldest steps if the
// stack is larger.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max
	h.trimLocked()
}

// MaxEntries returns the undo limit.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
