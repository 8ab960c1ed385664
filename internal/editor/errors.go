package editor

import (
	"errors"

	"github.com/dshills/walnut/internal/history"
)

// Errors returned by editor operations.
var (
	// ErrReadOnly indicates an edit was attempted on a read-only editor.
	ErrReadOnly = errors.New("editor is read-only")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo
)
