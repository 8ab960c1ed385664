// Package tui is a terminal host for an editing session.
//
// The Host draws the open note with tcell and turns key events into editor
// operations. It implements session.Surface: terminal focus reports drive
// HasFocus, and the cursor offset is the editor's flat offset.
package tui

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/walnut/internal/document"
	"github.com/dshills/walnut/internal/editor"
	"github.com/dshills/walnut/internal/session"
	"github.com/dshills/walnut/internal/transform"
)

// Host runs the terminal editor for one session.
type Host struct {
	screen tcell.Screen
	sess   *session.Session
	logger zerolog.Logger

	focused atomic.Bool

	// Owned by the event loop.
	top    int
	status string
}

var _ session.Surface = (*Host)(nil)

// New creates a host drawing on screen. The screen is initialized by Run.
func New(screen tcell.Screen, sess *session.Session, logger zerolog.Logger) *Host {
	h := &Host{screen: screen, sess: sess, logger: logger}
	h.focused.Store(true)
	return h
}

// NewTerminal creates a host on the controlling terminal.
func NewTerminal(sess *session.Session, logger zerolog.Logger) (*Host, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return New(screen, sess, logger), nil
}

// HasFocus reports whether the terminal has focus.
func (h *Host) HasFocus() bool {
	return h.focused.Load()
}

// CursorOffset returns the editor's flat cursor offset.
func (h *Host) CursorOffset() int {
	return h.sess.Editor().CursorOffset()
}

// SetCursorOffset moves the cursor and schedules a redraw.
func (h *Host) SetCursorOffset(offset int) {
	h.sess.Editor().SetCursorOffset(offset)
	h.redraw()
}

// Focus marks the host focused and schedules a redraw.
func (h *Host) Focus() {
	h.focused.Store(true)
	h.redraw()
}

func (h *Host) redraw() {
	_ = h.screen.PostEvent(tcell.NewEventInterrupt(nil)) // queue may be full; a later event redraws
}

// Run initializes the screen and processes events until the user quits or
// ctx is done. Pending edits are saved before returning.
func (h *Host) Run(ctx context.Context) error {
	if err := h.screen.Init(); err != nil {
		return err
	}
	defer h.screen.Fini()
	h.screen.EnablePaste()
	h.screen.EnableFocus()

	h.sess.Attach(h)
	defer h.sess.Detach()
	defer h.sess.Flush()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			h.redraw()
		case <-done:
		}
	}()

	for {
		h.draw()
		ev := h.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return ctx.Err()
		}
		if h.handleEvent(ev) {
			return nil
		}
	}
}

// handleEvent applies ev and reports whether the host should exit.
func (h *Host) handleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return h.handleKey(e)
	case *tcell.EventPaste:
		ed := h.sess.Editor()
		if e.Start() {
			ed.BeginBatch("paste")
		} else {
			ed.EndBatch()
		}
	case *tcell.EventFocus:
		h.focused.Store(e.Focused)
	case *tcell.EventResize:
		h.screen.Sync()
	}
	return false
}

func (h *Host) handleKey(ev *tcell.EventKey) bool {
	ed := h.sess.Editor()
	extend := ev.Modifiers()&tcell.ModShift != 0

	var err error
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlQ:
		return true
	case tcell.KeyRune:
		err = ed.InsertText(string(ev.Rune()))
	case tcell.KeyEnter:
		err = ed.InsertBreak()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		err = ed.DeleteBackward()
	case tcell.KeyDelete:
		err = ed.DeleteForward()
	case tcell.KeyLeft:
		ed.Move(transform.Left, extend)
	case tcell.KeyRight:
		ed.Move(transform.Right, extend)
	case tcell.KeyUp:
		ed.Move(transform.Up, extend)
	case tcell.KeyDown:
		ed.Move(transform.Down, extend)
	case tcell.KeyHome:
		ed.Move(transform.LineStart, extend)
	case tcell.KeyEnd:
		ed.Move(transform.LineEnd, extend)
	case tcell.KeyCtrlA:
		ed.SelectAll()
	case tcell.KeyCtrlB:
		err = ed.ToggleMark(document.Bold)
	case tcell.KeyCtrlT:
		err = ed.ToggleMark(document.Italic)
	case tcell.KeyCtrlU:
		err = ed.ToggleMark(document.Underline)
	case tcell.KeyCtrlZ:
		err = ed.Undo()
	case tcell.KeyCtrlY:
		err = ed.Redo()
	case tcell.KeyCtrlS:
		h.sess.Flush()
		h.status = "saved"
		return false
	case tcell.KeyF1:
		err = ed.ToggleBlock(document.HeadingOne)
	case tcell.KeyF2:
		err = ed.ToggleBlock(document.HeadingTwo)
	case tcell.KeyF3:
		err = ed.ToggleBlock(document.BulletedList)
	case tcell.KeyF4:
		err = ed.ToggleBlock(document.NumberedList)
	default:
		return false
	}

	switch {
	case err == nil:
		h.status = ""
	case errors.Is(err, editor.ErrNothingToUndo), errors.Is(err, editor.ErrNothingToRedo):
		h.status = err.Error()
	default:
		h.status = err.Error()
		h.logger.Debug().Err(err).Msg("edit rejected")
	}
	return false
}
