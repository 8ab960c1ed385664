// Package session owns the document of one open note and persists it.
//
// Every edit restarts a quiet-period timer; when it expires the serialized
// document and the title are handed to the save function of the open note.
// Edits made while the timer runs collapse into that one save. Loading
// another note replaces the editor and the save target together and cancels
// a pending save, so stale content is never written under the new note and
// new content is never written under the old one.
//
// The host editing surface is reached only through the Surface interface.
// When the surface had focus as a save started, focus and the cursor offset
// are put back afterwards, unless the user edited or moved the cursor while
// the save was in flight.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/walnut/internal/codec"
	"github.com/dshills/walnut/internal/editor"
)

// Default configuration values.
const (
	DefaultDelay       = time.Second
	DefaultSaveTimeout = 30 * time.Second
)

// ErrClosed is returned for operations on a closed session.
var ErrClosed = errors.New("session closed")

// Surface is what a host editing surface exposes to the session.
// Implementations may be called from the save goroutine.
type Surface interface {
	HasFocus() bool
	CursorOffset() int
	SetCursorOffset(offset int)
	Focus()
}

// SaveFunc persists a serialized document and its title.
type SaveFunc func(ctx context.Context, content, title string) error

// Option configures a Session.
type Option func(*Session)

// WithDelay sets the autosave quiet period.
func WithDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithMaxUndoEntries bounds the undo history of each loaded note.
func WithMaxUndoEntries(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxUndo = n
		}
	}
}

// WithSaveTimeout bounds each call to the save function.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.saveTimeout = d
		}
	}
}

// Session is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	ed      *editor.Editor
	title   string
	save    SaveFunc
	gen     uint64 // bumped by Load; edits of older editors are ignored
	surface Surface
	closed  bool

	// A scheduled save is identified by seq. Scheduling or cancelling bumps
	// seq so a timer that already fired for an older schedule does nothing.
	timer   *time.Timer
	seq     uint64
	pending bool

	delay       time.Duration
	saveTimeout time.Duration
	maxUndo     int
	logger      zerolog.Logger
}

// New creates a session holding an empty untitled document that saves
// through save.
func New(save SaveFunc, opts ...Option) *Session {
	s := &Session{
		save:        save,
		delay:       DefaultDelay,
		saveTimeout: DefaultSaveTimeout,
		maxUndo:     editor.DefaultMaxUndoEntries,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ed = s.newEditor("")
	return s
}

// newEditor must be called with mu held, or before the session is shared.
func (s *Session) newEditor(content string) *editor.Editor {
	gen := s.gen
	ed, err := editor.New(
		editor.WithDocument(codec.Deserialize(content)),
		editor.WithMaxUndoEntries(s.maxUndo),
		editor.WithOnChange(func() { s.changed(gen) }),
	)
	if err != nil {
		// Deserialize only produces well-formed documents.
		panic(err)
	}
	return ed
}

// Load switches the session to another note: its content, its title and the
// function that saves it. Any pending save of the previous note is cancelled
// and undo history starts over. A nil save keeps the current target, for
// reloading the note already open.
func (s *Session) Load(content, title string, save SaveFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.cancelLocked()
	s.gen++
	s.ed = s.newEditor(content)
	s.title = title
	if save != nil {
		s.save = save
	}
	s.logger.Debug().Str("title", title).Int("bytes", len(content)).Msg("note loaded")
	return nil
}

// Editor returns the editor of the current note. It changes on Load.
func (s *Session) Editor() *editor.Editor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed
}

// Title returns the current title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// SetTitle changes the title and schedules a save.
func (s *Session) SetTitle(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if title == s.title {
		return nil
	}
	s.title = title
	s.scheduleLocked()
	return nil
}

// Content returns the serialized current document.
func (s *Session) Content() string {
	s.mu.Lock()
	ed := s.ed
	s.mu.Unlock()
	return codec.Serialize(ed.Document())
}

func (s *Session) changed(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.gen {
		return
	}
	s.scheduleLocked()
}

// scheduleLocked (re)starts the quiet period. The previous timer is
// stopped and its seq invalidated, so it can never save.
func (s *Session) scheduleLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.seq++
	seq := s.seq
	s.pending = true
	s.timer = time.AfterFunc(s.delay, func() { s.flush(seq) })
}

func (s *Session) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
	s.pending = false
}

// Attach connects the host surface used for focus restoration.
func (s *Session) Attach(surface Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface = surface
}

// Detach disconnects the host surface. A save in flight skips restoring
// focus.
func (s *Session) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface = nil
}

// SetDelay changes the autosave quiet period for later edits.
func (s *Session) SetDelay(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Delay returns the autosave quiet period.
func (s *Session) Delay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}

// Pending reports whether a save is scheduled.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Flush runs the scheduled save now, on the calling goroutine. It does
// nothing when no save is scheduled.
func (s *Session) Flush() {
	s.mu.Lock()
	seq := s.seq
	s.mu.Unlock()
	s.flush(seq)
}

// Close cancels any pending save and rejects further loads. Call Flush
// first to keep unsaved edits.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.closed = true
	s.surface = nil
}

// flush performs the save scheduled as seq. Only one caller can claim a
// given schedule.
func (s *Session) flush(seq uint64) {
	s.mu.Lock()
	if s.closed || !s.pending || seq != s.seq {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.timer = nil
	ed, gen, title, save, surface := s.ed, s.gen, s.title, s.save, s.surface
	s.mu.Unlock()

	content := codec.Serialize(ed.Document())

	// The revision is read before the offset: an edit landing between the
	// two reads makes the restore below a no-op rather than a step back.
	hadFocus := surface != nil && surface.HasFocus()
	var rev uint64
	offset := 0
	if hadFocus {
		rev = ed.Revision()
		offset = surface.CursorOffset()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	err := save(ctx, content, title)
	cancel()
	if err != nil {
		s.logger.Warn().Err(err).Str("title", title).Msg("autosave failed")
	} else {
		s.logger.Debug().Str("title", title).Int("bytes", len(content)).Msg("autosaved")
	}

	if !hadFocus {
		return
	}
	s.mu.Lock()
	current := !s.closed && s.surface == surface && s.gen == gen
	s.mu.Unlock()
	if !current || ed.Revision() != rev {
		return
	}
	surface.Focus()
	surface.SetCursorOffset(offset)
}
