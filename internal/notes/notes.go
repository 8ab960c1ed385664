// Package notes keeps the user's notes as one JSON array stored under a
// single key.
package notes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/dshills/walnut/internal/codec"
	"github.com/dshills/walnut/internal/document"
	"github.com/dshills/walnut/internal/store"
)

// DefaultKey is the storage key holding the note list.
const DefaultKey = "apricot-notes"

// UntitledTitle is used for notes created without a title.
const UntitledTitle = "Untitled Note"

// ErrNoteNotFound is returned when no note has the requested ID.
var ErrNoteNotFound = errors.New("note not found")

// Note is one stored note. Content is a serialized document.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Document decodes the note content.
func (n Note) Document() document.Document {
	return codec.Deserialize(n.Content)
}

// Preview returns up to max runes of the note's plain text on one line.
func (n Note) Preview(max int) string {
	text := strings.Join(strings.Fields(codec.ExtractPlainText(n.Document())), " ")
	r := []rune(text)
	if max <= 0 || len(r) <= max {
		return text
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// DisplayTitle returns the title, or UntitledTitle when it is blank.
func (n Note) DisplayTitle() string {
	if strings.TrimSpace(n.Title) == "" {
		return UntitledTitle
	}
	return n.Title
}

// Notebook reads and writes the note list. Each mutation rewrites the whole
// list.
type Notebook struct {
	mu  sync.Mutex
	kv  store.KV
	key string
	now func() time.Time
}

// NewNotebook creates a notebook over kv. An empty key selects DefaultKey.
func NewNotebook(kv store.KV, key string) *Notebook {
	if key == "" {
		key = DefaultKey
	}
	return &Notebook{
		kv:  kv,
		key: key,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// List returns all notes, most recently updated first.
func (nb *Notebook) List(ctx context.Context) ([]Note, error) {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	return nb.load(ctx)
}

// Get returns the note with id.
func (nb *Notebook) Get(ctx context.Context, id string) (Note, error) {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	list, err := nb.load(ctx)
	if err != nil {
		return Note{}, err
	}
	i := indexOf(list, id)
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	return list[i], nil
}

// Create adds a note and returns it.
func (nb *Notebook) Create(ctx context.Context, title, content string) (Note, error) {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	list, err := nb.load(ctx)
	if err != nil {
		return Note{}, err
	}
	if strings.TrimSpace(title) == "" {
		title = UntitledTitle
	}
	now := nb.now()
	n := Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := nb.store(ctx, append([]Note{n}, list...)); err != nil {
		return Note{}, err
	}
	return n, nil
}

// Update replaces the title and content of the note with id.
func (nb *Notebook) Update(ctx context.Context, id, title, content string) (Note, error) {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	list, err := nb.load(ctx)
	if err != nil {
		return Note{}, err
	}
	i := indexOf(list, id)
	if i < 0 {
		return Note{}, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	list[i].Title = title
	list[i].Content = content
	list[i].UpdatedAt = nb.now()
	n := list[i]
	if err := nb.store(ctx, list); err != nil {
		return Note{}, err
	}
	return n, nil
}

// Delete removes the note with id.
func (nb *Notebook) Delete(ctx context.Context, id string) error {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	list, err := nb.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(list, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	return nb.store(ctx, append(list[:i], list[i+1:]...))
}

// Saver returns a function that writes content and title to the note with
// id. It has the shape the editing session expects.
func (nb *Notebook) Saver(id string) func(ctx context.Context, content, title string) error {
	return func(ctx context.Context, content, title string) error {
		_, err := nb.Update(ctx, id, title, content)
		return err
	}
}

func (nb *Notebook) load(ctx context.Context) ([]Note, error) {
	data, err := nb.kv.Load(ctx, nb.key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	var list []Note
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	sortNotes(list)
	return list, nil
}

func (nb *Notebook) store(ctx context.Context, list []Note) error {
	sortNotes(list)
	if list == nil {
		list = []Note{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}
	if err := nb.kv.Save(ctx, nb.key, data); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	return nil
}

func sortNotes(list []Note) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
}

func indexOf(list []Note, id string) int {
	for i, n := range list {
		if n.ID == id {
			return i
		}
	}
	return -1
}
