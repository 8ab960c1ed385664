package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/walnut/internal/assist"
	"github.com/dshills/walnut/internal/codec"
	"github.com/dshills/walnut/internal/config"
	"github.com/dshills/walnut/internal/document"
	"github.com/dshills/walnut/internal/store"
)

func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	prev := lookupEnv
	lookupEnv = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	t.Cleanup(func() { lookupEnv = prev })
}

func newApp(t *testing.T, configBody string) *Application {
	t.Helper()
	withEnv(t, nil)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if configBody != "" {
		require.NoError(t, os.WriteFile(path, []byte(configBody), 0o644))
	}
	a, err := New(Options{
		ConfigPath: path,
		DBPath:     filepath.Join(dir, "walnut.db"),
		LogOutput:  &bytes.Buffer{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

type fakeCompleter struct{ reply string }

func (f fakeCompleter) Complete(context.Context, string, string) (string, error) {
	return f.reply, nil
}

func TestNewAppliesOptions(t *testing.T) {
	a := newApp(t, "[editor]\nautosave_delay = \"20ms\"\n")
	assert.Equal(t, 20*time.Millisecond, a.Config.Editor.AutosaveDelay.Duration)
	assert.Equal(t, "walnut.db", filepath.Base(a.Config.Storage.Path))
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}

func TestNewRejectsBadConfig(t *testing.T) {
	withEnv(t, nil)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644))

	_, err := New(Options{ConfigPath: path, Store: store.NewMemory()})
	var ie *InitError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "config", ie.Component)
	assert.True(t, errors.Is(err, config.ErrValidationFailed))
}

func TestOpenSessionSavesToNote(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, "[editor]\nautosave_delay = \"10ms\"\n")

	n, err := a.Notes.Create(ctx, "Draft", "old text")
	require.NoError(t, err)

	sess, err := a.OpenSession(ctx, n.ID)
	require.NoError(t, err)
	defer sess.Close()
	assert.Equal(t, "old text", sess.Editor().Text())

	require.NoError(t, sess.Editor().InsertText("!"))
	require.NoError(t, sess.SetTitle("Final"))
	sess.Flush()

	got, err := a.Notes.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, "old text!", got.Document().PlainText())

	_, err = a.OpenSession(ctx, "missing")
	var oe *OperationError
	assert.True(t, errors.As(err, &oe))
}

func TestLoadNoteSwitchesSaveTarget(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, "[editor]\nautosave_delay = \"10ms\"\n")

	first, err := a.Notes.Create(ctx, "A", "alpha")
	require.NoError(t, err)
	second, err := a.Notes.Create(ctx, "B", "beta")
	require.NoError(t, err)

	sess, err := a.OpenSession(ctx, first.ID)
	require.NoError(t, err)
	defer sess.Close()

	require.NoError(t, a.LoadNote(ctx, sess, second.ID))
	assert.Equal(t, "beta", sess.Editor().Text())
	require.NoError(t, sess.Editor().InsertText("!"))
	sess.Flush()

	got, err := a.Notes.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "beta!", got.Document().PlainText())
	got, err = a.Notes.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Document().PlainText())
	assert.Equal(t, "A", got.Title)

	var oe *OperationError
	assert.True(t, errors.As(a.LoadNote(ctx, sess, "missing"), &oe))
}

func TestAssistantNeedsKey(t *testing.T) {
	a := newApp(t, "")
	_, err := a.Assistant()
	assert.True(t, errors.Is(err, assist.ErrNoAPIKey))

	a.Config.Assist.APIKey = "k"
	as, err := a.Assistant()
	require.NoError(t, err)
	assert.NotNil(t, as)
}

func TestOrganize(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, "")
	n, err := a.Notes.Create(ctx, "Bio", codec.Serialize(document.FromBlocks(document.NewParagraph("cells and dna"))))
	require.NoError(t, err)

	as := assist.New(fakeCompleter{reply: "Biology\n- cells\n- dna"}, a.Logger)

	text, err := a.Organize(ctx, as, n.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Biology\n- cells\n- dna", text)
	got, err := a.Notes.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.Content, got.Content, "not applied")

	_, err = a.Organize(ctx, as, n.ID, true)
	require.NoError(t, err)
	got, err = a.Notes.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Len(t, got.Document().Blocks, 3)
	assert.Equal(t, "Biology\n- cells\n- dna", got.Document().PlainText())
}

func TestWatchConfigNeedsFile(t *testing.T) {
	a := newApp(t, "")
	err := a.WatchConfig(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrNoConfigFile))
}
