package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/walnut/internal/notes"
	"github.com/dshills/walnut/internal/store"
)

type cli struct {
	dir    string
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	for _, name := range []string{"WALNUT_DB", "WALNUT_API_KEY", "WALNUT_STORAGE_KEY", "WALNUT_LOG_FILE", "PERPLEXITY_API_KEY"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	dir := t.TempDir()
	return &cli{dir: dir, config: filepath.Join(dir, "config.toml")}
}

func (c *cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--config", c.config, "--db", filepath.Join(c.dir, "notes.db"), "--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := c.run(t, args...)
	require.NoError(t, err, out)
	return out
}

func TestNoteLifecycle(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun(t, "list")
	assert.Contains(t, out, "No notes yet")

	id := strings.TrimSpace(c.mustRun(t, "new", "Groceries", "--text", "milk\neggs"))
	require.NotEmpty(t, id)

	out = c.mustRun(t, "list")
	assert.Contains(t, out, shortID(id))
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "milk eggs")

	assert.Equal(t, "milk\neggs\n", c.mustRun(t, "show", id))
	assert.Equal(t, "<p>milk</p><p>eggs</p>\n", c.mustRun(t, "show", shortID(id), "--format", "html"))
	assert.Contains(t, c.mustRun(t, "show", id, "--format", "json"), `"type":"paragraph"`)

	_, err := c.run(t, "show", id, "--format", "xml")
	assert.Error(t, err)

	target := filepath.Join(c.dir, "out.html")
	c.mustRun(t, "export", id, "-o", target)
	page, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>Groceries</title>")
	assert.Contains(t, string(page), "<p>milk</p>")

	assert.Contains(t, c.mustRun(t, "delete", id), `Deleted "Groceries"`)
	_, err = c.run(t, "show", id)
	assert.True(t, errors.Is(err, notes.ErrNoteNotFound))
}

func TestNewUntitledFromStdin(t *testing.T) {
	c := newCLI(t)
	src := filepath.Join(c.dir, "in.txt")
	require.NoError(t, os.WriteFile(src, []byte("first\nsecond"), 0o644))

	id := strings.TrimSpace(c.mustRun(t, "new", "--file", src))
	assert.Contains(t, c.mustRun(t, "list"), notes.UntitledTitle)
	assert.Equal(t, "first\nsecond\n", c.mustRun(t, "show", id))
}

func TestResolveNote(t *testing.T) {
	ctx := context.Background()
	nb := notes.NewNotebook(store.NewMemory(), "")
	a, err := nb.Create(ctx, "a", "")
	require.NoError(t, err)
	b, err := nb.Create(ctx, "b", "")
	require.NoError(t, err)

	got, err := resolveNote(ctx, nb, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	got, err = resolveNote(ctx, nb, b.ID[:12])
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = resolveNote(ctx, nb, "")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveNote(ctx, nb, "zzz")
	assert.True(t, errors.Is(err, notes.ErrNoteNotFound))
}

// chatServer answers every chat completion with reply.
func chatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	content, err := json.Marshal(reply)
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"1","object":"chat.completion","created":1,"model":"sonar",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":`+string(content)+`}}]}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (c *cli) useAssist(t *testing.T, srv *httptest.Server) {
	t.Helper()
	cfg := "[assist]\nbase_url = \"" + srv.URL + "/\"\napi_key = \"secret\"\n"
	require.NoError(t, os.WriteFile(c.config, []byte(cfg), 0o644))
}

func TestFlashcardsCommand(t *testing.T) {
	c := newCLI(t)
	id := strings.TrimSpace(c.mustRun(t, "new", "Bio", "--text", "cells"))

	_, err := c.run(t, "flashcards", id)
	assert.ErrorContains(t, err, "API key")

	c.useAssist(t, chatServer(t, "```json\n[{\"front\":\"What is a cell?\",\"back\":\"A unit of life\"}]\n```"))
	out := c.mustRun(t, "flashcards", id)
	assert.Equal(t, "1. What is a cell?\n   A unit of life\n\n", out)
}

func TestQuizCommand(t *testing.T) {
	c := newCLI(t)
	id := strings.TrimSpace(c.mustRun(t, "new", "Math", "--text", "2+2=4"))
	c.useAssist(t, chatServer(t, `[{"question":"2+2?","options":["3","4"],"correctAnswer":1}]`))

	out := c.mustRun(t, "quiz", id, "--answers")
	assert.Equal(t, "1. 2+2?\n    a) 3\n  * b) 4\n\n", out)
}

func TestOrganizeCommand(t *testing.T) {
	c := newCLI(t)
	id := strings.TrimSpace(c.mustRun(t, "new", "Messy", "--text", "b a"))
	c.useAssist(t, chatServer(t, "Topics\n- a\n- b\n"))

	assert.Equal(t, "Topics\n- a\n- b\n", c.mustRun(t, "organize", id))
	assert.Equal(t, "b a\n", c.mustRun(t, "show", id))

	c.mustRun(t, "organize", id, "--apply")
	assert.Equal(t, "Topics\n- a\n- b\n", c.mustRun(t, "show", id))
}
