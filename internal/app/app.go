package app

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/dshills/walnut/internal/assist"
	"github.com/dshills/walnut/internal/codec"
	"github.com/dshills/walnut/internal/config"
	"github.com/dshills/walnut/internal/logging"
	"github.com/dshills/walnut/internal/notes"
	"github.com/dshills/walnut/internal/session"
	"github.com/dshills/walnut/internal/store"
)

// Options configures application startup. Non-empty fields override the
// loaded configuration.
type Options struct {
	// ConfigPath is the config file. Empty selects config.DefaultPath.
	ConfigPath string

	// DBPath overrides storage.path.
	DBPath string

	// LogLevel overrides logging.level.
	LogLevel string

	// LogOutput receives logs when no log file is configured.
	LogOutput io.Writer

	// Store replaces the SQLite store, mainly for tests.
	Store store.KV
}

// Application holds the running components.
type Application struct {
	Config *config.Config
	Logger zerolog.Logger
	Notes  *notes.Notebook

	configPath string
	log        *logging.Logger
	kv         store.KV
}

// New loads configuration and opens the note store.
func New(opts Options) (*Application, error) {
	a := &Application{}
	if err := newBootstrapper(a, opts).bootstrap(); err != nil {
		return nil, err
	}
	return a, nil
}

// Close releases the store and the log file.
func (a *Application) Close() error {
	var errs []error
	if a.kv != nil {
		errs = append(errs, a.kv.Close())
		a.kv = nil
	}
	if a.log != nil {
		errs = append(errs, a.log.Close())
		a.log = nil
	}
	return errors.Join(errs...)
}

// Assistant creates the study assistant. It fails without an API key.
func (a *Application) Assistant() (*assist.Assistant, error) {
	c, err := assist.NewOpenAI(assist.Config{
		BaseURL: a.Config.Assist.BaseURL,
		Model:   a.Config.Assist.Model,
		APIKey:  a.Config.Assist.APIKey,
		Timeout: a.Config.Assist.Timeout.Duration,
	})
	if err != nil {
		return nil, &InitError{Component: "assist", Err: err}
	}
	return assist.New(c, logging.Component(a.Logger, "assist")), nil
}

// OpenSession loads the note with id into a new editing session that saves
// back to it.
func (a *Application) OpenSession(ctx context.Context, id string) (*session.Session, error) {
	n, err := a.Notes.Get(ctx, id)
	if err != nil {
		return nil, NewOperationError("open", id, err)
	}
	sess := session.New(a.Notes.Saver(n.ID),
		session.WithDelay(a.Config.Editor.AutosaveDelay.Duration),
		session.WithMaxUndoEntries(a.Config.Editor.UndoLimit),
		session.WithLogger(logging.Component(a.Logger, "session").With().Str("note", n.ID).Logger()),
	)
	if err := sess.Load(n.Content, n.Title, a.Notes.Saver(n.ID)); err != nil {
		return nil, NewOperationError("open", id, err)
	}
	return sess, nil
}

// LoadNote switches sess to the note with id. Later saves go to that note.
func (a *Application) LoadNote(ctx context.Context, sess *session.Session, id string) error {
	n, err := a.Notes.Get(ctx, id)
	if err != nil {
		return NewOperationError("load", id, err)
	}
	if err := sess.Load(n.Content, n.Title, a.Notes.Saver(n.ID)); err != nil {
		return NewOperationError("load", id, err)
	}
	return nil
}

// Organize rewrites the note with id using the assistant's reorganized text.
// Without apply the note is left untouched.
func (a *Application) Organize(ctx context.Context, as *assist.Assistant, id string, apply bool) (string, error) {
	n, err := a.Notes.Get(ctx, id)
	if err != nil {
		return "", NewOperationError("organize", id, err)
	}
	text, err := as.Organize(ctx, codec.ExtractPlainText(n.Document()))
	if err != nil {
		return "", NewOperationError("organize", id, err)
	}
	if !apply {
		return text, nil
	}
	content := codec.Serialize(codec.DecodePlainText(text))
	if _, err := a.Notes.Update(ctx, n.ID, n.Title, content); err != nil {
		return "", NewOperationError("organize", id, err)
	}
	return text, nil
}

// WatchConfig applies autosave delay changes from the config file to sess
// until ctx is done.
func (a *Application) WatchConfig(ctx context.Context, sess *session.Session) error {
	if _, err := os.Stat(a.configPath); err != nil {
		return ErrNoConfigFile
	}
	w, err := config.NewWatcher(a.configPath, func(cfg *config.Config, err error) {
		if err != nil {
			a.Logger.Warn().Err(err).Msg("config reload failed")
			return
		}
		sess.SetDelay(cfg.Editor.AutosaveDelay.Duration)
		a.Logger.Info().Dur("autosave_delay", cfg.Editor.AutosaveDelay.Duration).Msg("config reloaded")
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
