package app

import (
	"github.com/dshills/walnut/internal/config"
	"github.com/dshills/walnut/internal/logging"
	"github.com/dshills/walnut/internal/notes"
	"github.com/dshills/walnut/internal/store"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app  *Application
	opts Options
}

func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{app: app, opts: opts}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	for _, step := range []func() error{
		b.initConfig,
		b.initLogging,
		b.initStore,
		b.initNotes,
	} {
		if err := step(); err != nil {
			b.app.Close()
			return err
		}
	}
	b.app.Logger.Debug().
		Str("config", b.app.configPath).
		Str("db", b.app.Config.Storage.Path).
		Msg("application started")
	return nil
}

func (b *bootstrapper) initConfig() error {
	path := b.opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg := config.Default()
	if err := cfg.LoadFile(path); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if b.opts.DBPath != "" {
		cfg.Storage.Path = b.opts.DBPath
	}
	if b.opts.LogLevel != "" {
		cfg.Logging.Level = b.opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	b.app.Config = cfg
	b.app.configPath = path
	return nil
}

func (b *bootstrapper) initLogging() error {
	l, err := logging.New(logging.Config{
		Level:  b.app.Config.Logging.Level,
		Format: b.app.Config.Logging.Format,
		File:   b.app.Config.Logging.File,
		Output: b.opts.LogOutput,
	})
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	b.app.log = l
	b.app.Logger = l.Logger
	return nil
}

func (b *bootstrapper) initStore() error {
	if b.opts.Store != nil {
		b.app.kv = b.opts.Store
		return nil
	}
	kv, err := store.OpenSQLite(b.app.Config.Storage.Path)
	if err != nil {
		return &InitError{Component: "store", Err: err}
	}
	b.app.kv = kv
	return nil
}

func (b *bootstrapper) initNotes() error {
	b.app.Notes = notes.NewNotebook(b.app.kv, b.app.Config.Storage.Key)
	return nil
}
