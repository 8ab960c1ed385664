package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration written as a string such as "1s" or "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the complete walnut configuration.
type Config struct {
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
	Storage StorageConfig `toml:"storage" yaml:"storage"`
	Assist  AssistConfig  `toml:"assist" yaml:"assist"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// EditorConfig holds editing session settings.
type EditorConfig struct {
	// AutosaveDelay is the quiet period after the last edit before saving.
	AutosaveDelay Duration `toml:"autosave_delay" yaml:"autosave_delay"`

	// UndoLimit bounds the undo history of an open note.
	UndoLimit int `toml:"undo_limit" yaml:"undo_limit"`
}

// StorageConfig locates the note store.
type StorageConfig struct {
	// Path is the SQLite database file.
	Path string `toml:"path" yaml:"path"`

	// Key is the storage key holding the note list.
	Key string `toml:"key" yaml:"key"`
}

// AssistConfig configures the chat completion endpoint.
type AssistConfig struct {
	BaseURL string   `toml:"base_url" yaml:"base_url"`
	Model   string   `toml:"model" yaml:"model"`
	APIKey  string   `toml:"api_key" yaml:"api_key"`
	Timeout Duration `toml:"timeout" yaml:"timeout"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`

	// Format is "json" or "console".
	Format string `toml:"format" yaml:"format"`

	// File receives log output. Empty means stderr.
	File string `toml:"file" yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			AutosaveDelay: Duration{time.Second},
			UndoLimit:     1000,
		},
		Storage: StorageConfig{
			Path: DefaultDBPath(),
			Key:  "apricot-notes",
		},
		Assist: AssistConfig{
			BaseURL: "https://api.perplexity.ai/",
			Model:   "sonar",
			Timeout: Duration{60 * time.Second},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(userConfigDir(), "walnut", "config.toml")
}

// DefaultDBPath returns the default database location.
func DefaultDBPath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "walnut", "walnut.db")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "walnut", "walnut.db")
	}
	return "walnut.db"
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return "."
}

// Load builds the configuration from defaults, the file at path (if it
// exists) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the settings in path onto c. A missing file leaves c
// unchanged.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = toml.Unmarshal(data, c)
	}
	if err != nil {
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Editor.AutosaveDelay.Duration <= 0 {
		errs = append(errs, &ValidationError{Setting: "editor.autosave_delay", Message: "must be positive"})
	}
	if c.Editor.UndoLimit <= 0 {
		errs = append(errs, &ValidationError{Setting: "editor.undo_limit", Message: "must be positive"})
	}
	if c.Storage.Path == "" {
		errs = append(errs, &ValidationError{Setting: "storage.path", Message: "must not be empty"})
	}
	if c.Storage.Key == "" {
		errs = append(errs, &ValidationError{Setting: "storage.key", Message: "must not be empty"})
	}
	if c.Assist.Timeout.Duration <= 0 {
		errs = append(errs, &ValidationError{Setting: "assist.timeout", Message: "must be positive"})
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{Setting: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)})
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, &ValidationError{Setting: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)})
	}
	return errors.Join(errs...)
}

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
