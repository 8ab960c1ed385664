package config

import (
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WALNUT_"

// envSetter applies one environment value.
type envSetter func(c *Config, value string) error

// envMapping maps environment variables to settings.
var envMapping = map[string]envSetter{
	"WALNUT_AUTOSAVE_DELAY": durationSetter(func(c *Config) *Duration { return &c.Editor.AutosaveDelay }),
	"WALNUT_UNDO_LIMIT": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Editor.UndoLimit = n
		return nil
	},
	"WALNUT_DB":              stringSetter(func(c *Config) *string { return &c.Storage.Path }),
	"WALNUT_STORAGE_KEY":     stringSetter(func(c *Config) *string { return &c.Storage.Key }),
	"WALNUT_ASSIST_BASE_URL": stringSetter(func(c *Config) *string { return &c.Assist.BaseURL }),
	"WALNUT_ASSIST_MODEL":    stringSetter(func(c *Config) *string { return &c.Assist.Model }),
	"WALNUT_ASSIST_TIMEOUT":  durationSetter(func(c *Config) *Duration { return &c.Assist.Timeout }),
	"WALNUT_API_KEY":         stringSetter(func(c *Config) *string { return &c.Assist.APIKey }),
	"WALNUT_LOG_LEVEL":       stringSetter(func(c *Config) *string { return &c.Logging.Level }),
	"WALNUT_LOG_FORMAT":      stringSetter(func(c *Config) *string { return &c.Logging.Format }),
	"WALNUT_LOG_FILE":        stringSetter(func(c *Config) *string { return &c.Logging.File }),
}

// fallbackAPIKeyEnv is consulted when no key is configured.
const fallbackAPIKeyEnv = "PERPLEXITY_API_KEY"

func stringSetter(field func(*Config) *string) envSetter {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func durationSetter(field func(*Config) *Duration) envSetter {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		field(c).Duration = d
		return nil
	}
}

// ApplyEnv overlays environment variables found through lookup onto c.
// Empty values are treated as set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for name, set := range envMapping {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := set(c, v); err != nil {
			return &ParseError{Path: name, Message: err.Error(), Err: err}
		}
	}
	if c.Assist.APIKey == "" {
		if v, ok := lookup(fallbackAPIKeyEnv); ok {
			c.Assist.APIKey = v
		}
	}
	return nil
}
