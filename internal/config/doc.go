// Package config provides the configuration for walnut.
//
// Settings come from three sources, later ones overriding earlier:
//
//  1. Built-in defaults (Default)
//  2. A config file, TOML or YAML by extension (~/.config/walnut/config.toml)
//  3. WALNUT_* environment variables
//
// A missing config file is not an error. Load validates the merged result.
//
// # File format
//
//	[editor]
//	autosave_delay = "1s"
//	undo_limit = 1000
//
//	[storage]
//	path = "/home/me/.local/share/walnut/walnut.db"
//	key = "apricot-notes"
//
//	[assist]
//	base_url = "https://api.perplexity.ai/"
//	model = "sonar"
//	timeout = "60s"
//
//	[logging]
//	level = "info"
//	format = "json"
//	file = ""
//
// # Live reload
//
// A Watcher re-reads the file when it changes and hands the new
// configuration to a callback. Editors that replace files on save are
// handled by watching the parent directory.
package config
