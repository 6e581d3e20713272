// Package config loads rsspanel settings.
//
// # Overview
//
// Settings tune how the panel reaches the retrieval proxy, where panel
// configurations are persisted, and how the terminal host behaves. Every key
// is optional; rsspanel runs with no settings file at all.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/rsspanel/config.toml (default)
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # TOML Format
//
//	proxy_endpoint   = "http://cors-proxy.htmldriven.com/?url={url}"
//	request_timeout  = 15      # seconds
//	rate_limit       = 2       # proxy requests per second, negative disables
//	store            = "toml"  # toml, sqlite, or memory
//	store_path       = "~/.config/rsspanel/panels.toml"
//	refresh_interval = 0       # seconds, 0 refreshes only on request
//	sanitize_html    = false
//	theme            = "Nightfox"
//	log_dir          = "~/.local/state/rsspanel"
//
// # Default Values
//
//   - Settings file: ~/.config/rsspanel/config.toml
//   - TOML store: ~/.config/rsspanel/panels.toml
//   - SQLite store: ~/.local/state/rsspanel/panels.db
//   - Log directory: ~/.local/state/rsspanel
//   - Request timeout: 15s, rate limit: 2 requests/second
//
// An empty proxy_endpoint leaves the choice to the proxy client, which uses
// its built-in endpoint.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors, and unknown store kinds.
package config
