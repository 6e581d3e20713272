package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds rsspanel settings.
type Config struct {
	ProxyEndpoint   string
	RequestTimeout  time.Duration
	RateLimit       float64
	Store           string
	StorePath       string
	RefreshInterval time.Duration
	SanitizeHTML    bool
	Theme           string
	LogDir          string
}

const (
	defaultConfigPath     = "~/.config/rsspanel/config.toml"
	defaultLogDir         = "~/.local/state/rsspanel"
	defaultTOMLStorePath  = "~/.config/rsspanel/panels.toml"
	defaultSQLiteStoreDir = "~/.local/state/rsspanel"
	defaultRequestTimeout = 15 * time.Second
	defaultRateLimit      = 2.0
	defaultStore          = "toml"
)

// DefaultPath returns the default settings file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns settings with every default applied.
func Default() Config {
	cfg := Config{
		RequestTimeout: defaultRequestTimeout,
		RateLimit:      defaultRateLimit,
		Store:          defaultStore,
		LogDir:         mustExpand(defaultLogDir),
	}
	cfg.StorePath = DefaultStorePath(cfg.Store)
	return cfg
}

// DefaultStorePath returns where a configuration store of the given kind
// lives when no path is configured. The memory store has no path.
func DefaultStorePath(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "sqlite":
		return filepath.Join(mustExpand(defaultSQLiteStoreDir), "panels.db")
	case "memory":
		return ""
	default:
		return mustExpand(defaultTOMLStorePath)
	}
}

// Load reads settings from path, falling back to defaults when the file is
// missing. An empty path means DefaultPath.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ProxyEndpoint   string   `toml:"proxy_endpoint"`
		RequestTimeout  *int     `toml:"request_timeout"`
		RateLimit       *float64 `toml:"rate_limit"`
		Store           string   `toml:"store"`
		StorePath       string   `toml:"store_path"`
		RefreshInterval int      `toml:"refresh_interval"`
		SanitizeHTML    bool     `toml:"sanitize_html"`
		Theme           string   `toml:"theme"`
		LogDir          string   `toml:"log_dir"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.ProxyEndpoint = strings.TrimSpace(raw.ProxyEndpoint)
	if raw.RequestTimeout != nil && *raw.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(*raw.RequestTimeout) * time.Second
	}
	if raw.RateLimit != nil {
		cfg.RateLimit = *raw.RateLimit
	}
	if raw.RefreshInterval > 0 {
		cfg.RefreshInterval = time.Duration(raw.RefreshInterval) * time.Second
	}
	cfg.SanitizeHTML = raw.SanitizeHTML
	cfg.Theme = strings.TrimSpace(raw.Theme)

	if store := strings.ToLower(strings.TrimSpace(raw.Store)); store != "" {
		cfg.Store = store
	}
	if err := validateStore(cfg.Store); err != nil {
		return Config{}, err
	}
	cfg.StorePath = DefaultStorePath(cfg.Store)
	if p := strings.TrimSpace(raw.StorePath); p != "" {
		cfg.StorePath = mustExpand(p)
	}

	if dir := strings.TrimSpace(raw.LogDir); dir != "" {
		cfg.LogDir = mustExpand(dir)
	}

	return cfg, nil
}

// WithStore switches the configuration store, resetting the path to that
// store's default unless path is given.
func (c Config) WithStore(kind, path string) (Config, error) {
	if kind = strings.ToLower(strings.TrimSpace(kind)); kind != "" && kind != c.Store {
		if err := validateStore(kind); err != nil {
			return c, err
		}
		c.Store = kind
		c.StorePath = DefaultStorePath(kind)
	}
	if path = strings.TrimSpace(path); path != "" {
		c.StorePath = mustExpand(path)
	}
	return c, nil
}

func validateStore(kind string) error {
	switch kind {
	case "toml", "sqlite", "memory":
		return nil
	default:
		return fmt.Errorf("unknown store %q (want toml, sqlite, or memory)", kind)
	}
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
