// Package prefs persists choices made inside the rsspanel UI, such as the
// active theme. Preferences live in ~/.config/rsspanel/prefs.toml and take
// precedence over the settings file.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/rsspanel/internal/config"
)

// Prefs holds UI preferences.
type Prefs struct {
	Theme string `toml:"theme"`
}

const defaultPrefsPath = "~/.config/rsspanel/prefs.toml"

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path. Unset fields take their value from
// fallback. A missing or unreadable file is not an error: preferences are a
// convenience and never block startup.
func Load(path string, fallback Prefs) Prefs {
	resolved, err := resolvePath(path)
	if err != nil {
		return fallback
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return fallback
	}

	var p Prefs
	if err := toml.Unmarshal(bytes, &p); err != nil {
		return fallback
	}

	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = fallback.Theme
	}
	return p
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return "", errors.Join(errors.New("invalid prefs path"), err)
	}
	return resolved, nil
}
