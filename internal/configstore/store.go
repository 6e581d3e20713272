package configstore

import (
	"fmt"
	"strings"

	"github.com/five82/rsspanel/internal/panel"
)

// Store persists the configuration of one panel.
type Store interface {
	panel.ConfigStore
	Close() error
}

var (
	_ Store = (*TOMLStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// Open returns the store of the given kind bound to panelID.
func Open(kind, path, panelID string) (Store, error) {
	panelID = strings.TrimSpace(panelID)
	if panelID == "" {
		return nil, fmt.Errorf("panel id is empty")
	}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "toml":
		return NewTOMLStore(path, panelID)
	case "sqlite":
		return OpenSQLite(path, panelID)
	case "memory":
		return NewMemoryStore(panelID), nil
	default:
		return nil, fmt.Errorf("unknown store %q", kind)
	}
}
