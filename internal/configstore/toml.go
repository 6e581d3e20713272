package configstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/rsspanel/internal/config"
	"github.com/five82/rsspanel/internal/panel"
)

// TOMLStore keeps panel configurations in a single TOML file, one table per
// panel:
//
//	[panels.default]
//	feed_url = "https://example.com/rss.xml"
type TOMLStore struct {
	path    string
	panelID string
	mu      sync.Mutex
}

type tomlDocument struct {
	Panels map[string]panel.Configuration `toml:"panels"`
}

// NewTOMLStore binds a TOML file to panelID. The file is created on the
// first StoreConfig.
func NewTOMLStore(path, panelID string) (*TOMLStore, error) {
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}
	return &TOMLStore{path: resolved, panelID: panelID}, nil
}

// Path returns the resolved file path.
func (s *TOMLStore) Path() string {
	return s.path
}

func (s *TOMLStore) ReadConfig(ctx context.Context) (*panel.Configuration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	cfg, ok := doc.Panels[s.panelID]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

func (s *TOMLStore) StoreConfig(ctx context.Context, cfg panel.Configuration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if doc.Panels == nil {
		doc.Panels = make(map[string]panel.Configuration)
	}
	doc.Panels[s.panelID] = cfg

	bytes, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal panel config: %w", err)
	}
	return writeFileAtomic(s.path, bytes)
}

// Close is a no-op; the file is only open during reads and writes.
func (s *TOMLStore) Close() error {
	return nil
}

func (s *TOMLStore) load() (tomlDocument, error) {
	var doc tomlDocument
	bytes, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("read panel config: %w", err)
	}
	if strings.TrimSpace(string(bytes)) == "" {
		return doc, nil
	}
	if err := toml.Unmarshal(bytes, &doc); err != nil {
		return doc, fmt.Errorf("parse panel config: %w", err)
	}
	return doc, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write panel config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace panel config: %w", err)
	}
	return nil
}
