package configstore

import (
	"context"
	"sync"

	"github.com/five82/rsspanel/internal/panel"
)

// MemoryStore keeps a panel configuration in process memory. Nothing
// survives a restart.
type MemoryStore struct {
	panelID string

	mu  sync.Mutex
	cfg *panel.Configuration
}

func NewMemoryStore(panelID string) *MemoryStore {
	return &MemoryStore{panelID: panelID}
}

func (s *MemoryStore) ReadConfig(ctx context.Context) (*panel.Configuration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return nil, nil
	}
	cfg := *s.cfg
	return &cfg, nil
}

func (s *MemoryStore) StoreConfig(ctx context.Context, cfg panel.Configuration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = &cfg
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
