package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rsspanel/internal/feed"
	"github.com/five82/rsspanel/internal/panel"
)

type fetchFunc func(ctx context.Context, url string) ([]feed.Item, error)

func (f fetchFunc) FetchFeed(ctx context.Context, url string) ([]feed.Item, error) {
	return f(ctx, url)
}

type memStore struct {
	mu  sync.Mutex
	cfg *panel.Configuration
}

func (s *memStore) ReadConfig(ctx context.Context) (*panel.Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return nil, nil
	}
	c := *s.cfg
	return &c, nil
}

func (s *memStore) StoreConfig(ctx context.Context, cfg panel.Configuration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = &cfg
	return nil
}

type recorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recorder) send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) snapshot() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tea.Msg(nil), r.msgs...)
}

func TestBridge_HoldsMessagesUntilAttached(t *testing.T) {
	b := NewBridge(&memStore{})
	rec := &recorder{}

	done := make(chan struct{})
	go func() {
		b.StateChanged(panel.State{Mode: panel.ModeReady, Revision: 1})
		close(done)
	}()

	select {
	case <-done:
		t.Fatalf("StateChanged returned before the program was attached")
	case <-time.After(20 * time.Millisecond):
	}

	b.attach(rec.send)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("StateChanged still blocked after attach")
	}

	msgs := rec.snapshot()
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	if s, ok := msgs[0].(stateMsg); !ok || s.Revision != 1 {
		t.Fatalf("message = %#v, want stateMsg revision 1", msgs[0])
	}
}

func TestBridge_CloseDropsMessages(t *testing.T) {
	b := NewBridge(&memStore{})
	rec := &recorder{}

	done := make(chan struct{})
	go func() {
		b.EnterConfigMode()
		close(done)
	}()
	b.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("EnterConfigMode still blocked after Close")
	}

	b.attach(rec.send)
	b.StateChanged(panel.State{Revision: 2})
	if got := len(rec.snapshot()); got != 0 {
		t.Fatalf("messages after Close = %d, want 0", got)
	}
}

func TestBridge_HostCallbacks(t *testing.T) {
	b := NewBridge(&memStore{})
	rec := &recorder{}
	b.attach(rec.send)

	b.EnterConfigMode()
	if err := b.ExitConfigMode(); err != nil {
		t.Fatalf("ExitConfigMode: %v", err)
	}
	if b.Removed() {
		t.Fatalf("Removed before RemoveWidget")
	}
	b.RemoveWidget()
	if !b.Removed() {
		t.Fatalf("Removed = false after RemoveWidget")
	}

	msgs := rec.snapshot()
	want := []tea.Msg{configModeMsg(true), configModeMsg(false), removedMsg{}}
	if len(msgs) != len(want) {
		t.Fatalf("messages = %#v, want %#v", msgs, want)
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Fatalf("message %d = %#v, want %#v", i, msgs[i], want[i])
		}
	}
}

func TestBridge_DelegatesStorage(t *testing.T) {
	store := &memStore{}
	b := NewBridge(store)
	ctx := context.Background()

	cfg, err := b.ReadConfig(ctx)
	if err != nil || cfg != nil {
		t.Fatalf("ReadConfig = %#v, %v, want nil, nil", cfg, err)
	}
	if err := b.StoreConfig(ctx, panel.Configuration{FeedURL: "https://example.com/rss"}); err != nil {
		t.Fatalf("StoreConfig: %v", err)
	}
	cfg, err = b.ReadConfig(ctx)
	if err != nil || cfg == nil || cfg.FeedURL != "https://example.com/rss" {
		t.Fatalf("ReadConfig = %#v, %v", cfg, err)
	}
}

func TestBridge_MountsController(t *testing.T) {
	store := &memStore{cfg: &panel.Configuration{FeedURL: "https://example.com/rss"}}
	b := NewBridge(store)
	rec := &recorder{}
	b.attach(rec.send)

	fetched := make(chan string, 1)
	fetcher := fetchFunc(func(ctx context.Context, url string) ([]feed.Item, error) {
		fetched <- url
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	panel.Mount(ctx, b, fetcher, panel.WithOnChange(b.StateChanged))

	select {
	case url := <-fetched:
		if url != "https://example.com/rss" {
			t.Fatalf("fetched %q", url)
		}
	case <-time.After(time.Second):
		t.Fatalf("controller never fetched the stored feed")
	}
	if b.Handlers().OnConfigure == nil || b.Handlers().OnRefresh == nil {
		t.Fatalf("handlers not registered")
	}
}
