package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rsspanel/internal/panel"
)

// Bridge is the host side of a panel running inside the terminal program. It
// forwards configuration storage to a ConfigStore and turns panel callbacks
// into Bubble Tea messages.
type Bridge struct {
	store panel.ConfigStore

	ready      chan struct{}
	closed     chan struct{}
	attachOnce sync.Once
	closeOnce  sync.Once
	send       func(tea.Msg)

	mu       sync.Mutex
	handlers panel.Handlers
	removed  bool
}

var (
	_ panel.Host      = (*Bridge)(nil)
	_ panel.Registrar = (*Bridge)(nil)
)

// NewBridge wraps store. Messages sent before Attach are held until the
// program is attached or the bridge is closed.
func NewBridge(store panel.ConfigStore) *Bridge {
	return &Bridge{
		store:  store,
		ready:  make(chan struct{}),
		closed: make(chan struct{}),
	}
}

// Attach routes messages to p.
func (b *Bridge) Attach(p *tea.Program) {
	b.attach(p.Send)
}

func (b *Bridge) attach(send func(tea.Msg)) {
	b.attachOnce.Do(func() {
		b.send = send
		close(b.ready)
	})
}

// Close drops pending and future messages.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() { close(b.closed) })
}

func (b *Bridge) ReadConfig(ctx context.Context) (*panel.Configuration, error) {
	return b.store.ReadConfig(ctx)
}

func (b *Bridge) StoreConfig(ctx context.Context, cfg panel.Configuration) error {
	return b.store.StoreConfig(ctx, cfg)
}

// RemoveWidget records the removal and asks the program to quit.
func (b *Bridge) RemoveWidget() {
	b.mu.Lock()
	b.removed = true
	b.mu.Unlock()
	b.post(removedMsg{})
}

func (b *Bridge) EnterConfigMode() {
	b.post(configModeMsg(true))
}

func (b *Bridge) ExitConfigMode() error {
	b.post(configModeMsg(false))
	return nil
}

func (b *Bridge) RegisterWidgetAPI(h panel.Handlers) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = h
}

// Handlers returns what the panel registered; zero until registration.
func (b *Bridge) Handlers() panel.Handlers {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handlers
}

// Removed reports whether the panel asked to be removed.
func (b *Bridge) Removed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removed
}

// StateChanged is passed to panel.WithOnChange.
func (b *Bridge) StateChanged(s panel.State) {
	b.post(stateMsg(s))
}

func (b *Bridge) post(msg tea.Msg) {
	select {
	case <-b.ready:
	case <-b.closed:
		return
	}
	select {
	case <-b.closed:
		return
	default:
	}
	b.send(msg)
}
