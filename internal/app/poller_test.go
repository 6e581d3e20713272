package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/five82/rsspanel/internal/panel"
)

type fakeRefresher struct {
	mu       sync.Mutex
	state    panel.State
	refreshs int
	called   chan struct{}
}

func newFakeRefresher(s panel.State) *fakeRefresher {
	return &fakeRefresher{state: s, called: make(chan struct{}, 16)}
}

func (f *fakeRefresher) State() panel.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeRefresher) Refresh(ctx context.Context) {
	f.mu.Lock()
	f.refreshs++
	f.mu.Unlock()
	select {
	case f.called <- struct{}{}:
	default:
	}
}

func (f *fakeRefresher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshs
}

func TestShouldPoll(t *testing.T) {
	tests := []struct {
		name  string
		state panel.State
		want  bool
	}{
		{"ready with feed", panel.State{Mode: panel.ModeReady, FeedURL: "https://example.com/rss"}, true},
		{"ready after failure", panel.State{Mode: panel.ModeReady, FeedURL: "https://example.com/rss", LastError: &panel.ErrorInfo{Kind: panel.FetchFailed}}, true},
		{"loading", panel.State{Mode: panel.ModeReady, FeedURL: "https://example.com/rss", Loading: true}, false},
		{"no feed", panel.State{Mode: panel.ModeReady}, false},
		{"configuring", panel.State{Mode: panel.ModeConfiguring, FeedURL: "https://example.com/rss"}, false},
		{"unconfigured", panel.State{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldPoll(tt.state); got != tt.want {
				t.Errorf("shouldPoll(%+v) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestStartPoller_RefreshesReadyPanel(t *testing.T) {
	r := newFakeRefresher(panel.State{Mode: panel.ModeReady, FeedURL: "https://example.com/rss"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartPoller(ctx, r, 5*time.Millisecond, nil)

	for i := 0; i < 2; i++ {
		select {
		case <-r.called:
		case <-time.After(time.Second):
			t.Fatalf("poller refreshed %d times, want at least 2", r.count())
		}
	}
}

func TestStartPoller_SkipsConfiguringPanel(t *testing.T) {
	r := newFakeRefresher(panel.State{Mode: panel.ModeConfiguring})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartPoller(ctx, r, 2*time.Millisecond, nil)
	time.Sleep(30 * time.Millisecond)

	if got := r.count(); got != 0 {
		t.Fatalf("Refresh calls = %d, want 0", got)
	}
}

func TestStartPoller_DisabledAndStops(t *testing.T) {
	r := newFakeRefresher(panel.State{Mode: panel.ModeReady, FeedURL: "https://example.com/rss"})

	StartPoller(context.Background(), r, 0, nil)
	time.Sleep(20 * time.Millisecond)
	if got := r.count(); got != 0 {
		t.Fatalf("Refresh calls with interval 0 = %d, want 0", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	StartPoller(ctx, r, 2*time.Millisecond, nil)
	time.Sleep(20 * time.Millisecond)
	if got := r.count(); got != 0 {
		t.Fatalf("Refresh calls after cancel = %d, want 0", got)
	}
}
