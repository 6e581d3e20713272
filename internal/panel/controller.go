package panel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/rsspanel/internal/feed"
)

var (
	// ErrEmptyFeedURL is returned when saving a configuration without a feed URL.
	ErrEmptyFeedURL = errors.New("feed url is empty")

	// ErrSaveInProgress is returned when a save arrives while another one is
	// still writing.
	ErrSaveInProgress = errors.New("configuration save in progress")
)

const defaultRefreshTimeout = 30 * time.Second

// Controller owns a panel's State and moves it through the configuration and
// refresh lifecycle. One Controller exists per panel instance; it is safe for
// concurrent use by host goroutines.
type Controller struct {
	host           Host
	fetcher        FeedFetcher
	logger         *log.Logger
	onChange       func(State)
	refreshTimeout time.Duration

	mu     sync.Mutex
	state  State
	seq    uint64
	cancel context.CancelFunc
	parked *result
	saving bool // a configuration write is in flight
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOnChange registers fn to receive a snapshot after every state change.
// fn runs outside the controller lock and may be called from several
// goroutines; compare State.Revision to order snapshots.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithRefreshTimeout bounds each fetch. Non-positive values keep the default.
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.refreshTimeout = d
		}
	}
}

// New builds a Controller in ModeUnconfigured. Call Initialize to resolve the
// stored configuration.
func New(host Host, fetcher FeedFetcher, opts ...Option) *Controller {
	c := &Controller{
		host:           host,
		fetcher:        fetcher,
		logger:         log.New(io.Discard),
		refreshTimeout: defaultRefreshTimeout,
		state:          State{Mode: ModeUnconfigured},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount builds a Controller, registers its handlers with host when the host
// accepts them, and starts Initialize in the background.
func Mount(ctx context.Context, host Host, fetcher FeedFetcher, opts ...Option) *Controller {
	c := New(host, fetcher, opts...)
	if r, ok := host.(Registrar); ok {
		r.RegisterWidgetAPI(c.Handlers(ctx))
	}
	go c.Initialize(ctx)
	return c
}

// Handlers returns the callbacks a host uses to trigger configuration and
// refresh. OnRefresh does not block the caller.
func (c *Controller) Handlers(ctx context.Context) Handlers {
	return Handlers{
		OnConfigure: c.EnterConfiguration,
		OnRefresh:   func() { go c.Refresh(ctx) },
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Initialize reads the stored configuration. Without one the panel enters
// configuration and the host is asked to show its configuration UI. With one
// the panel becomes ready and refreshes. A failed read is reported as a
// ConfigReadFailed error instead of being mistaken for a first run.
func (c *Controller) Initialize(ctx context.Context) {
	c.mu.Lock()
	startMode := c.state.Mode
	c.mu.Unlock()

	cfg, err := c.host.ReadConfig(ctx)
	if err != nil {
		c.logger.Error("read panel config", "error", err)
		c.update(func(s *State) bool {
			if s.Mode != startMode {
				return false
			}
			c.supersedeLocked()
			c.parked = nil
			s.Mode = ModeReady
			s.FeedURL = ""
			s.Draft = ""
			s.Loading = false
			s.Items = nil
			s.LastError = newErrorInfo(ConfigReadFailed, err)
			return true
		})
		return
	}

	if cfg == nil || strings.TrimSpace(cfg.FeedURL) == "" {
		c.logger.Info("panel not configured")
		applied := false
		c.update(func(s *State) bool {
			if s.Mode != startMode {
				return false
			}
			applied = true
			c.supersedeLocked()
			c.parked = nil
			s.Mode = ModeConfiguring
			s.FeedURL = ""
			s.Draft = ""
			s.Loading = false
			s.Items = nil
			s.LastError = nil
			return true
		})
		if applied {
			c.host.EnterConfigMode()
		}
		return
	}

	feedURL := strings.TrimSpace(cfg.FeedURL)
	c.logger.Info("panel configured", "feed", feedURL)
	applied := false
	c.update(func(s *State) bool {
		if s.Mode != startMode {
			return false
		}
		applied = true
		s.Mode = ModeReady
		s.FeedURL = feedURL
		s.Draft = ""
		return true
	})
	if !applied {
		c.logger.Debug("stored config arrived after the panel moved on", "mode", c.State().Mode)
		return
	}
	c.Refresh(ctx)
}

// EnterConfiguration switches to ModeConfiguring with the current feed URL as
// the draft. The visible result is kept aside and restored on cancel.
func (c *Controller) EnterConfiguration() {
	c.update(func(s *State) bool {
		if s.Mode == ModeConfiguring {
			return false
		}
		if s.Mode == ModeReady && (s.Items != nil || s.LastError != nil) {
			c.parked = &result{items: s.Items, err: s.LastError}
		}
		s.Mode = ModeConfiguring
		s.Draft = s.FeedURL
		s.Items = nil
		s.LastError = nil
		return true
	})
}

// UpdateDraftURL replaces the unsaved feed URL while configuring.
func (c *Controller) UpdateDraftURL(value string) {
	c.update(func(s *State) bool {
		if s.Mode != ModeConfiguring || c.saving || s.Draft == value {
			return false
		}
		s.Draft = value
		return true
	})
}

// SaveConfiguration persists the draft and, once the write has finished,
// makes the panel ready and refreshes it. A failed write keeps the new feed
// URL in memory and surfaces a ConfigWriteFailed error without refreshing.
// While the write is in flight the draft is frozen, and cancel and further
// saves are refused.
func (c *Controller) SaveConfiguration(ctx context.Context) error {
	return c.save(ctx, nil)
}

// SaveDraftURL sets the draft to value and saves it in one step, so draft
// updates still in flight cannot change what gets persisted.
func (c *Controller) SaveDraftURL(ctx context.Context, value string) error {
	return c.save(ctx, &value)
}

func (c *Controller) save(ctx context.Context, value *string) error {
	var draft string
	var refused error
	c.update(func(s *State) bool {
		switch {
		case s.Mode != ModeConfiguring:
			return false
		case c.saving:
			refused = ErrSaveInProgress
			return false
		}
		changed := false
		if value != nil && s.Draft != *value {
			s.Draft = *value
			changed = true
		}
		draft = strings.TrimSpace(s.Draft)
		if draft == "" {
			refused = ErrEmptyFeedURL
			return changed
		}
		c.saving = true
		return changed
	})
	if refused != nil {
		return refused
	}
	if draft == "" {
		return nil
	}

	storeErr := c.host.StoreConfig(ctx, Configuration{FeedURL: draft})
	if storeErr != nil {
		c.logger.Error("store panel config", "feed", draft, "error", storeErr)
	} else {
		c.logger.Info("panel config saved", "feed", draft)
	}

	c.update(func(s *State) bool {
		c.saving = false
		c.supersedeLocked()
		c.parked = nil
		s.Mode = ModeReady
		s.FeedURL = draft
		s.Draft = ""
		s.Loading = false
		s.Items = nil
		s.LastError = nil
		if storeErr != nil {
			s.LastError = newErrorInfo(ConfigWriteFailed, storeErr)
		}
		return true
	})

	if err := c.host.ExitConfigMode(); err != nil {
		c.logger.Warn("exit config mode", "error", err)
	}
	if storeErr != nil {
		return fmt.Errorf("store panel config: %w", storeErr)
	}

	c.Refresh(ctx)
	return nil
}

// CancelConfiguration abandons the draft. Without a stored configuration the
// host is asked to remove the panel and nothing else changes. Cancel is
// ignored while a save is writing.
func (c *Controller) CancelConfiguration(ctx context.Context) {
	c.mu.Lock()
	if c.state.Mode != ModeConfiguring {
		c.mu.Unlock()
		return
	}
	if c.saving {
		c.mu.Unlock()
		c.logger.Debug("cancel ignored while saving")
		return
	}
	committed := c.state.FeedURL
	c.mu.Unlock()

	cfg, err := c.host.ReadConfig(ctx)
	stored := ""
	if err != nil {
		c.logger.Warn("read panel config on cancel", "error", err)
		stored = committed
	} else if cfg != nil {
		stored = strings.TrimSpace(cfg.FeedURL)
	}

	if stored == "" {
		c.logger.Info("cancelled first configuration, removing panel")
		c.host.RemoveWidget()
		return
	}

	adopted := false
	c.update(func(s *State) bool {
		if s.Mode != ModeConfiguring {
			return false
		}
		s.Mode = ModeReady
		s.Draft = ""
		if s.FeedURL == "" {
			s.FeedURL = stored
			adopted = true
		}
		if c.parked != nil && !adopted {
			s.Items = c.parked.items
			s.LastError = c.parked.err
		}
		c.parked = nil
		return true
	})

	if err := c.host.ExitConfigMode(); err != nil {
		c.logger.Warn("exit config mode", "error", err)
	}
	if adopted {
		c.Refresh(ctx)
	}
}

// Refresh clears the visible result and loads the feed again. A newer call
// supersedes an older one: the older fetch is cancelled and its outcome is
// discarded. Without a feed URL the stored configuration is read again.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.state.Mode != ModeReady {
		mode := c.state.Mode
		c.mu.Unlock()
		c.logger.Debug("refresh ignored", "mode", mode)
		return
	}
	feedURL := c.state.FeedURL
	if feedURL == "" {
		c.mu.Unlock()
		c.Initialize(ctx)
		return
	}

	seq := c.supersedeLocked()
	fetchCtx, cancel := context.WithTimeout(ctx, c.refreshTimeout)
	c.cancel = cancel
	c.state.Items = nil
	c.state.LastError = nil
	c.state.Loading = true
	snap := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap)

	c.logger.Debug("refresh started", "seq", seq, "feed", feedURL)
	items, err := c.fetcher.FetchFeed(fetchCtx, feedURL)
	cancel()

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded refresh", "seq", seq)
		return
	}
	c.cancel = nil

	var res result
	if err != nil {
		res.err = newErrorInfo(classifyRefreshError(err), err)
		c.logger.Warn("refresh failed", "seq", seq, "kind", res.err.Kind, "error", err)
	} else {
		if items == nil {
			items = []feed.Item{}
		}
		res.items = feed.CloneItems(items)
		c.logger.Debug("refresh finished", "seq", seq, "items", len(items))
	}

	c.state.Loading = false
	if c.state.Mode == ModeReady {
		c.state.Items = res.items
		c.state.LastError = res.err
	} else {
		c.parked = &res
	}
	snap = c.commitLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// supersedeLocked invalidates any in-flight refresh and returns the new
// sequence number.
func (c *Controller) supersedeLocked() uint64 {
	c.seq++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return c.seq
}

// update applies fn under the lock and notifies when fn reports a change.
func (c *Controller) update(fn func(s *State) bool) {
	c.mu.Lock()
	if !fn(&c.state) {
		c.mu.Unlock()
		return
	}
	snap := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap)
}

func (c *Controller) commitLocked() State {
	c.state.Revision++
	return c.state.Clone()
}

func (c *Controller) notify(s State) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
