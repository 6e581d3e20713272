package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/five82/rsspanel/internal/config"
	"github.com/five82/rsspanel/internal/configstore"
	"github.com/five82/rsspanel/internal/feed"
	"github.com/five82/rsspanel/internal/logging"
	"github.com/five82/rsspanel/internal/panel"
	"github.com/five82/rsspanel/internal/prefs"
	"github.com/five82/rsspanel/internal/proxy"
	"github.com/five82/rsspanel/internal/ui"
)

// ErrPanelRemoved is returned by Run when the panel removed itself, which
// happens when the first configuration is cancelled.
var ErrPanelRemoved = errors.New("panel removed")

// Options configure the application. Zero values fall back to the settings
// file.
type Options struct {
	ConfigPath   string
	PanelID      string
	Store        string
	StorePath    string
	RefreshEvery int  // seconds; zero uses the settings file
	Debug        bool // log at debug level
	PrefsPath    string
}

// Run boots the panel and its terminal host until the user quits or the
// context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	cfg, err = cfg.WithStore(opts.Store, opts.StorePath)
	if err != nil {
		return err
	}
	if opts.RefreshEvery > 0 {
		cfg.RefreshInterval = time.Duration(opts.RefreshEvery) * time.Second
	}

	logFile, err := logging.Open(cfg.LogDir, opts.Debug)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	logger := logFile.Logger

	panelID := opts.PanelID
	if panelID == "" {
		panelID = "default"
	}
	logger.Info("starting", "panel", panelID, "store", cfg.Store, "store_path", cfg.StorePath)

	store, err := configstore.Open(cfg.Store, cfg.StorePath, panelID)
	if err != nil {
		return fmt.Errorf("open panel store: %w", err)
	}
	defer store.Close()

	client, err := proxy.NewClient(proxy.Options{
		Endpoint:  cfg.ProxyEndpoint,
		Timeout:   cfg.RequestTimeout,
		RateLimit: cfg.RateLimit,
		Logger:    logger.WithPrefix("proxy"),
	})
	if err != nil {
		return fmt.Errorf("init retrieval proxy: %w", err)
	}

	var parserOpts []feed.ParserOption
	if cfg.SanitizeHTML {
		parserOpts = append(parserOpts, feed.WithSanitizer(bluemonday.UGCPolicy()))
	}
	fetcher := feed.NewFetcher(client, feed.NewParser(parserOpts...), logger.WithPrefix("feed"))

	bridge := ui.NewBridge(store)
	controller := panel.Mount(ctx, bridge, fetcher,
		panel.WithLogger(logger.WithPrefix("panel")),
		panel.WithOnChange(bridge.StateChanged),
		panel.WithRefreshTimeout(cfg.RequestTimeout+5*time.Second),
	)

	StartPoller(ctx, controller, cfg.RefreshInterval, logger.WithPrefix("poller"))

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath, prefs.Prefs{Theme: cfg.Theme})

	err = ui.Run(ui.Options{
		Context:   ctx,
		Panel:     controller,
		Bridge:    bridge,
		PanelID:   panelID,
		ThemeName: userPrefs.Theme,
		PrefsPath: prefsPath,
		LogPath:   logFile.Path,
	})
	if err != nil {
		logger.Error("ui exited", "error", err)
		return err
	}
	if bridge.Removed() {
		logger.Info("panel removed", "panel", panelID)
		return ErrPanelRemoved
	}
	logger.Info("stopped")
	return nil
}
