// Package app is the composition root for rsspanel.
//
// # Overview
//
// Run wires settings, logging, the panel configuration store, the retrieval
// proxy client, the feed parser, the panel controller and the terminal host
// together, then blocks in the UI until the user quits or the context is
// cancelled.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read settings, apply CLI overrides
//	       ├─────> logging.Open()       Daily log file
//	       ├─────> configstore.Open()   TOML, SQLite or memory store
//	       ├─────> proxy.NewClient()    Rate-limited retrieval proxy client
//	       ├─────> feed.NewFetcher()    Proxy + RSS parser
//	       ├─────> panel.Mount()        Controller bound to the ui.Bridge host
//	       ├─────> StartPoller()        Optional periodic refresh
//	       └─────> ui.Run()             Start TUI (blocks)
//
// # Polling Behavior
//
// When a refresh interval is set, the poller calls Refresh on every tick
// while the panel is Ready with a feed and no refresh is loading. Failed
// fetches are not retried early; the next tick or a manual refresh tries
// again.
//
// # Errors
//
// Settings, log, store and proxy setup failures are returned from Run.
// Feed failures never are: the controller records them in its state and the
// UI shows them. ErrPanelRemoved reports that the panel removed itself.
package app
