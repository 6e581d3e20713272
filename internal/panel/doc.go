// Package panel implements the lifecycle of a single RSS feed panel.
//
// # Overview
//
// A panel lives inside a dashboard host. The host stores a small
// configuration blob per panel, tells the panel when the user wants to
// configure or refresh it, and removes the panel when asked. The panel owns
// everything else: which feed it shows, whether a load is in progress, and
// what went wrong last.
//
// # Lifecycle
//
//	             Initialize
//	Unconfigured ──────────┬──────────────→ Configuring ←──┐
//	                       │   (no config)       │         │ EnterConfiguration
//	                       │                     │ Save    │
//	                       └──────────────→ Ready ←────────┘
//	                          (config)           ↑  Cancel (config exists)
//	                                             │
//	                                Cancel (no config) → host.RemoveWidget
//
// Ready is the only mode in which items or an error are shown. When the user
// enters configuration the visible result is parked and restored on cancel.
//
// # Refresh Semantics
//
// Refresh clears the visible result, marks the panel Loading, and fetches the
// feed through a FeedFetcher. Every refresh takes a sequence number; when a
// newer refresh starts, the older one is cancelled and whatever it returns is
// dropped. A refresh that finishes while the panel is configuring lands in
// the parked slot.
//
// # Errors
//
// Failures are recorded as ErrorInfo values:
//
//   - ConfigReadFailed: the host could not read the stored configuration
//   - ConfigWriteFailed: the host could not persist a saved configuration
//   - FetchFailed: the proxy was unreachable or reported a failure
//   - ParseFailed: the retrieved document was not a usable RSS 2.0 feed
//
// ErrorInfo.Summary is the generic text shown to users. ErrorInfo.Message
// keeps the underlying detail for logs and secondary display.
//
// # Observing State
//
// State returns a deep copy. Hosts that render asynchronously pass
// WithOnChange and order snapshots by State.Revision.
//
// # Usage Example
//
//	ctrl := panel.Mount(ctx, host, fetcher,
//		panel.WithLogger(logger),
//		panel.WithOnChange(func(s panel.State) { program.Send(s) }),
//	)
//	if err := ctrl.SaveDraftURL(ctx, "https://example.com/rss.xml"); err != nil {
//		// shown through State().LastError
//	}
package panel
