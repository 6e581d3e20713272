// Package ui hosts an RSS panel in the terminal using Bubble Tea.
//
// # Architecture Overview
//
// The terminal program plays the dashboard host. Bridge implements
// panel.Host and panel.Registrar: it forwards configuration storage to a
// configstore, records the handlers the panel registers, and turns the
// panel's callbacks (state changes, config mode, removal) into Bubble Tea
// messages sent to the running program.
//
// Model renders the latest panel.State it has received. Snapshots carry a
// revision number and older snapshots are ignored, so the order in which
// goroutines deliver them does not matter.
//
// # Event Flow
//
//  1. Run attaches the Bridge to a new tea.Program and starts it
//  2. The controller initializes in the background and publishes state
//  3. Keys become controller calls, always issued from tea.Cmd goroutines
//  4. The controller publishes the resulting state through the Bridge
//  5. RemoveWidget quits the program; Bridge.Removed reports it afterwards
//
// Controller calls never run inside Update: they publish state through the
// Bridge, which waits for this program's message loop.
//
// # Views
//
//   - Configuring: URL input; enter saves, esc cancels
//   - Ready: feed URL header, spinner while loading, error summary with the
//     detail dimmed below it, or the scrollable item list
//   - Help overlay (?) and log overlay (L)
//
// Item bodies are HTML; they are flattened to text with goquery and wrapped
// to the terminal width with lipgloss.
//
// # Key Bindings
//
//   - c: Configure feed
//   - r: Refresh
//   - j/k, pgup/pgdown, g/G: Scroll items
//   - T: Cycle theme (saved to prefs)
//   - L: Show application log
//   - ?: Help
//   - q or Ctrl+C: Quit
package ui
