// Package configstore persists panel configurations.
//
// Each store is bound to one panel id and implements panel.ConfigStore:
// ReadConfig returns (nil, nil) for a panel that was never configured, and
// any other failure is returned as an error so the panel can report it
// rather than treat it as a first run.
//
//   - TOMLStore: one human-editable file, [panels.<id>] tables, atomic
//     replace on write.
//   - SQLiteStore: table panel_config(panel_id, blob, updated_at) with the
//     configuration encoded as JSON.
//   - MemoryStore: process memory only.
//
// Open selects a store by kind name ("toml", "sqlite", "memory").
package configstore
