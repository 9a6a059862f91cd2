// Package cli provides the interactive HerbLock command-line client used by
// field collectors.
//
// It wires configuration, local storage, the gateway API client and an
// interactive REPL that supports online/offline operation. Typical flow:
// prompt for collector id and PIN, start a background connectivity watcher,
// and execute user commands.
//
// Key features:
//   - Login / Logout (online with offline fallback)
//   - Collect: record a geotagged collection event, durable before network
//   - List / Status over the local history
//   - Sync pending events with the ledger, automatic on reconnect
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, OnlineWatcher and runREPL for details.
package cli
