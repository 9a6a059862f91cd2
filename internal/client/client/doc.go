// Package client bootstraps the local persistence of the HerbLock field
// client: it opens the SQLite database, applies the embedded goose
// migrations and wires the event and credential repositories.
//
// The remote gateway API contract lives in the api package; services
// combine both.
package client
