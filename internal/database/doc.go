// Package database provides SQLite-based storage for PhishLens.
//
// The database holds named slots. Each slot is a single key-value entry
// whose payload is an opaque string, stored together with a SHA3-256
// checksum so that a damaged payload is detected on read. The scan history
// lives in the slot named DefaultSlotName.
//
// SQLite is accessed through modernc.org/sqlite, so no CGO toolchain is
// needed. The database is a single file in the XDG data directory.
package database
