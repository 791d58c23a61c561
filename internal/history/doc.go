// Package history keeps the bounded, ordered record of past scans.
//
// A Store holds at most model.HistoryLimit items, newest first, and writes
// the whole list through to a Slot after every mutation. Loading never
// fails: a missing slot means "never scanned" and a corrupt slot is logged
// and replaced by an empty history.
package history
