// Package scanner owns the scan lifecycle.
//
// The lifecycle is an explicit state machine (see Transition) over the four
// model.ScanState values. Controller drives it: it validates input, runs at
// most one inference call at a time, records successful scans in the
// history store and turns every inference failure into the error state.
//
// Each state change that starts or abandons a scan bumps a generation
// counter. A result is applied only if it carries the current generation,
// so a late answer for a scan the user already reset or replaced is dropped.
package scanner
