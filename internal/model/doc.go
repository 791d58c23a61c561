// Package model defines the core data structures used throughout PhishLens.
//
// This package contains the following main types:
//   - ScanState: The four-state scan lifecycle
//   - ScanConfig: Options snapshotted when a scan starts
//   - CharacterWeight: One heatmap cell (character, weight, optional label)
//   - ScanResult: The validated outcome of an inference call
//   - HistoryItem: A completed scan kept in history
//
// Input validation (empty and over-limit checks) and result validation
// (range and alignment checks) also live here so that every package applies
// the same rules.
//
// The models serialize to the same camelCase JSON used by the inference
// service and by the persisted history slot.
package model
