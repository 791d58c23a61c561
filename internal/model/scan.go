package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// ScanState is the lifecycle state of a scan.
// Exactly one state holds at any time; the scan controller owns it.
type ScanState int

const (
	// StateIdle means no scan is in flight and nothing is displayed.
	StateIdle ScanState = iota

	// StateScanning means exactly one inference call is outstanding.
	StateScanning

	// StateCompleted means a result is on display, either fresh or restored
	// from history.
	StateCompleted

	// StateError means the last inference call failed.
	StateError
)

// String returns the upper-case state name.
func (s ScanState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateScanning:
		return "SCANNING"
	case StateCompleted:
		return "COMPLETED"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ScanConfig holds the per-scan options.
// It is a value type so that storing it is always a snapshot.
type ScanConfig struct {
	// AdversarialEnabled asks the inference service to look for lookalike
	// character substitutions (e.g. "pay-pa1" for "paypal").
	AdversarialEnabled bool `json:"adversarialEnabled"`
}

// DefaultScanConfig returns the options used when the user sets nothing.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{AdversarialEnabled: true}
}

// CharacterWeight is the contribution of a single input character to the
// phishing classification.
type CharacterWeight struct {
	// Char is exactly one character of the original input.
	Char string `json:"char"`

	// Weight is the contribution in [0,1].
	Weight float64 `json:"weight"`

	// Label optionally names the pattern this character belongs to,
	// e.g. "Lookalike character". Empty means no label.
	Label string `json:"label,omitempty"`
}

// HasLabel reports whether the character carries a label.
func (c CharacterWeight) HasLabel() bool {
	return c.Label != ""
}

// Summary condenses the findings of a scan.
type Summary struct {
	CriticalFindings    []string `json:"criticalFindings"`
	AdversarialDetected bool     `json:"adversarialDetected"`
}

// ScanResult is the validated outcome of one inference call.
// It is treated as immutable once produced; use Clone before modifying.
type ScanResult struct {
	IsPhishing  bool              `json:"isPhishing"`
	Probability float64           `json:"probability"`
	Reasoning   string            `json:"reasoning"`
	Heatmap     []CharacterWeight `json:"heatmap"`
	Summary     Summary           `json:"summary"`
}

// Clone returns a deep copy of the result.
func (r ScanResult) Clone() ScanResult {
	out := r
	out.Heatmap = slices.Clone(r.Heatmap)
	out.Summary.CriticalFindings = slices.Clone(r.Summary.CriticalFindings)
	return out
}

// Verdict returns the badge text shown next to a result.
func (r ScanResult) Verdict() string {
	if r.IsPhishing {
		return "Phish"
	}
	return "Safe"
}

// HistoryItem is one completed scan kept in history.
// It is only created when a scan completes successfully.
type HistoryItem struct {
	ID        string     `json:"id"`
	Timestamp int64      `json:"timestamp"` // epoch milliseconds
	Content   string     `json:"content"`
	Config    ScanConfig `json:"config"`
	Result    ScanResult `json:"result"`
}

// NewHistoryItem builds a history item stamped with the given time.
func NewHistoryItem(id string, at time.Time, content string, cfg ScanConfig, result ScanResult) HistoryItem {
	return HistoryItem{
		ID:        id,
		Timestamp: at.UnixMilli(),
		Content:   content,
		Config:    cfg,
		Result:    result.Clone(),
	}
}

// Time returns the timestamp as a time.Time in local time.
func (h HistoryItem) Time() time.Time {
	return time.UnixMilli(h.Timestamp)
}

// Clone returns a deep copy of the item.
func (h HistoryItem) Clone() HistoryItem {
	out := h
	out.Result = h.Result.Clone()
	return out
}

// Validate checks an item read back from storage.
func (h HistoryItem) Validate() error {
	if h.ID == "" {
		return fmt.Errorf("%w: history item without id", ErrInvalidResult)
	}
	if h.Timestamp <= 0 {
		return fmt.Errorf("%w: history item %s has no timestamp", ErrInvalidResult, h.ID)
	}
	return h.Result.Validate(h.Content)
}

// Preview returns at most n characters of the content followed by an
// ellipsis when it was cut.
func (h HistoryItem) Preview(n int) string {
	runes := []rune(h.Content)
	if len(runes) <= n {
		return h.Content
	}
	return string(runes[:n]) + "..."
}

// MarshalHistory serializes an ordered list of history items.
func MarshalHistory(items []HistoryItem) ([]byte, error) {
	if items == nil {
		items = []HistoryItem{}
	}
	return json.Marshal(items)
}

// UnmarshalHistory parses and validates a serialized history list.
// Any invalid item makes the whole payload invalid.
func UnmarshalHistory(data []byte) ([]HistoryItem, error) {
	var items []HistoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("history item %d: %w", i, err)
		}
	}
	return items, nil
}
