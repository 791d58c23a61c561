package report

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/djimit/PhishLens/internal/heatmap"
	"github.com/djimit/PhishLens/internal/model"
)

// PreviewLength is the number of characters of content shown per history entry.
const PreviewLength = 50

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs one scan.
	// Returns the number of bytes written and any error encountered.
	Write(item *model.HistoryItem) (int, error)

	// WriteHistory outputs a history list, newest first.
	WriteHistory(items []model.HistoryItem) (int, error)
}

// MultiWriter writes to multiple Writers in order.
// Our Writer writes scans, not raw bytes, so io.MultiWriter does not apply.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the scan to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(item *model.HistoryItem) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(item)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteHistory outputs the history to all configured Writers.
func (m *MultiWriter) WriteHistory(items []model.HistoryItem) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteHistory(items)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Highlight is a highlighted run of the scanned content.
type Highlight struct {
	Text      string  `json:"text"`
	Label     string  `json:"label,omitempty"`
	Start     int     `json:"start"`
	End       int     `json:"end"`
	MaxWeight float64 `json:"maxWeight"`
}

// highlights returns the highlighted runs of a result with title-cased labels.
func highlights(result model.ScanResult) []Highlight {
	segments := heatmap.Segments(result.Heatmap)
	out := make([]Highlight, len(segments))
	for i, s := range segments {
		out[i] = Highlight{
			Text:      s.Text,
			Label:     titleLabel(s.Label),
			Start:     s.Start,
			End:       s.End,
			MaxWeight: s.MaxWeight,
		}
	}
	return out
}

// titleLabel normalizes model-provided labels such as "lookalike character".
func titleLabel(label string) string {
	if label == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.TrimSpace(label))
}

// adversarialMode returns the mode name shown next to a scan.
func adversarialMode(cfg model.ScanConfig) string {
	if cfg.AdversarialEnabled {
		return "ACTIVE"
	}
	return "INACTIVE"
}

// limitHistory keeps at most model.HistoryLimit entries.
func limitHistory(items []model.HistoryItem) []model.HistoryItem {
	if len(items) > model.HistoryLimit {
		return items[:model.HistoryLimit]
	}
	return items
}

// singleLine collapses whitespace so previews fit on one line.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateString truncates s to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

const timeLayout = "2006-01-02 15:04:05 MST"
