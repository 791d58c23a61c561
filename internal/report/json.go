package report

import (
	"encoding/json"
	"io"

	"github.com/djimit/PhishLens/internal/model"
)

// JSONWriter outputs reports in JSON format.
// A scan is written as the stored history item, so the output can be read
// back with model.UnmarshalHistory.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the scan in JSON format.
func (w *JSONWriter) Write(item *model.HistoryItem) (int, error) {
	return w.writeJSON(item)
}

// WriteHistory outputs the history as a JSON array, newest first.
// An empty history is written as [].
func (w *JSONWriter) WriteHistory(items []model.HistoryItem) (int, error) {
	items = limitHistory(items)
	if items == nil {
		items = []model.HistoryItem{}
	}
	return w.writeJSON(items)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps a scan with output-only metadata.
type JSONReport struct {
	// Version is the PhishLens version that generated this report.
	Version string `json:"version"`

	// Scan is the scan as stored in history.
	Scan *model.HistoryItem `json:"scan"`

	// Highlights lists the highlighted runs of the content.
	Highlights []Highlight `json:"highlights"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(item *model.HistoryItem, version string) *JSONReport {
	return &JSONReport{
		Version:    version,
		Scan:       item,
		Highlights: highlights(item.Result),
	}
}

// JSONHistoryReport wraps the history list with metadata.
type JSONHistoryReport struct {
	Version string              `json:"version"`
	Count   int                 `json:"count"`
	Limit   int                 `json:"limit"`
	Items   []model.HistoryItem `json:"items"`
}

// FullJSONWriter outputs reports with the metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	// version is the PhishLens version string.
	version string
}

// NewFullJSONWriter creates a writer for reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the scan wrapped with metadata.
func (w *FullJSONWriter) Write(item *model.HistoryItem) (int, error) {
	return w.writeJSON(NewJSONReport(item, w.version))
}

// WriteHistory outputs the history wrapped with metadata.
func (w *FullJSONWriter) WriteHistory(items []model.HistoryItem) (int, error) {
	items = limitHistory(items)
	if items == nil {
		items = []model.HistoryItem{}
	}
	return w.writeJSON(&JSONHistoryReport{
		Version: w.version,
		Count:   len(items),
		Limit:   model.HistoryLimit,
		Items:   items,
	})
}
