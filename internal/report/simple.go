package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/djimit/PhishLens/internal/heatmap"
	"github.com/djimit/PhishLens/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// colorize paints the heatmap with ANSI colors.
	colorize bool

	// verbose adds the scan configuration and per-character statistics.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithColor enables or disables the colored heatmap.
func WithColor(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.colorize = enabled
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
// Color is off unless WithColor(true) is given.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one scan in human-readable format.
func (w *SimpleWriter) Write(item *model.HistoryItem) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, item)
	w.writeVerdict(&sb, item.Result)
	w.writeFindings(&sb, item.Result)
	if err := w.writeHeatmap(&sb, item.Result); err != nil {
		return 0, err
	}
	w.writeHighlights(&sb, item.Result)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteHistory outputs the history list, newest first.
func (w *SimpleWriter) WriteHistory(items []model.HistoryItem) (int, error) {
	var sb strings.Builder
	items = limitHistory(items)

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("SCAN HISTORY (%d/%d)\n", len(items), model.HistoryLimit))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(items) == 0 {
		sb.WriteString("  No scans yet\n\n")
		return w.output.Write([]byte(sb.String()))
	}

	for i, it := range items {
		sb.WriteString(fmt.Sprintf("  [%d] %s  %-5s  %3.0f%%  %s\n",
			i+1,
			it.Time().Format(timeLayout),
			it.Result.Verdict(),
			it.Result.Probability*100,
			it.ID,
		))
		sb.WriteString(fmt.Sprintf("      %s\n", singleLine(it.Preview(PreviewLength))))
	}
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, item *model.HistoryItem) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        PHISHLENS SCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Scan ID:          %s\n", item.ID))
	sb.WriteString(fmt.Sprintf("Scan Date:        %s\n", item.Time().Format(timeLayout)))
	sb.WriteString(fmt.Sprintf("Adversarial Mode: %s\n", adversarialMode(item.Config)))
	if w.verbose {
		stats := model.Stats(item.Content)
		sb.WriteString(fmt.Sprintf("Input:            %s\n", stats.Counter()))
	}
	sb.WriteString("\n")
}

// writeVerdict writes the classification and reasoning.
func (w *SimpleWriter) writeVerdict(sb *strings.Builder, result model.ScanResult) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("VERDICT\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	indicator := "+"
	if result.IsPhishing {
		indicator = "!!!"
	}
	sb.WriteString(fmt.Sprintf("  [%s] %s (%.1f%% phishing probability)\n",
		indicator, strings.ToUpper(result.Verdict()), result.Probability*100))
	if result.Summary.AdversarialDetected {
		sb.WriteString("  [!] Adversarial lookalike characters detected\n")
	}
	sb.WriteString("\n")

	if result.Reasoning != "" {
		sb.WriteString(fmt.Sprintf("  %s\n\n", result.Reasoning))
	}
}

// writeFindings writes the critical findings list.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, result model.ScanResult) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CRITICAL FINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(result.Summary.CriticalFindings) == 0 {
		sb.WriteString("  No critical findings\n\n")
		return
	}
	for _, f := range result.Summary.CriticalFindings {
		sb.WriteString(fmt.Sprintf("  * %s\n", f))
	}
	sb.WriteString("\n")
}

// writeHeatmap writes the painted content.
func (w *SimpleWriter) writeHeatmap(sb *strings.Builder, result model.ScanResult) error {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("HEATMAP\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	painter := heatmap.NewPainter(sb, heatmap.WithColor(w.colorize))
	if _, err := painter.Paint(result.Heatmap); err != nil {
		return fmt.Errorf("paint heatmap: %w", err)
	}
	sb.WriteString("\n\n")

	if w.verbose {
		var highlighted, emphasized int
		for _, s := range heatmap.RenderAll(result.Heatmap) {
			if s.HasTooltip {
				highlighted++
			}
			if s.Emphasized {
				emphasized++
			}
		}
		sb.WriteString(fmt.Sprintf("  %d of %d characters highlighted, %d emphasized\n\n",
			highlighted, len(result.Heatmap), emphasized))
		w.writeTooltips(sb, result.Heatmap)
	}
	return nil
}

// writeTooltips lists each highlighted character with its hover text.
func (w *SimpleWriter) writeTooltips(sb *strings.Builder, cells []model.CharacterWeight) {
	var listed bool
	for i, cw := range cells {
		tip := heatmap.Tooltip(cw)
		if tip == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %4d  %-6q %s\n", i, cw.Char, strings.ReplaceAll(tip, "\n", ", ")))
		listed = true
	}
	if listed {
		sb.WriteString("\n")
	}
}

// writeHighlights lists the highlighted runs with their impact.
func (w *SimpleWriter) writeHighlights(sb *strings.Builder, result model.ScanResult) {
	hs := highlights(result)
	if len(hs) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("HIGHLIGHTED SEGMENTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, h := range hs {
		indicator := "-"
		if h.MaxWeight > heatmap.EmphasizeAbove {
			indicator = "!"
		}
		label := h.Label
		if label == "" {
			label = "High Impact"
		}
		sb.WriteString(fmt.Sprintf("  [%s] %q %s (impact %d%%)\n",
			indicator, singleLine(h.Text), label, int(math.Round(h.MaxWeight*100))))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by PhishLens\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
