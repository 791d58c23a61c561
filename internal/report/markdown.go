package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/djimit/PhishLens/internal/model"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one scan in Markdown format.
func (w *MarkdownWriter) Write(item *model.HistoryItem) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, item)
	w.writeAlert(md, item.Result)
	w.writeReasoning(md, item.Result)
	w.writeFindings(md, item.Result)
	w.writeHighlights(md, item.Result)
	w.writeContent(md, item)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteHistory outputs the history as a table with a verdict pie chart.
func (w *MarkdownWriter) WriteHistory(items []model.HistoryItem) (int, error) {
	md := markdown.NewMarkdown(w.output)
	items = limitHistory(items)

	md.H1("PhishLens Scan History")
	md.PlainText("")

	if len(items) == 0 {
		md.PlainText("No scans yet.")
		md.PlainText("")
		w.writeFooter(md)
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(items))
	var phish, safe uint64
	for i, it := range items {
		if it.Result.IsPhishing {
			phish++
		} else {
			safe++
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			it.Time().Format(timeLayout),
			verdictBadge(it.Result),
			formatPercent(it.Result.Probability),
			codeSpan(it.ID),
			escapeCell(singleLine(it.Preview(PreviewLength))),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "Scanned", "Verdict", "Probability", "ID", "Preview"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Verdicts"),
		piechart.WithShowData(true),
	)
	if phish > 0 {
		chart.LabelAndIntValue("Phish", phish)
	}
	if safe > 0 {
		chart.LabelAndIntValue("Safe", safe)
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, item *model.HistoryItem) {
	md.H1("PhishLens Scan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Scan ID", codeSpan(item.ID)},
			{"Scan Date", item.Time().Format(timeLayout)},
			{"Adversarial Mode", adversarialMode(item.Config)},
			{"Input", model.Stats(item.Content).Counter()},
			{"Verdict", verdictBadge(item.Result)},
			{"Phishing Probability", formatPercent(item.Result.Probability)},
		},
	})
	md.PlainText("")
}

// verdictBadge returns the verdict with an indicator.
func verdictBadge(result model.ScanResult) string {
	if result.IsPhishing {
		return "🔴 " + result.Verdict()
	}
	return "🟢 " + result.Verdict()
}

// writeAlert writes an alert matching the verdict.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result model.ScanResult) {
	switch {
	case result.IsPhishing && result.Summary.AdversarialDetected:
		md.Cautionf(
			"Phishing detected with %s probability. Lookalike characters were used to evade filters.",
			formatPercent(result.Probability),
		)
	case result.IsPhishing:
		md.Cautionf("Phishing detected with %s probability.", formatPercent(result.Probability))
	case result.Summary.AdversarialDetected:
		md.Warningf("Classified as safe, but lookalike characters were detected.")
	case len(result.Summary.CriticalFindings) > 0:
		md.Importantf("Classified as safe with %d finding(s) worth reviewing.",
			len(result.Summary.CriticalFindings))
	default:
		md.Tip("No phishing indicators detected.")
	}
	md.PlainText("")
}

// writeReasoning writes the model's explanation.
func (w *MarkdownWriter) writeReasoning(md *markdown.Markdown, result model.ScanResult) {
	md.H2("Reasoning")
	md.PlainText("")
	if result.Reasoning == "" {
		md.PlainText("No reasoning provided.")
	} else {
		md.PlainText(result.Reasoning)
	}
	md.PlainText("")
}

// writeFindings writes the critical findings list.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, result model.ScanResult) {
	md.H2("Critical Findings")
	md.PlainText("")

	if len(result.Summary.CriticalFindings) == 0 {
		md.PlainText("No critical findings.")
		md.PlainText("")
		return
	}

	md.BulletList(result.Summary.CriticalFindings...)
	md.PlainText("")
}

// writeHighlights writes the highlighted runs as a table.
func (w *MarkdownWriter) writeHighlights(md *markdown.Markdown, result model.ScanResult) {
	hs := highlights(result)

	md.H2("Highlighted Segments")
	md.PlainText("")

	if len(hs) == 0 {
		md.PlainText("No characters contributed significantly to the verdict.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(hs))
	for i, h := range hs {
		label := h.Label
		if label == "" {
			label = "-"
		}
		rows[i] = []string{
			codeSpan(escapeCell(truncateString(singleLine(h.Text), 40))),
			label,
			fmt.Sprintf("%d%%", int(math.Round(h.MaxWeight*100))),
			fmt.Sprintf("%d-%d", h.Start, h.End),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Text", "Label", "Peak Impact", "Characters"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeContent writes the scanned content in a collapsible block.
func (w *MarkdownWriter) writeContent(md *markdown.Markdown, item *model.HistoryItem) {
	fence := codeFence(item.Content)
	md.Details("Scanned content", "\n"+fence+"text\n"+item.Content+"\n"+fence+"\n")
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by PhishLens*")
}

// formatPercent formats a probability as a percentage.
func formatPercent(p float64) string {
	return strconv.FormatFloat(p*100, 'f', 1, 64) + "%"
}

// escapeCell keeps table cells on one row.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// longestBacktickRun returns the length of the longest run of backticks in s.
func longestBacktickRun(s string) int {
	longest, run := 0, 0
	for _, r := range s {
		if r != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return longest
}

// codeFence returns a fence that no backtick run inside s can close.
func codeFence(s string) string {
	return strings.Repeat("`", max(3, longestBacktickRun(s)+1))
}

// codeSpan wraps s in inline code. Content with backticks gets a longer
// delimiter and padding so a leading or trailing backtick stays literal.
func codeSpan(s string) string {
	n := longestBacktickRun(s)
	if n == 0 {
		return "`" + s + "`"
	}
	delim := strings.Repeat("`", n+1)
	return delim + " " + s + " " + delim
}
