// Package report renders scans and the scan history.
//
// This package contains writers for different output formats:
//   - SimpleWriter: terminal text with a painted heatmap
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: GitHub-flavored Markdown for sharing
//
// Writers implement the Writer interface, so they can be used
// interchangeably and combined with MultiWriter.
package report
