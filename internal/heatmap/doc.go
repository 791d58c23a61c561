// Package heatmap maps per-character contribution weights to visual emphasis.
//
// Render is the pure core: one CharacterWeight in, one Style out. The
// thresholds and the non-linear intensity curve (weight^0.9, capped alpha
// 0.75) are fixed so that every output format shows the same emphasis.
//
// On top of Render the package offers:
//   - Segments: groups highlighted characters into labelled spans for reports
//   - Painter: writes a heatmap to a terminal with 24-bit ANSI colors
package heatmap
