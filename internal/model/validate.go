package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// MaxInputChars is the maximum number of characters accepted for a scan.
	MaxInputChars = 5000

	// HistoryLimit is the number of scans kept in history.
	HistoryLimit = 10
)

// InputStats describes the input area state: the character counter and the
// limit indicator.
type InputStats struct {
	Length     int
	Limit      int
	Percentage float64 // Length/Limit*100, capped at 100
	OverLimit  bool
	Empty      bool
}

// Invalid reports whether submission must be disabled.
func (s InputStats) Invalid() bool {
	return s.OverLimit || s.Empty
}

// Counter returns the character counter text, e.g. "1,234 / 5,000 characters".
func (s InputStats) Counter() string {
	return fmt.Sprintf("%s / %s characters", groupThousands(s.Length), groupThousands(s.Limit))
}

// Stats computes the input statistics for content.
// Length counts characters (runes), not bytes.
func Stats(content string) InputStats {
	n := utf8.RuneCountInString(content)
	pct := float64(n) / float64(MaxInputChars) * 100
	return InputStats{
		Length:     n,
		Limit:      MaxInputChars,
		Percentage: math.Min(pct, 100),
		OverLimit:  n > MaxInputChars,
		Empty:      strings.TrimSpace(content) == "",
	}
}

// ValidateInput checks whether content may be submitted for scanning.
// Over-limit takes precedence over emptiness (5001 spaces is over limit).
func ValidateInput(content string) error {
	s := Stats(content)
	switch {
	case s.OverLimit:
		return ErrInputOverLimit
	case s.Empty:
		return ErrEmptyInput
	default:
		return nil
	}
}

// Validate checks the result against the data contract for the given input.
// The heatmap must hold one single-character entry per input character, in
// order, and every number must be a finite value in [0,1].
func (r ScanResult) Validate(content string) error {
	if !inUnitRange(r.Probability) {
		return fmt.Errorf("%w: probability %v out of range [0,1]", ErrInvalidResult, r.Probability)
	}
	if r.Summary.CriticalFindings == nil {
		return fmt.Errorf("%w: missing critical findings", ErrInvalidResult)
	}

	want := utf8.RuneCountInString(content)
	if len(r.Heatmap) != want {
		return fmt.Errorf("%w: heatmap has %d entries for %d input characters",
			ErrInvalidResult, len(r.Heatmap), want)
	}

	for i, cw := range r.Heatmap {
		if utf8.RuneCountInString(cw.Char) != 1 {
			return fmt.Errorf("%w: heatmap entry %d has %q, want exactly one character",
				ErrInvalidResult, i, cw.Char)
		}
		if !inUnitRange(cw.Weight) {
			return fmt.Errorf("%w: heatmap entry %d weight %v out of range [0,1]",
				ErrInvalidResult, i, cw.Weight)
		}
	}

	return nil
}

func inUnitRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// groupThousands formats n with comma separators.
func groupThousands(n int) string {
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	s := strconv.Itoa(n)
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
