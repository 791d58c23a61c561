package heatmap

import (
	"strings"

	"github.com/djimit/PhishLens/internal/model"
)

// Segment is a run of consecutive highlighted characters sharing a label.
type Segment struct {
	// Text is the highlighted substring.
	Text string

	// Start and End are character offsets into the heatmap, End exclusive.
	Start int
	End   int

	// MaxWeight is the strongest weight inside the run.
	MaxWeight float64

	// Label is the shared label, empty for unlabelled high-weight runs.
	Label string
}

// Segments groups tooltip-bearing characters into runs. A run breaks on a
// character without a tooltip or when the label changes.
func Segments(heatmap []model.CharacterWeight) []Segment {
	var (
		segments []Segment
		cur      *Segment
		text     strings.Builder
	)

	flush := func(end int) {
		if cur == nil {
			return
		}
		cur.End = end
		cur.Text = text.String()
		segments = append(segments, *cur)
		cur = nil
		text.Reset()
	}

	for i, cw := range heatmap {
		if !Render(cw).HasTooltip {
			flush(i)
			continue
		}
		if cur != nil && cur.Label != cw.Label {
			flush(i)
		}
		if cur == nil {
			cur = &Segment{Start: i, Label: cw.Label}
		}
		text.WriteString(cw.Char)
		if cw.Weight > cur.MaxWeight {
			cur.MaxWeight = cw.Weight
		}
	}
	flush(len(heatmap))

	return segments
}
