package heatmap

import (
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/djimit/PhishLens/internal/model"
)

type rgb struct {
	r, g, b int
}

// Palette of the original dark analysis panel.
var (
	rose         = rgb{244, 63, 94}   // highlight
	panel        = rgb{30, 41, 59}    // panel background
	highContrast = rgb{255, 255, 255} // text on strong backgrounds
	neutral      = rgb{203, 213, 225} // default text
)

// blend mixes the highlight color over the panel background.
func blend(alpha float64) rgb {
	mix := func(bg, fg int) int {
		return bg + int(float64(fg-bg)*alpha+0.5)
	}
	return rgb{
		r: mix(panel.r, rose.r),
		g: mix(panel.g, rose.g),
		b: mix(panel.b, rose.b),
	}
}

// Painter writes heatmaps to a terminal.
// Text shadows have no terminal equivalent and are not drawn.
type Painter struct {
	output io.Writer

	// colorize enables ANSI escape sequences.
	colorize bool
}

// PainterOption configures a Painter.
type PainterOption func(*Painter)

// WithColor forces color output on or off. By default the painter follows
// color.NoColor, which is true when the output is not a terminal.
func WithColor(enabled bool) PainterOption {
	return func(p *Painter) {
		p.colorize = enabled
	}
}

// NewPainter creates a Painter that writes to output.
func NewPainter(output io.Writer, opts ...PainterOption) *Painter {
	p := &Painter{
		output:   output,
		colorize: !color.NoColor,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Paint writes the heatmap text with per-character emphasis.
// An empty heatmap writes nothing.
func (p *Painter) Paint(heatmap []model.CharacterWeight) (int, error) {
	if len(heatmap) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	for _, cw := range heatmap {
		if !p.colorize || cw.Char == "\n" {
			sb.WriteString(cw.Char)
			continue
		}
		sb.WriteString(p.cellColor(cw).Sprint(cw.Char))
	}

	return io.WriteString(p.output, sb.String())
}

// cellColor builds the ANSI attributes of one character.
func (p *Painter) cellColor(cw model.CharacterWeight) *color.Color {
	style := Render(cw)

	fg := neutral
	if style.TextColor == HighContrast {
		fg = highContrast
	}

	c := color.RGB(fg.r, fg.g, fg.b)
	if !style.Transparent() {
		bg := blend(style.BackgroundAlpha)
		c.AddBgRGB(bg.r, bg.g, bg.b)
	}
	if style.Emphasized {
		c.Add(color.Bold)
	}
	if cw.HasLabel() {
		c.Add(color.Underline)
	}
	c.EnableColor()

	return c
}
