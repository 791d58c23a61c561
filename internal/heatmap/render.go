package heatmap

import (
	"math"
	"strconv"

	"github.com/djimit/PhishLens/internal/model"
)

// Rendering thresholds. A weight is compared with strict inequalities, so a
// weight exactly at a threshold falls on the "below" side for the > rules and
// on the "at or above" side for the < rules.
const (
	// TransparentBelow: weights under this value get no background.
	TransparentBelow = 0.04

	// IntensityExponent flattens the curve so moderate weights stay visible.
	IntensityExponent = 0.9

	// MaxBackgroundAlpha caps the background opacity.
	MaxBackgroundAlpha = 0.75

	// HighContrastAbove: weights over this value switch to high-contrast text.
	HighContrastAbove = 0.45

	// ShadowFrom: weights at or above this value get a text shadow.
	ShadowFrom = 0.2

	// MaxShadowOpacity caps the shadow opacity.
	MaxShadowOpacity = 0.5

	// EmphasizeAbove: weights over this value are rendered bold.
	EmphasizeAbove = 0.4

	// TooltipAbove: weights over this value get a tooltip even without a label.
	TooltipAbove = 0.2
)

// TextColor selects the foreground color of a heatmap cell.
type TextColor int

const (
	// Neutral is the default muted text color.
	Neutral TextColor = iota

	// HighContrast is used on strong backgrounds.
	HighContrast
)

// String returns the color name.
func (c TextColor) String() string {
	switch c {
	case Neutral:
		return "NEUTRAL"
	case HighContrast:
		return "HIGH_CONTRAST"
	default:
		return "UNKNOWN"
	}
}

// Style holds the rendering parameters of one heatmap cell.
type Style struct {
	BackgroundAlpha float64
	TextColor       TextColor
	ShadowOpacity   float64
	Emphasized      bool
	HasTooltip      bool
}

// Transparent reports whether the cell has no background.
func (s Style) Transparent() bool {
	return s.BackgroundAlpha == 0
}

// Render computes the style of a single character.
func Render(cw model.CharacterWeight) Style {
	w := cw.Weight

	var alpha float64
	if w >= TransparentBelow {
		alpha = math.Pow(w, IntensityExponent) * MaxBackgroundAlpha
	}

	textColor := Neutral
	if w > HighContrastAbove {
		textColor = HighContrast
	}

	var shadow float64
	if w >= ShadowFrom {
		shadow = math.Min(w, MaxShadowOpacity)
	}

	return Style{
		BackgroundAlpha: alpha,
		TextColor:       textColor,
		ShadowOpacity:   shadow,
		Emphasized:      w > EmphasizeAbove,
		HasTooltip:      cw.HasLabel() || w > TooltipAbove,
	}
}

// RenderAll renders every character of a heatmap, preserving order.
func RenderAll(heatmap []model.CharacterWeight) []Style {
	styles := make([]Style, len(heatmap))
	for i, cw := range heatmap {
		styles[i] = Render(cw)
	}
	return styles
}

// Tooltip returns the hover text of a character: its label (if any) and its
// impact as a whole percentage. It is empty when the style has no tooltip.
func Tooltip(cw model.CharacterWeight) string {
	if !Render(cw).HasTooltip {
		return ""
	}
	impact := "Impact: " + strconv.Itoa(int(math.Round(cw.Weight*100))) + "%"
	if cw.HasLabel() {
		return cw.Label + "\n" + impact
	}
	return impact
}
