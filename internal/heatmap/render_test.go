package heatmap

import (
	"math"
	"testing"

	"github.com/djimit/PhishLens/internal/model"
)

func cell(w float64) model.CharacterWeight {
	return model.CharacterWeight{Char: "x", Weight: w}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

// TestRenderBackground tests the background intensity curve.
func TestRenderBackground(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		weight float64
		want   float64
	}{
		{"zero is transparent", 0, 0},
		{"just below threshold is transparent", 0.039, 0},
		{"threshold is not transparent", 0.04, math.Pow(0.04, 0.9) * 0.75},
		{"moderate weight", 0.3, math.Pow(0.3, 0.9) * 0.75},
		{"full weight is capped", 1, 0.75},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Render(cell(tc.weight)).BackgroundAlpha
			if !almostEqual(got, tc.want) {
				t.Errorf("BackgroundAlpha(%v) = %v, want %v", tc.weight, got, tc.want)
			}
		})
	}

	t.Run("threshold cell reports not transparent", func(t *testing.T) {
		t.Parallel()
		if Render(cell(0.04)).Transparent() {
			t.Error("weight 0.04 must not be transparent")
		}
	})
}

// TestRenderBackgroundMonotonic checks that alpha never decreases with weight.
func TestRenderBackgroundMonotonic(t *testing.T) {
	t.Parallel()

	prev := -1.0
	for i := 0; i <= 1000; i++ {
		w := float64(i) / 1000
		alpha := Render(cell(w)).BackgroundAlpha
		if alpha < prev {
			t.Fatalf("alpha decreased at weight %v: %v < %v", w, alpha, prev)
		}
		if alpha > MaxBackgroundAlpha {
			t.Fatalf("alpha %v above cap at weight %v", alpha, w)
		}
		prev = alpha
	}
}

// TestRenderThresholds tests the boundary values of every rule.
func TestRenderThresholds(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		weight     float64
		textColor  TextColor
		shadow     float64
		emphasized bool
		tooltip    bool
	}{
		{"zero", 0, Neutral, 0, false, false},
		{"below shadow", 0.19, Neutral, 0, false, false},
		{"shadow boundary", 0.2, Neutral, 0.2, false, false},
		{"just over tooltip", 0.21, Neutral, 0.21, false, true},
		{"emphasis boundary", 0.4, Neutral, 0.4, false, true},
		{"just over emphasis", 0.41, Neutral, 0.41, true, true},
		{"contrast boundary", 0.45, Neutral, 0.45, true, true},
		{"just over contrast", 0.46, HighContrast, 0.46, true, true},
		{"shadow capped", 0.9, HighContrast, 0.5, true, true},
		{"full weight", 1, HighContrast, 0.5, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := Render(cell(tc.weight))
			if s.TextColor != tc.textColor {
				t.Errorf("TextColor = %v, want %v", s.TextColor, tc.textColor)
			}
			if !almostEqual(s.ShadowOpacity, tc.shadow) {
				t.Errorf("ShadowOpacity = %v, want %v", s.ShadowOpacity, tc.shadow)
			}
			if s.Emphasized != tc.emphasized {
				t.Errorf("Emphasized = %v, want %v", s.Emphasized, tc.emphasized)
			}
			if s.HasTooltip != tc.tooltip {
				t.Errorf("HasTooltip = %v, want %v", s.HasTooltip, tc.tooltip)
			}
		})
	}
}

// TestRenderTextColorProperty checks the contrast rule over the whole range.
func TestRenderTextColorProperty(t *testing.T) {
	t.Parallel()

	for i := 0; i <= 100; i++ {
		w := float64(i) / 100
		got := Render(cell(w)).TextColor
		want := Neutral
		if w > 0.45 {
			want = HighContrast
		}
		if got != want {
			t.Fatalf("weight %v: got %v, want %v", w, got, want)
		}
	}
}

// TestRenderLabel tests that a label always yields a tooltip.
func TestRenderLabel(t *testing.T) {
	t.Parallel()

	cw := model.CharacterWeight{Char: "1", Weight: 0, Label: "Lookalike character"}
	if !Render(cw).HasTooltip {
		t.Error("labelled character must have a tooltip")
	}
}

// TestRenderAll tests sequence rendering.
func TestRenderAll(t *testing.T) {
	t.Parallel()

	t.Run("empty sequence renders nothing", func(t *testing.T) {
		t.Parallel()
		if got := RenderAll(nil); len(got) != 0 {
			t.Errorf("expected no styles, got %d", len(got))
		}
	})

	t.Run("preserves order", func(t *testing.T) {
		t.Parallel()
		styles := RenderAll([]model.CharacterWeight{cell(0), cell(1)})
		if len(styles) != 2 {
			t.Fatalf("expected 2 styles, got %d", len(styles))
		}
		if !styles[0].Transparent() || styles[1].Transparent() {
			t.Errorf("unexpected styles: %+v", styles)
		}
	})
}

// TestTooltip tests tooltip text.
func TestTooltip(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		cw   model.CharacterWeight
		want string
	}{
		{"no tooltip", cell(0.1), ""},
		{"weight only", cell(0.456), "Impact: 46%"},
		{"label and weight", model.CharacterWeight{Char: "1", Weight: 0.8, Label: "Lookalike"}, "Lookalike\nImpact: 80%"},
		{"label with low weight", model.CharacterWeight{Char: "a", Weight: 0.01, Label: "TLD"}, "TLD\nImpact: 1%"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Tooltip(tc.cw); got != tc.want {
				t.Errorf("Tooltip() = %q, want %q", got, tc.want)
			}
		})
	}
}

// TestTextColorString tests the String method of TextColor.
func TestTextColorString(t *testing.T) {
	t.Parallel()

	if Neutral.String() != "NEUTRAL" || HighContrast.String() != "HIGH_CONTRAST" {
		t.Error("unexpected text color names")
	}
	if TextColor(9).String() != "UNKNOWN" {
		t.Error("expected UNKNOWN for invalid color")
	}
}
