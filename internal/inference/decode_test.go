package inference

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/djimit/PhishLens/internal/model"
)

// resultJSON builds a well-formed result for content with the given weight
// on every character.
func resultJSON(t *testing.T, content string, weight float64) []byte {
	t.Helper()

	heatmap := make([]map[string]any, 0, len(content))
	for _, r := range content {
		heatmap = append(heatmap, map[string]any{"char": string(r), "weight": weight})
	}
	raw, err := json.Marshal(map[string]any{
		"isPhishing":  true,
		"probability": 0.93,
		"reasoning":   "Urgent request with a lookalike domain.",
		"heatmap":     heatmap,
		"summary": map[string]any{
			"criticalFindings":    []string{"Urgency trigger"},
			"adversarialDetected": false,
		},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

// TestDecode tests the strict decoding boundary.
func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid result", func(t *testing.T) {
		t.Parallel()

		got, err := Decode(resultJSON(t, "héllo", 0.5), "héllo")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.IsPhishing || got.Probability != 0.93 {
			t.Errorf("unexpected result %+v", got)
		}
		if len(got.Heatmap) != 5 {
			t.Errorf("expected 5 heatmap entries, got %d", len(got.Heatmap))
		}
		if got.Summary.CriticalFindings[0] != "Urgency trigger" {
			t.Errorf("unexpected findings %v", got.Summary.CriticalFindings)
		}
	})

	t.Run("labels and unknown fields", func(t *testing.T) {
		t.Parallel()

		raw := `{"isPhishing":false,"probability":0,"reasoning":"","extra":1,
			"heatmap":[{"char":"a","weight":0.3,"label":"Lookalike character"}],
			"summary":{"criticalFindings":[],"adversarialDetected":true}}`
		got, err := Decode([]byte(raw), "a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Heatmap[0].Label != "Lookalike character" {
			t.Errorf("expected label, got %q", got.Heatmap[0].Label)
		}
		if !got.Summary.AdversarialDetected {
			t.Error("expected adversarialDetected")
		}
		if got.Summary.CriticalFindings == nil {
			t.Error("expected non-nil findings")
		}
	})

	tests := []struct {
		name    string
		raw     string
		content string
		kind    Kind
	}{
		{
			name:    "not json",
			raw:     `I think this is phishing`,
			content: "a",
			kind:    KindMalformed,
		},
		{
			name:    "truncated json",
			raw:     `{"isPhishing": true, "probability":`,
			content: "a",
			kind:    KindMalformed,
		},
		{
			name:    "wrong type",
			raw:     `{"isPhishing":"yes","probability":0.5,"reasoning":"","heatmap":[],"summary":{"criticalFindings":[],"adversarialDetected":false}}`,
			content: "",
			kind:    KindSchema,
		},
		{
			name:    "missing probability",
			raw:     `{"isPhishing":true,"reasoning":"","heatmap":[{"char":"a","weight":0.1}],"summary":{"criticalFindings":[],"adversarialDetected":false}}`,
			content: "a",
			kind:    KindSchema,
		},
		{
			name:    "missing summary field",
			raw:     `{"isPhishing":true,"probability":0.5,"reasoning":"","heatmap":[{"char":"a","weight":0.1}],"summary":{"criticalFindings":[]}}`,
			content: "a",
			kind:    KindSchema,
		},
		{
			name:    "null heatmap",
			raw:     `{"isPhishing":true,"probability":0.5,"reasoning":"","heatmap":null,"summary":{"criticalFindings":[],"adversarialDetected":false}}`,
			content: "a",
			kind:    KindSchema,
		},
		{
			name:    "heatmap entry without weight",
			raw:     `{"isPhishing":true,"probability":0.5,"reasoning":"","heatmap":[{"char":"a"}],"summary":{"criticalFindings":[],"adversarialDetected":false}}`,
			content: "a",
			kind:    KindSchema,
		},
		{
			name:    "probability above one",
			raw:     `{"isPhishing":true,"probability":93,"reasoning":"","heatmap":[{"char":"a","weight":0.1}],"summary":{"criticalFindings":[],"adversarialDetected":false}}`,
			content: "a",
			kind:    KindSchema,
		},
		{
			name:    "negative weight",
			raw:     `{"isPhishing":true,"probability":0.5,"reasoning":"","heatmap":[{"char":"a","weight":-0.1}],"summary":{"criticalFindings":[],"adversarialDetected":false}}`,
			content: "a",
			kind:    KindSchema,
		},
		{
			name:    "heatmap shorter than input",
			raw:     `{"isPhishing":true,"probability":0.5,"reasoning":"","heatmap":[{"char":"a","weight":0.1}],"summary":{"criticalFindings":[],"adversarialDetected":false}}`,
			content: "ab",
			kind:    KindSchema,
		},
		{
			name:    "multi-character entry",
			raw:     `{"isPhishing":true,"probability":0.5,"reasoning":"","heatmap":[{"char":"ab","weight":0.1}],"summary":{"criticalFindings":[],"adversarialDetected":false}}`,
			content: "a",
			kind:    KindSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode([]byte(tt.raw), tt.content)
			var ierr *Error
			if !errors.As(err, &ierr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if ierr.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s (%v)", tt.kind, ierr.Kind, err)
			}
		})
	}

	t.Run("range violations wrap ErrInvalidResult", func(t *testing.T) {
		t.Parallel()

		_, err := Decode(resultJSON(t, "ab", 1.5), "ab")
		if !errors.Is(err, model.ErrInvalidResult) {
			t.Errorf("expected ErrInvalidResult, got %v", err)
		}
	})
}

// TestDecodeResponse tests unwrapping the generateContent envelope.
func TestDecodeResponse(t *testing.T) {
	t.Parallel()

	t.Run("joins candidate parts", func(t *testing.T) {
		t.Parallel()

		text := string(resultJSON(t, "hi", 0.2))
		half := len(text) / 2
		envelope, _ := json.Marshal(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{
					map[string]any{"text": text[:half]},
					map[string]any{"text": text[half:]},
				}},
				"finishReason": "STOP",
			}},
		})

		got, err := DecodeResponse(envelope, "hi")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.Heatmap) != 2 {
			t.Errorf("expected 2 entries, got %d", len(got.Heatmap))
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>"},
		{name: "no candidates", body: `{"candidates":[]}`},
		{name: "blocked prompt", body: `{"promptFeedback":{"blockReason":"SAFETY"}}`},
		{name: "empty text", body: `{"candidates":[{"content":{"parts":[{"text":"  "}]},"finishReason":"MAX_TOKENS"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeResponse([]byte(tt.body), "hi")
			var ierr *Error
			if !errors.As(err, &ierr) || ierr.Kind != KindMalformed {
				t.Errorf("expected malformed error, got %v", err)
			}
		})
	}

	t.Run("blocked prompt names the reason", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeResponse([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`), "hi")
		if err == nil || !strings.Contains(err.Error(), "SAFETY") || !errors.Is(err, ErrNoCandidate) {
			t.Errorf("unexpected error %v", err)
		}
	})
}
