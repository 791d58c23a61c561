package model

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

// validResult returns a result aligned with content where every weight is 0.1.
func validResult(content string) ScanResult {
	heatmap := make([]CharacterWeight, 0, len(content))
	for _, r := range content {
		heatmap = append(heatmap, CharacterWeight{Char: string(r), Weight: 0.1})
	}
	return ScanResult{
		IsPhishing:  true,
		Probability: 0.92,
		Reasoning:   "Urgency and a mismatched link.",
		Heatmap:     heatmap,
		Summary: Summary{
			CriticalFindings:    []string{"Urgency trigger"},
			AdversarialDetected: false,
		},
	}
}

// TestScanStateString tests the String method of ScanState.
func TestScanStateString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		state    ScanState
		expected string
	}{
		{StateIdle, "IDLE"},
		{StateScanning, "SCANNING"},
		{StateCompleted, "COMPLETED"},
		{StateError, "ERROR"},
		{ScanState(42), "UNKNOWN"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.state.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.state.String(), tc.expected)
			}
		})
	}
}

// TestValidateInput tests the submission guard.
func TestValidateInput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		want    error
	}{
		{"empty string", "", ErrEmptyInput},
		{"whitespace only", "  \n\t ", ErrEmptyInput},
		{"single character", "a", nil},
		{"exactly at limit", strings.Repeat("a", MaxInputChars), nil},
		{"one over limit", strings.Repeat("a", MaxInputChars+1), ErrInputOverLimit},
		{"over limit whitespace", strings.Repeat(" ", MaxInputChars+1), ErrInputOverLimit},
		{"multibyte at limit", strings.Repeat("é", MaxInputChars), nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateInput(tc.content)
			if !errors.Is(err, tc.want) {
				t.Errorf("ValidateInput() = %v, want %v", err, tc.want)
			}
		})
	}
}

// TestStats tests the character counter and limit indicator.
func TestStats(t *testing.T) {
	t.Parallel()

	t.Run("counts characters not bytes", func(t *testing.T) {
		t.Parallel()
		s := Stats("héllo")
		if s.Length != 5 {
			t.Errorf("expected length 5, got %d", s.Length)
		}
	})

	t.Run("over limit indicator", func(t *testing.T) {
		t.Parallel()
		s := Stats(strings.Repeat("x", 5001))
		if !s.OverLimit {
			t.Error("expected over limit")
		}
		if !s.Invalid() {
			t.Error("expected invalid")
		}
		if s.Percentage != 100 {
			t.Errorf("expected percentage capped at 100, got %v", s.Percentage)
		}
		if s.Counter() != "5,001 / 5,000 characters" {
			t.Errorf("unexpected counter %q", s.Counter())
		}
	})

	t.Run("empty indicator", func(t *testing.T) {
		t.Parallel()
		s := Stats("   ")
		if !s.Empty || !s.Invalid() {
			t.Errorf("expected empty and invalid, got %+v", s)
		}
	})

	t.Run("small counter", func(t *testing.T) {
		t.Parallel()
		if got := Stats("abc").Counter(); got != "3 / 5,000 characters" {
			t.Errorf("unexpected counter %q", got)
		}
	})
}

// TestScanResultValidate tests the result data contract.
func TestScanResultValidate(t *testing.T) {
	t.Parallel()

	const content = "Pay now"

	t.Run("valid result", func(t *testing.T) {
		t.Parallel()
		if err := validResult(content).Validate(content); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty content with empty heatmap", func(t *testing.T) {
		t.Parallel()
		r := validResult("")
		if err := r.Validate(""); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	testCases := []struct {
		name   string
		mutate func(r *ScanResult)
	}{
		{"probability above one", func(r *ScanResult) { r.Probability = 1.2 }},
		{"probability negative", func(r *ScanResult) { r.Probability = -0.1 }},
		{"probability NaN", func(r *ScanResult) { r.Probability = math.NaN() }},
		{"weight above one", func(r *ScanResult) { r.Heatmap[2].Weight = 1.01 }},
		{"weight negative", func(r *ScanResult) { r.Heatmap[0].Weight = -0.5 }},
		{"multi-character entry", func(r *ScanResult) { r.Heatmap[1].Char = "ay" }},
		{"empty character entry", func(r *ScanResult) { r.Heatmap[1].Char = "" }},
		{"heatmap too short", func(r *ScanResult) { r.Heatmap = r.Heatmap[:3] }},
		{"heatmap too long", func(r *ScanResult) {
			r.Heatmap = append(r.Heatmap, CharacterWeight{Char: "!", Weight: 0})
		}},
		{"missing findings", func(r *ScanResult) { r.Summary.CriticalFindings = nil }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := validResult(content)
			tc.mutate(&r)
			if err := r.Validate(content); !errors.Is(err, ErrInvalidResult) {
				t.Errorf("expected ErrInvalidResult, got %v", err)
			}
		})
	}
}

// TestScanResultClone tests that Clone does not share slices.
func TestScanResultClone(t *testing.T) {
	t.Parallel()

	orig := validResult("abc")
	clone := orig.Clone()
	clone.Heatmap[0].Weight = 0.99
	clone.Summary.CriticalFindings[0] = "changed"

	if orig.Heatmap[0].Weight != 0.1 {
		t.Error("heatmap shared between clone and original")
	}
	if orig.Summary.CriticalFindings[0] != "Urgency trigger" {
		t.Error("critical findings shared between clone and original")
	}
}

// TestHistoryItem tests HistoryItem helpers.
func TestHistoryItem(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	item := NewHistoryItem("id-1", at, "Pay now", DefaultScanConfig(), validResult("Pay now"))

	t.Run("timestamp is epoch millis", func(t *testing.T) {
		t.Parallel()
		if item.Timestamp != at.UnixMilli() {
			t.Errorf("expected %d, got %d", at.UnixMilli(), item.Timestamp)
		}
		if !item.Time().Equal(at) {
			t.Errorf("expected %v, got %v", at, item.Time())
		}
	})

	t.Run("verdict badge", func(t *testing.T) {
		t.Parallel()
		if item.Result.Verdict() != "Phish" {
			t.Errorf("expected Phish, got %q", item.Result.Verdict())
		}
		safe := item.Clone()
		safe.Result.IsPhishing = false
		if safe.Result.Verdict() != "Safe" {
			t.Errorf("expected Safe, got %q", safe.Result.Verdict())
		}
	})

	t.Run("preview", func(t *testing.T) {
		t.Parallel()
		if got := item.Preview(3); got != "Pay..." {
			t.Errorf("unexpected preview %q", got)
		}
		if got := item.Preview(50); got != "Pay now" {
			t.Errorf("unexpected preview %q", got)
		}
	})

	t.Run("validate rejects missing id", func(t *testing.T) {
		t.Parallel()
		bad := item.Clone()
		bad.ID = ""
		if err := bad.Validate(); !errors.Is(err, ErrInvalidResult) {
			t.Errorf("expected ErrInvalidResult, got %v", err)
		}
	})
}

// TestHistoryEncoding tests history (de)serialization with validation.
func TestHistoryEncoding(t *testing.T) {
	t.Parallel()

	t.Run("nil list encodes as empty array", func(t *testing.T) {
		t.Parallel()
		data, err := MarshalHistory(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "[]" {
			t.Errorf("expected [], got %s", data)
		}
	})

	t.Run("uses camelCase keys", func(t *testing.T) {
		t.Parallel()
		item := NewHistoryItem("a", time.UnixMilli(1000), "hi", DefaultScanConfig(), validResult("hi"))
		data, err := MarshalHistory([]HistoryItem{item})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, key := range []string{`"isPhishing"`, `"adversarialEnabled"`, `"criticalFindings"`, `"timestamp":1000`} {
			if !strings.Contains(string(data), key) {
				t.Errorf("expected %s in %s", key, data)
			}
		}
	})

	t.Run("rejects corrupt payload", func(t *testing.T) {
		t.Parallel()
		if _, err := UnmarshalHistory([]byte("{not json")); err == nil {
			t.Error("expected error for corrupt payload")
		}
	})

	t.Run("rejects invalid item", func(t *testing.T) {
		t.Parallel()
		item := NewHistoryItem("a", time.UnixMilli(1000), "hi", DefaultScanConfig(), validResult("hi"))
		item.Result.Probability = 3
		data, err := MarshalHistory([]HistoryItem{item})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := UnmarshalHistory(data); !errors.Is(err, ErrInvalidResult) {
			t.Errorf("expected ErrInvalidResult, got %v", err)
		}
	})
}
