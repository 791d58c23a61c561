package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/djimit/PhishLens/internal/model"
)

// Wire types use pointers so that an absent field can be told apart from a
// zero value.
type (
	wireResult struct {
		IsPhishing  *bool         `json:"isPhishing"`
		Probability *float64      `json:"probability"`
		Reasoning   *string       `json:"reasoning"`
		Heatmap     *[]wireWeight `json:"heatmap"`
		Summary     *wireSummary  `json:"summary"`
	}

	wireWeight struct {
		Char   *string  `json:"char"`
		Weight *float64 `json:"weight"`
		Label  *string  `json:"label"`
	}

	wireSummary struct {
		CriticalFindings    *[]string `json:"criticalFindings"`
		AdversarialDetected *bool     `json:"adversarialDetected"`
	}
)

// generateResponse is the part of the generateContent reply we read.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// DecodeResponse extracts the generated JSON text from a generateContent
// reply and decodes it with Decode.
func DecodeResponse(body []byte, content string) (model.ScanResult, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.ScanResult{}, newError(KindMalformed, fmt.Errorf("decode response envelope: %w", err))
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return model.ScanResult{}, newError(KindMalformed,
			fmt.Errorf("%w: prompt blocked (%s)", ErrNoCandidate, resp.PromptFeedback.BlockReason))
	}
	if len(resp.Candidates) == 0 {
		return model.ScanResult{}, newError(KindMalformed, ErrNoCandidate)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if strings.TrimSpace(text.String()) == "" {
		return model.ScanResult{}, newError(KindMalformed,
			fmt.Errorf("%w (finish reason %q)", ErrNoCandidate, resp.Candidates[0].FinishReason))
	}

	return Decode([]byte(text.String()), content)
}

// Decode turns the raw JSON produced by the model into a validated
// ScanResult for content. Unknown fields are ignored.
func Decode(raw []byte, content string) (model.ScanResult, error) {
	var w wireResult
	if err := json.Unmarshal(raw, &w); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return model.ScanResult{}, newError(KindSchema,
				fmt.Errorf("field %q has wrong type %s", typeErr.Field, typeErr.Value))
		}
		return model.ScanResult{}, newError(KindMalformed, err)
	}

	if err := w.checkRequired(); err != nil {
		return model.ScanResult{}, newError(KindSchema, err)
	}

	result := w.toModel()
	if err := result.Validate(content); err != nil {
		return model.ScanResult{}, newError(KindSchema, err)
	}
	return result, nil
}

func (w *wireResult) checkRequired() error {
	switch {
	case w.IsPhishing == nil:
		return missing("isPhishing")
	case w.Probability == nil:
		return missing("probability")
	case w.Reasoning == nil:
		return missing("reasoning")
	case w.Heatmap == nil:
		return missing("heatmap")
	case w.Summary == nil:
		return missing("summary")
	case w.Summary.CriticalFindings == nil:
		return missing("summary.criticalFindings")
	case w.Summary.AdversarialDetected == nil:
		return missing("summary.adversarialDetected")
	}

	for i, cw := range *w.Heatmap {
		if cw.Char == nil {
			return missing(fmt.Sprintf("heatmap[%d].char", i))
		}
		if cw.Weight == nil {
			return missing(fmt.Sprintf("heatmap[%d].weight", i))
		}
	}
	return nil
}

// toModel assumes checkRequired passed.
func (w *wireResult) toModel() model.ScanResult {
	heatmap := make([]model.CharacterWeight, len(*w.Heatmap))
	for i, cw := range *w.Heatmap {
		heatmap[i] = model.CharacterWeight{Char: *cw.Char, Weight: *cw.Weight}
		if cw.Label != nil {
			heatmap[i].Label = *cw.Label
		}
	}

	findings := make([]string, len(*w.Summary.CriticalFindings))
	copy(findings, *w.Summary.CriticalFindings)

	return model.ScanResult{
		IsPhishing:  *w.IsPhishing,
		Probability: *w.Probability,
		Reasoning:   *w.Reasoning,
		Heatmap:     heatmap,
		Summary: model.Summary{
			CriticalFindings:    findings,
			AdversarialDetected: *w.Summary.AdversarialDetected,
		},
	}
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}
